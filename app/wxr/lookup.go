package wxr

import (
	"strings"

	ext "github.com/mmcdole/gofeed/extensions"
)

// Namespace prefixes WordPress declares in its exports. gofeed keys the
// extension table by the prefix declared in the document.
const (
	nsWordPress = "wp"
	nsExcerpt   = "excerpt"
	nsContent   = "content"
	nsDublin    = "dc"
)

type fieldPath struct {
	prefix string
	name   string
}

var (
	pathBody        = fieldPath{nsContent, "encoded"}
	pathExcerpt     = fieldPath{nsExcerpt, "encoded"}
	pathCreator     = fieldPath{nsDublin, "creator"}
	pathDateGMT     = fieldPath{nsWordPress, "post_date_gmt"}
	pathDateLocal   = fieldPath{nsWordPress, "post_date"}
	pathSlug        = fieldPath{nsWordPress, "post_name"}
	pathStatus      = fieldPath{nsWordPress, "status"}
	pathType        = fieldPath{nsWordPress, "post_type"}
	pathID          = fieldPath{nsWordPress, "post_id"}
	pathParent      = fieldPath{nsWordPress, "post_parent"}
	pathCommentMode = fieldPath{nsWordPress, "comment_status"}
)

// lookup returns the trimmed text of the first extension element at path.
// The boolean is false when the element is absent.
func lookup(exts ext.Extensions, path fieldPath) (string, bool) {
	elements, ok := exts[path.prefix]
	if !ok {
		return "", false
	}
	values, ok := elements[path.name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(values[0].Value), true
}

// lookupOr returns the value at path or fallback when absent
func lookupOr(exts ext.Extensions, path fieldPath, fallback string) string {
	if value, ok := lookup(exts, path); ok {
		return value
	}
	return fallback
}
