package content

import (
	"cmp"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/lysyi3m/wxr-comb/app/wxr"
)

// Namespace scopes identifier uniqueness
type Namespace string

const (
	NamespacePosts Namespace = "posts"
	NamespacePages Namespace = "pages"
)

const untitled = "untitled"

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// ParsedDate is the result of parsing an item date; OK is false when the
// value did not match the layout
type ParsedDate struct {
	Time time.Time
	OK   bool
}

func ParseDate(layout, value string) ParsedDate {
	t, err := time.Parse(layout, value)
	if err != nil {
		return ParsedDate{}
	}
	return ParsedDate{Time: t, OK: true}
}

type uidTable struct {
	byID  map[string]string
	taken map[string]bool
}

// Identities assigns filesystem-safe unique identifiers to items. One
// instance covers one export.
type Identities struct {
	dateLayout string
	now        func() time.Time
	namespaces map[Namespace]*uidTable
}

func NewIdentities(dateLayout string) *Identities {
	return &Identities{
		dateLayout: dateLayout,
		now:        time.Now,
		namespaces: make(map[Namespace]*uidTable),
	}
}

func (r *Identities) table(ns Namespace) *uidTable {
	table, ok := r.namespaces[ns]
	if !ok {
		table = &uidTable{
			byID:  make(map[string]string),
			taken: make(map[string]bool),
		}
		r.namespaces[ns] = table
	}
	return table
}

// UID returns the identifier of item within ns, allocating it on first use
func (r *Identities) UID(item *wxr.Item, ns Namespace, datePrefix bool) string {
	table := r.table(ns)

	if item.ID != "" {
		if uid, ok := table.byID[item.ID]; ok {
			return uid
		}
	}

	base := SanitizeName(cmp.Or(item.Slug, item.Title, untitled))
	if datePrefix {
		base = r.datePrefix(item) + "-" + base
	}

	uid := base
	for n := 2; table.taken[uid]; n++ {
		uid = fmt.Sprintf("%s_%d", base, n)
	}

	table.taken[uid] = true
	if item.ID != "" {
		table.byID[item.ID] = uid
	}
	return uid
}

func (r *Identities) datePrefix(item *wxr.Item) string {
	parsed := ParseDate(r.dateLayout, item.Date)
	if !parsed.OK {
		slog.Warn("Wrong date in item, using today", "title", item.Title, "date", item.Date)
		parsed.Time = r.now()
	}
	return parsed.Time.Format("2006-01-02")
}

// SanitizeName replaces spaces with underscores, folds accented letters and
// strips everything outside [A-Za-z0-9_-]
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, " ", "_")

	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, name); err == nil {
		name = folded
	}

	name = unsafeNameChars.ReplaceAllString(name, "")
	if name == "" {
		return untitled
	}
	return name
}

