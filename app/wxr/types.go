package wxr

// Header contains blog metadata from the export channel
type Header struct {
	Title       string
	Link        string
	Description string
}

type ItemType string

const (
	TypePost       ItemType = "post"
	TypePage       ItemType = "page"
	TypeAttachment ItemType = "attachment"
)

const (
	StatusPublish = "publish"

	// RootParentID marks an item without a parent
	RootParentID = "0"
)

// Item is a single post, page, attachment or other entry of an export
type Item struct {
	Title         string
	Link          string
	Author        string
	Date          string
	Description   string
	Slug          string
	Status        string
	Type          ItemType
	ID            string
	ParentID      string
	AllowComments bool
	Taxonomies    Taxonomies
	Body          string
	Excerpt       string
	ImageSources  []string
}

func (i *Item) HasParent() bool {
	return i.ParentID != "" && i.ParentID != RootParentID
}

// Field returns the string form of a named item field. Names follow the
// keys used by item_field_filter in the conversion config.
func (i *Item) Field(name string) (string, bool) {
	switch name {
	case "title":
		return i.Title, true
	case "link":
		return i.Link, true
	case "author":
		return i.Author, true
	case "date":
		return i.Date, true
	case "description":
		return i.Description, true
	case "slug":
		return i.Slug, true
	case "status":
		return i.Status, true
	case "type":
		return string(i.Type), true
	case "wp_id":
		return i.ID, true
	case "parent":
		return i.ParentID, true
	case "comments":
		if i.AllowComments {
			return "true", true
		}
		return "false", true
	case "excerpt":
		return i.Excerpt, true
	default:
		return "", false
	}
}

// FieldNames lists the names accepted by Item.Field
var FieldNames = []string{
	"title", "link", "author", "date", "description", "slug",
	"status", "type", "wp_id", "parent", "comments", "excerpt",
}

// Taxonomies maps a taxonomy domain to its ordered, unique values
type Taxonomies struct {
	domains []string
	values  map[string][]string
}

func (t *Taxonomies) Add(domain, value string) {
	if t.values == nil {
		t.values = make(map[string][]string)
	}
	existing, ok := t.values[domain]
	if !ok {
		t.domains = append(t.domains, domain)
	}
	for _, v := range existing {
		if v == value {
			return
		}
	}
	t.values[domain] = append(existing, value)
}

// Domains returns domains in the order they first appeared
func (t *Taxonomies) Domains() []string {
	return t.domains
}

func (t *Taxonomies) Values(domain string) []string {
	return t.values[domain]
}

func (t *Taxonomies) Len() int {
	return len(t.domains)
}

// Export is the parsed content of one WXR file
type Export struct {
	Header Header
	Items  []Item
}
