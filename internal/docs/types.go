package docs

// DefaultSequence is the sequence of anything that does not declare one.
// It sorts after every explicitly sequenced sibling.
const DefaultSequence = 999999999.0

// PathSeparator joins category path components for display and slugging.
const PathSeparator = " / "

// SourceFile is a file read once per run.
type SourceFile struct {
	Path    string
	Content string
}

// SegmentType distinguishes prose from fenced code.
type SegmentType string

const (
	SegmentText SegmentType = "text"
	SegmentCode SegmentType = "code"
)

// Segment is one ordered unit of a comment body.
type Segment struct {
	Type    SegmentType `json:"type"`
	Lang    string      `json:"lang,omitempty"`
	Example bool        `json:"example,omitempty"`
	Source  string      `json:"source"`
}

// IsCode reports whether the segment came from a fenced block.
func (s Segment) IsCode() bool {
	return s.Type == SegmentCode
}

// TextSegment returns a prose segment.
func TextSegment(source string) Segment {
	return Segment{Type: SegmentText, Source: source}
}

// Comment is a fully resolved doc-comment block.
type Comment struct {
	Path     string    `json:"path"`
	Index    int       `json:"index"`
	Raw      string    `json:"raw"` // body after include expansion
	Metadata Metadata  `json:"metadata"`
	Segments []Segment `json:"segments"`
}

// Type returns the comment's lower-cased @type, or "" for plain items.
func (c *Comment) Type() string {
	return c.Metadata.Type
}

// Item is the record an item comment contributes to its category.
type Item struct {
	Metadata Metadata  `json:"metadata"`
	Segments []Segment `json:"segments"`
	Sequence float64   `json:"sequence"`
	Index    int       `json:"index"`
}

// CategoryNode aggregates every comment that resolved to one category path.
type CategoryNode struct {
	Slug      string    `json:"slug"`
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	Sequence  float64   `json:"sequence"`
	Index     int       `json:"index"`
	Metadata  Metadata  `json:"metadata"`
	Segments  []Segment `json:"segments"`
	Items     []Item    `json:"items"`
	Ancestors []string  `json:"ancestors"`
	Empty     bool      `json:"empty"`
}

// UpdateEmpty recomputes Empty from the current segments and items.
func (c *CategoryNode) UpdateEmpty() {
	c.Empty = len(c.Segments) < 1 && len(c.Items) < 1
}

// Title returns the merged @title of the category.
func (c *CategoryNode) Title() string {
	return c.Metadata.Title
}

// TreeNode is one path prefix in the category tree.
type TreeNode struct {
	Slug      string      `json:"slug"`
	Path      string      `json:"path"`
	Ancestors []string    `json:"ancestors"`
	Title     string      `json:"title"`
	Icon      string      `json:"icon,omitempty"`
	URL       string      `json:"url,omitempty"`
	Defined   bool        `json:"defined"`
	Empty     bool        `json:"empty"`
	Children  []*TreeNode `json:"children"`
}

// Document holds the free-standing document section.
type Document struct {
	Metadata Metadata  `json:"metadata"`
	Segments []Segment `json:"segments"`
	Index    int       `json:"index"`
	URL      string    `json:"url"`
}

// Model is the complete, read-only result of a run.
type Model struct {
	Document   Document        `json:"document"`
	Categories []*CategoryNode `json:"categories"`
	Tree       []*TreeNode     `json:"tree"`
}

// Category returns the category with the given slug.
func (m *Model) Category(slug string) (*CategoryNode, bool) {
	for _, c := range m.Categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return nil, false
}

// CategoryByPath returns the category whose joined path equals path.
func (m *Model) CategoryByPath(path string) (*CategoryNode, bool) {
	for _, c := range m.Categories {
		if c.Path == path {
			return c, true
		}
	}
	return nil, false
}
