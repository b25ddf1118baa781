// Package structure folds resolved comments into the document model.
package structure

import (
	"slices"
	"sort"

	"github.com/sandrolain/iris-docs/internal/docs"
)

const (
	// DefaultExt is the page extension used when none is configured.
	DefaultExt = "html"

	// DocumentSlug names the document page.
	DocumentSlug = "index"

	TypeDocument = "document"
	TypeCategory = "category"
)

// DefaultCategory receives comments that declare no @category.
var DefaultCategory = []string{"index"}

// Options configures a Builder.
type Options struct {
	// DefaultCategory is used by category and item comments without @category.
	DefaultCategory []string
	// Ext is the page extension used for URLs.
	Ext string
}

// Builder aggregates comments into a Model. It is not safe for concurrent use:
// comments must be added in file order, then in-file index order.
type Builder struct {
	opts       Options
	document   docs.Document
	categories map[string]*docs.CategoryNode
	order      []*docs.CategoryNode // first-reference order
}

// NewBuilder creates an empty builder.
func NewBuilder(opts Options) *Builder {
	if len(opts.DefaultCategory) == 0 {
		opts.DefaultCategory = DefaultCategory
	}
	if opts.Ext == "" {
		opts.Ext = DefaultExt
	}

	return &Builder{
		opts: opts,
		document: docs.Document{
			Segments: []docs.Segment{},
			URL:      URL(DocumentSlug, opts.Ext),
		},
		categories: make(map[string]*docs.CategoryNode),
	}
}

// Build folds comments in order and returns the model.
func Build(comments []*docs.Comment, opts Options) *docs.Model {
	b := NewBuilder(opts)
	for _, c := range comments {
		b.Add(c)
	}
	return b.Build()
}

// Add classifies one comment by its @type and merges it into the model.
func (b *Builder) Add(c *docs.Comment) {
	switch c.Type() {
	case TypeDocument:
		b.addDocument(c)
	case TypeCategory:
		b.addCategory(c)
	default:
		b.addItem(c)
	}
}

func (b *Builder) addDocument(c *docs.Comment) {
	b.document.Metadata.Merge(c.Metadata)
	b.document.Segments = append(b.document.Segments, c.Segments...)
	b.document.Index = c.Index
}

func (b *Builder) addCategory(c *docs.Comment) {
	parts := b.categoryPath(c)
	node := b.category(parts)

	node.Ancestors = slices.Clone(parts)
	node.Metadata.Merge(c.Metadata)
	node.Segments = append(node.Segments, c.Segments...)
	node.Sequence = min(node.Sequence, c.Metadata.Sequence)
	node.Index = c.Index
	node.UpdateEmpty()
}

func (b *Builder) addItem(c *docs.Comment) {
	node := b.category(b.categoryPath(c))

	node.Items = append(node.Items, docs.Item{
		Metadata: c.Metadata.Clone(),
		Segments: slices.Clone(c.Segments),
		Sequence: c.Metadata.Sequence,
		Index:    c.Index,
	})
	node.UpdateEmpty()
}

func (b *Builder) categoryPath(c *docs.Comment) []string {
	if len(c.Metadata.Category) > 0 {
		return c.Metadata.Category
	}
	return b.opts.DefaultCategory
}

// category finds or creates the node for parts. The ancestor chain is
// recorded by category comments only, so a category that only holds items
// stays out of the tree.
func (b *Builder) category(parts []string) *docs.CategoryNode {
	path := JoinPath(parts)
	key := Slug(path)

	if node, ok := b.categories[key]; ok {
		return node
	}

	node := &docs.CategoryNode{
		Slug:      key,
		Path:      path,
		URL:       URL(key, b.opts.Ext),
		Sequence:  docs.DefaultSequence,
		Metadata:  docs.NewMetadata(0),
		Segments:  []docs.Segment{},
		Items:     []docs.Item{},
		Ancestors: []string{},
		Empty:     true,
	}
	b.categories[key] = node
	b.order = append(b.order, node)
	return node
}

// Build sorts items and categories and derives the tree.
func (b *Builder) Build() *docs.Model {
	for _, node := range b.order {
		SortItems(node.Items)
	}

	categories := slices.Clone(b.order)
	SortCategories(categories)

	return &docs.Model{
		Document:   b.document,
		Categories: categories,
		Tree:       b.tree(categories),
	}
}

// SortItems orders items by ascending sequence, then by index. Items equal on
// both keep their processing order.
func SortItems(items []docs.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Sequence != items[j].Sequence {
			return items[i].Sequence < items[j].Sequence
		}
		return items[i].Index < items[j].Index
	})
}

// SortCategories orders categories by ascending sequence, keeping
// first-reference order among equals.
func SortCategories(categories []*docs.CategoryNode) {
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Sequence < categories[j].Sequence
	})
}
