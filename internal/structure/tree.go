package structure

import (
	"slices"

	"github.com/sandrolain/iris-docs/internal/docs"
)

// tree walks the ancestor chain of every category and creates one node per
// path prefix. Prefixes without a declared category are implied nodes.
func (b *Builder) tree(categories []*docs.CategoryNode) []*docs.TreeNode {
	roots := []*docs.TreeNode{}

	for _, category := range categories {
		siblings := &roots
		for depth, label := range category.Ancestors {
			node := findChild(*siblings, label)
			if node == nil {
				node = b.treeNode(category.Ancestors[:depth+1])
				*siblings = append(*siblings, node)
			}
			siblings = &node.Children
		}
	}

	return roots
}

func (b *Builder) treeNode(prefix []string) *docs.TreeNode {
	path := JoinPath(prefix)
	key := Slug(path)

	node := &docs.TreeNode{
		Slug:      key,
		Path:      path,
		Ancestors: slices.Clone(prefix),
		Title:     prefix[len(prefix)-1],
		Children:  []*docs.TreeNode{},
		Empty:     true,
	}

	if declared, ok := b.categories[key]; ok {
		node.Icon = declared.Metadata.Icon()
		node.URL = declared.URL
		node.Defined = true
		node.Empty = declared.Empty
	}

	return node
}

// findChild returns the first sibling labeled label.
func findChild(siblings []*docs.TreeNode, label string) *docs.TreeNode {
	for _, n := range siblings {
		if n.Title == label {
			return n
		}
	}
	return nil
}

// Walk visits every tree node depth first, parents before children.
func Walk(nodes []*docs.TreeNode, visit func(node *docs.TreeNode, depth int)) {
	var walk func([]*docs.TreeNode, int)
	walk = func(nodes []*docs.TreeNode, depth int) {
		for _, n := range nodes {
			visit(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(nodes, 0)
}
