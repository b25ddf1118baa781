package render

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/sandrolain/iris-docs/internal/docs"
	"github.com/sandrolain/iris-docs/internal/structure"
)

// pageTemplate is the layout shared by every page.
const pageTemplate = `<!DOCTYPE html>
<html>
	<head>
		<title>{{.Title}}</title>
		<meta charset="utf-8" />
		<meta name="viewport" content="width=device-width, initial-scale=1" />
		<link rel="stylesheet" href="./style.css" type="text/css" media="all" />
		<script type="text/javascript" src="./main.js"></script>
	</head>
	<body>
		<div class="ird-page">
			<div class="ird-page__head">
				<h1 class="ird-page__title">{{.Title}}</h1>
			</div>
			<div class="ird-page__main">
				{{- if .Menu}}
				<div class="ird-page__menu">
					<div class="ird-page__search"><input type="search" placeholder="Search" id="menu-search" /></div>
					{{.Menu}}
				</div>
				{{- end}}
				<div class="ird-page__body">{{.Body}}</div>
			</div>
			<div class="ird-page__foot">
				<p class="ird-page__disclaimer">Generated with iris-docs {{.Version}}</p>
			</div>
		</div>
	</body>
</html>
`

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

type pageData struct {
	Title   string
	Menu    template.HTML
	Body    template.HTML
	Version string
}

// FormatCategoryPage returns the page of a category. Empty categories and the
// "index" category, which is merged into the index page, produce no page.
func (h *HTML) FormatCategoryPage(category *docs.CategoryNode, model *docs.Model) (string, bool) {
	if h.opts.Override.CategoryPage != nil {
		return h.opts.Override.CategoryPage(category, model)
	}

	if category.Slug == structure.DocumentSlug {
		return "", false
	}

	body, ok := h.categoryBody(category, model)
	if !ok {
		return "", false
	}
	return h.page(body, category.URL, model), true
}

// FormatIndexPage returns the document page, followed by the body of the
// "index" category when one exists.
func (h *HTML) FormatIndexPage(model *docs.Model) string {
	if h.opts.Override.IndexPage != nil {
		return h.opts.Override.IndexPage(model)
	}

	var indexBody string
	if c, ok := model.Category(structure.DocumentSlug); ok {
		indexBody, _ = h.categoryBody(c, model)
	}

	body := `<div class="ird-index"><div class="ird-index__body">` +
		FormatSegments(h, model.Document.Segments) + `</div>` + indexBody + `</div>`

	return h.page(body, model.Document.URL, model)
}

func (h *HTML) categoryBody(category *docs.CategoryNode, model *docs.Model) (string, bool) {
	if category.Empty {
		return "", false
	}

	var sb strings.Builder
	sb.WriteString(`<div class="ird-category">`)
	fmt.Fprintf(&sb, `<h2>%s</h2>`, html.EscapeString(category.Title()))
	sb.WriteString(Breadcrumbs(category, model))
	sb.WriteString(h.categoryMenu(category, model))

	if text := FormatSegments(h, category.Segments); text != "" {
		sb.WriteString(`<div class="ird-category__body">` + text + `</div>`)
	}

	var items strings.Builder
	for _, item := range category.Items {
		items.WriteString(h.FormatItem(item))
	}
	if items.Len() > 0 {
		sb.WriteString(`<div class="ird-category__items">` + items.String() + `</div>`)
	}

	sb.WriteString(`</div>`)
	return sb.String(), true
}

// Breadcrumbs links every declared ancestor of a nested category. Top-level
// categories have no breadcrumbs.
func Breadcrumbs(category *docs.CategoryNode, model *docs.Model) string {
	if len(category.Ancestors) < 2 {
		return ""
	}

	parts := make([]string, 0, len(category.Ancestors))
	for i, label := range category.Ancestors {
		title := html.EscapeString(label)
		slug := structure.Slug(structure.JoinPath(category.Ancestors[:i+1]))

		ancestor, ok := model.Category(slug)
		if !ok || ancestor.URL == "" {
			parts = append(parts, `<em>`+title+`</em>`)
			continue
		}

		class := ""
		if ancestor.URL == category.URL {
			class = "active "
		}
		parts = append(parts, fmt.Sprintf(`<a href="%s" class="%s">%s</a>`, html.EscapeString(ancestor.URL), class, title))
	}

	return `<p class="ird-category__path crumbs">Path: ` + strings.Join(parts, " / ") + `</p>`
}

// categoryMenu lists the subtree below the category.
func (h *HTML) categoryMenu(category *docs.CategoryNode, model *docs.Model) string {
	for _, node := range menuRoots(model) {
		found := findNode(node, category.URL)
		if found == nil {
			continue
		}
		if branch := menuBranch(found.Children, category.URL, -1); branch != "" {
			return `<div class="menu inverse">` + branch + `</div>`
		}
		return ""
	}
	return ""
}

func findNode(node *docs.TreeNode, url string) *docs.TreeNode {
	if node.URL != "" && node.URL == url {
		return node
	}
	for _, child := range node.Children {
		if found := findNode(child, url); found != nil {
			return found
		}
	}
	return nil
}

// SideMenu is the navigation tree shown on every page, with the page at
// activeURL highlighted.
func SideMenu(model *docs.Model, activeURL string) string {
	branch := menuBranch(menuRoots(model), activeURL, 1)
	if branch == "" {
		return ""
	}

	class := "menu-item"
	if model.Document.URL == activeURL {
		class += " active"
	}
	return fmt.Sprintf(`<div class="menu-tree vertical"><div class="%s"><a href="%s">%s</a></div>%s</div>`,
		class, html.EscapeString(model.Document.URL), html.EscapeString(model.Document.Metadata.Title), branch)
}

// menuRoots drops the "index" category, which lives on the index page.
func menuRoots(model *docs.Model) []*docs.TreeNode {
	roots := make([]*docs.TreeNode, 0, len(model.Tree))
	for _, node := range model.Tree {
		if node.Slug != structure.DocumentSlug {
			roots = append(roots, node)
		}
	}
	return roots
}

// menuBranch renders nodes recursively. A negative depth nests children
// inside their parent item instead of indenting them by depth.
func menuBranch(nodes []*docs.TreeNode, activeURL string, depth int) string {
	var sb strings.Builder
	for _, node := range nodes {
		title := html.EscapeString(node.Title)
		if node.Icon != "" {
			title = node.Icon + " " + title
		}
		if node.URL != "" && !node.Empty {
			title = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(node.URL), title)
		}

		class := "menu-item"
		if node.URL != "" && node.URL == activeURL {
			class += " active"
		}

		if depth < 0 {
			sub := menuBranch(node.Children, activeURL, depth)
			if sub != "" {
				sub = `<div class="menu">` + sub + `</div>`
			}
			fmt.Fprintf(&sb, `<div class="%s">%s%s</div>`, class, title, sub)
			continue
		}

		fmt.Fprintf(&sb, `<div class="%s">%s</div>`, class, title)
		if sub := menuBranch(node.Children, activeURL, depth+1); sub != "" {
			fmt.Fprintf(&sb, `<div class="menu-tree" style="--ir-menu-depth: %d;">%s</div>`, depth, sub)
		}
	}
	return sb.String()
}

func (h *HTML) page(body, activeURL string, model *docs.Model) string {
	data := pageData{
		Title:   model.Document.Metadata.Title,
		Menu:    template.HTML(SideMenu(model, activeURL)),
		Body:    template.HTML(body),
		Version: h.opts.Version,
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		// Execution only fails on template bugs.
		panic(fmt.Sprintf("render page: %v", err))
	}
	return buf.String()
}
