package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sandrolain/iris-docs/internal/docs"
	"github.com/sandrolain/iris-docs/internal/search"
	"github.com/sandrolain/iris-docs/internal/segment"
)

const (
	defaultSearchLimit = 15
	maxSearchLimit     = 100
)

// Searcher runs full-text queries over the served model.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]*search.Result, error)
}

// ModelSource returns the model currently served.
type ModelSource interface {
	Model() *docs.Model
}

// SearchRequest is the iris_docs_search argument schema.
type SearchRequest struct {
	Query string `json:"query" jsonschema:"required,description=Bleve query string"`
	Limit int    `json:"limit,omitempty" jsonschema:"minimum=1,maximum=100,default=15"`
}

// SearchResponse is the iris_docs_search result.
type SearchResponse struct {
	Query         string           `json:"query"`
	Results       []*search.Result `json:"results"`
	TotalReturned int              `json:"total_returned"`
	TookMs        int              `json:"took_ms"`
}

// AddSearchTool registers the iris_docs_search tool.
func AddSearchTool(s *server.MCPServer, searcher Searcher) {
	tool := mcp.NewTool(
		"iris_docs_search",
		mcp.WithDescription(`Full-text search over the generated documentation pages.

Supports bleve query syntax:
- Field scoping: title:install, category:Guide, text:cache
- Boolean operators: +required, -excluded
- Phrase search: "error handling"
- Wildcards and fuzzy: Insta*, instal~1

Each result carries the page URL, title and category path.`),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Bleve query string")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (1-100, default: 15)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createSearchHandler(searcher))
}

func createSearchHandler(searcher Searcher) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startTime := time.Now()

		var args SearchRequest
		if err := BindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Query == "" {
			return mcp.NewToolResultError("query parameter is required"), nil
		}

		results, err := searcher.Search(ctx, args.Query, clampLimit(args.Limit, defaultSearchLimit, maxSearchLimit))
		if err != nil {
			return nil, fmt.Errorf("search failed: %w", err)
		}

		return marshalToolResponse(&SearchResponse{
			Query:         args.Query,
			Results:       results,
			TotalReturned: len(results),
			TookMs:        int(time.Since(startTime).Milliseconds()),
		})
	}
}

// CategoryRequest is the iris_docs_category argument schema. Either the
// slug or the joined category path selects the category.
type CategoryRequest struct {
	Slug string `json:"slug,omitempty"`
	Path string `json:"path,omitempty"`
	// Code keeps code segments in the response.
	Code bool `json:"code,omitempty"`
}

// CategoryResponse is the iris_docs_category result.
type CategoryResponse struct {
	Title     string         `json:"title"`
	Path      string         `json:"path"`
	URL       string         `json:"url"`
	Ancestors []string       `json:"ancestors"`
	Segments  []docs.Segment `json:"segments"`
	Items     []ItemResponse `json:"items"`
}

// ItemResponse is one item of a category.
type ItemResponse struct {
	Title    string         `json:"title"`
	Params   []docs.Param   `json:"params,omitempty"`
	Return   *docs.Return   `json:"return,omitempty"`
	Segments []docs.Segment `json:"segments"`
}

// AddCategoryTool registers the iris_docs_category tool.
func AddCategoryTool(s *server.MCPServer, source ModelSource) {
	tool := mcp.NewTool(
		"iris_docs_category",
		mcp.WithDescription(`Returns one documentation category with its prose and items.

Select the category by slug (e.g. "guide-basics") or by its path as declared
with @category (e.g. "Guide/Basics"). Code segments are omitted unless code is true.`),
		mcp.WithString("slug",
			mcp.Description("Category slug, as used in the page URL")),
		mcp.WithString("path",
			mcp.Description("Category path joined with '/'")),
		mcp.WithBoolean("code",
			mcp.Description("Include code segments (default: false)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createCategoryHandler(source))
}

func createCategoryHandler(source ModelSource) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args CategoryRequest
		if err := BindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		model := source.Model()

		var (
			category *docs.CategoryNode
			ok       bool
		)
		switch {
		case args.Slug != "":
			category, ok = model.Category(args.Slug)
		case args.Path != "":
			category, ok = model.CategoryByPath(args.Path)
		default:
			return mcp.NewToolResultError("slug or path parameter is required"), nil
		}
		if !ok {
			return mcp.NewToolResultError("category not found"), nil
		}

		response := &CategoryResponse{
			Title:     category.Title(),
			Path:      category.Path,
			URL:       category.URL,
			Ancestors: category.Ancestors,
			Segments:  filterSegments(category.Segments, args.Code),
			Items:     make([]ItemResponse, 0, len(category.Items)),
		}
		for _, item := range category.Items {
			response.Items = append(response.Items, ItemResponse{
				Title:    item.Metadata.Title,
				Params:   item.Metadata.Params,
				Return:   item.Metadata.Return,
				Segments: filterSegments(item.Segments, args.Code),
			})
		}

		return marshalToolResponse(response)
	}
}

func filterSegments(segments []docs.Segment, code bool) []docs.Segment {
	if code {
		return segments
	}
	return segment.Prose(segments)
}

// TreeResponse is the iris_docs_tree result.
type TreeResponse struct {
	Title string           `json:"title"`
	URL   string           `json:"url"`
	Tree  []*docs.TreeNode `json:"tree"`
}

// AddTreeTool registers the iris_docs_tree tool.
func AddTreeTool(s *server.MCPServer, source ModelSource) {
	tool := mcp.NewTool(
		"iris_docs_tree",
		mcp.WithDescription("Returns the document title and the category tree used for navigation."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createTreeHandler(source))
}

func createTreeHandler(source ModelSource) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		model := source.Model()
		return marshalToolResponse(&TreeResponse{
			Title: model.Document.Metadata.Title,
			URL:   model.Document.URL,
			Tree:  model.Tree,
		})
	}
}
