// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Pressmark tools for LLM integration via stdio transport.
//
// All tools are read-only and fetch articles through the summary path,
// so agent traffic never skews read counts.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/pressmark/internal/articleservice"
	"github.com/starford/pressmark/internal/models"
)

const defaultToolLimit = 20

// Server wraps the MCP server with Pressmark tools.
type Server struct {
	mcp *server.MCPServer
	svc *articleservice.Service
}

// New creates a new MCP server with all Pressmark tools registered.
func New(svc *articleservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Pressmark",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_articles",
		mcp.WithDescription("Keyword search over article titles, bodies and tags. "+
			"Keywords are whitespace-separated and all must match."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("limit", mcp.Description("Optional max results (default 20)")),
	), s.searchArticles)

	s.mcp.AddTool(mcp.NewTool("get_article",
		mcp.WithDescription("Read the full content of an article by slug."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Article slug (e.g. how-to-train-your-dragon)")),
	), s.getArticle)

	s.mcp.AddTool(mcp.NewTool("list_articles",
		mcp.WithDescription("List articles, optionally filtered by author or tag, newest first."),
		mcp.WithString("author", mcp.Description("Optional author username filter (exact match)")),
		mcp.WithString("tag", mcp.Description("Optional tag filter (exact match)")),
		mcp.WithString("limit", mcp.Description("Optional max results (default 20)")),
	), s.listArticles)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List all tags in use."),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("top_keywords",
		mcp.WithDescription("List search keyword counters, most searched first."),
		mcp.WithString("min", mcp.Description("Optional minimum count to include (default 0)")),
	), s.topKeywords)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// optionalInt reads an optional string argument holding an integer.
func optionalInt(req mcp.CallToolRequest, key string, def int) (int, error) {
	raw, err := req.RequireString(key)
	if err != nil || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: not a number: %q", key, raw)
	}
	return n, nil
}

func (s *Server) searchArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit, err := optionalInt(req, "limit", defaultToolLimit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.svc.Search(ctx, models.SearchQuery{
		Query: query,
		Page:  models.Page{Limit: limit},
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"articles": res.Articles,
		"total":    res.Total,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getArticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	articleSlug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	a, err := s.svc.GetSummary(ctx, articleSlug, "")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", articleSlug)), nil
	}
	out, _ := json.MarshalIndent(a, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	author := ""
	if v, err := req.RequireString("author"); err == nil {
		author = v
	}
	tag := ""
	if v, err := req.RequireString("tag"); err == nil {
		tag = v
	}
	limit, err := optionalInt(req, "limit", defaultToolLimit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	articles, total, err := s.svc.List(ctx, models.ArticleQuery{
		Author: author,
		Tag:    tag,
		Sort:   models.SortRecent,
		Page:   models.Page{Limit: limit},
	}, "", models.FeedNone)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"articles": articles,
		"total":    total,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := s.svc.Tags(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(tags) == 0 {
		return mcp.NewToolResultText("no tags"), nil
	}
	return mcp.NewToolResultText(strings.Join(tags, "\n")), nil
}

func (s *Server) topKeywords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	minCount, err := optionalInt(req, "min", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	counts, err := s.svc.TopKeywords(ctx, minCount)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(counts, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
