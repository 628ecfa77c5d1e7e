package mcpserver

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/pressmark/internal/articleservice"
	"github.com/starford/pressmark/internal/models"
	"github.com/starford/pressmark/internal/store"
)

func testServer(t *testing.T) (*Server, *articleservice.Service) {
	t.Helper()

	dbFile, err := os.CreateTemp("", "pressmark-mcp-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := db.CreateUser(ctx, &models.User{Username: "rick", Email: "rick@example.com"}); err != nil {
		t.Fatal(err)
	}

	svc := articleservice.NewService(db, nil)
	srv := New(svc)
	return srv, svc
}

func seedArticle(t *testing.T, svc *articleservice.Service, title, body string, tags []string) *models.Article {
	t.Helper()
	a, err := svc.Create(context.Background(), "rick", articleservice.ArticleDraft{
		Title: title,
		Body:  body,
		Tags:  tags,
	})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_articles":
		result, err = srv.searchArticles(ctx, req)
	case "get_article":
		result, err = srv.getArticle(ctx, req)
	case "list_articles":
		result, err = srv.listArticles(ctx, req)
	case "list_tags":
		result, err = srv.listTags(ctx, req)
	case "top_keywords":
		result, err = srv.topKeywords(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestGetArticle(t *testing.T) {
	srv, svc := testServer(t)
	a := seedArticle(t, svc, "Hello World", "first post body", nil)

	r := callTool(t, srv, "get_article", map[string]interface{}{"slug": a.Slug})
	text := resultText(r)
	if !strings.Contains(text, "first post body") {
		t.Errorf("get result missing body: %q", text)
	}
}

func TestGetArticleDoesNotCountRead(t *testing.T) {
	srv, svc := testServer(t)
	a := seedArticle(t, svc, "Quiet Read", "body", nil)

	_ = callTool(t, srv, "get_article", map[string]interface{}{"slug": a.Slug})

	got, err := svc.GetSummary(context.Background(), a.Slug, "")
	if err != nil {
		t.Fatal(err)
	}
	if got.ReadCount != 0 {
		t.Errorf("read count = %d, want 0 after tool read", got.ReadCount)
	}
}

func TestGetArticleMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_article", map[string]interface{}{"slug": "nope"})
	if !r.IsError {
		t.Error("expected error for missing article")
	}
}

func TestSearchArticles(t *testing.T) {
	srv, svc := testServer(t)
	seedArticle(t, svc, "Dragon Training", "how to train your dragon", nil)
	seedArticle(t, svc, "Cooking", "pasta from scratch", nil)

	r := callTool(t, srv, "search_articles", map[string]interface{}{"query": "dragon"})
	text := resultText(r)
	if !strings.Contains(text, "dragon-training") {
		t.Errorf("search missing match: %q", text)
	}
	if strings.Contains(text, "cooking") {
		t.Errorf("search returned non-match: %q", text)
	}
	if !strings.Contains(text, `"total": 1`) {
		t.Errorf("search total wrong: %q", text)
	}
}

func TestListArticlesByTag(t *testing.T) {
	srv, svc := testServer(t)
	seedArticle(t, svc, "Tagged", "body", []string{"go"})
	seedArticle(t, svc, "Untagged", "body", nil)

	r := callTool(t, srv, "list_articles", map[string]interface{}{"tag": "go"})
	text := resultText(r)
	if !strings.Contains(text, "tagged") {
		t.Errorf("list missing tagged article: %q", text)
	}
	if !strings.Contains(text, `"total": 1`) {
		t.Errorf("list total wrong: %q", text)
	}
}

func TestListArticlesBadLimit(t *testing.T) {
	srv, svc := testServer(t)
	seedArticle(t, svc, "One", "body", nil)

	r := callTool(t, srv, "list_articles", map[string]interface{}{"limit": "abc"})
	if !r.IsError {
		t.Error("expected error for non-numeric limit")
	}
}

func TestListTags(t *testing.T) {
	srv, svc := testServer(t)
	seedArticle(t, svc, "A", "body", []string{"go", "sqlite"})

	r := callTool(t, srv, "list_tags", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "go") || !strings.Contains(text, "sqlite") {
		t.Errorf("tags = %q", text)
	}
}

func TestTopKeywords(t *testing.T) {
	srv, svc := testServer(t)
	seedArticle(t, svc, "A", "body", nil)

	_ = callTool(t, srv, "search_articles", map[string]interface{}{"query": "body"})
	_ = callTool(t, srv, "search_articles", map[string]interface{}{"query": "body"})

	r := callTool(t, srv, "top_keywords", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, `"keyword": "body"`) {
		t.Errorf("keywords missing counter: %q", text)
	}
	if !strings.Contains(text, `"count": 2`) {
		t.Errorf("keywords count wrong: %q", text)
	}
}
