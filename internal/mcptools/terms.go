package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mavinms/prism-project/client"
	"github.com/mavinms/prism-project/internal/annotate"
	"github.com/mavinms/prism-project/internal/app"
)

// TermsHandler exposes search_terms, get_term and set_term_meta.
type TermsHandler struct {
	app *app.App
}

func NewTermsHandler(a *app.App) *TermsHandler {
	return &TermsHandler{app: a}
}

// RegisterTools registers the term tools.
func (th *TermsHandler) RegisterTools(s *server.MCPServer) error {
	searchTool := mcp.NewTool("search_terms",
		mcp.WithDescription("Search the glossary by term name or subject. Results are ranked by the user's annotations: favorites first, then bookmarks, notes, difficulty and rating."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
		mcp.WithNumber("limit", mcp.Description("Maximum results to return (default 20)")),
	)
	s.AddTool(searchTool, th.handleSearch)

	getTool := mcp.NewTool("get_term",
		mcp.WithDescription("Get a term's definition, key points, example, Q&A and the user's metadata."),
		mcp.WithString("term", mcp.Required(), mcp.Description("Exact term name")),
	)
	s.AddTool(getTool, th.handleGetTerm)

	setTool := mcp.NewTool("set_term_meta",
		mcp.WithDescription("Update a term's metadata. Only the fields provided are changed. Notes need at least three words; shorter notes clear existing ones."),
		mcp.WithString("term", mcp.Required(), mcp.Description("Exact term name")),
		mcp.WithBoolean("favorite", mcp.Description("Mark or unmark as favorite")),
		mcp.WithBoolean("bookmark", mcp.Description("Mark or unmark as bookmarked")),
		mcp.WithString("difficulty", mcp.Description("unknown, easy, medium or hard")),
		mcp.WithNumber("rating", mcp.Description("Rating from 0 to 5")),
		mcp.WithString("notes", mcp.Description("Free-text notes")),
	)
	s.AddTool(setTool, th.handleSetMeta)
	return nil
}

func (th *TermsHandler) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := 20
	if v, ok := req.GetArguments()["limit"].(float64); ok && v >= 1 {
		limit = int(v)
	}

	out := th.app.Search(ctx, query)
	results := out.Results
	if len(results) > limit {
		results = results[:limit]
	}
	payload := map[string]any{
		"query":    out.Query,
		"status":   out.Status.String(),
		"degraded": out.Degraded,
		"count":    len(out.Results),
		"results":  results,
	}
	return jsonResult(payload)
}

func (th *TermsHandler) handleGetTerm(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := th.app.ViewTerm(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get term failed: %v", err)), nil
	}
	return jsonResult(detail)
}

func (th *TermsHandler) handleSetMeta(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := req.GetArguments()

	var update client.MetaUpdate
	if v, ok := args["favorite"].(bool); ok {
		update.Favorite = client.FavoriteUpdate(v).Favorite
	}
	if v, ok := args["bookmark"].(bool); ok {
		update.Bookmark = client.BookmarkUpdate(v).Bookmark
	}
	if v, ok := args["difficulty"].(string); ok {
		update.Difficulty = client.DifficultyUpdate(client.Difficulty(v)).Difficulty
	}
	if v, ok := args["rating"].(float64); ok {
		update.Rating = client.RatingUpdate(int(v)).Rating
	}
	edit := annotate.Edit{Update: update}
	if v, ok := args["notes"].(string); ok {
		edit.Notes = &v
	}
	if update.Empty() && edit.Notes == nil {
		return mcp.NewToolResultError("no metadata fields provided"), nil
	}

	// Tool calls run concurrently, so the write is addressed by name and
	// never goes through the viewed-term selection.
	res, err := th.app.EditTerm(ctx, name, edit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("set term meta failed: %v", err)), nil
	}
	payload := map[string]any{"term": name, "meta": res.Meta}
	switch res.Notes {
	case annotate.NotesSaved:
		payload["notes"] = "saved"
	case annotate.NotesCleared:
		payload["notes"] = "cleared"
	}
	return jsonResult(payload)
}
