package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mavinms/prism-project/internal/app"
	"github.com/mavinms/prism-project/internal/history"
)

// HistoryHandler exposes list_history.
type HistoryHandler struct {
	app *app.App
}

func NewHistoryHandler(a *app.App) *HistoryHandler {
	return &HistoryHandler{app: a}
}

// RegisterTools registers the list_history tool.
func (hh *HistoryHandler) RegisterTools(s *server.MCPServer) error {
	tool := mcp.NewTool("list_history",
		mcp.WithDescription("List metadata changes, newest first."),
		mcp.WithString("period", mcp.Description("hour, day, week, month or all (default all)")),
	)
	s.AddTool(tool, hh.handleList)
	return nil
}

func (hh *HistoryHandler) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, _ := req.GetArguments()["period"].(string)
	period, err := history.ParsePeriod(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entries, err := hh.app.History(ctx, period)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list history failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"period":  period,
		"count":   len(entries),
		"limit":   hh.app.HistoryLimit(),
		"entries": entries,
	})
}

// CollectionsHandler exposes list_collections and add_to_collection.
type CollectionsHandler struct {
	app *app.App
}

func NewCollectionsHandler(a *app.App) *CollectionsHandler {
	return &CollectionsHandler{app: a}
}

// RegisterTools registers the collection tools.
func (ch *CollectionsHandler) RegisterTools(s *server.MCPServer) error {
	listTool := mcp.NewTool("list_collections",
		mcp.WithDescription("List the user's collections with their ids, hierarchical names and terms."),
	)
	s.AddTool(listTool, ch.handleList)

	addTool := mcp.NewTool("add_to_collection",
		mcp.WithDescription("Add a term to a collection. Adding a term already present is a no-op."),
		mcp.WithString("collection_id", mcp.Required(), mcp.Description("Collection id from list_collections")),
		mcp.WithString("term", mcp.Required(), mcp.Description("Exact term name")),
	)
	s.AddTool(addTool, ch.handleAdd)
	return nil
}

func (ch *CollectionsHandler) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cs, err := ch.app.ListCollections(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list collections failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"count":       len(cs),
		"collections": cs,
	})
}

func (ch *CollectionsHandler) handleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("collection_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	term, err := req.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ch.app.Catalog().Contains(term) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown term %q", term)), nil
	}
	added, err := ch.app.AddTermToCollection(ctx, id, term)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("add to collection failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"collection_id": id,
		"term":          term,
		"added":         added,
	})
}
