package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jask/omnibar/internal/engine"
	"github.com/jask/omnibar/internal/keyseq"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// CodeInvalidRequest is reported in tool error payloads for bad arguments.
const CodeInvalidRequest = "INVALID_REQUEST"

// Handlers serves tool calls from one engine.
type Handlers struct {
	engine *engine.Engine
	log    *slog.Logger
}

func NewHandlers(e *engine.Engine) *Handlers {
	return &Handlers{engine: e, log: slog.Default().With("component", "mcp")}
}

type RankRequest struct {
	Query string `json:"query"`
	Route string `json:"route,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

type RankResponse struct {
	Query          string        `json:"query"`
	Conversational bool          `json:"conversational"`
	Items          []engine.Item `json:"items"`
	Truncated      bool          `json:"truncated,omitempty"`
}

type ParseRequest struct {
	Text string `json:"text"`
}

type ShortcutsRequest struct {
	Filter string `json:"filter,omitempty"`
}

type ShortcutsResponse struct {
	Groups []keyseq.CategoryGroup `json:"groups"`
}

// HandleRank handles omnibar_rank.
func (h *Handlers) HandleRank(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RankRequest](req)
	if err != nil {
		return errorResult(CodeInvalidRequest, err.Error()), nil
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	res := h.engine.Lookup(ctx, input.Route, input.Query)
	items := engine.Items(res.Items)
	h.log.Debug("rank", "query", input.Query, "route", input.Route, "items", len(items))
	out := RankResponse{Query: res.Query, Conversational: res.Conversational, Items: items}
	if len(items) > limit {
		out.Items = items[:limit]
		out.Truncated = true
	}
	return successResult(out)
}

// HandleParse handles omnibar_parse.
func (h *Handlers) HandleParse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ParseRequest](req)
	if err != nil {
		return errorResult(CodeInvalidRequest, err.Error()), nil
	}
	if strings.TrimSpace(input.Text) == "" {
		return errorResult(CodeInvalidRequest, "text is required"), nil
	}
	return successResult(h.engine.Classify(ctx, input.Text))
}

// HandleShortcuts handles omnibar_shortcuts.
func (h *Handlers) HandleShortcuts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ShortcutsRequest](req)
	if err != nil {
		return errorResult(CodeInvalidRequest, err.Error()), nil
	}
	return successResult(ShortcutsResponse{Groups: h.engine.Shortcuts(input.Filter)})
}

// errorResult reports a failure with IsError set so clients see it as one.
func errorResult(code, message string) *mcp.CallToolResult {
	content, _ := json.Marshal(map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
