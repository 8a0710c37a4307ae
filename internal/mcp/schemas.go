package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func rankTool() mcp.Tool {
	return mcp.Tool{
		Name:        "omnibar_rank",
		Description: "Rank palette candidates (commands, recent items, remote hits) for a query",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Palette query; empty lists candidates in source order",
				},
				"route": map[string]any{
					"type":        "string",
					"description": "Current route, e.g. /dossiers/42, for contextual commands",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of items to return",
					"default":     defaultLimit,
					"minimum":     1,
					"maximum":     maxLimit,
				},
			},
		},
	}
}

func parseTool() mcp.Tool {
	return mcp.Tool{
		Name:        "omnibar_parse",
		Description: "Classify a natural-language request into an intent with entities",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"text": map[string]any{
					"type":        "string",
					"description": "Request text, French or English",
				},
			},
			Required: []string{"text"},
		},
	}
}

func shortcutsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "omnibar_shortcuts",
		Description: "List keyboard shortcuts grouped by category",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"filter": map[string]any{
					"type":        "string",
					"description": "Optional fuzzy filter on key and description",
				},
			},
		},
	}
}
