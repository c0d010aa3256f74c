package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"kifunav/internal/adapters/render"
	"kifunav/internal/application/commands"
	"kifunav/internal/ports"
)

// IndexDeps are the collaborators of the index tools
type IndexDeps struct {
	Loader     ports.RecordLoader
	Paths      ports.PathResolver
	Index      ports.PositionIndex
	Keyer      ports.PositionKeyer
	MaxResults int
	Logger     *slog.Logger
}

// RegisterIndexTools adds the tools backed by the position index to the MCP server.
func RegisterIndexTools(s *server.MCPServer, deps IndexDeps) {
	s.AddTool(searchPositionsTool(), searchPositionsHandler(deps))
	s.AddTool(indexLibraryTool(), indexLibraryHandler(deps))
}

// --- search_positions ---

func searchPositionsTool() mcp.Tool {
	return mcp.NewTool("search_positions",
		mcp.WithDescription("Find every indexed record that reaches a position. Give either a position key, or a record and a cursor key to search for the position at that cursor. Hits in the current record come first and are marked with '*'."),
		mcp.WithString("position_key",
			mcp.Description("Position key to search for"),
		),
		mcp.WithString("record",
			mcp.Description("Record to take the position from when no position_key is given"),
		),
		mcp.WithString("cursor",
			mcp.Description("Cursor key of the position in record (e.g. 12,[] or 5,[{\"te\":3,\"forkIndex\":1}])"),
		),
		mcp.WithString("current",
			mcp.Description("Path of the record currently open. Defaults to record."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of hits"),
		),
	)
}

func searchPositionsHandler(deps IndexDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		record := req.GetString("record", "")
		key := req.GetString("position_key", "")
		if key == "" {
			if record == "" {
				return toolError(fmt.Errorf("position_key or record is required"))
			}
			cursor, err := commands.NewDecodeCursorCommand(req.GetString("cursor", "0,[]")).Execute(ctx)
			if err != nil {
				return toolError(err)
			}
			key, err = commands.NewPositionKeyAtCommand(deps.Loader, deps.Keyer, record, cursor).Execute(ctx)
			if err != nil {
				return toolError(err)
			}
		}

		current := req.GetString("current", record)
		cmd := commands.NewSearchPositionsCommand(deps.Index, deps.Index, deps.Paths, key, current)
		cmd.Logger = deps.Logger
		cmd.Limit = req.GetInt("limit", deps.maxResults())

		results, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(results, render.Result)
	}
}

func (d IndexDeps) maxResults() int {
	if d.MaxResults > 0 {
		return d.MaxResults
	}
	return commands.DefaultSearchLimit
}

// --- index_library ---

func indexLibraryTool() mcp.Tool {
	return mcp.NewTool("index_library",
		mcp.WithDescription("Bring the position index up to date with the library. Unchanged records are skipped unless force is set."),
		mcp.WithBoolean("force",
			mcp.Description("Re-index every record"),
		),
	)
}

func indexLibraryHandler(deps IndexDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewIndexLibraryCommand(deps.Loader, deps.Index, deps.Keyer)
		cmd.Logger = deps.Logger
		cmd.Force = req.GetBool("force", false)

		stats, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(render.Stats(stats)), nil
	}
}

// --- helpers ---

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}
