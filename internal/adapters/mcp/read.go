package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"kifunav/internal/adapters/render"
	"kifunav/internal/adapters/replay"
	"kifunav/internal/application"
	"kifunav/internal/application/commands"
	"kifunav/internal/domain"
	"kifunav/internal/ports"
)

// RegisterRecordTools adds the tools that read single records to the MCP server.
func RegisterRecordTools(s *server.MCPServer, loader ports.RecordLoader) {
	s.AddTool(cursorKeyTool(), cursorKeyHandler())
	s.AddTool(treeTool(), treeHandler(loader))
	s.AddTool(resolveNodeTool(), resolveNodeHandler(loader))
	s.AddTool(planEndTool(), planEndHandler(loader))
}

// --- cursor_key ---

func cursorKeyTool() mcp.Tool {
	return mcp.NewTool("cursor_key",
		mcp.WithDescription("Build the canonical cursor key for a move number and branch choices."),
		mcp.WithNumber("tesuu",
			mcp.Description("Move number, 0 is the start position"),
			mcp.Required(),
		),
		mcp.WithString("forks",
			mcp.Description("Branch choices as te:forkIndex pairs separated by commas (e.g. 3:1,7:2). Omit for the main line."),
		),
	)
}

func cursorKeyHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		fps, err := parseForks(req.GetString("forks", ""))
		if err != nil {
			return toolError(err)
		}

		cursor, err := commands.NewEncodeCursorCommand(req.GetInt("tesuu", -1), fps).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(cursor.Key()), nil
	}
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display the positions of a record as a tree. Variations are indented under the move they replace; every line ends with the cursor key of the position."),
		mcp.WithString("record",
			mcp.Description("Path of the record, absolute or relative to the library root"),
			mcp.Required(),
		),
	)
}

func treeHandler(loader ports.RecordLoader) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tree, _, err := commands.NewLoadTreeCommand(loader, req.GetString("record", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		render.Tree(&sb, tree)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- resolve_node ---

func resolveNodeTool() mcp.Tool {
	return mcp.NewTool("resolve_node",
		mcp.WithDescription("Find the node of a record matching a position replayed from another (possibly edited) copy. Stops at the first move the record does not contain."),
		mcp.WithString("record",
			mcp.Description("Record whose tree is searched"),
			mcp.Required(),
		),
		mcp.WithString("played",
			mcp.Description("Record to replay the moves from. Defaults to the searched record."),
		),
		mcp.WithNumber("tesuu",
			mcp.Description("Move number reached in the played record"),
			mcp.Required(),
		),
		mcp.WithString("forks",
			mcp.Description("Branch choices taken in the played record, as te:forkIndex pairs separated by commas"),
		),
	)
}

func resolveNodeHandler(loader ports.RecordLoader) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		recordPath := req.GetString("record", "")
		tree, record, err := commands.NewLoadTreeCommand(loader, recordPath).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		played := record
		if playedPath := req.GetString("played", ""); playedPath != "" {
			_, played, err = commands.NewLoadTreeCommand(loader, playedPath).Execute(ctx)
			if err != nil {
				return toolError(err)
			}
		}

		fps, err := parseForks(req.GetString("forks", ""))
		if err != nil {
			return toolError(err)
		}

		res, err := commands.NewResolveNodeCommand(
			tree,
			replay.NewRecordReplayer(*played),
			nil,
			req.GetInt("tesuu", -1),
			fps,
		).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		exact := "exact"
		if !res.Exact {
			exact = "diverged"
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s  %s  %s", res.NodeID, res.Cursor.Key(), exact)), nil
	}
}

// --- plan_end ---

func planEndTool() mcp.Tool {
	return mcp.NewTool("plan_end",
		mcp.WithDescription("Follow planned branch choices through a record and return the last position with the moves leading to it."),
		mcp.WithString("record",
			mcp.Description("Path of the record"),
			mcp.Required(),
		),
		mcp.WithString("plan",
			mcp.Description("Planned branch choices as te:forkIndex pairs separated by commas. Omit to follow the main line."),
		),
	)
}

func planEndHandler(loader ports.RecordLoader) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tree, _, err := commands.NewLoadTreeCommand(loader, req.GetString("record", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		plan, err := buildPlan(ctx, req.GetString("plan", ""))
		if err != nil {
			return toolError(err)
		}

		end, err := commands.NewJumpToPlanEndCommand(tree, plan).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		render.End(&sb, end)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// parseForks parses "te:forkIndex" pairs separated by commas or spaces
func parseForks(s string) ([]domain.ForkPointer, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	return application.ParseForkPointers(fields)
}

func buildPlan(ctx context.Context, s string) (domain.ForkPlan, error) {
	fps, err := parseForks(s)
	if err != nil {
		return domain.ForkPlan{}, err
	}

	plan := domain.NewForkPlan(nil)
	for _, fp := range fps {
		plan, err = commands.NewPlanForkCommand(plan, fp.Te, fp.ForkIndex).Execute(ctx)
		if err != nil {
			return domain.ForkPlan{}, err
		}
	}
	return plan, nil
}
