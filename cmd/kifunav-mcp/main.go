package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "kifunav/internal/adapters/mcp"
	"kifunav/internal/bootstrap"
)

func main() {
	configFlag := flag.String("config", "", "config file")
	rootFlag := flag.String("root", "", "path to the record library")
	dbFlag := flag.String("db", "", "position index database")
	logLevelFlag := flag.String("log-level", "", "log level (debug, info, warn, error)")
	watchFlag := flag.Bool("watch", false, "re-index records as they change")
	flag.Parse()

	// stdout carries the protocol, so logs go to stderr
	env, err := bootstrap.Load(bootstrap.Options{
		ConfigPath: *configFlag,
		Root:       *rootFlag,
		DBPath:     *dbFlag,
		LogLevel:   *logLevelFlag,
		LogOutput:  os.Stderr,
	})
	if err != nil {
		log.Fatalf("kifunav-mcp: %v", err)
	}

	idx, err := env.OpenIndex()
	if err != nil {
		log.Fatalf("kifunav-mcp: %v", err)
	}
	defer idx.Close()

	mcpServer := server.NewMCPServer(
		"kifunav-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterRecordTools(mcpServer, env.Repo)
	mcpadapter.RegisterIndexTools(mcpServer, mcpadapter.IndexDeps{
		Loader:     env.Repo,
		Paths:      env.Repo,
		Index:      idx,
		Keyer:      env.Keyer,
		MaxResults: env.Config.Search.MaxResults,
		Logger:     env.Logger,
	})

	if *watchFlag {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := env.Watch(ctx, idx); err != nil && !errors.Is(err, context.Canceled) {
				env.Logger.Error("watcher stopped", "error", err)
			}
		}()
	}

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("kifunav-mcp: %v", err)
	}
}
