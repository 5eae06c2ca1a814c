package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fulsomenko/kanban-sub000/internal/app"
)

const serverInstructions = `Kanban workspace tools.

Boards hold ordered columns; columns hold ordered cards. Cards carry a
per-board number and can join sprints, block each other, relate to each
other, or nest under a parent card. Mutations are atomic: a failing tool
call leaves the workspace untouched. Every successful mutation is
persisted before the call returns and can be reverted with the undo
tool.

Start with list_boards to orient, then get_board for columns and cards.`

// Config contains server configuration.
type Config struct {
	App    *app.App
	Logger *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "kanban",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.App, cfg.Logger)

	return server
}
