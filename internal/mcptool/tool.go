// Package mcptool registers the digest pipeline as a tool with the host
// agent runtime over the Model Context Protocol.
package mcptool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/JakeFAU/webdigest/internal/digest"
	"github.com/JakeFAU/webdigest/internal/progress"
)

// ToolName is the name the host runtime sees.
const ToolName = "fetch_page"

const toolDescription = "Fetches a web page, renders its client-side " +
	"content, and returns clean extracted text. When a prompt is supplied " +
	"the page content is processed with it; large pages without a prompt " +
	"are summarized. Results are cached for 15 minutes per URL."

// Input is the invocation payload supplied by the host runtime.
type Input struct {
	Locator     string `json:"locator" jsonschema:"the absolute URL of the page to fetch"`
	Instruction string `json:"instruction,omitempty" jsonschema:"optional prompt to run against the page content"`
}

// IDGenerator produces request IDs for invocations.
type IDGenerator interface {
	NewID() (string, error)
}

// NewServer builds the MCP server exposing the fetch_page tool backed by
// the orchestrator.
func NewServer(orc *digest.Orchestrator, idGen IDGenerator, logger *zap.Logger) *mcp.Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "webdigest",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: toolDescription,
	}, handler(orc, idGen, logger))

	return server
}

func handler(orc *digest.Orchestrator, idGen IDGenerator, logger *zap.Logger) func(context.Context, *mcp.CallToolRequest, Input) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, in Input) (*mcp.CallToolResult, any, error) {
		requestID, err := idGen.NewID()
		if err != nil {
			requestID = "unknown"
		}

		res := orc.Run(ctx, digest.Request{
			RequestID:   requestID,
			Locator:     in.Locator,
			Instruction: in.Instruction,
		}, sessionNotifier(ctx, req, logger))

		return &mcp.CallToolResult{
			IsError: res.IsError,
			Content: []mcp.Content{&mcp.TextContent{Text: res.Content}},
		}, nil, nil
	}
}

// sessionNotifier forwards progress checkpoints to the client as MCP log
// notifications. Delivery is best effort; a failed notification never
// interrupts the pipeline.
func sessionNotifier(ctx context.Context, req *mcp.CallToolRequest, logger *zap.Logger) progress.Notifier {
	return progress.Func(func(evt progress.Event) {
		if req == nil || req.Session == nil {
			return
		}
		err := req.Session.Log(ctx, &mcp.LoggingMessageParams{
			Level:  "info",
			Logger: "webdigest",
			Data:   string(evt.Checkpoint),
		})
		if err != nil {
			logger.Debug("progress notification failed", zap.Error(err))
		}
	})
}
