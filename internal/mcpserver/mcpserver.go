// Package mcpserver builds the MCP stdio shell shared by cmd/sandwich's
// serve subcommand and cmd/sandwich-mcp. It only dispatches to pkg/sandwich
// and pkg/gate — it never computes anything itself.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sandwich-gate/complexity/pkg/gate"
	"github.com/sandwich-gate/complexity/pkg/sandwich"
	"github.com/sandwich-gate/complexity/pkg/types"
)

const version = "0.1.0"

// Serve builds the server and runs it over stdio until the client
// disconnects or the process is signaled.
func Serve(store *gate.Store) error {
	s := New(store)
	return server.ServeStdio(s)
}

// New builds the MCP server without starting it, so tests can drive tool
// handlers directly.
func New(store *gate.Store) *server.MCPServer {
	s := server.NewMCPServer("sandwich", version, server.WithResourceCapabilities(false, false))

	registerResources(s)

	s.AddTool(mcp.NewTool("analyze_sandwich",
		mcp.WithDescription("Run the full bread/cheese/ham analysis on a source file"),
		mcp.WithString("source", mcp.Required(), mcp.Description("Source code to analyze")),
		mcp.WithString("file_path", mcp.Description("File path, used for archetype classification")),
		mcp.WithString("test_source", mcp.Description("Associated test file source, for the ham axis")),
	), handleAnalyzeSandwich)

	s.AddTool(mcp.NewTool("analyze_cheese",
		mcp.WithDescription("Analyze cognitive accessibility (the cheese axis) only"),
		mcp.WithString("source", mcp.Required(), mcp.Description("Source code to analyze")),
		mcp.WithString("file_path", mcp.Description("File path, used to select the language parser")),
	), handleAnalyzeCheese)

	s.AddTool(mcp.NewTool("check_gate",
		mcp.WithDescription("Check a file against a release gate stage (poc, mvp, production)"),
		mcp.WithString("source", mcp.Required(), mcp.Description("Source code to check")),
		mcp.WithString("gate_stage", mcp.Description("poc, mvp, or production (default mvp)")),
		mcp.WithString("file_path", mcp.Description("File path, for waiver matching")),
		mcp.WithString("project_root", mcp.Description("Project root, for waiver discovery")),
	), gateHandler(store))

	s.AddTool(mcp.NewTool("suggest_refactor",
		mcp.WithDescription("Suggest refactoring actions based on the simplex deviation"),
		mcp.WithString("source", mcp.Required(), mcp.Description("Source code to analyze")),
		mcp.WithString("file_path", mcp.Description("File path, used for archetype classification")),
	), handleSuggestRefactor)

	s.AddTool(mcp.NewTool("check_budget",
		mcp.WithDescription("Check a change against the per-archetype complexity budget"),
		mcp.WithString("before_source", mcp.Required(), mcp.Description("Source before the change")),
		mcp.WithString("after_source", mcp.Required(), mcp.Description("Source after the change")),
		mcp.WithString("archetype", mcp.Description("Archetype for budget limits (default app)")),
	), handleCheckBudget)

	s.AddTool(mcp.NewTool("get_label",
		mcp.WithDescription("Get the dominant-axis label (bread/cheese/ham/balanced)"),
		mcp.WithString("source", mcp.Required(), mcp.Description("Source code to analyze")),
		mcp.WithString("file_path", mcp.Description("File path, used for archetype classification")),
	), handleGetLabel)

	s.AddTool(mcp.NewTool("check_degradation",
		mcp.WithDescription("Detect cognitive degradation between two versions of a file"),
		mcp.WithString("before_source", mcp.Required(), mcp.Description("Source before the change")),
		mcp.WithString("after_source", mcp.Required(), mcp.Description("Source after the change")),
	), handleCheckDegradation)

	return s
}

func stringArg(request mcp.CallToolRequest, name string) string {
	if v, ok := request.Params.Arguments[name].(string); ok {
		return v
	}
	return ""
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleAnalyzeSandwich(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := stringArg(request, "source")
	opts := sandwich.Options{
		FilePath:   stringArg(request, "file_path"),
		TestSource: stringArg(request, "test_source"),
	}
	result := sandwich.Analyze(source, opts)
	correlationID := uuid.NewString()
	return jsonResult(map[string]interface{}{
		"correlationId": correlationID,
		"result":        result,
	})
}

func handleAnalyzeCheese(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := stringArg(request, "source")
	opts := sandwich.Options{FilePath: stringArg(request, "file_path")}
	result := sandwich.Analyze(source, opts)
	return jsonResult(result.Cheese)
}

func gateHandler(store *gate.Store) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		source := stringArg(request, "source")
		stage := types.GateStage(stringArg(request, "gate_stage"))
		if stage == "" {
			stage = types.GateMVP
		}
		filePath := stringArg(request, "file_path")
		projectRoot := stringArg(request, "project_root")

		result := sandwich.Analyze(source, sandwich.Options{FilePath: filePath})
		verdict := store.CheckGate(stage, result.Cheese, result.Bread, result.Ham, result.Archetype, source, filePath, projectRoot)
		return jsonResult(verdict)
	}
}

func handleSuggestRefactor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := stringArg(request, "source")
	result := sandwich.Analyze(source, sandwich.Options{FilePath: stringArg(request, "file_path")})
	return jsonResult(result.Recommendations)
}

func handleCheckBudget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	archetype := types.Archetype(stringArg(request, "archetype"))
	if archetype == "" {
		archetype = types.ArchetypeApp
	}
	before := sandwich.Analyze(stringArg(request, "before_source"), sandwich.Options{})
	after := sandwich.Analyze(stringArg(request, "after_source"), sandwich.Options{})
	verdict := gate.CheckBudget(before.Cheese, after.Cheese, archetype)
	return jsonResult(verdict)
}

func handleGetLabel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source := stringArg(request, "source")
	result := sandwich.Analyze(source, sandwich.Options{FilePath: stringArg(request, "file_path")})
	return jsonResult(map[string]interface{}{
		"label":      result.Label,
		"confidence": result.Confidence,
		"simplex":    result.Simplex,
	})
}

func handleCheckDegradation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	before := sandwich.Analyze(stringArg(request, "before_source"), sandwich.Options{})
	after := sandwich.Analyze(stringArg(request, "after_source"), sandwich.Options{})
	report := gate.CheckDegradation(before.Cheese, after.Cheese)
	return jsonResult(report)
}
