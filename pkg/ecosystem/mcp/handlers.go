package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/homecfg/hagate/pkg/gate"
	"github.com/homecfg/hagate/pkg/registry"
	"github.com/homecfg/hagate/pkg/report"
	"github.com/homecfg/hagate/pkg/validate"
)

// HandleValidate implements the hagate/validate MCP tool.
func HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	config, _ := args["config"].(string)
	if config == "" {
		return errorResult("config argument is required"), nil
	}
	format, _ := args["format"].(string)

	result, err := runValidation(config, storageArg(args, config))
	if err != nil {
		return errorResult(err.Error()), nil
	}

	var body string
	if format == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		body = string(data)
	} else {
		body = report.Markdown(result)
	}
	if !result.Verdict {
		return errorResult(body), nil
	}
	return textResult(body), nil
}

// HandleRegistry implements the hagate/registry MCP tool.
func HandleRegistry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	storage, _ := args["storage"].(string)
	if storage == "" {
		return errorResult("storage argument is required"), nil
	}

	snap, warnings := registry.Load(storage)
	if !snap.Available() {
		return errorResult(fmt.Sprintf("no registry snapshot at %s", storage)), nil
	}

	if format, _ := args["format"].(string); format == "json" {
		data, err := json.MarshalIndent(snap.Summary(), "", "  ")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return textResult(string(data)), nil
	}

	out := report.RegistryTable(snap)
	for _, w := range warnings {
		out += fmt.Sprintf("warning: %s: %s\n", w.Source, w.Message)
	}
	return textResult(out), nil
}

// HandleGate implements the hagate/gate MCP tool.
func HandleGate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	config, _ := args["config"].(string)
	if config == "" {
		return errorResult("config argument is required"), nil
	}
	expression, _ := args["expression"].(string)
	if expression == "" {
		return errorResult("expression argument is required"), nil
	}

	result, err := runValidation(config, storageArg(args, config))
	if err != nil {
		return errorResult(err.Error()), nil
	}
	pass, err := gate.Eval(expression, result)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	if !pass {
		return errorResult(fmt.Sprintf("gate %q failed\n\n%s",
			expression, report.Markdown(result))), nil
	}
	return textResult(fmt.Sprintf("gate %q passed", expression)), nil
}

func runValidation(config, storage string) (*validate.Report, error) {
	snap, warnings := registry.Load(storage)
	runner := &validate.Runner{Snapshot: snap, SnapshotWarnings: warnings}
	return runner.RunDir(config)
}

func storageArg(args map[string]any, config string) string {
	if storage, _ := args["storage"].(string); storage != "" {
		return storage
	}
	return filepath.Join(config, ".storage")
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(msg),
		},
		IsError: true,
	}
}
