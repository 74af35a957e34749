package mcp

import (
	"context"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fairyhq/fairy/internal/adapters/outbound/config"
	"github.com/fairyhq/fairy/internal/adapters/outbound/gitinfo"
	"github.com/fairyhq/fairy/internal/adapters/outbound/history"
	"github.com/fairyhq/fairy/internal/adapters/outbound/report"
	"github.com/fairyhq/fairy/internal/adapters/outbound/rulepacks"
	"github.com/fairyhq/fairy/internal/adapters/outbound/scanner"
	"github.com/fairyhq/fairy/internal/adapters/outbound/table"
	"github.com/fairyhq/fairy/internal/application"
	"github.com/fairyhq/fairy/internal/domain/validator"
)

// registerTools registers all FAIRy MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath, version string) {
	// 1. fairy_validate
	s.AddTool(
		mcplib.NewTool("fairy_validate",
			mcplib.WithDescription("Validate one metadata table with a legacy validator and return its report_v0 document"),
			mcplib.WithString("input",
				mcplib.Required(),
				mcplib.Description("Table file, or directory holding exactly one table, relative to the project"),
			),
			mcplib.WithString("kind", mcplib.Description("Validator kind (default from .fairy.yaml, else rna)")),
			mcplib.WithString("out_dir", mcplib.Description("Also write report_v0.json to this directory")),
		),
		handleValidate(projectPath),
	)

	// 2. fairy_preflight
	s.AddTool(
		mcplib.NewTool("fairy_preflight",
			mcplib.WithDescription("Run a rulepack over the samples and files tables and return findings plus the readiness attestation"),
			mcplib.WithString("samples", mcplib.Description("Samples table (default from .fairy.yaml, else samples.tsv)")),
			mcplib.WithString("files", mcplib.Description("Files table (default from .fairy.yaml, else files.tsv)")),
			mcplib.WithBoolean("no_files", mcplib.Description("Run without a files table")),
			mcplib.WithString("rulepack", mcplib.Description("Rulepack path (default: built-in "+rulepacks.DefaultName+")")),
		),
		handlePreflight(projectPath, version),
	)

	// 3. fairy_list_rules
	s.AddTool(
		mcplib.NewTool("fairy_list_rules",
			mcplib.WithDescription("Returns the compiled rules of a rulepack"),
			mcplib.WithString("rulepack", mcplib.Description("Rulepack path (default: the project's configured pack, else built-in)")),
		),
		handleListRules(projectPath),
	)
}

func handleValidate(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		input, err := request.RequireString("input")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		cfg, err := config.New().Load(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		resolved, err := scanner.ResolveInput(resolve(projectPath, input))
		if err != nil {
			return errorResult(err.Error()), nil
		}

		writer, err := report.New()
		if err != nil {
			return nil, err
		}
		svc := application.NewValidateService(table.New(), validator.NewDefaultRegistry(), writer)

		req := application.ValidateRequest{
			InputPath:  resolved,
			Kind:       request.GetString("kind", cfg.EffectiveKind()),
			Provenance: cfg.Provenance,
		}
		if out := request.GetString("out_dir", ""); out != "" {
			req.OutDir = resolve(projectPath, out)
		}

		res, err := svc.Validate(ctx, req)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		return jsonResult(res.Report)
	}
}

func handlePreflight(projectPath, version string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		cfg, err := config.New().Load(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		tables := cfg.EffectiveTables()

		req := application.PreflightRequest{
			ProjectPath:   projectPath,
			SamplesPath:   resolve(projectPath, request.GetString("samples", tables.Samples)),
			RulepackPath:  resolve(projectPath, request.GetString("rulepack", cfg.Rulepack)),
			RecordHistory: true,
		}
		if !request.GetBool("no_files", false) {
			req.FilesPath = resolve(projectPath, request.GetString("files", tables.Files))
		}

		svc := application.NewPreflightService(table.New(), rulepacks.New(), gitinfo.New(), history.New(), version)
		rep, err := svc.Run(ctx, req)
		if err != nil {
			return errorResult(fmt.Sprintf("preflight failed: %v", err)), nil
		}
		return jsonResult(rep)
	}
}

func handleListRules(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		path := request.GetString("rulepack", "")
		if path == "" {
			cfg, err := config.New().Load(projectPath)
			if err != nil {
				return errorResult(err.Error()), nil
			}
			path = cfg.Rulepack
		}

		pack, err := rulepacks.New().Load(resolve(projectPath, path))
		if err != nil {
			return errorResult(fmt.Sprintf("loading rulepack: %v", err)), nil
		}
		return jsonResult(pack)
	}
}

// jsonResult marshals v canonically and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := report.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result flagged as an error.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
