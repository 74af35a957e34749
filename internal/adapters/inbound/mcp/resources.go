package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fairyhq/fairy/internal/adapters/outbound/config"
	"github.com/fairyhq/fairy/internal/adapters/outbound/history"
	"github.com/fairyhq/fairy/internal/adapters/outbound/report"
	"github.com/fairyhq/fairy/internal/adapters/outbound/rulepacks"
	"github.com/fairyhq/fairy/internal/domain/rules"
)

const (
	rulepackURI    = "fairy://rulepack"
	historyURI     = "fairy://history"
	rulePrefix     = "fairy://rules/"
	reportSchemaID = "fairy://schemas/report_v0"
)

// registerResources registers all FAIRy MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string) {
	// 1. fairy://rulepack - the project's active rulepack
	s.AddResource(
		mcplib.NewResource(
			rulepackURI,
			"Rulepack",
			mcplib.WithResourceDescription("The rulepack preflight runs use for this project"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRulepackResource(projectPath),
	)

	// 2. fairy://history - recorded preflight runs
	s.AddResource(
		mcplib.NewResource(
			historyURI,
			"Run History",
			mcplib.WithResourceDescription("Recorded preflight runs for the project"),
			mcplib.WithMIMEType("application/json"),
		),
		handleHistoryResource(projectPath),
	)

	// 3. fairy://schemas/report_v0 - the report_v0.json schema
	s.AddResource(
		mcplib.NewResource(
			reportSchemaID,
			"report_v0 Schema",
			mcplib.WithResourceDescription("JSON Schema (Draft 2020-12) every report_v0.json is validated against"),
			mcplib.WithMIMEType("application/schema+json"),
		),
		handleSchemaResource(),
	)

	// 4. fairy://rules/{code} - a single rule (resource template)
	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			rulePrefix+"{code}",
			"Rule",
			mcplib.WithTemplateDescription("One rule of the active rulepack, by code"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleRuleResource(projectPath),
	)
}

func handleRulepackResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		pack, err := activeRulepack(projectPath)
		if err != nil {
			return nil, err
		}
		return jsonContents(rulepackURI, pack)
	}
}

func handleHistoryResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		entries, err := history.New().Load(projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading history: %w", err)
		}
		return jsonContents(historyURI, entries)
	}
}

func handleSchemaResource() server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      reportSchemaID,
				MIMEType: "application/schema+json",
				Text:     report.SchemaJSON(),
			},
		}, nil
	}
}

func handleRuleResource(projectPath string) server.ResourceTemplateHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		uri := request.Params.URI
		code := strings.TrimPrefix(uri, rulePrefix)
		if code == "" || code == uri {
			return nil, fmt.Errorf("rule code required in URI %q", uri)
		}

		pack, err := activeRulepack(projectPath)
		if err != nil {
			return nil, err
		}
		for _, r := range pack.Rules {
			if r.Code == code {
				return jsonContents(uri, r)
			}
		}
		return nil, fmt.Errorf("rule %q not found in %s@%s", code, pack.ID, pack.Version)
	}
}

func activeRulepack(projectPath string) (*rules.Rulepack, error) {
	cfg, err := config.New().Load(projectPath)
	if err != nil {
		return nil, err
	}
	pack, err := rulepacks.New().Load(resolve(projectPath, cfg.Rulepack))
	if err != nil {
		return nil, fmt.Errorf("loading rulepack: %w", err)
	}
	return pack, nil
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := report.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// resolve anchors a relative path at the project directory. The empty
// path stays empty so an unset rulepack selects the built-in one.
func resolve(projectPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectPath, p)
}
