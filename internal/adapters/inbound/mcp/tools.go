package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/govaudit/internal/application"
	"github.com/openkraft/govaudit/internal/domain"
)

// registerTools registers all govaudit MCP tools on the given server.
func registerTools(s *server.MCPServer, corpusPath string, svc *application.AuditService) {
	// 1. govaudit_audit
	s.AddTool(
		mcplib.NewTool("govaudit_audit",
			mcplib.WithDescription("Runs the full governance audit (validation + health) and returns the report as JSON"),
			mcplib.WithNumber("min_score", mcplib.Description("Minimum overall score for the audit to pass (default: min_score from .govaudit.yaml)")),
			mcplib.WithBoolean("write_reports", mcplib.Description("Also write the Markdown and JSON report files")),
		),
		handleRun(corpusPath, svc, domain.ModeAudit),
	)

	// 2. govaudit_validate
	s.AddTool(
		mcplib.NewTool("govaudit_validate",
			mcplib.WithDescription("Validates every rule and workflow document and returns errors, warnings and the compliance score"),
			mcplib.WithBoolean("write_reports", mcplib.Description("Also write the validation report file")),
		),
		handleRun(corpusPath, svc, domain.ModeValidate),
	)

	// 3. govaudit_health
	s.AddTool(
		mcplib.NewTool("govaudit_health",
			mcplib.WithDescription("Returns per-document health scores, corpus metrics and recommendations"),
			mcplib.WithBoolean("write_reports", mcplib.Description("Also write the health report files")),
		),
		handleRun(corpusPath, svc, domain.ModeHealth),
	)

	// 4. govaudit_analyze_document
	s.AddTool(
		mcplib.NewTool("govaudit_analyze_document",
			mcplib.WithDescription("Analyzes a single governance document. Pass either document (a corpus-relative ID such as Rules/security.md) or content (raw Markdown)"),
			mcplib.WithString("document", mcplib.Description("Corpus-relative document ID")),
			mcplib.WithString("content", mcplib.Description("Raw Markdown to analyze instead of a corpus document")),
			mcplib.WithString("category", mcplib.Description("Category for content: rule or workflow (default: rule)")),
		),
		handleAnalyzeDocument(corpusPath, svc),
	)
}

func handleRun(corpusPath string, svc *application.AuditService, mode domain.Mode) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()

		var opts []application.RunOption
		if n, ok := args["min_score"].(float64); ok {
			if n != math.Trunc(n) {
				return errorResult(fmt.Sprintf("min_score %v is not a whole number", n)), nil
			}
			opts = append(opts, application.WithMinScore(int(n)))
		}
		if write, _ := args["write_reports"].(bool); !write {
			opts = append(opts, application.WithoutReports())
		}
		// Agents poll freely; only the CLI records history.
		opts = append(opts, application.WithoutHistory())

		report, err := svc.Run(ctx, corpusPath, mode, opts...)
		if err != nil {
			return errorResult(fmt.Sprintf("%s failed: %v", mode, err)), nil
		}
		return jsonResult(report)
	}
}

// documentAnalysis is the govaudit_analyze_document result.
type documentAnalysis struct {
	Findings []domain.Finding    `json:"findings"`
	Record   domain.HealthRecord `json:"record"`
}

func handleAnalyzeDocument(corpusPath string, svc *application.AuditService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		id, _ := args["document"].(string)
		content, _ := args["content"].(string)

		switch {
		case id != "" && content != "":
			return errorResult("pass either document or content, not both"), nil
		case id != "":
			findings, rec, err := svc.AnalyzeDocumentAt(ctx, corpusPath, id)
			if err != nil {
				return errorResult(fmt.Sprintf("analyze failed: %v", err)), nil
			}
			return jsonResult(documentAnalysis{Findings: nonNil(findings), Record: rec})
		case content != "":
			cat := domain.CategoryRule
			if c, _ := args["category"].(string); c != "" {
				cat = domain.Category(c)
				if cat != domain.CategoryRule && cat != domain.CategoryWorkflow {
					return errorResult(fmt.Sprintf("unknown category %q (want rule or workflow)", c)), nil
				}
			}
			now := time.Now()
			findings, rec := svc.AnalyzeDocument(domain.Document{
				ID:           "inline.md",
				Category:     cat,
				Text:         content,
				LastModified: now,
			}, now)
			return jsonResult(documentAnalysis{Findings: nonNil(findings), Record: rec})
		default:
			return errorResult("document or content is required"), nil
		}
	}
}

func nonNil(f []domain.Finding) []domain.Finding {
	if f == nil {
		return []domain.Finding{}
	}
	return f
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
