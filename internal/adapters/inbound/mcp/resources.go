package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/govaudit/internal/application"
	"github.com/openkraft/govaudit/internal/domain"
)

const (
	reportURI          = "govaudit://report"
	recommendationsURI = "govaudit://recommendations"
	historyURI         = "govaudit://history"
)

// registerResources registers all govaudit MCP resources on the given server.
func registerResources(s *server.MCPServer, corpusPath string, svc *application.AuditService) {
	// 1. govaudit://report - current audit report
	s.AddResource(
		mcplib.NewResource(
			reportURI,
			"Governance Report",
			mcplib.WithResourceDescription("Current governance audit report for the corpus"),
			mcplib.WithMIMEType("application/json"),
		),
		handleReportResource(corpusPath, svc),
	)

	// 2. govaudit://recommendations - improvement recommendations only
	s.AddResource(
		mcplib.NewResource(
			recommendationsURI,
			"Recommendations",
			mcplib.WithResourceDescription("Corpus health recommendations from the current audit"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRecommendationsResource(corpusPath, svc),
	)

	// 3. govaudit://history - recorded audit runs
	s.AddResource(
		mcplib.NewResource(
			historyURI,
			"Audit History",
			mcplib.WithResourceDescription("Recorded audit runs, oldest first"),
			mcplib.WithMIMEType("application/json"),
		),
		handleHistoryResource(corpusPath, svc),
	)
}

func currentReport(ctx context.Context, corpusPath string, svc *application.AuditService) (*domain.Report, error) {
	report, err := svc.Run(ctx, corpusPath, domain.ModeAudit, application.WithoutReports(), application.WithoutHistory())
	if err != nil {
		return nil, fmt.Errorf("audit failed: %w", err)
	}
	return report, nil
}

func handleReportResource(corpusPath string, svc *application.AuditService) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		report, err := currentReport(ctx, corpusPath, svc)
		if err != nil {
			return nil, err
		}
		return jsonContents(reportURI, report)
	}
}

func handleRecommendationsResource(corpusPath string, svc *application.AuditService) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		report, err := currentReport(ctx, corpusPath, svc)
		if err != nil {
			return nil, err
		}
		return jsonContents(recommendationsURI, report.Result.Recommendations)
	}
}

func handleHistoryResource(corpusPath string, svc *application.AuditService) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		entries, err := svc.History(corpusPath)
		if err != nil {
			return nil, fmt.Errorf("loading history: %w", err)
		}
		if entries == nil {
			entries = []domain.AuditEntry{}
		}
		return jsonContents(historyURI, entries)
	}
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
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
