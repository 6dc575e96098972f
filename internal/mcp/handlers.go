package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/blogseo/blogseo/internal/optimizer"
)

// handleOptimizeHTML runs a full optimization and returns the scores and HTML.
func (s *Server) handleOptimizeHTML(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	html, err := request.RequireString("html_code")
	if err != nil || html == "" {
		return mcp.NewToolResultError("missing required parameter: html_code"), nil
	}
	keyword, err := request.RequireString("focus_keyword")
	if err != nil || keyword == "" {
		return mcp.NewToolResultError("missing required parameter: focus_keyword"), nil
	}
	score, err := request.RequireInt("seo_score")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: seo_score"), nil
	}

	res := s.svc.Optimize(optimizer.WithClientID(ctx, "mcp"), optimizer.NewRequest(html, keyword, score))

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("SEO score: %d -> %d\n", res.ScoreBefore, res.ScoreAfter))
	sb.WriteString(res.ImprovementLabel())
	sb.WriteString("\n\n```html\n")
	sb.WriteString(res.OptimizedHTML)
	sb.WriteString("\n```\n")

	return mcp.NewToolResultText(sb.String()), nil
}

// handleApplyLocalHeuristics applies the insertion rules only.
func (s *Server) handleApplyLocalHeuristics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	html, err := request.RequireString("html_code")
	if err != nil || html == "" {
		return mcp.NewToolResultError("missing required parameter: html_code"), nil
	}
	keyword, err := request.RequireString("focus_keyword")
	if err != nil || keyword == "" {
		return mcp.NewToolResultError("missing required parameter: focus_keyword"), nil
	}

	out, applied := optimizer.ApplyRules(html, keyword, optimizer.DefaultRules)

	var sb strings.Builder
	if len(applied) == 0 {
		sb.WriteString("No changes: the document already satisfies every rule.\n")
	} else {
		sb.WriteString("Applied rules: " + strings.Join(applied, ", ") + "\n")
	}
	sb.WriteString("\n```html\n")
	sb.WriteString(out)
	sb.WriteString("\n```\n")

	return mcp.NewToolResultText(sb.String()), nil
}

// handleOptimizationStats reports aggregate history.
func (s *Server) handleOptimizationStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError("History store not configured."), nil
	}

	st, err := s.history.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading stats: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString("# Optimization History\n\n")
	sb.WriteString(fmt.Sprintf("- **Total**: %d\n", st.Total))
	sb.WriteString(fmt.Sprintf("- **Remote**: %d\n", st.Remote))
	sb.WriteString(fmt.Sprintf("- **Fallback**: %d\n", st.Fallback))
	sb.WriteString(fmt.Sprintf("- **Average improvement**: %.1f\n", st.AverageImprovement))

	return mcp.NewToolResultText(sb.String()), nil
}
