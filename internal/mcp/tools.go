package mcp

import "github.com/mark3labs/mcp-go/mcp"

// optimizeHTMLTool defines the optimize_html MCP tool.
var optimizeHTMLTool = mcp.NewTool("optimize_html",
	mcp.WithDescription("Optimize a blog post's HTML for a focus keyword. Uses the remote optimizer and falls back to local rules when it is unavailable."),
	mcp.WithString("html_code",
		mcp.Required(),
		mcp.Description("Full HTML of the blog post"),
	),
	mcp.WithString("focus_keyword",
		mcp.Required(),
		mcp.Description("Keyword the post should rank for"),
	),
	mcp.WithNumber("seo_score",
		mcp.Required(),
		mcp.Description("Current SEO score of the post"),
	),
)

// applyLocalHeuristicsTool defines the apply_local_heuristics MCP tool.
var applyLocalHeuristicsTool = mcp.NewTool("apply_local_heuristics",
	mcp.WithDescription("Insert a title, meta description and keyword phrase when missing, without contacting any service."),
	mcp.WithString("html_code",
		mcp.Required(),
		mcp.Description("Full HTML of the blog post"),
	),
	mcp.WithString("focus_keyword",
		mcp.Required(),
		mcp.Description("Keyword to insert"),
	),
)

// optimizationStatsTool defines the optimization_stats MCP tool.
var optimizationStatsTool = mcp.NewTool("optimization_stats",
	mcp.WithDescription("Summarize recorded optimizations: totals per source and average improvement."),
)
