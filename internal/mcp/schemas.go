package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// phoneSchema is the shared phone parameter definition
func phoneSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// searchByNameTool returns the tool definition for search_by_name
func searchByNameTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_by_name",
		Description: "Search registered users and address-book entries by name. Exact matches rank above prefix matches, which rank above substring matches; registered users come first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Name or part of a name (case-insensitive)",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "1-indexed page of 20 results; invalid values mean page 1",
					"default":     1,
					"minimum":     1,
				},
			},
			Required: []string{"query"},
		},
	}
}

// searchByPhoneTool returns the tool definition for search_by_phone
func searchByPhoneTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_by_phone",
		Description: "Look up who a phone number belongs to, with its spam likelihood. Returns [] when nobody knows the number.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"phone": phoneSchema("Phone number; spaces are ignored and a leading + is added when missing"),
			},
			Required: []string{"phone"},
		},
	}
}

// reportSpamTool returns the tool definition for report_spam
func reportSpamTool() mcp.Tool {
	return mcp.Tool{
		Name:        "report_spam",
		Description: "Report a phone number as spam. One active report per number; your own number cannot be reported.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"phone": phoneSchema("Phone number to report"),
			},
			Required: []string{"phone"},
		},
	}
}

// retractSpamReportTool returns the tool definition for retract_spam_report
func retractSpamReportTool() mcp.Tool {
	return mcp.Tool{
		Name:        "retract_spam_report",
		Description: "Retract your active spam report for a phone number",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"phone": phoneSchema("Phone number previously reported"),
			},
			Required: []string{"phone"},
		},
	}
}

// getSpamStatusTool returns the tool definition for get_spam_status
func getSpamStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_spam_status",
		Description: "Spam likelihood and report counts for a phone number, and whether you reported it or have it as a contact",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"phone": phoneSchema("Phone number to inspect"),
			},
			Required: []string{"phone"},
		},
	}
}

// getSpamStatisticsTool returns the tool definition for get_spam_statistics
func getSpamStatisticsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_spam_statistics",
		Description: "System-wide spam report statistics: totals, most reported numbers, likelihood distribution, weekday and peak-hour breakdowns (UTC)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
