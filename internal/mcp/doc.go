// Package mcp exposes the caller-ID directory as Model Context Protocol tools.
//
// Tools:
//   - search_by_name: ranked, paginated name search over accounts and contacts
//   - search_by_phone: who holds a number, with its spam likelihood
//   - report_spam / retract_spam_report: the spam write path
//   - get_spam_status: one number's reputation from the caller's view
//   - get_spam_statistics: system-wide report statistics
//
// # Transports
//
// stdio (default) serves a single local principal identified by the
// CALLERID_TOKEN JWT:
//
//	CALLERID_TOKEN=eyJ... callerid
//
// http serves the streamable HTTP transport at /mcp, with /metrics and
// /healthz on the same listener. Each request carries its own bearer token:
//
//	CALLERID_TRANSPORT=http CALLERID_ADDR=:8080 callerid
//	curl -H "Authorization: Bearer eyJ..." http://localhost:8080/mcp ...
//
// # Errors
//
// Handlers return *MCPError values with these codes:
//
//	-32602 invalid params (bad query, malformed phone, self report)
//	-32603 internal error
//	-32001 no active report to retract
//	-32002 duplicate active report
//	-32003 missing or unknown requester
//
// # Example
//
//	Request:
//	{
//	  "name": "search_by_name",
//	  "arguments": {"query": "john", "page": 1}
//	}
//
//	Response:
//	{
//	  "results": [
//	    {
//	      "name": "John Smith",
//	      "phone_number": "+15550000001",
//	      "spam_likelihood": 0,
//	      "is_registered_user": true
//	    }
//	  ],
//	  "total_pages": 1,
//	  "current_page": 1,
//	  "total_results": 1
//	}
package mcp
