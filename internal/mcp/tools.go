package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/callerid-mcp/internal/auth"
	"github.com/dshills/callerid-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeNotFound        = -32001 // No active spam report to retract
	ErrorCodeDuplicateReport = -32002 // Requester already has an active report
	ErrorCodeUnauthenticated = -32003 // Missing or invalid requester identity
)

// handleSearchByName handles the search_by_name tool invocation
func (s *Server) handleSearchByName(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required", map[string]interface{}{
			"param":  "query",
			"reason": "missing",
		})
	}

	resp, err := s.searcher.SearchByName(ctx, query, auth.RequesterID(ctx), getPage(args))
	if err != nil {
		return nil, toMCPError(err)
	}
	return mcp.NewToolResultText(formatJSON(resp)), nil
}

// handleSearchByPhone handles the search_by_phone tool invocation
func (s *Server) handleSearchByPhone(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	phone, err := phoneArg(request)
	if err != nil {
		return nil, err
	}

	resp, err := s.searcher.SearchByPhone(ctx, phone, auth.RequesterID(ctx))
	if err != nil {
		return nil, toMCPError(err)
	}

	// No match renders as an empty list
	if resp.Result == nil {
		return mcp.NewToolResultText("[]"), nil
	}
	return mcp.NewToolResultText(formatJSON(resp.Result)), nil
}

// handleReportSpam handles the report_spam tool invocation
func (s *Server) handleReportSpam(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	phone, err := phoneArg(request)
	if err != nil {
		return nil, err
	}

	outcome, err := s.reputation.Report(ctx, auth.RequesterID(ctx), phone)
	if err != nil {
		return nil, toMCPError(err)
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"status":                  "success",
		"message":                 "Number reported as spam",
		"report_id":               outcome.ReportID,
		"phone_number":            outcome.PhoneNumber,
		"current_spam_likelihood": outcome.SpamLikelihood,
	})), nil
}

// handleRetractSpamReport handles the retract_spam_report tool invocation
func (s *Server) handleRetractSpamReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	phone, err := phoneArg(request)
	if err != nil {
		return nil, err
	}

	outcome, err := s.reputation.Retract(ctx, auth.RequesterID(ctx), phone)
	if err != nil {
		return nil, toMCPError(err)
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"status":                  "success",
		"message":                 "Spam report retracted successfully",
		"phone_number":            outcome.PhoneNumber,
		"current_spam_likelihood": outcome.SpamLikelihood,
	})), nil
}

// handleGetSpamStatus handles the get_spam_status tool invocation
func (s *Server) handleGetSpamStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	phone, err := phoneArg(request)
	if err != nil {
		return nil, err
	}

	status, err := s.reputation.Status(ctx, auth.RequesterID(ctx), phone)
	if err != nil {
		return nil, toMCPError(err)
	}
	return mcp.NewToolResultText(formatJSON(status)), nil
}

// handleGetSpamStatistics handles the get_spam_statistics tool invocation
func (s *Server) handleGetSpamStatistics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Statistics are system-wide but still limited to known accounts
	requesterID := auth.RequesterID(ctx)
	if requesterID == "" {
		return nil, toMCPError(types.ErrUnauthenticated)
	}
	if _, err := s.storage.GetAccount(ctx, requesterID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			err = types.ErrUnauthenticated
		}
		return nil, toMCPError(err)
	}

	stats, err := s.reputation.Statistics(ctx)
	if err != nil {
		return nil, toMCPError(err)
	}
	return mcp.NewToolResultText(formatJSON(stats)), nil
}

// Helper functions

// phoneArg extracts the required phone parameter
func phoneArg(request mcp.CallToolRequest) (string, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return "", newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	phone, ok := args["phone"].(string)
	if !ok {
		return "", newMCPError(ErrorCodeInvalidParams, "phone parameter is required", map[string]interface{}{
			"param":  "phone",
			"reason": "missing",
		})
	}
	return phone, nil
}

// getPage reads the page parameter as the raw string the searcher parses.
// JSON numbers arrive as float64.
func getPage(args map[string]interface{}) string {
	switch v := args["page"].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%d", int64(v))
	case int:
		return fmt.Sprintf("%d", v)
	default:
		return "1"
	}
}

// toMCPError maps domain errors onto MCP error codes
func toMCPError(err error) error {
	switch {
	case errors.Is(err, types.ErrInvalidQuery), errors.Is(err, types.ErrSelfReport):
		return newMCPError(ErrorCodeInvalidParams, err.Error(), nil)
	case errors.Is(err, types.ErrUnauthenticated):
		return newMCPError(ErrorCodeUnauthenticated, err.Error(), nil)
	case errors.Is(err, types.ErrDuplicateReport):
		return newMCPError(ErrorCodeDuplicateReport, err.Error(), nil)
	case errors.Is(err, types.ErrNotFound):
		return newMCPError(ErrorCodeNotFound, "No active spam report found for this number", nil)
	default:
		slog.Error("tool call failed", "error", err)
		return newMCPError(ErrorCodeInternalError, "internal error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a value as indented JSON
func formatJSON(data interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}
