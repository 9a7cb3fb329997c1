// MCP transport handler using the official MCP Go SDK.
// Exposes the export operations as MCP tools so agents can drive the
// bridge without the REST surface.
package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"sheets-bridge/internal/catalog"
	"sheets-bridge/internal/export"
	"sheets-bridge/internal/model"
	"sheets-bridge/internal/script"
)

// === MCP Tool Input/Output Types ===

// ExportOrderInput is the input schema for the export_order tool.
type ExportOrderInput struct {
	OrderID int `json:"order_id" jsonschema:"order ID to export,required"`
}

// BackfillOrdersInput is the input schema for the backfill_orders tool.
type BackfillOrdersInput struct {
	Statuses []string `json:"statuses,omitempty" jsonschema:"order statuses to include"`
	After    string   `json:"after,omitempty" jsonschema:"only orders created after this RFC 3339 time"`
	Before   string   `json:"before,omitempty" jsonschema:"only orders created before this RFC 3339 time"`
	PerPage  int      `json:"per_page,omitempty" jsonschema:"page size when walking orders"`
	MaxPages int      `json:"max_pages,omitempty" jsonschema:"maximum pages to walk, 0 for all"`
}

// ListFieldsInput is the input schema for the list_fields tool.
type ListFieldsInput struct{}

// GenerateScriptInput is the input schema for the generate_script tool.
type GenerateScriptInput struct {
	Mode     string `json:"mode,omitempty" jsonschema:"sheet mode: single, monthly, daily, weekly, product, or custom"`
	Template string `json:"template,omitempty" jsonschema:"sheet name template for custom mode"`
}

// GenerateScriptOutput carries the generated Apps Script source.
type GenerateScriptOutput struct {
	Source string `json:"source"`
}

// NewMCPServer creates an MCP server with the export tools registered.
// The server exposes the same operations as the REST API but via MCP protocol.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "sheets-bridge",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "WooCommerce to Google Sheets export bridge. " +
				"Use these tools to export orders, backfill history, and generate the sheet script.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_order",
		Description: "Export a single order to the configured Google Sheet.",
	}, h.mcpExportOrder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "backfill_orders",
		Description: "Walk historical orders and export each eligible one. Pro feature.",
	}, h.mcpBackfillOrders)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_fields",
		Description: "List the exportable field catalog with pro and always-include flags.",
	}, h.mcpListFields)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_script",
		Description: "Generate the Apps Script source for the configured field selection.",
	}, h.mcpGenerateScript)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

func (h *Handler) mcpExportOrder(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ExportOrderInput,
) (*mcp.CallToolResult, *exportResponse, error) {
	if input.OrderID <= 0 {
		return nil, nil, fmt.Errorf("order_id is required")
	}

	order, err := h.source.GetOrder(ctx, input.OrderID)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}

	result := h.dispatcher.Export(ctx, order)
	if result.State == export.StateFailed {
		return nil, nil, h.mcpError(result.Err)
	}

	return nil, &exportResponse{
		OrderID:  input.OrderID,
		State:    string(result.State),
		Reason:   result.Reason,
		Attempts: result.Attempts,
	}, nil
}

func (h *Handler) mcpBackfillOrders(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input BackfillOrdersInput,
) (*mcp.CallToolResult, *export.BackfillSummary, error) {
	if !h.scriptOpts.ProActive {
		return nil, nil, fmt.Errorf("PRO_REQUIRED: backfill requires an active pro license")
	}

	query := model.OrderQuery{
		Statuses: input.Statuses,
		PerPage:  input.PerPage,
	}
	if input.After != "" {
		t, err := time.Parse(time.RFC3339, input.After)
		if err != nil {
			return nil, nil, fmt.Errorf("after must be RFC 3339")
		}
		query.After = t
	}
	if input.Before != "" {
		t, err := time.Parse(time.RFC3339, input.Before)
		if err != nil {
			return nil, nil, fmt.Errorf("before must be RFC 3339")
		}
		query.Before = t
	}

	summary, err := h.dispatcher.Backfill(ctx, h.source, export.BackfillParams{
		Query:    query,
		MaxPages: input.MaxPages,
	}, h.logger)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}

	return nil, &summary, nil
}

func (h *Handler) mcpListFields(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListFieldsInput,
) (*mcp.CallToolResult, *fieldsResponse, error) {
	return nil, &fieldsResponse{Fields: catalog.Fields()}, nil
}

func (h *Handler) mcpGenerateScript(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input GenerateScriptInput,
) (*mcp.CallToolResult, *GenerateScriptOutput, error) {
	opts := h.scriptOpts

	if input.Mode != "" {
		mode, err := script.ParseMode(input.Mode)
		if err != nil {
			return nil, nil, err
		}
		opts.Mode = mode
	}
	if input.Template != "" {
		opts.Template = input.Template
	}

	src, err := script.Generate(opts)
	if err != nil {
		return nil, nil, err
	}

	return nil, &GenerateScriptOutput{Source: src}, nil
}

// mcpError converts pipeline errors to MCP-friendly errors.
func (h *Handler) mcpError(err error) error {
	if err == nil {
		return fmt.Errorf("internal error")
	}
	if apiErr, ok := err.(*model.APIError); ok {
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	// Don't leak internal error details
	h.logger.Error("mcp internal error", "error", err.Error())
	return fmt.Errorf("internal error")
}
