// Package tools публикует операции над заказами как MCP-инструменты.
// Контракт инструментов: любой исход, включая ошибки валидации и домена,
// возвращается текстовым результатом, а не протокольной ошибкой, чтобы
// модель могла пересказать его пользователю.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/signal-orders/internal/render"
	"github.com/vladislavdragonenkov/signal-orders/internal/service/mutation"
)

// ServerName — имя MCP-сервера.
const ServerName = "signal-orders"

// Handlers содержит обработчики MCP-инструментов.
type Handlers struct {
	engine *mutation.Engine
	logger *log.Entry
}

// NewHandlers создаёт обработчики поверх движка мутаций.
func NewHandlers(engine *mutation.Engine) *Handlers {
	return &Handlers{
		engine: engine,
		logger: log.WithField("component", "mcp-tools"),
	}
}

// NewServer создаёт MCP-сервер с зарегистрированными инструментами.
func NewServer(engine *mutation.Engine, version string) *server.MCPServer {
	h := NewHandlers(engine)

	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s.AddTool(h.GetOrderTool(), h.GetOrder)
	s.AddTool(h.ModifyOrderTool(), h.ModifyOrder)

	return s
}

// GetOrderTool описывает инструмент getOrder.
func (h *Handlers) GetOrderTool() mcp.Tool {
	return mcp.NewTool("getOrder",
		mcp.WithDescription("Retrieve purchase order details by order ID"),
		mcp.WithString("orderId",
			mcp.Required(),
			mcp.Description("The 8-digit order ID, e.g. 15053222"),
		),
	)
}

// ModifyOrderTool описывает инструмент modifyOrder.
func (h *Handlers) ModifyOrderTool() mcp.Tool {
	return mcp.NewTool("modifyOrder",
		mcp.WithDescription("Modify a line item of a DRAFT purchase order"),
		mcp.WithString("orderId",
			mcp.Required(),
			mcp.Description("The 8-digit order ID"),
		),
		mcp.WithString("lineItemId",
			mcp.Required(),
			mcp.Description("The line item ID, e.g. item-001"),
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("The modification to apply"),
			mcp.Enum(string(mutation.OpUpdateQuantity), string(mutation.OpRemoveItem)),
		),
		mcp.WithNumber("newQuantity",
			mcp.Description("New quantity for updateQuantity, must be a positive integer"),
		),
	)
}

// GetOrder возвращает карточку заказа.
func (h *Handlers) GetOrder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	orderID, err := req.RequireString("orderId")
	if err != nil {
		return mcp.NewToolResultText("Error: Order ID is required."), nil
	}

	order, err := h.engine.Get(ctx, orderID)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", orderID).Debug("getOrder failed")
		return mcp.NewToolResultText(render.Failure(err)), nil
	}

	return mcp.NewToolResultText(render.Order(order)), nil
}

// ModifyOrder выполняет мутацию заказа. lineItemId передаётся движку как
// ссылка на позицию: правило item-id разрешит его точно так же, как любую
// другую ссылку.
func (h *Handlers) ModifyOrder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	orderID := req.GetString("orderId", "")
	lineItemID := req.GetString("lineItemId", "")
	action := req.GetString("action", "")
	if orderID == "" || lineItemID == "" || action == "" {
		return mcp.NewToolResultText(
			"Error: Order ID, Line Item ID, and action are required. Actions: updateQuantity, removeItem"), nil
	}

	op := mutation.Operation(action)
	if op != mutation.OpUpdateQuantity && op != mutation.OpRemoveItem {
		return mcp.NewToolResultText(
			"Error: Invalid action. Supported actions: updateQuantity, removeItem"), nil
	}

	modifyReq := mutation.ModifyRequest{
		OrderID:   orderID,
		Reference: lineItemID,
		Op:        op,
	}
	if op == mutation.OpUpdateQuantity {
		quantity := req.GetFloat("newQuantity", 0)
		if quantity <= 0 || quantity != float64(int(quantity)) {
			return mcp.NewToolResultText(
				"Error: newQuantity must be a positive integer for updateQuantity."), nil
		}
		modifyReq.Quantity = int(quantity)
	}

	result, err := h.engine.Modify(ctx, modifyReq)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", orderID).Debug("modifyOrder failed")
		return mcp.NewToolResultText(render.Failure(err)), nil
	}

	if result.Op == mutation.OpRemoveItem {
		return mcp.NewToolResultText(render.RemoveSuccess(result.Order, result.Item)), nil
	}
	return mcp.NewToolResultText(render.UpdateSuccess(result.Order, result.Item, result.OldQuantity)), nil
}
