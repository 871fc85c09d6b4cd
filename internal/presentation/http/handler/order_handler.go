package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-pos/internal/application/service"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/restaurant-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/sangkips/restaurant-pos/pkg/clock"
	"github.com/sangkips/restaurant-pos/pkg/pagination"
	"github.com/sangkips/restaurant-pos/pkg/utils"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	clock        clock.Clock
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, clk clock.Clock) *OrderHandler {
	return &OrderHandler{orderService: orderService, clock: clk}
}

// List handles listing orders
func (h *OrderHandler) List(c *gin.Context) {
	var q request.OrderFilterRequest
	if !bindQuery(c, &q) {
		return
	}

	var errs []apperror.FieldError
	params := &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    q.Page,
			PerPage: q.PerPage,
		},
		Status:      parseEnum(q.Status, "status", enum.ParseOrderStatus, &errs),
		ServiceType: parseEnum(q.ServiceType, "service_type", enum.ParseServiceType, &errs),
	}
	params.From, params.To = parseDateRange(q.From, q.To, h.clock.Location(), &errs)
	if id, err := utils.ParseOptionalUUID(q.TableID); err != nil {
		errs = append(errs, apperror.FieldError{Field: "table_id", Message: "must be a UUID"})
	} else {
		params.TableID = id
	}
	if len(errs) > 0 {
		response.ValidationError(c, errs)
		return
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// Active returns pending, in-preparation and served orders
func (h *OrderHandler) Active(c *gin.Context) {
	orders, err := h.orderService.ActiveOrders(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Active orders retrieved successfully", orders)
}

// Kitchen returns the orders with lines still to prepare
func (h *OrderHandler) Kitchen(c *gin.Context) {
	orders, err := h.orderService.KitchenOrders(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Kitchen orders retrieved successfully", orders)
}

// Get handles getting a single order with its lines
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// Create handles order creation
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	serviceType, valid := enum.ParseServiceType(req.ServiceType)
	if !valid {
		response.Error(c, apperror.NewFieldValidationError("service_type", "unknown service type "+req.ServiceType))
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &service.CreateOrderInput{
		UserID:      userID,
		ServiceType: serviceType,
		TableID:     req.TableID,
		Guests:      req.Guests,
		Notes:       req.Notes,
		Items:       toItemInputs(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// AddItems appends lines to an open order
func (h *OrderHandler) AddItems(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request.AddItemsRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.AddItems(c.Request.Context(), id, toItemInputs(req.Items))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Items added successfully", order)
}

// UpdateStatus moves an order to another state
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, valid := enum.ParseOrderStatus(req.Status)
	if !valid {
		response.Error(c, apperror.NewFieldValidationError("status", "unknown order status "+req.Status))
		return
	}

	order, err := h.orderService.ChangeState(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated successfully", order)
}

// Cancel cancels an order, restoring stock and freeing its table
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled successfully", order)
}

// UpdateLineStatus advances a line through the kitchen
func (h *OrderHandler) UpdateLineStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	detailID, ok := uuidParam(c, "detail_id")
	if !ok {
		return
	}
	var req request.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, valid := enum.ParseLineStatus(req.Status)
	if !valid {
		response.Error(c, apperror.NewFieldValidationError("status", "unknown line status "+req.Status))
		return
	}

	detail, err := h.orderService.UpdateLineStatus(c.Request.Context(), id, detailID, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line status updated successfully", detail)
}

func toItemInputs(items []request.OrderItemRequest) []service.OrderItemInput {
	inputs := make([]service.OrderItemInput, 0, len(items))
	for _, it := range items {
		inputs = append(inputs, service.OrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Notes:     it.Notes,
		})
	}
	return inputs
}
