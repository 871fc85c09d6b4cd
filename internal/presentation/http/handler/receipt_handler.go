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
)

// ReceiptHandler handles receipt issue, void and queries
type ReceiptHandler struct {
	receiptService *service.ReceiptService
	clock          clock.Clock
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService, clk clock.Clock) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService, clock: clk}
}

// Issue issues a receipt for an order and marks it paid
func (h *ReceiptHandler) Issue(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.IssueReceiptRequest
	if !bindJSON(c, &req) {
		return
	}

	var errs []apperror.FieldError
	docType := parseEnum(req.Type, "type", enum.ParseReceiptType, &errs)
	method := parseEnum(req.PaymentMethod, "payment_method", enum.ParsePaymentMethod, &errs)
	if len(errs) > 0 {
		response.ValidationError(c, errs)
		return
	}

	receipt, err := h.receiptService.Issue(c.Request.Context(), &service.IssueReceiptInput{
		OrderID:         req.OrderID,
		UserID:          userID,
		Type:            *docType,
		PaymentMethod:   *method,
		CustomerDoc:     req.CustomerDoc,
		CustomerName:    req.CustomerName,
		CustomerAddress: req.CustomerAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt issued successfully", receipt)
}

// Void voids an issued receipt. Its number stays used.
func (h *ReceiptHandler) Void(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request.VoidReceiptRequest
	if !bindJSON(c, &req) {
		return
	}

	receipt, err := h.receiptService.Void(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt voided successfully", receipt)
}

// Get returns a receipt with its order
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved successfully", receipt)
}

// List handles listing receipts
func (h *ReceiptHandler) List(c *gin.Context) {
	var q request.ReceiptFilterRequest
	if !bindQuery(c, &q) {
		return
	}

	var errs []apperror.FieldError
	params := &repository.ReceiptFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    q.Page,
			PerPage: q.PerPage,
		},
		Type:          parseEnum(q.Type, "type", enum.ParseReceiptType, &errs),
		Status:        parseEnum(q.Status, "status", enum.ParseReceiptStatus, &errs),
		PaymentMethod: parseEnum(q.PaymentMethod, "payment_method", enum.ParsePaymentMethod, &errs),
	}
	params.From, params.To = parseDateRange(q.From, q.To, h.clock.Location(), &errs)
	if len(errs) > 0 {
		response.ValidationError(c, errs)
		return
	}

	result, err := h.receiptService.ListReceipts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Receipts retrieved successfully", result)
}

// DailySummary returns today's issued receipts grouped by type and payment method
func (h *ReceiptHandler) DailySummary(c *gin.Context) {
	summary, err := h.receiptService.DailySummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Daily summary retrieved successfully", summary)
}
