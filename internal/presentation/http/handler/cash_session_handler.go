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

// CashSessionHandler handles cashier shift HTTP requests
type CashSessionHandler struct {
	sessionService *service.CashSessionService
	clock          clock.Clock
}

// NewCashSessionHandler creates a new cash session handler
func NewCashSessionHandler(sessionService *service.CashSessionService, clk clock.Clock) *CashSessionHandler {
	return &CashSessionHandler{sessionService: sessionService, clock: clk}
}

// Open starts a shift for the authenticated cashier
func (h *CashSessionHandler) Open(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.OpenCashSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.sessionService.Open(c.Request.Context(), userID, service.ToCents(req.OpeningFloat), req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Cash session opened successfully", session)
}

// Close closes a shift with the declared cash count
func (h *CashSessionHandler) Close(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request.CloseCashSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.sessionService.Close(c.Request.Context(), &service.CloseCashSessionInput{
		SessionID: id,
		ActorID:   userID,
		Declared:  service.ToCents(*req.DeclaredAmount),
		Notes:     req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash session closed successfully", session)
}

// Current returns the authenticated cashier's open session with running expected cash
func (h *CashSessionHandler) Current(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	current, err := h.sessionService.CurrentStatus(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Current cash session retrieved successfully", current)
}

// History lists sessions. Admins see every cashier, others only their own.
func (h *CashSessionHandler) History(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var q request.CashSessionFilterRequest
	if !bindQuery(c, &q) {
		return
	}

	var errs []apperror.FieldError
	params := &repository.CashSessionFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    q.Page,
			PerPage: q.PerPage,
		},
		Status: parseEnum(q.Status, "status", enum.ParseCashSessionStatus, &errs),
	}
	params.From, params.To = parseDateRange(q.From, q.To, h.clock.Location(), &errs)
	if len(errs) > 0 {
		response.ValidationError(c, errs)
		return
	}

	result, err := h.sessionService.History(c.Request.Context(), userID, IsAdmin(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Cash sessions retrieved successfully", result)
}

// Get returns a session with the receipt totals of its opening day
func (h *CashSessionHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.sessionService.GetDetail(c.Request.Context(), id, userID, IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash session retrieved successfully", detail)
}
