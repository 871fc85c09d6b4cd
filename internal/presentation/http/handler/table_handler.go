package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-pos/internal/application/service"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/restaurant-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
)

// TableHandler handles dining table HTTP requests
type TableHandler struct {
	tableService *service.TableService
}

// NewTableHandler creates a new table handler
func NewTableHandler(tableService *service.TableService) *TableHandler {
	return &TableHandler{tableService: tableService}
}

// List returns tables, optionally filtered by state, location and capacity
func (h *TableHandler) List(c *gin.Context) {
	var q request.TableFilterRequest
	if !bindQuery(c, &q) {
		return
	}

	var errs []apperror.FieldError
	params := &repository.TableFilterParams{
		Status:      parseEnum(q.Status, "status", enum.ParseTableStatus, &errs),
		Location:    q.Location,
		MinCapacity: q.MinCapacity,
	}
	if len(errs) > 0 {
		response.ValidationError(c, errs)
		return
	}

	tables, err := h.tableService.ListTables(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tables retrieved successfully", tables)
}

// Free returns the free tables
func (h *TableHandler) Free(c *gin.Context) {
	tables, err := h.tableService.FreeTables(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Free tables retrieved successfully", tables)
}

// Occupied returns occupied tables with their active orders
func (h *TableHandler) Occupied(c *gin.Context) {
	tables, err := h.tableService.OccupiedTables(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Occupied tables retrieved successfully", tables)
}

// Summary returns table counts per state
func (h *TableHandler) Summary(c *gin.Context) {
	summary, err := h.tableService.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Table summary retrieved successfully", summary)
}

// Get returns a table
func (h *TableHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	table, err := h.tableService.GetTable(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Table retrieved successfully", table)
}

// Create creates a table
func (h *TableHandler) Create(c *gin.Context) {
	var req request.TableRequest
	if !bindJSON(c, &req) {
		return
	}

	table, err := h.tableService.CreateTable(c.Request.Context(), &service.TableInput{
		Number:   req.Number,
		Capacity: req.Capacity,
		Location: req.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Table created successfully", table)
}

// Update edits a table's number, capacity or location
func (h *TableHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request.TableRequest
	if !bindJSON(c, &req) {
		return
	}

	table, err := h.tableService.UpdateTable(c.Request.Context(), id, &service.TableInput{
		Number:   req.Number,
		Capacity: req.Capacity,
		Location: req.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Table updated successfully", table)
}

// ChangeStatus overrides the state of a table
func (h *TableHandler) ChangeStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req request.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, valid := enum.ParseTableStatus(req.Status)
	if !valid {
		response.Error(c, apperror.NewFieldValidationError("status", "unknown table status "+req.Status))
		return
	}

	table, err := h.tableService.ChangeStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Table status updated successfully", table)
}

// Delete removes a table that has never been used
func (h *TableHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.tableService.DeleteTable(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Table deleted successfully", nil)
}
