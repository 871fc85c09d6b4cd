package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-pos/internal/application/service"
	"github.com/sangkips/restaurant-pos/internal/presentation/http/dto/response"
)

// PrinterHandler handles ticket printing
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus reports whether a printer is configured and reachable
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.Status(c.Request.Context()))
}

// PrintReceipt prints a receipt ticket
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	job, err := h.printerService.PrintReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt sent to printer", job)
}

// PrintPreBill prints the running account of an open order
func (h *PrinterHandler) PrintPreBill(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	job, err := h.printerService.PrintPreBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pre-bill sent to printer", job)
}
