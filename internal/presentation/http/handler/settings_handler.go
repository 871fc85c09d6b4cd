package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-pos/internal/application/service"
	"github.com/sangkips/restaurant-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/restaurant-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
)

// SettingsHandler exposes the business configuration
type SettingsHandler struct {
	configService *service.BusinessConfigService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(configService *service.BusinessConfigService) *SettingsHandler {
	return &SettingsHandler{configService: configService}
}

// GetSettings returns the business configuration
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	cfg, err := h.configService.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", cfg)
}

// UpdateSettings edits the business configuration. Document counters are not editable.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateBusinessConfigRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Timezone != nil {
		response.Error(c, apperror.NewFieldValidationError("timezone", "is read-only; set BUSINESS_TIMEZONE and restart"))
		return
	}

	cfg, err := h.configService.Update(c.Request.Context(), &service.UpdateBusinessConfigInput{
		BusinessName:   req.BusinessName,
		TaxID:          req.TaxID,
		Address:        req.Address,
		Phone:          req.Phone,
		IssuesBoletas:  req.IssuesBoletas,
		IssuesFacturas: req.IssuesFacturas,
		SeriesBoleta:   req.SeriesBoleta,
		SeriesFactura:  req.SeriesFactura,
		TaxRate:        req.TaxRate,
		Currency:       req.Currency,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", cfg)
}
