package request

import "github.com/shopspring/decimal"

// UpdateBusinessConfigRequest edits the business configuration. Omitted fields are unchanged.
// Timezone is bound only so that an attempt to change it can be rejected.
type UpdateBusinessConfigRequest struct {
	BusinessName   *string          `json:"business_name"`
	TaxID          *string          `json:"tax_id"`
	Address        *string          `json:"address"`
	Phone          *string          `json:"phone"`
	IssuesBoletas  *bool            `json:"issues_boletas"`
	IssuesFacturas *bool            `json:"issues_facturas"`
	SeriesBoleta   *string          `json:"series_boleta"`
	SeriesFactura  *string          `json:"series_factura"`
	TaxRate        *decimal.Decimal `json:"tax_rate"`
	Currency       *string          `json:"currency"`
	Timezone       *string          `json:"timezone"`
}
