package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/sangkips/restaurant-pos/pkg/clock"
	"github.com/sangkips/restaurant-pos/pkg/logger"
	"github.com/sangkips/restaurant-pos/pkg/printer"
	"go.uber.org/zap"
)

const ticketDateLayout = "02/01/2006 15:04"

// PrinterService renders receipts and pre-bills as ESC/POS tickets and sends them to the printer
type PrinterService struct {
	printer     printer.Printer
	receiptRepo repository.ReceiptRepository
	orderRepo   repository.OrderRepository
	configRepo  repository.BusinessConfigRepository
	clock       clock.Clock
	width       int
}

// NewPrinterService creates a new printer service
func NewPrinterService(
	p printer.Printer,
	receiptRepo repository.ReceiptRepository,
	orderRepo repository.OrderRepository,
	configRepo repository.BusinessConfigRepository,
	clk clock.Clock,
	width int,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		receiptRepo: receiptRepo,
		orderRepo:   orderRepo,
		configRepo:  configRepo,
		clock:       clk,
		width:       width,
	}
}

// PrinterStatus reports the configured printer
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// PrintJob is the outcome of a print request. Printed is false when no printer is configured.
type PrintJob struct {
	Printed bool   `json:"printed"`
	Bytes   int    `json:"bytes"`
	Preview string `json:"preview"`
}

// Status returns printer connection status
func (s *PrinterService) Status(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Kind() != printer.KindNone,
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printer.Kind(),
	}
}

// PrintReceipt prints an issued (or voided) receipt
func (s *PrinterService) PrintReceipt(ctx context.Context, receiptID uuid.UUID) (*PrintJob, error) {
	receipt, err := s.receiptRepo.GetWithOrder(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, apperror.ErrConfigurationMissing
	}

	data := FormatReceipt(cfg, receipt, s.clock.Location(), s.width)
	return s.send(ctx, data, zap.String("receipt_id", receiptID.String()))
}

// PrintPreBill prints the running account of an open order so guests can check it before paying
func (s *PrinterService) PrintPreBill(ctx context.Context, orderID uuid.UUID) (*PrintJob, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Status.IsTerminal() {
		return nil, apperror.NewInvalidStateError("Pre-bills can only be printed for open orders")
	}
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, apperror.ErrConfigurationMissing
	}

	data := FormatPreBill(cfg, order, s.clock.Now(), s.clock.Location(), s.width)
	return s.send(ctx, data, zap.String("order_id", orderID.String()))
}

func (s *PrinterService) send(ctx context.Context, data []byte, field zap.Field) (*PrintJob, error) {
	job := &PrintJob{
		Printed: s.printer.Kind() != printer.KindNone,
		Bytes:   len(data),
		Preview: Preview(data),
	}
	if err := s.printer.Print(ctx, data); err != nil {
		logger.FromContext(ctx).Error("print failed", field, zap.Error(err))
		return nil, apperror.NewAppError(http.StatusServiceUnavailable, "Printer unavailable")
	}
	return job, nil
}

// FormatReceipt renders an issued receipt as ESC/POS bytes
func FormatReceipt(cfg *entity.BusinessConfig, r *entity.Receipt, loc *time.Location, width int) []byte {
	doc := printer.NewDocument(width)
	header(doc, cfg)

	doc.Align(printer.AlignCenter).Bold(true).Line(documentTitle(r.Type))
	if code := r.Code(); code != "" {
		doc.Line(code)
	}
	doc.Bold(false).Align(printer.AlignLeft).Rule('-')

	doc.Columns("Fecha:", r.IssuedAt.In(loc).Format(ticketDateLayout))
	if r.Order != nil && r.Order.Table != nil {
		doc.Columns("Mesa:", fmt.Sprintf("%d", r.Order.Table.Number))
	}
	if r.User != nil {
		doc.Columns("Cajero:", r.User.Name)
	}
	if r.CustomerDoc != nil {
		label := "DNI:"
		if r.Type == enum.ReceiptTypeFactura {
			label = "RUC:"
		}
		doc.Columns(label, *r.CustomerDoc)
	}
	if r.CustomerName != nil {
		doc.Line("Cliente: " + *r.CustomerName)
	}
	if r.CustomerAddress != nil {
		doc.Line("Dir.: " + *r.CustomerAddress)
	}
	doc.Rule('-')

	if r.Order != nil {
		items(doc, r.Order.Details)
		doc.Rule('-')
	}

	doc.Columns("Op. gravada:", formatCents(r.SubTotal))
	doc.Columns(fmt.Sprintf("IGV (%s%%):", cfg.TaxRate.StringFixed(2)), formatCents(r.Tax))
	doc.Bold(true).Columns("TOTAL "+cfg.Currency+":", formatCents(r.Total)).Bold(false)
	doc.Columns("Pago:", strings.ToUpper(r.PaymentMethod.String()))

	if r.IsVoided() {
		doc.Rule('*').Align(printer.AlignCenter).Bold(true).Line("ANULADO")
		if r.VoidReason != nil {
			doc.Bold(false).Line(*r.VoidReason)
		}
		doc.Bold(false).Align(printer.AlignLeft).Rule('*')
	}

	doc.Align(printer.AlignCenter).Feed(1).Line("Gracias por su preferencia").Align(printer.AlignLeft)
	return doc.Feed(3).Cut().Bytes()
}

// FormatPreBill renders the running account of an order
func FormatPreBill(cfg *entity.BusinessConfig, o *entity.Order, now time.Time, loc *time.Location, width int) []byte {
	doc := printer.NewDocument(width)
	header(doc, cfg)

	doc.Align(printer.AlignCenter).Bold(true).Line("PRE-CUENTA").Bold(false).Align(printer.AlignLeft).Rule('-')
	doc.Columns("Fecha:", now.In(loc).Format(ticketDateLayout))
	if o.Table != nil {
		doc.Columns("Mesa:", fmt.Sprintf("%d", o.Table.Number))
	}
	doc.Columns("Personas:", fmt.Sprintf("%d", o.Guests))
	doc.Rule('-')

	items(doc, o.Details)
	doc.Rule('-')

	doc.Columns("Subtotal:", formatCents(o.SubTotal))
	if o.Discount > 0 {
		doc.Columns("Descuento:", "-"+formatCents(o.Discount))
	}
	doc.Columns("IGV:", formatCents(o.Tax))
	doc.Bold(true).Columns("TOTAL "+cfg.Currency+":", formatCents(o.Total)).Bold(false)

	doc.Align(printer.AlignCenter).Feed(1).Line("No válido como comprobante").Align(printer.AlignLeft)
	return doc.Feed(3).Cut().Bytes()
}

// Preview strips ESC/POS control sequences, leaving the printable text
func Preview(data []byte) string {
	var b strings.Builder
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case printer.ESC, printer.GS:
			// ESC @ has no argument; every other command has one
			if i+1 < len(data) && data[i+1] == '@' {
				i++
			} else {
				i += 2
			}
		default:
			b.WriteByte(data[i])
		}
	}
	return b.String()
}

func header(doc *printer.Document, cfg *entity.BusinessConfig) {
	doc.Align(printer.AlignCenter).Bold(true).Size(printer.FontDouble).
		Line(cfg.BusinessName).
		Size(printer.FontNormal).Bold(false)
	if cfg.TaxID != "" {
		doc.Line("RUC " + cfg.TaxID)
	}
	if cfg.Address != "" {
		doc.Line(cfg.Address)
	}
	if cfg.Phone != "" {
		doc.Line("Tel. " + cfg.Phone)
	}
	doc.Align(printer.AlignLeft)
}

func items(doc *printer.Document, details []entity.OrderDetail) {
	for _, d := range details {
		name := "Producto"
		if d.Product != nil && d.Product.Name != "" {
			name = d.Product.Name
		}
		doc.Item(d.Quantity, name, formatCents(d.SubTotal))
		if d.Quantity > 1 {
			doc.Linef("  @ %s c/u", formatCents(d.UnitPrice))
		}
	}
}

func documentTitle(t enum.ReceiptType) string {
	switch t {
	case enum.ReceiptTypeBoleta:
		return "BOLETA DE VENTA"
	case enum.ReceiptTypeFactura:
		return "FACTURA"
	default:
		return "TICKET DE VENTA"
	}
}

func formatCents(cents int64) string {
	return fromCents(cents).StringFixed(2)
}
