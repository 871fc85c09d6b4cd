package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/sangkips/restaurant-pos/internal/infrastructure/repository"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/sangkips/restaurant-pos/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPrinter struct {
	jobs [][]byte
	err  error
}

func (p *recordingPrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *recordingPrinter) IsConnected(context.Context) bool { return p.err == nil }
func (p *recordingPrinter) Kind() string                     { return printer.KindNetwork }

func newPrinterService(env *testEnv, p printer.Printer) *PrinterService {
	return NewPrinterService(
		p,
		repository.NewReceiptRepository(env.db),
		repository.NewOrderRepository(env.db),
		repository.NewBusinessConfigRepository(env.db),
		env.clock,
		printer.Width80mm,
	)
}

func TestPrintReceipt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	table := env.table(t, 7)
	lomo := env.dish(t, "Lomo saltado", "35.50")
	order, err := env.orders.CreateOrder(ctx, &CreateOrderInput{
		UserID:      env.waiter,
		ServiceType: enum.ServiceTypeDineIn,
		TableID:     &table.ID,
		Items:       []OrderItemInput{{ProductID: lomo.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	receipt, err := env.receipts.Issue(ctx, issueInput(env, order.ID, enum.ReceiptTypeBoleta, enum.PaymentMethodCash))
	require.NoError(t, err)

	rec := &recordingPrinter{}
	job, err := newPrinterService(env, rec).PrintReceipt(ctx, receipt.ID)
	require.NoError(t, err)
	require.Len(t, rec.jobs, 1)
	assert.True(t, job.Printed)
	assert.Equal(t, len(rec.jobs[0]), job.Bytes)

	for _, want := range []string{
		"La Cevichería",
		"BOLETA DE VENTA",
		"B001-000001",
		"15/10/2026 10:00",
		"Mesa:",
		"Rosa",
		"2x Lomo saltado",
		"@ 35.50 c/u",
		"71.00",
		"IGV (18.00%):",
		"12.78",
		"TOTAL PEN:",
		"83.78",
		"CASH",
	} {
		assert.Contains(t, job.Preview, want)
	}
	assert.NotContains(t, job.Preview, "ANULADO")
	assert.NotContains(t, job.Preview, "\x1b")
}

func TestPrintReceipt_Voided(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.takeoutOrder(t, env.dish(t, "Causa", "18.00"))
	receipt, err := env.receipts.Issue(ctx, issueInput(env, order.ID, enum.ReceiptTypeBoleta, enum.PaymentMethodCash))
	require.NoError(t, err)
	_, err = env.receipts.Void(ctx, receipt.ID, "monto errado")
	require.NoError(t, err)

	job, err := newPrinterService(env, &recordingPrinter{}).PrintReceipt(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Contains(t, job.Preview, "ANULADO")
	assert.Contains(t, job.Preview, "monto errado")
}

func TestPrintPreBill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.takeoutOrder(t, env.dish(t, "Arroz con mariscos", "42.00"))
	svc := newPrinterService(env, &recordingPrinter{})

	job, err := svc.PrintPreBill(ctx, order.ID)
	require.NoError(t, err)
	assert.Contains(t, job.Preview, "PRE-CUENTA")
	assert.Contains(t, job.Preview, "1x Arroz con mariscos")
	assert.Contains(t, job.Preview, "49.56")

	_, err = env.receipts.Issue(ctx, issueInput(env, order.ID, enum.ReceiptTypeNone, enum.PaymentMethodCash))
	require.NoError(t, err)
	_, err = svc.PrintPreBill(ctx, order.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestPrintReceipt_PrinterOffline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.takeoutOrder(t, env.dish(t, "Tacu tacu", "24.00"))
	receipt, err := env.receipts.Issue(ctx, issueInput(env, order.ID, enum.ReceiptTypeNone, enum.PaymentMethodCash))
	require.NoError(t, err)

	svc := newPrinterService(env, &recordingPrinter{err: errors.New("connection refused")})
	assert.False(t, svc.Status(ctx).Connected)

	_, err = svc.PrintReceipt(ctx, receipt.ID)
	require.Error(t, err)
	assert.Equal(t, 503, apperror.GetAppError(err).Code)
}

func TestPreviewStripsControlBytes(t *testing.T) {
	data := printer.NewDocument(32).Bold(true).Line("Hola").Bold(false).Cut().Bytes()
	assert.Equal(t, "Hola\n", Preview(data))
}
