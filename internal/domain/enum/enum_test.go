package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_JSONRoundTripUsesNames(t *testing.T) {
	data, err := json.Marshal(OrderStatusInPreparation)
	require.NoError(t, err)
	assert.Equal(t, `"in_preparation"`, string(data))

	var s OrderStatus
	require.NoError(t, json.Unmarshal([]byte(`"cancelled"`), &s))
	assert.Equal(t, OrderStatusCancelled, s)
}

func TestUnmarshal_RejectsUnknownName(t *testing.T) {
	var m PaymentMethod
	assert.Error(t, json.Unmarshal([]byte(`"bitcoin"`), &m))

	var rt ReceiptType
	assert.Error(t, json.Unmarshal([]byte(`7`), &rt))
}

func TestUnmarshal_AcceptsNumericValue(t *testing.T) {
	var st TableStatus
	require.NoError(t, json.Unmarshal([]byte(`3`), &st))
	assert.Equal(t, TableStatusMaintenance, st)
}

func TestParse_IsCaseInsensitive(t *testing.T) {
	m, ok := ParsePaymentMethod(" Cash ")
	assert.True(t, ok)
	assert.Equal(t, PaymentMethodCash, m)

	_, ok = ParseServiceType("drive_thru")
	assert.False(t, ok)
}

func TestScan_HandlesDriverTypes(t *testing.T) {
	var s CashSessionStatus
	require.NoError(t, s.Scan(int64(1)))
	assert.Equal(t, CashSessionStatusClosed, s)

	require.NoError(t, s.Scan([]byte("0")))
	assert.Equal(t, CashSessionStatusOpen, s)

	require.NoError(t, s.Scan(nil))
	assert.Equal(t, CashSessionStatusOpen, s)
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, OrderStatusPaid.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusServed.IsTerminal())
	assert.Equal(t, "unknown", OrderStatus(42).String())
}
