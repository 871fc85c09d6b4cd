package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMethod is how a receipt was paid
type PaymentMethod int

const (
	PaymentMethodCash     PaymentMethod = 0
	PaymentMethodCard     PaymentMethod = 1
	PaymentMethodYape     PaymentMethod = 2
	PaymentMethodPlin     PaymentMethod = 3
	PaymentMethodTransfer PaymentMethod = 4
)

var paymentMethodNames = []string{"cash", "card", "yape", "plin", "transfer"}

func (s PaymentMethod) String() string {
	return nameOf(paymentMethodNames, int(s))
}

// IsValid reports whether s is a known value
func (s PaymentMethod) IsValid() bool {
	return int(s) >= 0 && int(s) < len(paymentMethodNames)
}

func (s PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentMethod) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName("payment method", paymentMethodNames, data)
	if err != nil {
		return err
	}
	*s = PaymentMethod(i)
	return nil
}

func (s PaymentMethod) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*s = 0
		return nil
	}
	*s = PaymentMethod(scanInt(value))
	return nil
}

// ParsePaymentMethod resolves a query-string value such as "yape"
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	i, ok := lookup(paymentMethodNames, s)
	return PaymentMethod(i), ok
}
