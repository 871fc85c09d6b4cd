package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ReceiptType is the kind of sales document issued for an order
type ReceiptType int

const (
	ReceiptTypeBoleta  ReceiptType = 0
	ReceiptTypeFactura ReceiptType = 1
	ReceiptTypeNone    ReceiptType = 2
)

var receiptTypeNames = []string{"boleta", "factura", "none"}

func (s ReceiptType) String() string {
	return nameOf(receiptTypeNames, int(s))
}

// IsValid reports whether s is a known value
func (s ReceiptType) IsValid() bool {
	return int(s) >= 0 && int(s) < len(receiptTypeNames)
}

func (s ReceiptType) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ReceiptType) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName("receipt type", receiptTypeNames, data)
	if err != nil {
		return err
	}
	*s = ReceiptType(i)
	return nil
}

func (s ReceiptType) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ReceiptType) Scan(value interface{}) error {
	if value == nil {
		*s = 0
		return nil
	}
	*s = ReceiptType(scanInt(value))
	return nil
}

// ParseReceiptType resolves a query-string value such as "factura"
func ParseReceiptType(s string) (ReceiptType, bool) {
	i, ok := lookup(receiptTypeNames, s)
	return ReceiptType(i), ok
}
