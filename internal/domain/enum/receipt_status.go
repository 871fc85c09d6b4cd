package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ReceiptStatus is whether a receipt is still valid
type ReceiptStatus int

const (
	ReceiptStatusIssued ReceiptStatus = 0
	ReceiptStatusVoided ReceiptStatus = 1
)

var receiptStatusNames = []string{"issued", "voided"}

func (s ReceiptStatus) String() string {
	return nameOf(receiptStatusNames, int(s))
}

func (s ReceiptStatus) IsValid() bool {
	return int(s) >= 0 && int(s) < len(receiptStatusNames)
}

func (s ReceiptStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ReceiptStatus) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName("receipt status", receiptStatusNames, data)
	if err != nil {
		return err
	}
	*s = ReceiptStatus(i)
	return nil
}

func (s ReceiptStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ReceiptStatus) Scan(value interface{}) error {
	if value == nil {
		*s = 0
		return nil
	}
	*s = ReceiptStatus(scanInt(value))
	return nil
}

// ParseReceiptStatus resolves a query-string value such as "voided"
func ParseReceiptStatus(s string) (ReceiptStatus, bool) {
	i, ok := lookup(receiptStatusNames, s)
	return ReceiptStatus(i), ok
}
