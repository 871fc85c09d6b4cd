package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CashSessionStatus is the state of a cashier's working session
type CashSessionStatus int

const (
	CashSessionStatusOpen   CashSessionStatus = 0
	CashSessionStatusClosed CashSessionStatus = 1
)

var cashSessionStatusNames = []string{"open", "closed"}

func (s CashSessionStatus) String() string {
	return nameOf(cashSessionStatusNames, int(s))
}

// IsValid reports whether s is a known value
func (s CashSessionStatus) IsValid() bool {
	return int(s) >= 0 && int(s) < len(cashSessionStatusNames)
}

func (s CashSessionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CashSessionStatus) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName("cash session status", cashSessionStatusNames, data)
	if err != nil {
		return err
	}
	*s = CashSessionStatus(i)
	return nil
}

func (s CashSessionStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *CashSessionStatus) Scan(value interface{}) error {
	if value == nil {
		*s = 0
		return nil
	}
	*s = CashSessionStatus(scanInt(value))
	return nil
}

// ParseCashSessionStatus resolves a query-string value such as "open"
func ParseCashSessionStatus(s string) (CashSessionStatus, bool) {
	i, ok := lookup(cashSessionStatusNames, s)
	return CashSessionStatus(i), ok
}
