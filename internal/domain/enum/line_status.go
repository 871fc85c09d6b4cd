package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// LineStatus is the kitchen state of a single order line
type LineStatus int

const (
	LineStatusPending   LineStatus = 0
	LineStatusPreparing LineStatus = 1
	LineStatusReady     LineStatus = 2
)

var lineStatusNames = []string{"pending", "preparing", "ready"}

func (s LineStatus) String() string {
	return nameOf(lineStatusNames, int(s))
}

func (s LineStatus) IsValid() bool {
	return int(s) >= 0 && int(s) < len(lineStatusNames)
}

func (s LineStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *LineStatus) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName("line status", lineStatusNames, data)
	if err != nil {
		return err
	}
	*s = LineStatus(i)
	return nil
}

func (s LineStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *LineStatus) Scan(value interface{}) error {
	if value == nil {
		*s = 0
		return nil
	}
	*s = LineStatus(scanInt(value))
	return nil
}

// ParseLineStatus resolves a query-string value such as "preparing"
func ParseLineStatus(s string) (LineStatus, bool) {
	i, ok := lookup(lineStatusNames, s)
	return LineStatus(i), ok
}
