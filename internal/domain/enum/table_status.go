package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// TableStatus is the occupancy state of a dining table
type TableStatus int

const (
	TableStatusFree        TableStatus = 0
	TableStatusOccupied    TableStatus = 1
	TableStatusReserved    TableStatus = 2
	TableStatusMaintenance TableStatus = 3
)

var tableStatusNames = []string{"free", "occupied", "reserved", "maintenance"}

func (s TableStatus) String() string {
	return nameOf(tableStatusNames, int(s))
}

// IsValid reports whether s is a known value
func (s TableStatus) IsValid() bool {
	return int(s) >= 0 && int(s) < len(tableStatusNames)
}

func (s TableStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *TableStatus) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName("table status", tableStatusNames, data)
	if err != nil {
		return err
	}
	*s = TableStatus(i)
	return nil
}

func (s TableStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *TableStatus) Scan(value interface{}) error {
	if value == nil {
		*s = 0
		return nil
	}
	*s = TableStatus(scanInt(value))
	return nil
}

// ParseTableStatus resolves a query-string value such as "maintenance"
func ParseTableStatus(s string) (TableStatus, bool) {
	i, ok := lookup(tableStatusNames, s)
	return TableStatus(i), ok
}
