package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ServiceType is how the order is served
type ServiceType int

const (
	ServiceTypeDineIn   ServiceType = 0
	ServiceTypeDelivery ServiceType = 1
	ServiceTypeTakeout  ServiceType = 2
)

var serviceTypeNames = []string{"dine_in", "delivery", "takeout"}

func (s ServiceType) String() string {
	return nameOf(serviceTypeNames, int(s))
}

// IsValid reports whether s is a known value
func (s ServiceType) IsValid() bool {
	return int(s) >= 0 && int(s) < len(serviceTypeNames)
}

func (s ServiceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ServiceType) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName("service type", serviceTypeNames, data)
	if err != nil {
		return err
	}
	*s = ServiceType(i)
	return nil
}

func (s ServiceType) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ServiceType) Scan(value interface{}) error {
	if value == nil {
		*s = 0
		return nil
	}
	*s = ServiceType(scanInt(value))
	return nil
}

// ParseServiceType resolves a query-string value such as "dine_in"
func ParseServiceType(s string) (ServiceType, bool) {
	i, ok := lookup(serviceTypeNames, s)
	return ServiceType(i), ok
}
