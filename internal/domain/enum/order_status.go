package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus int

const (
	OrderStatusPending       OrderStatus = 0
	OrderStatusInPreparation OrderStatus = 1
	OrderStatusServed        OrderStatus = 2
	OrderStatusPaid          OrderStatus = 3
	OrderStatusCancelled     OrderStatus = 4
)

var orderStatusNames = []string{"pending", "in_preparation", "served", "paid", "cancelled"}

func (s OrderStatus) String() string {
	return nameOf(orderStatusNames, int(s))
}

// IsValid reports whether s is a known value
func (s OrderStatus) IsValid() bool {
	return int(s) >= 0 && int(s) < len(orderStatusNames)
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName("order status", orderStatusNames, data)
	if err != nil {
		return err
	}
	*s = OrderStatus(i)
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = 0
		return nil
	}
	*s = OrderStatus(scanInt(value))
	return nil
}

// ParseOrderStatus resolves a query-string value such as "in_preparation"
func ParseOrderStatus(s string) (OrderStatus, bool) {
	i, ok := lookup(orderStatusNames, s)
	return OrderStatus(i), ok
}

// IsTerminal reports whether no further mutation of the order is allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPaid || s == OrderStatusCancelled
}

// ActiveOrderStatuses are the states shown on the floor
func ActiveOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusPending, OrderStatusInPreparation, OrderStatusServed}
}
