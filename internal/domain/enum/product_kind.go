package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ProductKind distinguishes kitchen-prepared items from stocked resale goods
type ProductKind int

const (
	ProductKindPrepared  ProductKind = 0
	ProductKindPurchased ProductKind = 1
)

var productKindNames = []string{"prepared", "purchased"}

func (s ProductKind) String() string {
	return nameOf(productKindNames, int(s))
}

func (s ProductKind) IsValid() bool {
	return int(s) >= 0 && int(s) < len(productKindNames)
}

func (s ProductKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ProductKind) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName("product kind", productKindNames, data)
	if err != nil {
		return err
	}
	*s = ProductKind(i)
	return nil
}

func (s ProductKind) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ProductKind) Scan(value interface{}) error {
	if value == nil {
		*s = 0
		return nil
	}
	*s = ProductKind(scanInt(value))
	return nil
}

// ParseProductKind resolves a query-string value such as "purchased"
func ParseProductKind(s string) (ProductKind, bool) {
	i, ok := lookup(productKindNames, s)
	return ProductKind(i), ok
}
