package sqlite

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// text renders a decimal for a TEXT column without losing precision.
func text(d decimal.Decimal) string {
	return d.String()
}

// decimalColumn scans a TEXT column back into a decimal.
type decimalColumn struct {
	dst *decimal.Decimal
}

func dec(d *decimal.Decimal) decimalColumn { return decimalColumn{dst: d} }

func (c decimalColumn) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*c.dst = decimal.Zero
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("unexpected decimal column type %T", src)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("corrupt decimal value %q: %w", s, err)
	}
	*c.dst = d
	return nil
}
