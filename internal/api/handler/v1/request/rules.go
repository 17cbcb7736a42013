package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
)

var errNegative = errors.New("must not be negative")

// nonNegative accepts decimal.Decimal and *decimal.Decimal values.
var nonNegative = validation.By(func(value interface{}) error {
	var d decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		d = *v
	default:
		return nil
	}

	if d.IsNegative() {
		return errNegative
	}
	return nil
})

func after(start *time.Time) validation.Rule {
	return validation.By(func(value interface{}) error {
		end, ok := value.(*time.Time)
		if !ok || end == nil || start == nil {
			return nil
		}
		if end.Before(*start) {
			return errors.New("must not be before the start")
		}
		return nil
	})
}
