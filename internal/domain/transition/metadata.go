package transition

import (
	"github.com/shopspring/decimal"

	"hotel-reservation-engine/pkg/errors"
)

// toDecimal converts a metadata value (float64 from JSON, a string, or
// already a decimal.Decimal) into a decimal.Decimal.
func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case float64:
		return decimal.NewFromFloat(t), true
	case string:
		d, err := decimal.NewFromString(t)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}

// parseCustomRefund extracts metadata["custom_refund_amount"], if
// present, validating it parses as a decimal.
func parseCustomRefund(metadata map[string]any) (*decimal.Decimal, error) {
	if metadata == nil {
		return nil, nil
	}
	raw, ok := metadata["custom_refund_amount"]
	if !ok {
		return nil, nil
	}
	d, ok := toDecimal(raw)
	if !ok {
		return nil, errors.ErrValidationFailed.WithMessage("custom_refund_amount is not a valid number")
	}
	return &d, nil
}
