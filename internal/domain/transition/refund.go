package transition

import (
	"time"

	"github.com/shopspring/decimal"

	"hotel-reservation-engine/internal/domain/booking"
	"hotel-reservation-engine/pkg/errors"
)

// computeRefund applies the refund policy of spec §4.1 for a
// CONFIRMED→CANCELLED transition. customRefund, when non-nil, is an
// ADMIN override bounded to [0, total]; it takes precedence over the
// percentage-band computation but the resulting percentage is still
// derived from the amount for record-keeping.
func computeRefund(b booking.Booking, now time.Time, freeCancellationWindow time.Duration, customRefund *decimal.Decimal, actor booking.Actor) (booking.CancellationOutcome, error) {
	hoursUntilCheckIn := b.CheckIn.Sub(now).Hours()
	total := b.Pricing.TotalAmount

	if customRefund != nil {
		if actor.Role != booking.RoleAdmin {
			return booking.CancellationOutcome{}, errors.ErrUnauthorized.WithMessage("only ADMIN may override the refund amount")
		}
		if customRefund.IsNegative() || customRefund.GreaterThan(total) {
			return booking.CancellationOutcome{}, errors.ErrValidationFailed.WithMessage("custom refund amount out of bounds [0, total]")
		}
		pct := 0
		if !total.IsZero() {
			pctDec := customRefund.Div(total).Mul(decimal.NewFromInt(100))
			pct = int(pctDec.IntPart())
		}
		return booking.CancellationOutcome{
			RefundPercentage:  pct,
			RefundAmount:      customRefund.Round(2),
			CancellationFee:   total.Sub(*customRefund).Round(2),
			HoursUntilCheckIn: hoursUntilCheckIn,
		}, nil
	}

	windowHours := freeCancellationWindow.Hours()
	var pct int
	switch {
	case hoursUntilCheckIn >= windowHours:
		pct = 100
	case hoursUntilCheckIn >= 12:
		pct = 50
	default:
		pct = 0
	}

	refundAmount := total.Mul(decimal.NewFromInt(int64(pct))).Div(decimal.NewFromInt(100)).Round(2)
	fee := total.Sub(refundAmount).Round(2)

	return booking.CancellationOutcome{
		RefundPercentage:  pct,
		RefundAmount:      refundAmount,
		CancellationFee:   fee,
		HoursUntilCheckIn: hoursUntilCheckIn,
	}, nil
}
