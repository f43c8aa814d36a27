package transition

import (
	"context"
	"time"

	"hotel-reservation-engine/internal/domain/booking"
	"hotel-reservation-engine/internal/domain/event"
	"hotel-reservation-engine/pkg/log"
)

// targetKind maps a transition target to the booking-specific event
// kind spec §6 names for it, when one exists.
var targetKind = map[booking.Status]event.Kind{
	booking.Confirmed:  event.KindBookingConfirmed,
	booking.Rejected:   event.KindBookingRejected,
	booking.CheckedIn:  event.KindBookingCheckedIn,
	booking.Completed:  event.KindBookingCheckedOut,
	booking.Cancelled:  event.KindBookingCancelled,
}

func (e *Executor) publish(ctx context.Context, topic event.Topic, kind event.Kind, at time.Time, payload map[string]any) {
	if err := e.bus.Publish(ctx, event.Event{Topic: topic, Kind: kind, At: at, Payload: payload}); err != nil {
		log.FromContext(ctx).Warn("bus publish failed")
	}
}

func (e *Executor) publishPreTransition(ctx context.Context, b booking.Booking, target booking.Status, actor booking.Actor, now time.Time) {
	payload := map[string]any{"booking_id": b.ID, "from": string(b.Status), "to": string(target), "actor": actor.ID}
	e.publish(ctx, event.BookingTopic(b.ID), event.KindTransitionStarted, now, payload)
	e.publish(ctx, event.HotelTopic(b.HotelID), event.KindTransitionStarted, now, payload)
	if kind, ok := targetKind[target]; ok {
		e.publish(ctx, event.BookingTopic(b.ID), kind, now, payload)
	}
}

func (e *Executor) publishPostTransition(ctx context.Context, b booking.Booking, from, target booking.Status, actor booking.Actor, now time.Time, cancellation *booking.CancellationOutcome) {
	payload := map[string]any{"booking_id": b.ID, "from": string(from), "to": string(target), "actor": actor.ID}
	e.publish(ctx, event.BookingTopic(b.ID), event.KindTransitionCompleted, now, payload)
	e.publish(ctx, event.HotelTopic(b.HotelID), event.KindTransitionCompleted, now, payload)

	if kind, ok := targetKind[target]; ok {
		e.publish(ctx, event.BookingTopic(b.ID), kind, now, payload)
	}
	if invalidatingTargets[target] {
		e.publish(ctx, event.AvailabilityTopic(b.HotelID), event.KindAvailabilityChanged, now, payload)
	}
	if cancellation != nil {
		refundPayload := map[string]any{
			"booking_id":          b.ID,
			"refund_percentage":   cancellation.RefundPercentage,
			"refund_amount":       cancellation.RefundAmount.String(),
			"cancellation_fee":    cancellation.CancellationFee.String(),
			"hours_until_checkin": cancellation.HoursUntilCheckIn,
		}
		e.publish(ctx, event.UserTopic(b.CustomerID), event.KindRefundCalculated, now, refundPayload)
	}
	if target == booking.Completed {
		e.publish(ctx, event.AdminTopic, event.KindInvoiceGenerated, now, payload)
	}
}

func (e *Executor) publishWorkflowError(ctx context.Context, b booking.Booking, actor booking.Actor, cause error) {
	now := e.clock.Now()
	payload := map[string]any{"booking_id": b.ID, "error": cause.Error()}
	e.publish(ctx, event.UserTopic(actor.ID), event.KindWorkflowError, now, payload)
}

func (e *Executor) publishAdminSeverityHigh(ctx context.Context, b booking.Booking, actor booking.Actor, cause error) {
	now := e.clock.Now()
	payload := map[string]any{"booking_id": b.ID, "error": cause.Error(), "severity": "high"}
	e.publish(ctx, event.AdminTopic, event.KindWorkflowError, now, payload)
}
