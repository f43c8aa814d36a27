// Package event defines the wire-neutral Event envelope and topic/kind
// vocabulary of the Notification Bus (spec §3 "Event", §4.5, §6
// "Event kinds"). It has no transport dependency: Bus is an interface
// implemented by internal/broker/inmemory (the core, in-process
// publish-subscribe) and bridged externally by internal/broker/nats.
package event

import "time"

// Kind enumerates every event kind emitted on the bus (spec §6).
type Kind string

const (
	KindTransitionStarted   Kind = "TRANSITION_STARTED"
	KindTransitionCompleted Kind = "TRANSITION_COMPLETED"
	KindWorkflowError       Kind = "WORKFLOW_ERROR"
	KindBookingConfirmed    Kind = "BOOKING_CONFIRMED"
	KindBookingRejected     Kind = "BOOKING_REJECTED"
	KindBookingCheckedIn    Kind = "BOOKING_CHECKED_IN"
	KindBookingCheckedOut   Kind = "BOOKING_CHECKED_OUT"
	KindBookingCancelled    Kind = "BOOKING_CANCELLED"
	KindRefundCalculated    Kind = "REFUND_CALCULATED"
	KindAvailabilityChanged Kind = "AVAILABILITY_CHANGED"
	KindPriceUpdated        Kind = "PRICE_UPDATED"
	KindDemandSurge         Kind = "DEMAND_SURGE"
	KindBookingReminder     Kind = "BOOKING_REMINDER"
	KindInvoiceGenerated    Kind = "INVOICE_GENERATED"
	KindExtrasAdded         Kind = "EXTRAS_ADDED"

	// KindMetricsRollup is a SPEC_FULL addition: the Scheduler's
	// hourly Metrics-broadcast job publishes a 24h transition
	// rollup to the admin topic under this kind (spec.md §4.6 names
	// the job but not a bus kind for it).
	KindMetricsRollup Kind = "METRICS_ROLLUP"
)

// AvailabilitySubKind enumerates the ROOMS_* sub-kinds carried in the
// payload of an AVAILABILITY_CHANGED event (spec §6).
type AvailabilitySubKind string

const (
	RoomsReserved  AvailabilitySubKind = "ROOMS_RESERVED"
	RoomsOccupied  AvailabilitySubKind = "ROOMS_OCCUPIED"
	RoomsAvailable AvailabilitySubKind = "ROOMS_AVAILABLE"
)

// Critical reports whether k must apply backpressure rather than
// best-effort drop when a subscriber's topic buffer is full (spec §5).
func (k Kind) Critical() bool {
	switch k {
	case KindTransitionStarted, KindTransitionCompleted, KindWorkflowError:
		return true
	}
	return false
}

// Topic is a bus topic string, one of the families in spec §3:
// user:{id}, hotel:{id}, booking:{id}, admin, availability:{hotel-id},
// pricing:{hotel-id}.
type Topic string

func UserTopic(id string) Topic         { return Topic("user:" + id) }
func HotelTopic(id string) Topic        { return Topic("hotel:" + id) }
func BookingTopic(id string) Topic      { return Topic("booking:" + id) }
func AvailabilityTopic(id string) Topic { return Topic("availability:" + id) }
func PricingTopic(id string) Topic      { return Topic("pricing:" + id) }

const AdminTopic Topic = "admin"

// Event is the language-neutral envelope published to the bus
// (spec §3 "Event", §6 "Wire-format").
type Event struct {
	Topic   Topic
	Kind    Kind
	At      time.Time
	Payload map[string]any
}
