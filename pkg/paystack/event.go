package paystack

import (
	"encoding/json"
	"errors"
)

// EventChargeSuccess is the only event type this service fulfills.
const EventChargeSuccess = "charge.success"

// ErrMalformedEvent is returned when a webhook body is not a recognizable
// event envelope. Callers acknowledge and drop such deliveries rather than
// failing deep in processing.
var ErrMalformedEvent = errors.New("malformed event envelope")

// Customer is the customer sub-object Paystack attaches to charge events.
type Customer struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// EventData is the payload of a charge event.
type EventData struct {
	Status    string   `json:"status"`
	Reference string   `json:"reference"`
	// Amount is in pesewas, as charged.
	Amount   int64    `json:"amount"`
	Metadata Metadata `json:"-"`
	Customer Customer `json:"customer"`

	// RawMetadata holds the metadata field before decoding. Paystack sends
	// an empty string or array instead of an object when no metadata was
	// attached, so it cannot be unmarshalled directly into Metadata.
	RawMetadata json.RawMessage `json:"metadata"`
}

// Event is a validated webhook envelope.
type Event struct {
	Event string    `json:"event"`
	Data  EventData `json:"data"`
}

// IsSuccessfulCharge reports whether the event is a successful charge
// notification; everything else is acknowledged and dropped.
func (e *Event) IsSuccessfulCharge() bool {
	return e.Event == EventChargeSuccess && e.Data.Status == "success"
}

// BuyerPhone returns the phone from metadata, falling back to the customer
// record when the session carried none.
func (e *Event) BuyerPhone() string {
	if e.Data.Metadata.Phone != "" {
		return e.Data.Metadata.Phone
	}
	return e.Data.Customer.Phone
}

// BuyerEmail returns the email from metadata, falling back to the customer
// record.
func (e *Event) BuyerEmail() string {
	if e.Data.Metadata.Email != "" {
		return e.Data.Metadata.Email
	}
	return e.Data.Customer.Email
}

// ParseEvent decodes a raw webhook body into a validated Event.
// A body that is not a JSON object with an event field yields
// ErrMalformedEvent. Non-object metadata is tolerated and left empty.
func ParseEvent(body []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, ErrMalformedEvent
	}
	if ev.Event == "" {
		return nil, ErrMalformedEvent
	}

	if len(ev.Data.RawMetadata) > 0 {
		// Best effort: ignore the metadata field unless it is an object.
		var md Metadata
		if err := json.Unmarshal(ev.Data.RawMetadata, &md); err == nil {
			ev.Data.Metadata = md
		}
	}

	return &ev, nil
}
