package outlit

import (
	"encoding/json"
	"fmt"
)

// EventType discriminates the event variants.
type EventType string

const (
	EventPageview EventType = "pageview"
	EventCustom   EventType = "custom"
	EventForm     EventType = "form"
	EventIdentify EventType = "identify"
	EventCalendar EventType = "calendar"
	EventStage    EventType = "stage"
	EventBilling  EventType = "billing"
)

// SourceType identifies which side of the SDK produced a payload.
type SourceType string

const (
	SourceClient SourceType = "client"
	SourceServer SourceType = "server"
)

// JourneyStage values.
type JourneyStage string

const (
	StageActivated JourneyStage = "activated"
	StageEngaged   JourneyStage = "engaged"
	StageInactive  JourneyStage = "inactive"
)

// BillingStatus values.
type BillingStatus string

const (
	BillingTrialing BillingStatus = "trialing"
	BillingPaid     BillingStatus = "paid"
	BillingChurned  BillingStatus = "churned"
)

// CalendarProvider identifies the booking tool an event came from.
type CalendarProvider string

const (
	ProviderCalCom   CalendarProvider = "cal.com"
	ProviderCalendly CalendarProvider = "calendly"
	ProviderUnknown  CalendarProvider = "unknown"
)

// ValueKind discriminates the scalar kinds a property value can hold.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
)

// Value is a closed scalar for event properties and traits:
// string, number, bool or null. Nested structures are rejected so
// serialization and redaction stay exhaustive.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
}

// String creates a string property value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number creates a numeric property value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Int creates a numeric property value from an int.
func Int(n int) Value { return Value{kind: KindNumber, num: float64(n)} }

// Bool creates a boolean property value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Null creates a null property value.
func Null() Value { return Value{kind: KindNull} }

// Kind returns the scalar kind held by the value.
func (v Value) Kind() ValueKind { return v.kind }

// StringValue returns the held string, or "" for other kinds.
func (v Value) StringValue() string { return v.str }

// NumberValue returns the held number, or 0 for other kinds.
func (v Value) NumberValue() float64 { return v.num }

// BoolValue returns the held bool, or false for other kinds.
func (v Value) BoolValue() bool { return v.b }

// MarshalJSON encodes the value as its underlying scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindNull:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.kind)
	}
}

// UnmarshalJSON decodes a scalar; objects and arrays are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case nil:
		*v = Null()
	case string:
		*v = String(val)
	case float64:
		*v = Number(val)
	case bool:
		*v = Bool(val)
	default:
		return fmt.Errorf("property values must be scalar, got %T", raw)
	}
	return nil
}

// Properties is a flat bag of scalar values attached to an event.
type Properties map[string]Value

// Event is the wire representation of a tracked event. The Type field
// discriminates the variant; fields belonging to other variants stay at
// their zero value and are omitted from JSON.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	URL       string    `json:"url"`
	Path      string    `json:"path"`

	// pageview
	Title    string            `json:"title,omitempty"`
	Referrer string            `json:"referrer,omitempty"`
	UTM      map[string]string `json:"utm,omitempty"`

	// custom
	EventName  string     `json:"eventName,omitempty"`
	Properties Properties `json:"properties,omitempty"`

	// form
	FormID     string            `json:"formId,omitempty"`
	FormFields map[string]string `json:"formFields,omitempty"`

	// identify
	Email       string     `json:"email,omitempty"`
	UserID      string     `json:"userId,omitempty"`
	Fingerprint string     `json:"fingerprint,omitempty"`
	Traits      Properties `json:"traits,omitempty"`

	// calendar
	Provider      CalendarProvider `json:"provider,omitempty"`
	CalendarEvent string           `json:"eventType,omitempty"`
	StartTime     string           `json:"startTime,omitempty"`
	EndTime       string           `json:"endTime,omitempty"`
	Duration      int              `json:"duration,omitempty"`
	IsRecurring   *bool            `json:"isRecurring,omitempty"`
	InviteeName   string           `json:"inviteeName,omitempty"`
	InviteeEmail  string           `json:"inviteeEmail,omitempty"`

	// stage
	Stage JourneyStage `json:"stage,omitempty"`

	// billing
	Status           BillingStatus `json:"status,omitempty"`
	CustomerID       string        `json:"customerId,omitempty"`
	StripeCustomerID string        `json:"stripeCustomerId,omitempty"`
	Domain           string        `json:"domain,omitempty"`
}

// IngestPayload is the body POSTed to the collection endpoint.
// VisitorID is set on client payloads only; server payloads resolve
// identity per-event from the embedded email/userId.
type IngestPayload struct {
	VisitorID string     `json:"visitorId,omitempty"`
	Source    SourceType `json:"source"`
	Events    []Event    `json:"events"`
}

// IngestResponse is the collection endpoint's reply.
type IngestResponse struct {
	Success   bool          `json:"success"`
	Processed int           `json:"processed"`
	Errors    []IngestError `json:"errors,omitempty"`
}

// IngestError is a per-event processing error reported by the endpoint.
type IngestError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}
