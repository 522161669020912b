package outlit

import (
	"net/url"
	"time"
)

// PageContext is the ambient page state stamped onto every built event.
type PageContext struct {
	URL      string
	Path     string
	Title    string
	Referrer string
}

// utmKeys are the attribution parameters extracted from pageview URLs.
var utmKeys = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content"}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func baseEvent(t EventType, page PageContext, ts int64) Event {
	return Event{
		Type:      t,
		Timestamp: ts,
		URL:       page.URL,
		Path:      page.Path,
	}
}

// newPageviewEvent builds a pageview, extracting known UTM parameters from
// the page URL. The utm map is omitted entirely when no parameter is set.
func newPageviewEvent(page PageContext, ts int64) Event {
	event := baseEvent(EventPageview, page, ts)
	event.Title = page.Title
	event.Referrer = page.Referrer

	if parsed, err := url.Parse(page.URL); err == nil {
		query := parsed.Query()
		var utm map[string]string
		for _, key := range utmKeys {
			if value := query.Get(key); value != "" {
				if utm == nil {
					utm = make(map[string]string, len(utmKeys))
				}
				utm[key] = value
			}
		}
		event.UTM = utm
	}
	return event
}

// newCustomEvent builds a named custom event.
func newCustomEvent(page PageContext, ts int64, name string, props Properties) Event {
	event := baseEvent(EventCustom, page, ts)
	event.EventName = name
	event.Properties = props
	return event
}

// newFormEvent builds a form submission event. The fields map is expected
// to have gone through RedactFormFields already.
func newFormEvent(page PageContext, ts int64, formID string, fields map[string]string) Event {
	event := baseEvent(EventForm, page, ts)
	event.FormID = formID
	if len(fields) > 0 {
		event.FormFields = fields
	}
	return event
}

// IdentifyOptions carries the identity and traits for an identify call.
// All fields are optional client-side; anonymous visitors may be
// identified later.
type IdentifyOptions struct {
	Email       string
	UserID      string
	Fingerprint string
	Traits      Properties
}

func newIdentifyEvent(page PageContext, ts int64, opts IdentifyOptions) Event {
	event := baseEvent(EventIdentify, page, ts)
	event.Email = opts.Email
	event.UserID = opts.UserID
	event.Fingerprint = opts.Fingerprint
	event.Traits = opts.Traits
	return event
}

// CalendarBooking is a structured booking handed to the SDK by a calendar
// integration (webhook parser or embed listener).
type CalendarBooking struct {
	Provider     CalendarProvider
	EventType    string
	StartTime    time.Time
	EndTime      time.Time
	IsRecurring  *bool
	InviteeName  string
	InviteeEmail string
}

// newCalendarEvent builds a calendar booking event, deriving the duration
// in whole minutes from the start and end times.
func newCalendarEvent(page PageContext, ts int64, booking CalendarBooking) Event {
	event := baseEvent(EventCalendar, page, ts)
	if booking.Provider == "" {
		booking.Provider = ProviderUnknown
	}
	event.Provider = booking.Provider
	event.CalendarEvent = booking.EventType
	event.IsRecurring = booking.IsRecurring
	event.InviteeName = booking.InviteeName
	event.InviteeEmail = booking.InviteeEmail

	if !booking.StartTime.IsZero() {
		event.StartTime = booking.StartTime.UTC().Format(time.RFC3339)
	}
	if !booking.EndTime.IsZero() {
		event.EndTime = booking.EndTime.UTC().Format(time.RFC3339)
	}
	if !booking.StartTime.IsZero() && !booking.EndTime.IsZero() && booking.EndTime.After(booking.StartTime) {
		event.Duration = int(booking.EndTime.Sub(booking.StartTime).Minutes())
	}
	return event
}

func newStageEvent(page PageContext, ts int64, stage JourneyStage, props Properties) Event {
	event := baseEvent(EventStage, page, ts)
	event.Stage = stage
	event.Properties = props
	return event
}

// BillingOptions identifies the customer a billing event belongs to.
// At least one identifier is required.
type BillingOptions struct {
	CustomerID       string
	StripeCustomerID string
	Domain           string
	Properties       Properties
}

func newBillingEvent(page PageContext, ts int64, status BillingStatus, opts BillingOptions) (Event, error) {
	if opts.CustomerID == "" && opts.StripeCustomerID == "" && opts.Domain == "" {
		return Event{}, &IdentityError{Reason: "billing events need one of customerId, stripeCustomerId or domain"}
	}
	event := baseEvent(EventBilling, page, ts)
	event.Status = status
	event.CustomerID = opts.CustomerID
	event.StripeCustomerID = opts.StripeCustomerID
	event.Domain = opts.Domain
	event.Properties = opts.Properties
	return event, nil
}

// validateServerIdentity enforces that a server-side event carries a
// resolvable identity. A server event with none is meaningless, so this
// fails fast instead of silently dropping the event.
func validateServerIdentity(email, userID, fingerprint string) error {
	if email == "" && userID == "" && fingerprint == "" {
		return &IdentityError{Reason: "server-side events need an email, userId or fingerprint"}
	}
	return nil
}

// serverURL synthesizes the url field for server-origin events, which have
// no page to point at.
func serverURL(email, userID, fingerprint string) string {
	id := email
	if id == "" {
		id = userID
	}
	if id == "" {
		id = fingerprint
	}
	if id == "" {
		id = "unknown"
	}
	return "server://" + id
}

// serverPage is the synthetic page context for server-origin events.
func serverPage(email, userID, fingerprint string) PageContext {
	return PageContext{URL: serverURL(email, userID, fingerprint), Path: "/"}
}
