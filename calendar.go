package outlit

import (
	"encoding/json"
	"fmt"
	"time"
)

// Calendar integrations are external event sources: they parse a booking
// notification into a CalendarBooking and hand it to Client.TrackCalendar.
// Two webhook formats are supported out of the box.

type calComWebhook struct {
	TriggerEvent string `json:"triggerEvent"`
	Payload      struct {
		Type      string `json:"type"`
		Title     string `json:"title"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
		Attendees []struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"attendees"`
		RecurringEvent *struct {
			Freq int `json:"freq"`
		} `json:"recurringEvent"`
	} `json:"payload"`
}

// ParseCalComWebhook maps a Cal.com BOOKING_CREATED webhook body to a
// booking, including the invitee (Cal.com exposes attendee details).
func ParseCalComWebhook(body []byte) (CalendarBooking, error) {
	var hook calComWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		return CalendarBooking{}, fmt.Errorf("failed to parse cal.com webhook: %w", err)
	}
	if hook.TriggerEvent != "BOOKING_CREATED" {
		return CalendarBooking{}, fmt.Errorf("unsupported cal.com trigger event %q", hook.TriggerEvent)
	}

	booking := CalendarBooking{
		Provider:  ProviderCalCom,
		EventType: hook.Payload.Type,
	}
	if booking.EventType == "" {
		booking.EventType = hook.Payload.Title
	}
	booking.StartTime = parseBookingTime(hook.Payload.StartTime)
	booking.EndTime = parseBookingTime(hook.Payload.EndTime)
	if hook.Payload.RecurringEvent != nil {
		recurring := true
		booking.IsRecurring = &recurring
	}
	if len(hook.Payload.Attendees) > 0 {
		booking.InviteeName = hook.Payload.Attendees[0].Name
		booking.InviteeEmail = hook.Payload.Attendees[0].Email
	}
	return booking, nil
}

type calendlyWebhook struct {
	Event   string `json:"event"`
	Payload struct {
		EventType struct {
			Name string `json:"name"`
		} `json:"event_type"`
		ScheduledEvent struct {
			StartTime string `json:"start_time"`
			EndTime   string `json:"end_time"`
		} `json:"scheduled_event"`
	} `json:"payload"`
}

// ParseCalendlyWebhook maps a Calendly invitee.created webhook body to a
// booking. Calendly restricts invitee details, so name and email are left
// unset.
func ParseCalendlyWebhook(body []byte) (CalendarBooking, error) {
	var hook calendlyWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		return CalendarBooking{}, fmt.Errorf("failed to parse calendly webhook: %w", err)
	}
	if hook.Event != "invitee.created" {
		return CalendarBooking{}, fmt.Errorf("unsupported calendly event %q", hook.Event)
	}

	return CalendarBooking{
		Provider:  ProviderCalendly,
		EventType: hook.Payload.EventType.Name,
		StartTime: parseBookingTime(hook.Payload.ScheduledEvent.StartTime),
		EndTime:   parseBookingTime(hook.Payload.ScheduledEvent.EndTime),
	}, nil
}

func parseBookingTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
