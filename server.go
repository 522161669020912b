package outlit

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/outlit/outlit-go/adapters"
)

// ServerClient is the server-side tracking client. Unlike Client it is not
// consent-gated and carries no visitor identity; every event must instead
// embed a resolvable identity (email, user ID or device fingerprint),
// which the endpoint resolves per-event.
type ServerClient struct {
	config    Config
	queue     *EventQueue
	transport Transport
	logger    adapters.LoggerAdapter
	shutdown  atomic.Bool
}

// NewServerClient constructs a server-side client.
func NewServerClient(config Config) (*ServerClient, error) {
	cfg, err := config.withDefaults()
	if err != nil {
		return nil, err
	}

	s := &ServerClient{
		config: cfg,
		logger: cfg.Adapters.Logger,
	}
	s.transport = NewHTTPTransport(cfg, s.logger)
	s.queue = NewEventQueue(cfg.MaxBatchSize, cfg.MaxBufferSize, cfg.FlushInterval, s.deliver, s.logger)

	return s, nil
}

// SetTransport replaces the delivery transport.
// Must be called before any events are tracked.
func (s *ServerClient) SetTransport(t Transport) {
	s.transport = t
}

func (s *ServerClient) deliver(events []Event) error {
	payload := IngestPayload{
		Source: SourceServer,
		Events: events,
	}
	_, err := s.transport.Send(context.Background(), payload)
	return err
}

func (s *ServerClient) enqueue(event Event) error {
	if s.shutdown.Load() {
		return ErrShutdown
	}
	s.queue.Enqueue(event)
	return nil
}

// PendingEventCount returns the number of buffered events.
func (s *ServerClient) PendingEventCount() int {
	return s.queue.Size()
}

// Flush delivers all buffered events now.
func (s *ServerClient) Flush() error {
	if s.shutdown.Load() {
		return ErrShutdown
	}
	return s.queue.Flush()
}

// Shutdown flushes remaining events and stops the periodic timer.
// Terminal; later calls fail with ErrShutdown.
func (s *ServerClient) Shutdown() error {
	if s.shutdown.Swap(true) {
		return ErrShutdown
	}
	err := s.queue.Flush()
	s.queue.Stop()
	return err
}

// Track starts a custom event. Identity setters and Send complete it:
//
//	client.Track("signup").Email("user@example.com").
//		Property("plan", outlit.String("pro")).
//		Send()
func (s *ServerClient) Track(eventName string) *TrackBuilder {
	return &TrackBuilder{client: s, eventName: eventName}
}

// Identify starts an identify event for updating what is known about a
// user. Requires an email or user ID.
func (s *ServerClient) Identify() *IdentifyBuilder {
	return &IdentifyBuilder{client: s}
}

// User returns the journey-stage namespace.
func (s *ServerClient) User() ServerUserMethods { return ServerUserMethods{client: s} }

// Customer returns the billing namespace.
func (s *ServerClient) Customer() ServerCustomerMethods { return ServerCustomerMethods{client: s} }

// identityProps echoes the identity into the property bag so the endpoint
// can resolve it per-event.
func identityProps(props Properties, email, userID, fingerprint string) Properties {
	if props == nil {
		props = make(Properties, 3)
	}
	props["__email"] = stringOrNull(email)
	props["__userId"] = stringOrNull(userID)
	props["__fingerprint"] = stringOrNull(fingerprint)
	return props
}

func stringOrNull(s string) Value {
	if s == "" {
		return Null()
	}
	return String(s)
}

// TrackBuilder accumulates a server-side custom event.
type TrackBuilder struct {
	client      *ServerClient
	eventName   string
	email       string
	userID      string
	fingerprint string
	properties  Properties
	timestamp   int64
}

// Email sets the user's email identity.
func (b *TrackBuilder) Email(email string) *TrackBuilder {
	b.email = email
	return b
}

// UserID sets the user ID identity.
func (b *TrackBuilder) UserID(userID string) *TrackBuilder {
	b.userID = userID
	return b
}

// Fingerprint sets a device identifier. Events tracked with a fingerprint
// only can be linked to a user later via an identify call carrying the
// same fingerprint.
func (b *TrackBuilder) Fingerprint(fingerprint string) *TrackBuilder {
	b.fingerprint = fingerprint
	return b
}

// Property adds a scalar property.
func (b *TrackBuilder) Property(key string, value Value) *TrackBuilder {
	if b.properties == nil {
		b.properties = make(Properties)
	}
	b.properties[key] = value
	return b
}

// Timestamp overrides the event timestamp (epoch milliseconds).
func (b *TrackBuilder) Timestamp(ts int64) *TrackBuilder {
	b.timestamp = ts
	return b
}

// Send validates and enqueues the event. Missing identity is a synchronous
// IdentityError; nothing reaches the queue.
func (b *TrackBuilder) Send() error {
	if b.eventName == "" {
		return errors.New("event name cannot be empty")
	}
	if err := validateServerIdentity(b.email, b.userID, b.fingerprint); err != nil {
		return err
	}
	ts := b.timestamp
	if ts == 0 {
		ts = nowMillis()
	}
	page := serverPage(b.email, b.userID, b.fingerprint)
	event := newCustomEvent(page, ts, b.eventName, identityProps(b.properties, b.email, b.userID, b.fingerprint))
	return b.client.enqueue(event)
}

// IdentifyBuilder accumulates a server-side identify event.
type IdentifyBuilder struct {
	client      *ServerClient
	email       string
	userID      string
	fingerprint string
	traits      Properties
}

// Email sets the user's email identity.
func (b *IdentifyBuilder) Email(email string) *IdentifyBuilder {
	b.email = email
	return b
}

// UserID sets the user ID identity.
func (b *IdentifyBuilder) UserID(userID string) *IdentifyBuilder {
	b.userID = userID
	return b
}

// Fingerprint links a device identifier to the user.
func (b *IdentifyBuilder) Fingerprint(fingerprint string) *IdentifyBuilder {
	b.fingerprint = fingerprint
	return b
}

// Trait adds a scalar trait.
func (b *IdentifyBuilder) Trait(key string, value Value) *IdentifyBuilder {
	if b.traits == nil {
		b.traits = make(Properties)
	}
	b.traits[key] = value
	return b
}

// Send validates and enqueues the event. An identify needs an email or
// user ID; a fingerprint alone identifies a device, not a user.
func (b *IdentifyBuilder) Send() error {
	if b.email == "" && b.userID == "" {
		return &IdentityError{Reason: "identify needs an email or userId"}
	}
	page := serverPage(b.email, b.userID, b.fingerprint)
	event := newIdentifyEvent(page, nowMillis(), IdentifyOptions{
		Email:       b.email,
		UserID:      b.userID,
		Fingerprint: b.fingerprint,
		Traits:      b.traits,
	})
	return b.client.enqueue(event)
}

// StageBuilder accumulates a server-side journey-stage event.
type StageBuilder struct {
	client      *ServerClient
	stage       JourneyStage
	email       string
	userID      string
	fingerprint string
	properties  Properties
}

// Email sets the user's email identity.
func (b *StageBuilder) Email(email string) *StageBuilder {
	b.email = email
	return b
}

// UserID sets the user ID identity.
func (b *StageBuilder) UserID(userID string) *StageBuilder {
	b.userID = userID
	return b
}

// Fingerprint sets a device identifier.
func (b *StageBuilder) Fingerprint(fingerprint string) *StageBuilder {
	b.fingerprint = fingerprint
	return b
}

// Property adds a scalar property.
func (b *StageBuilder) Property(key string, value Value) *StageBuilder {
	if b.properties == nil {
		b.properties = make(Properties)
	}
	b.properties[key] = value
	return b
}

// Send validates and enqueues the event.
func (b *StageBuilder) Send() error {
	if err := validateServerIdentity(b.email, b.userID, b.fingerprint); err != nil {
		return err
	}
	page := serverPage(b.email, b.userID, b.fingerprint)
	event := newStageEvent(page, nowMillis(), b.stage, identityProps(b.properties, b.email, b.userID, b.fingerprint))
	return b.client.enqueue(event)
}

// ServerUserMethods is the server-side journey-stage namespace.
type ServerUserMethods struct {
	client *ServerClient
}

// Activate marks the user as activated.
func (m ServerUserMethods) Activate() *StageBuilder {
	return &StageBuilder{client: m.client, stage: StageActivated}
}

// Engaged marks the user as engaged.
func (m ServerUserMethods) Engaged() *StageBuilder {
	return &StageBuilder{client: m.client, stage: StageEngaged}
}

// Inactive marks the user as inactive.
func (m ServerUserMethods) Inactive() *StageBuilder {
	return &StageBuilder{client: m.client, stage: StageInactive}
}

// BillingBuilder accumulates a server-side billing event.
type BillingBuilder struct {
	client           *ServerClient
	status           BillingStatus
	customerID       string
	stripeCustomerID string
	domain           string
	properties       Properties
}

// CustomerID sets the internal customer identifier.
func (b *BillingBuilder) CustomerID(id string) *BillingBuilder {
	b.customerID = id
	return b
}

// StripeCustomerID sets the Stripe customer identifier.
func (b *BillingBuilder) StripeCustomerID(id string) *BillingBuilder {
	b.stripeCustomerID = id
	return b
}

// Property adds a scalar property.
func (b *BillingBuilder) Property(key string, value Value) *BillingBuilder {
	if b.properties == nil {
		b.properties = make(Properties)
	}
	b.properties[key] = value
	return b
}

// Send validates and enqueues the event. Missing every customer identifier
// is a synchronous IdentityError.
func (b *BillingBuilder) Send() error {
	page := PageContext{URL: "server://" + firstNonEmpty(b.domain, b.customerID, b.stripeCustomerID, "unknown"), Path: "/"}
	event, err := newBillingEvent(page, nowMillis(), b.status, BillingOptions{
		CustomerID:       b.customerID,
		StripeCustomerID: b.stripeCustomerID,
		Domain:           b.domain,
		Properties:       b.properties,
	})
	if err != nil {
		return err
	}
	return b.client.enqueue(event)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ServerCustomerMethods is the server-side billing namespace.
type ServerCustomerMethods struct {
	client *ServerClient
}

// Trialing marks the customer as trialing.
func (m ServerCustomerMethods) Trialing(domain string) *BillingBuilder {
	return &BillingBuilder{client: m.client, status: BillingTrialing, domain: domain}
}

// Paid marks the customer as paid.
func (m ServerCustomerMethods) Paid(domain string) *BillingBuilder {
	return &BillingBuilder{client: m.client, status: BillingPaid, domain: domain}
}

// Churned marks the customer as churned.
func (m ServerCustomerMethods) Churned(domain string) *BillingBuilder {
	return &BillingBuilder{client: m.client, status: BillingChurned, domain: domain}
}
