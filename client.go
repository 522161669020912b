// Package outlit is the Outlit analytics SDK for Go. It captures product
// events (pageviews, custom events, identity, journey stages, billing and
// calendar bookings), batches them in memory, and delivers them to the
// Outlit collection endpoint. Capture is gated by a persisted consent
// decision; no identity is created and no event is queued while tracking
// is disabled.
package outlit

import (
	"context"
	"errors"
	"sync"

	"github.com/outlit/outlit-go/adapters"
)

// State is the tracking client's lifecycle state.
type State string

const (
	// StateDisabled means calls are accepted but silently dropped.
	StateDisabled State = "disabled"
	// StateEnabled means events are captured and queued.
	StateEnabled State = "enabled"
	// StateShutdown is terminal; public mutators fail with ErrShutdown.
	StateShutdown State = "shutdown"
)

// StateListener observes lifecycle transitions, so UI-reactivity layers can
// subscribe without the core depending on them.
type StateListener func(State)

// Client is the stateful tracking client: it ties consent, visitor
// identity, the event queue and the delivery transport together behind the
// public tracking surface.
//
// Construction never fails for environment reasons (missing storage,
// missing network); it degrades. Only an invalid configuration is an error.
type Client struct {
	config    Config
	consent   *ConsentStore
	visitors  *visitorStore
	users     *userState
	queue     *EventQueue
	transport Transport
	logger    adapters.LoggerAdapter

	mu        sync.RWMutex
	state     State
	visitorID string
	page      PageContext

	listenerMu     sync.RWMutex
	listeners      map[int]StateListener
	nextListenerID int
}

// NewClient constructs a tracking client. A previously persisted consent
// decision overrides the AutoTrack default: granted starts enabled, denied
// starts disabled, unset falls back to AutoTrack (default true).
func NewClient(config Config) (*Client, error) {
	cfg, err := config.withDefaults()
	if err != nil {
		return nil, err
	}

	c := &Client{
		config:    cfg,
		logger:    cfg.Adapters.Logger,
		users:     newUserState(),
		listeners: make(map[int]StateListener),
	}
	c.consent = NewConsentStore(cfg.Adapters.Storage, cfg.Adapters.FallbackStorage, c.logger)
	c.visitors = newVisitorStore(cfg.Adapters.Storage, cfg.Adapters.FallbackStorage, c.logger)
	c.transport = NewHTTPTransport(cfg, c.logger)
	c.queue = NewEventQueue(cfg.MaxBatchSize, cfg.MaxBufferSize, cfg.FlushInterval, c.deliver, c.logger)

	switch c.consent.Get() {
	case ConsentGranted:
		c.state = StateEnabled
	case ConsentDenied:
		c.state = StateDisabled
	default:
		if boolOrDefault(cfg.AutoTrack, true) {
			c.state = StateEnabled
		} else {
			c.state = StateDisabled
		}
	}
	if c.state == StateEnabled {
		c.visitorID = c.visitors.loadOrCreate()
	}

	c.logger.Info("client initialized (state=%s)", c.state)
	return c, nil
}

// SetTransport replaces the delivery transport.
// Must be called before any events are tracked.
func (c *Client) SetTransport(t Transport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transport = t
}

// deliver is the queue's delivery callback: one POST per flush.
func (c *Client) deliver(events []Event) error {
	c.mu.RLock()
	visitorID := c.visitorID
	transport := c.transport
	c.mu.RUnlock()

	payload := IngestPayload{
		VisitorID: visitorID,
		Source:    SourceClient,
		Events:    events,
	}
	_, err := transport.Send(context.Background(), payload)
	return err
}

// guard reports whether capture is active. Shutdown is the only state that
// produces an error; disabled drops events silently per the privacy
// contract.
func (c *Client) guard() (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch c.state {
	case StateShutdown:
		return false, ErrShutdown
	case StateDisabled:
		return false, nil
	default:
		return true, nil
	}
}

// SetPageContext updates the ambient page state stamped onto events built
// from this point on.
func (c *Client) SetPageContext(page PageContext) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = page
}

func (c *Client) pageSnapshot() PageContext {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page
}

// Track records a custom event. While tracking is disabled this is a
// silent no-op; after Shutdown it returns ErrShutdown.
func (c *Client) Track(eventName string, properties Properties) error {
	active, err := c.guard()
	if err != nil {
		return err
	}
	if eventName == "" {
		return errors.New("event name cannot be empty")
	}
	if !active {
		return nil
	}
	c.queue.Enqueue(newCustomEvent(c.pageSnapshot(), nowMillis(), eventName, properties))
	return nil
}

// Identify associates the visitor with a known identity. All fields are
// optional client-side; anonymous visitors may be identified later.
func (c *Client) Identify(opts IdentifyOptions) error {
	active, err := c.guard()
	if err != nil {
		return err
	}
	if !active {
		return nil
	}
	c.users.set(opts)
	c.queue.Enqueue(newIdentifyEvent(c.pageSnapshot(), nowMillis(), opts))
	return nil
}

// SetUser stores the current user identity and emits an identify event.
func (c *Client) SetUser(opts IdentifyOptions) error {
	return c.Identify(opts)
}

// ClearUser forgets the stored user identity. It never fails; clearing is
// permitted in every state.
func (c *Client) ClearUser() {
	c.users.clear()
}

// Page records a pageview from the current page context, honoring the
// TrackPageviews toggle.
func (c *Client) Page() error {
	active, err := c.guard()
	if err != nil {
		return err
	}
	if !active || !boolOrDefault(c.config.TrackPageviews, true) {
		return nil
	}
	c.queue.Enqueue(newPageviewEvent(c.pageSnapshot(), nowMillis()))
	return nil
}

// TrackForm records a form submission. Fields pass through the sensitive
// field redaction filter before anything reaches the queue.
func (c *Client) TrackForm(formID string, fields map[string]string) error {
	active, err := c.guard()
	if err != nil {
		return err
	}
	if !active || !boolOrDefault(c.config.TrackForms, true) {
		return nil
	}
	retained := RedactFormFields(fields, c.config.FormFieldDenylist)
	c.queue.Enqueue(newFormEvent(c.pageSnapshot(), nowMillis(), formID, retained))
	return nil
}

// TrackCalendar records a booking handed over by a calendar integration,
// honoring the TrackCalendarEmbeds toggle.
func (c *Client) TrackCalendar(booking CalendarBooking) error {
	active, err := c.guard()
	if err != nil {
		return err
	}
	if !active || !boolOrDefault(c.config.TrackCalendarEmbeds, true) {
		return nil
	}
	c.queue.Enqueue(newCalendarEvent(c.pageSnapshot(), nowMillis(), booking))
	return nil
}

func (c *Client) trackStage(stage JourneyStage, properties Properties) error {
	active, err := c.guard()
	if err != nil {
		return err
	}
	if !active {
		return nil
	}
	c.queue.Enqueue(newStageEvent(c.pageSnapshot(), nowMillis(), stage, properties))
	return nil
}

func (c *Client) trackBilling(status BillingStatus, opts BillingOptions) error {
	active, err := c.guard()
	if err != nil {
		return err
	}
	event, err := newBillingEvent(c.pageSnapshot(), nowMillis(), status, opts)
	if err != nil {
		return err
	}
	if !active {
		return nil
	}
	c.queue.Enqueue(event)
	return nil
}

// UserMethods is the journey-stage namespace.
type UserMethods struct {
	client *Client
}

// User returns the journey-stage namespace.
func (c *Client) User() UserMethods { return UserMethods{client: c} }

// Activate marks the user as activated.
func (u UserMethods) Activate(properties Properties) error {
	return u.client.trackStage(StageActivated, properties)
}

// Engaged marks the user as engaged.
func (u UserMethods) Engaged(properties Properties) error {
	return u.client.trackStage(StageEngaged, properties)
}

// Inactive marks the user as inactive.
func (u UserMethods) Inactive(properties Properties) error {
	return u.client.trackStage(StageInactive, properties)
}

// CustomerMethods is the billing namespace.
type CustomerMethods struct {
	client *Client
}

// Customer returns the billing namespace.
func (c *Client) Customer() CustomerMethods { return CustomerMethods{client: c} }

// Trialing marks the customer as trialing.
func (m CustomerMethods) Trialing(opts BillingOptions) error {
	return m.client.trackBilling(BillingTrialing, opts)
}

// Paid marks the customer as paid.
func (m CustomerMethods) Paid(opts BillingOptions) error {
	return m.client.trackBilling(BillingPaid, opts)
}

// Churned marks the customer as churned.
func (m CustomerMethods) Churned(opts BillingOptions) error {
	return m.client.trackBilling(BillingChurned, opts)
}

// GetVisitorID returns the persisted visitor identity, or "" while tracking
// is disabled. After Shutdown it keeps returning the last known value.
func (c *Client) GetVisitorID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visitorID
}

// IsTrackingEnabled reports whether capture is active.
func (c *Client) IsTrackingEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == StateEnabled
}

// PendingEventCount returns the number of buffered events.
func (c *Client) PendingEventCount() int {
	return c.queue.Size()
}

// Flush delivers all buffered events now.
func (c *Client) Flush() error {
	c.mu.RLock()
	shutdown := c.state == StateShutdown
	c.mu.RUnlock()
	if shutdown {
		return ErrShutdown
	}
	return c.queue.Flush()
}

// EnableTracking turns capture on and persists the granted decision.
// Idempotent; the visitor identity is created here if it never existed.
func (c *Client) EnableTracking() error {
	c.mu.Lock()
	if c.state == StateShutdown {
		c.mu.Unlock()
		return ErrShutdown
	}
	if c.state == StateEnabled {
		c.mu.Unlock()
		c.consent.Set(true)
		return nil
	}
	c.state = StateEnabled
	c.visitorID = c.visitors.loadOrCreate()
	c.mu.Unlock()

	c.consent.Set(true)

	if c.config.AutoIdentify && !c.users.isEmpty() {
		c.queue.Enqueue(newIdentifyEvent(c.pageSnapshot(), nowMillis(), c.users.get()))
	}

	c.notify(StateEnabled)
	return nil
}

// DisableTracking flushes what was captured under consent, then turns
// capture off and persists the denied decision.
func (c *Client) DisableTracking() error {
	c.mu.Lock()
	if c.state == StateShutdown {
		c.mu.Unlock()
		return ErrShutdown
	}
	if c.state == StateDisabled {
		c.mu.Unlock()
		c.consent.Set(false)
		return nil
	}
	c.mu.Unlock()

	// Events queued under consent should still be delivered.
	if err := c.queue.Flush(); err != nil {
		c.logger.Warn("flush before opt-out failed: %v", err)
	}

	c.mu.Lock()
	c.state = StateDisabled
	c.visitorID = ""
	c.mu.Unlock()

	c.consent.Set(false)
	c.notify(StateDisabled)
	return nil
}

// Shutdown flushes remaining events, stops the periodic timer and makes
// every later public call fail with ErrShutdown. Terminal.
func (c *Client) Shutdown() error {
	c.mu.Lock()
	if c.state == StateShutdown {
		c.mu.Unlock()
		return ErrShutdown
	}
	c.state = StateShutdown
	c.mu.Unlock()

	err := c.queue.Flush()
	c.queue.Stop()
	c.notify(StateShutdown)
	return err
}

// Close is the best-effort unload path: it drains the buffer and hands the
// remaining events to the transport's fire-and-forget send, then shuts the
// client down. It never fails; a delivery problem at this point is only a
// warning.
func (c *Client) Close() {
	c.mu.Lock()
	if c.state == StateShutdown {
		c.mu.Unlock()
		return
	}
	c.state = StateShutdown
	visitorID := c.visitorID
	c.mu.Unlock()

	c.queue.Stop()
	events := c.queue.drain()
	if len(events) > 0 {
		c.transport.SendBeacon(IngestPayload{
			VisitorID: visitorID,
			Source:    SourceClient,
			Events:    events,
		})
	}
	c.notify(StateShutdown)
}

// OnStateChange subscribes to lifecycle transitions. The returned function
// cancels the subscription.
func (c *Client) OnStateChange(fn StateListener) func() {
	c.listenerMu.Lock()
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = fn
	c.listenerMu.Unlock()

	return func() {
		c.listenerMu.Lock()
		delete(c.listeners, id)
		c.listenerMu.Unlock()
	}
}

func (c *Client) notify(state State) {
	c.listenerMu.RLock()
	fns := make([]StateListener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.listenerMu.RUnlock()

	for _, fn := range fns {
		fn(state)
	}
}
