package outlit

import (
	"testing"
	"time"

	"github.com/outlit/outlit-go/adapters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServerClient(t *testing.T) (*ServerClient, *mockTransport) {
	t.Helper()
	cfg := Config{PublicKey: "pk_test", FlushInterval: time.Hour}
	cfg.Adapters.Storage = adapters.NewMemoryStorageAdapter()
	cfg.Adapters.Logger = adapters.NewNoOpLoggerAdapter()

	client, err := NewServerClient(cfg)
	require.NoError(t, err)
	mock := &mockTransport{}
	client.SetTransport(mock)
	return client, mock
}

func TestServerClient_TrackWithEmail(t *testing.T) {
	client, mock := newTestServerClient(t)
	defer client.Shutdown()

	err := client.Track("signup").
		Email("user@example.com").
		Property("plan", String("pro")).
		Send()
	require.NoError(t, err)
	require.NoError(t, client.Flush())

	sent := mock.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, SourceServer, sent[0].Source)
	assert.Empty(t, sent[0].VisitorID, "server payloads carry no visitor id")

	event := sent[0].Events[0]
	assert.Equal(t, EventCustom, event.Type)
	assert.Equal(t, "signup", event.EventName)
	assert.Equal(t, "server://user@example.com", event.URL)
	assert.Equal(t, "/", event.Path)
	assert.Equal(t, String("pro"), event.Properties["plan"])
	assert.Equal(t, String("user@example.com"), event.Properties["__email"])
	assert.Equal(t, Null(), event.Properties["__userId"])
	assert.Equal(t, Null(), event.Properties["__fingerprint"])
}

func TestServerClient_TrackRequiresIdentity(t *testing.T) {
	client, _ := newTestServerClient(t)
	defer client.Shutdown()

	err := client.Track("signup").Send()
	var idErr *IdentityError
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, 0, client.PendingEventCount(), "invalid events never reach the queue")
}

func TestServerClient_TrackFingerprintOnly(t *testing.T) {
	client, _ := newTestServerClient(t)
	defer client.Shutdown()

	err := client.Track("page_viewed").Fingerprint("fp-123").Send()
	require.NoError(t, err)
	assert.Equal(t, 1, client.PendingEventCount())
}

func TestServerClient_TrackEmptyName(t *testing.T) {
	client, _ := newTestServerClient(t)
	defer client.Shutdown()

	require.Error(t, client.Track("").Email("user@example.com").Send())
	assert.Equal(t, 0, client.PendingEventCount())
}

func TestServerClient_TrackTimestampOverride(t *testing.T) {
	client, mock := newTestServerClient(t)
	defer client.Shutdown()

	require.NoError(t, client.Track("import").UserID("u1").Timestamp(1700000000000).Send())
	require.NoError(t, client.Flush())

	assert.Equal(t, int64(1700000000000), mock.sent()[0].Events[0].Timestamp)
}

func TestServerClient_IdentifyNeedsUserIdentity(t *testing.T) {
	client, _ := newTestServerClient(t)
	defer client.Shutdown()

	// A fingerprint alone is not enough for identify.
	err := client.Identify().Fingerprint("fp-123").Send()
	var idErr *IdentityError
	require.ErrorAs(t, err, &idErr)

	require.NoError(t, client.Identify().Email("user@example.com").Trait("role", String("admin")).Send())
	assert.Equal(t, 1, client.PendingEventCount())
}

func TestServerClient_IdentifyEvent(t *testing.T) {
	client, mock := newTestServerClient(t)
	defer client.Shutdown()

	require.NoError(t, client.Identify().
		UserID("u1").
		Fingerprint("fp-123").
		Trait("plan", String("pro")).
		Send())
	require.NoError(t, client.Flush())

	event := mock.sent()[0].Events[0]
	assert.Equal(t, EventIdentify, event.Type)
	assert.Equal(t, "u1", event.UserID)
	assert.Equal(t, "fp-123", event.Fingerprint)
	assert.Equal(t, String("pro"), event.Traits["plan"])
}

func TestServerClient_StageNamespace(t *testing.T) {
	client, mock := newTestServerClient(t)
	defer client.Shutdown()

	require.Error(t, client.User().Activate().Send(), "stage events need an identity too")

	require.NoError(t, client.User().Engaged().Email("user@example.com").Send())
	require.NoError(t, client.Flush())

	event := mock.sent()[0].Events[0]
	assert.Equal(t, EventStage, event.Type)
	assert.Equal(t, StageEngaged, event.Stage)
	assert.Equal(t, String("user@example.com"), event.Properties["__email"])
}

func TestServerClient_BillingNamespace(t *testing.T) {
	client, mock := newTestServerClient(t)
	defer client.Shutdown()

	err := client.Customer().Churned("").Send()
	var idErr *IdentityError
	require.ErrorAs(t, err, &idErr)

	require.NoError(t, client.Customer().Paid("acme.com").StripeCustomerID("cus_123").Send())
	require.NoError(t, client.Flush())

	event := mock.sent()[0].Events[0]
	assert.Equal(t, EventBilling, event.Type)
	assert.Equal(t, BillingPaid, event.Status)
	assert.Equal(t, "acme.com", event.Domain)
	assert.Equal(t, "cus_123", event.StripeCustomerID)
	assert.Equal(t, "server://acme.com", event.URL)
}

func TestServerClient_ShutdownGuard(t *testing.T) {
	client, mock := newTestServerClient(t)

	require.NoError(t, client.Track("final").Email("user@example.com").Send())
	require.NoError(t, client.Shutdown())

	require.ErrorIs(t, client.Track("late").Email("user@example.com").Send(), ErrShutdown)
	require.ErrorIs(t, client.Flush(), ErrShutdown)
	require.ErrorIs(t, client.Shutdown(), ErrShutdown)

	sent := mock.sent()
	require.Len(t, sent, 1, "shutdown flushed the pending event")
	assert.Equal(t, "final", sent[0].Events[0].EventName)
}
