package outlit

import "sync"

// Stub is the deferred command queue backing the pre-load snippet pattern:
// before the real client exists, calls are recorded as (method, args)
// tuples; once the client initializes they are replayed in original order
// and the stub empties itself. Replay errors are dropped the way automatic
// capture paths drop them, so a buffered bad call cannot break the host.
type Stub struct {
	mu       sync.Mutex
	calls    []StubCall
	replayed bool
}

// StubCall is one deferred invocation.
type StubCall struct {
	Method string
	Args   []any
}

// NewStub creates an empty stub queue.
func NewStub() *Stub {
	return &Stub{}
}

// Record buffers a call. After Replay the stub is spent and records
// nothing; callers should be talking to the real client by then.
func (s *Stub) Record(method string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replayed {
		return
	}
	s.calls = append(s.calls, StubCall{Method: method, Args: args})
}

// Len returns the number of buffered calls.
func (s *Stub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// Replay applies the buffered calls to the client in FIFO order, then
// discards them. Replaying twice is a no-op.
func (s *Stub) Replay(client *Client) {
	s.mu.Lock()
	if s.replayed {
		s.mu.Unlock()
		return
	}
	calls := s.calls
	s.calls = nil
	s.replayed = true
	s.mu.Unlock()

	for _, call := range calls {
		s.apply(client, call)
	}
}

func (s *Stub) apply(client *Client, call StubCall) {
	switch call.Method {
	case "track":
		name, _ := argAt[string](call.Args, 0)
		props, _ := argAt[Properties](call.Args, 1)
		_ = client.Track(name, props)
	case "identify":
		opts, _ := argAt[IdentifyOptions](call.Args, 0)
		_ = client.Identify(opts)
	case "page":
		_ = client.Page()
	case "setUser":
		opts, _ := argAt[IdentifyOptions](call.Args, 0)
		_ = client.SetUser(opts)
	case "clearUser":
		client.ClearUser()
	case "enableTracking":
		_ = client.EnableTracking()
	case "disableTracking":
		_ = client.DisableTracking()
	}
}

func argAt[T any](args []any, i int) (T, bool) {
	var zero T
	if i >= len(args) {
		return zero, false
	}
	v, ok := args[i].(T)
	if !ok {
		return zero, false
	}
	return v, true
}
