package outlit

import "sync"

// Process-wide load guard: exactly one installed client per process,
// idempotent against double-loading. A second Install returns the existing
// client unchanged, so visitor identity and enabled state are never reset.
var (
	installMu sync.Mutex
	installed *Client
)

// Install constructs the process-wide client on first call and replays the
// stub's deferred calls against it. Later calls ignore their arguments and
// return the already installed client.
func Install(config Config, stub *Stub) (*Client, error) {
	installMu.Lock()
	defer installMu.Unlock()

	if installed != nil {
		return installed, nil
	}

	client, err := NewClient(config)
	if err != nil {
		return nil, err
	}
	if stub != nil {
		stub.Replay(client)
	}
	installed = client
	return client, nil
}

// Installed returns the process-wide client, or nil before Install.
func Installed() *Client {
	installMu.Lock()
	defer installMu.Unlock()
	return installed
}

// Uninstall forgets the process-wide client without shutting it down.
// Primarily for tests.
func Uninstall() {
	installMu.Lock()
	defer installMu.Unlock()
	installed = nil
}
