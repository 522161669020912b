package outlit

import "sync"

// userState holds the currently associated user identity and traits,
// shared by identify events and the AutoIdentify re-emit on enable.
type userState struct {
	mu     sync.RWMutex
	email  string
	userID string
	traits Properties
}

func newUserState() *userState {
	return &userState{}
}

// set replaces the stored identity. Traits are merged, not replaced, so
// successive identify calls accumulate knowledge about the user.
func (u *userState) set(opts IdentifyOptions) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if opts.Email != "" {
		u.email = opts.Email
	}
	if opts.UserID != "" {
		u.userID = opts.UserID
	}
	if len(opts.Traits) > 0 {
		if u.traits == nil {
			u.traits = make(Properties, len(opts.Traits))
		}
		for k, v := range opts.Traits {
			u.traits[k] = v
		}
	}
}

// get returns a copy of the stored identity.
func (u *userState) get() IdentifyOptions {
	u.mu.RLock()
	defer u.mu.RUnlock()
	opts := IdentifyOptions{Email: u.email, UserID: u.userID}
	if len(u.traits) > 0 {
		opts.Traits = make(Properties, len(u.traits))
		for k, v := range u.traits {
			opts.Traits[k] = v
		}
	}
	return opts
}

// isEmpty reports whether any identity is stored.
func (u *userState) isEmpty() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.email == "" && u.userID == "" && len(u.traits) == 0
}

// clear forgets the stored identity and traits.
func (u *userState) clear() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.email = ""
	u.userID = ""
	u.traits = nil
}
