package outlit

import "github.com/outlit/outlit-go/adapters"

// Storage key for the consent decision, duplicated across both backends.
const consentKey = "outlit_consent"

// Consent is the persisted tri-state opt-in/opt-out decision.
type Consent int

const (
	// ConsentUnset means no decision has been recorded.
	ConsentUnset Consent = iota
	// ConsentDenied means the visitor opted out.
	ConsentDenied
	// ConsentGranted means the visitor opted in.
	ConsentGranted
)

// ConsentStore persists the opt-in/opt-out decision redundantly in a
// primary and a fallback storage backend, so either surviving a clear is
// enough. A backend being unavailable is never an error; the store
// degrades to the other backend.
type ConsentStore struct {
	primary  adapters.StorageAdapter
	fallback adapters.StorageAdapter
	logger   adapters.LoggerAdapter
}

// NewConsentStore creates a consent store over the two backends.
func NewConsentStore(primary, fallback adapters.StorageAdapter, logger adapters.LoggerAdapter) *ConsentStore {
	return &ConsentStore{primary: primary, fallback: fallback, logger: logger}
}

// Get reads the decision, preferring the primary backend.
func (s *ConsentStore) Get() Consent {
	value, err := s.primary.Get(consentKey)
	if err != nil {
		s.logger.Debug("primary consent storage unavailable: %v", err)
		value = ""
	}
	if value == "" {
		value, err = s.fallback.Get(consentKey)
		if err != nil {
			s.logger.Debug("fallback consent storage unavailable: %v", err)
			return ConsentUnset
		}
	}
	switch value {
	case "1":
		return ConsentGranted
	case "0":
		return ConsentDenied
	default:
		return ConsentUnset
	}
}

// Set writes the decision to both backends.
func (s *ConsentStore) Set(granted bool) {
	value := "0"
	if granted {
		value = "1"
	}
	if err := s.primary.Set(consentKey, value); err != nil {
		s.logger.Debug("failed to persist consent to primary storage: %v", err)
	}
	if err := s.fallback.Set(consentKey, value); err != nil {
		s.logger.Debug("failed to persist consent to fallback storage: %v", err)
	}
}

// Clear removes the decision from both backends.
func (s *ConsentStore) Clear() {
	if err := s.primary.Delete(consentKey); err != nil {
		s.logger.Debug("failed to clear consent from primary storage: %v", err)
	}
	if err := s.fallback.Delete(consentKey); err != nil {
		s.logger.Debug("failed to clear consent from fallback storage: %v", err)
	}
}
