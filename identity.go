package outlit

import (
	"github.com/google/uuid"
	"github.com/outlit/outlit-go/adapters"
)

// Storage key for the visitor identity, duplicated across both backends.
const visitorIDKey = "outlit_visitor_id"

// visitorStore reads and lazily creates the stable per-profile visitor ID.
// An identity is only ever minted through loadOrCreate, which the client
// calls strictly after consent allows tracking.
type visitorStore struct {
	primary  adapters.StorageAdapter
	fallback adapters.StorageAdapter
	logger   adapters.LoggerAdapter
}

func newVisitorStore(primary, fallback adapters.StorageAdapter, logger adapters.LoggerAdapter) *visitorStore {
	return &visitorStore{primary: primary, fallback: fallback, logger: logger}
}

// load returns the persisted visitor ID, or "" when none exists.
// Malformed stored values are treated as absent.
func (s *visitorStore) load() string {
	value, err := s.primary.Get(visitorIDKey)
	if err != nil {
		s.logger.Debug("primary visitor storage unavailable: %v", err)
		value = ""
	}
	if value == "" {
		value, err = s.fallback.Get(visitorIDKey)
		if err != nil {
			s.logger.Debug("fallback visitor storage unavailable: %v", err)
			return ""
		}
	}
	if value == "" {
		return ""
	}
	if _, err := uuid.Parse(value); err != nil {
		s.logger.Warn("discarding malformed visitor id %q", value)
		return ""
	}
	return value
}

// loadOrCreate returns the persisted visitor ID, minting and persisting a
// fresh UUID v4 to both backends when none exists.
func (s *visitorStore) loadOrCreate() string {
	if id := s.load(); id != "" {
		return id
	}
	id := uuid.NewString()
	if err := s.primary.Set(visitorIDKey, id); err != nil {
		s.logger.Debug("failed to persist visitor id to primary storage: %v", err)
	}
	if err := s.fallback.Set(visitorIDKey, id); err != nil {
		s.logger.Debug("failed to persist visitor id to fallback storage: %v", err)
	}
	return id
}

// clear removes the visitor ID from both backends.
func (s *visitorStore) clear() {
	if err := s.primary.Delete(visitorIDKey); err != nil {
		s.logger.Debug("failed to clear visitor id from primary storage: %v", err)
	}
	if err := s.fallback.Delete(visitorIDKey); err != nil {
		s.logger.Debug("failed to clear visitor id from fallback storage: %v", err)
	}
}
