// Package memory keeps every record in process memory. It backs local runs
// with DB_DRIVER=memory and the service tests; data is lost on restart.
package memory

import (
	"sync"

	"github.com/google/uuid"
)

// Store holds the shared state of all memory repositories.
type Store struct {
	mu            sync.RWMutex
	users         map[string]userRecord
	refreshTokens []refreshToken
	timesheets    map[string]timesheetRecord
	leave         map[string]leaveRecord
	seq           int64
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]userRecord),
		timesheets: make(map[string]timesheetRecord),
		leave:      make(map[string]leaveRecord),
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// next returns a strictly increasing insertion counter used to break ties
// between records created at the same instant.
func (s *Store) next() int64 {
	s.seq++
	return s.seq
}
