package repository

import (
	"strconv"
	"sync"
	"time"
)

// idSource mints millisecond-timestamp ids. Two creates inside the same
// millisecond would collide on the same key, so the last issued value is
// bumped forward when the clock has not moved yet.
type idSource struct {
	mu   sync.Mutex
	last int64
}

func (s *idSource) next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= s.last {
		now = s.last + 1
	}
	s.last = now
	return strconv.FormatInt(now, 10)
}
