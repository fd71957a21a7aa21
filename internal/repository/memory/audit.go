package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/audit"
)

type AuditSink struct {
	mu      sync.RWMutex
	entries []audit.Entry
	// Err, when set, makes Record fail.
	Err error
}

func NewAuditSink() *AuditSink {
	return &AuditSink{}
}

func (s *AuditSink) Record(ctx context.Context, e audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	if e.ID == "" {
		e.ID = audit.NewEntryID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	s.entries = append(s.entries, e)
	return nil
}

func (s *AuditSink) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []audit.Entry
	for _, e := range s.entries {
		if filter.ActorID != nil && e.ActorID != *filter.ActorID {
			continue
		}
		if filter.Category != nil && e.Category != *filter.Category {
			continue
		}
		matched = append(matched, e)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Timestamp.After(matched[j].Timestamp) })

	total := int64(len(matched))
	start := filter.Offset()
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if filter.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}

	page := make([]audit.Entry, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

// Entries returns every recorded entry in insertion order.
func (s *AuditSink) Entries() []audit.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]audit.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
