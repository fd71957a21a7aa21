package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/audit"
	"github.com/storeshift/hris-backend-go/internal/domain/outcome"
	"github.com/storeshift/hris-backend-go/internal/domain/user"
	"github.com/storeshift/hris-backend-go/internal/pkg/sanitizer"
)

type HistoryServiceImpl struct {
	sink      audit.Sink
	sanitizer sanitizer.Sanitizer
	now       func() time.Time
}

func NewHistoryService(sink audit.Sink, s sanitizer.Sanitizer) *HistoryServiceImpl {
	return &HistoryServiceImpl{sink: sink, sanitizer: s, now: time.Now}
}

// Log implements audit.Logger.
func (h *HistoryServiceImpl) Log(ctx context.Context, actor user.Principal, category audit.Category, description string) {
	entry := audit.Entry{
		ID:          audit.NewEntryID(),
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		Description: h.sanitizer.Clean(description),
		Category:    category,
		Timestamp:   h.now(),
	}

	if err := h.sink.Record(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "Failed to record history entry",
			"actor_id", actor.ID,
			"category", category,
			"description", entry.Description,
			"error", err,
		)
	}
}

// ListAll implements audit.HistoryService.
func (h *HistoryServiceImpl) ListAll(ctx context.Context, filter audit.Filter) (outcome.Result[audit.ListResponse], error) {
	return h.list(ctx, filter)
}

// ListMine implements audit.HistoryService.
func (h *HistoryServiceImpl) ListMine(ctx context.Context, p user.Principal, filter audit.Filter) (outcome.Result[audit.ListResponse], error) {
	filter.ActorID = &p.ID
	return h.list(ctx, filter)
}

func (h *HistoryServiceImpl) list(ctx context.Context, filter audit.Filter) (outcome.Result[audit.ListResponse], error) {
	if err := filter.Normalize(); err != nil {
		return outcome.Invalid[audit.ListResponse](err), nil
	}

	entries, total, err := h.sink.List(ctx, filter)
	if err != nil {
		return outcome.Result[audit.ListResponse]{}, fmt.Errorf("failed to list history: %w", err)
	}

	return outcome.OK("History retrieved successfully", audit.NewListResponse(entries, total, filter)), nil
}
