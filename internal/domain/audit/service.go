package audit

import (
	"context"

	"github.com/storeshift/hris-backend-go/internal/domain/outcome"
	"github.com/storeshift/hris-backend-go/internal/domain/user"
)

// Logger writes history entries on behalf of the workflow engines. Failures
// are logged, not returned.
type Logger interface {
	Log(ctx context.Context, actor user.Principal, category Category, description string)
}

type HistoryService interface {
	Logger

	ListAll(ctx context.Context, filter Filter) (outcome.Result[ListResponse], error)
	ListMine(ctx context.Context, p user.Principal, filter Filter) (outcome.Result[ListResponse], error)
}
