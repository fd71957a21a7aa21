package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/audit"
	"github.com/storeshift/hris-backend-go/internal/pkg/database"
)

type auditRepositoryImpl struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.Sink {
	return &auditRepositoryImpl{db: db}
}

// Record implements audit.Sink.
func (r *auditRepositoryImpl) Record(ctx context.Context, e audit.Entry) error {
	q := GetQuerier(ctx, r.db)

	if e.ID == "" {
		e.ID = audit.NewEntryID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	query := `
		INSERT INTO audit_trails (id, actor_id, actor_name, description, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := q.Exec(ctx, query, e.ID, e.ActorID, e.ActorName, e.Description, string(e.Category), e.Timestamp); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// List implements audit.Sink.
func (r *auditRepositoryImpl) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, int64, error) {
	q := GetQuerier(ctx, r.db)

	var (
		where []string
		args  []interface{}
	)
	if filter.ActorID != nil {
		args = append(args, *filter.ActorID)
		where = append(where, fmt.Sprintf("actor_id = $%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, string(*filter.Category))
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM audit_trails "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`
		SELECT id, actor_id, actor_name, description, category, created_at
		FROM audit_trails
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	entries := []audit.Entry{}
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorName, &e.Description, &e.Category, &e.Timestamp); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate audit entries: %w", err)
	}

	return entries, total, nil
}
