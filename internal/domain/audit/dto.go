package audit

import (
	"time"

	"github.com/storeshift/hris-backend-go/internal/pkg/validator"
)

type Filter struct {
	ActorID  *string
	Category *Category
	Page     int
	Limit    int
}

// Normalize fills in paging defaults and validates the filter.
func (f *Filter) Normalize() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}
	if f.Category != nil && !f.Category.Valid() {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "category is not recognized"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type EntryResponse struct {
	ID          string    `json:"id"`
	ActorID     string    `json:"actor_id"`
	ActorName   string    `json:"actor_name"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Timestamp   time.Time `json:"timestamp"`
}

type ListResponse struct {
	Entries    []EntryResponse `json:"entries"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalCount int64           `json:"total_count"`
}

func NewListResponse(entries []Entry, total int64, f Filter) ListResponse {
	items := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, EntryResponse(e))
	}
	return ListResponse{Entries: items, Page: f.Page, Limit: f.Limit, TotalCount: total}
}
