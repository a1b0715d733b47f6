package ops

import (
	"database/sql"

	"github.com/hpungsan/clickr/internal/db"
)

// ProfileSummary is a library row without its profile body.
type ProfileSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	OS         string `json:"os"`
	LayerCount int    `json:"layer_count"`
	Active     bool   `json:"active"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
}

func summarize(r *db.Record) ProfileSummary {
	return ProfileSummary{
		ID:         r.ID,
		Name:       r.NameRaw,
		OS:         r.OS,
		LayerCount: r.LayerCount,
		Active:     r.Active,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit  int // default: 20, max: 100
	Offset int // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []ProfileSummary `json:"items"`
	Pagination Pagination       `json:"pagination"`
	Sort       string           `json:"sort"`
}

// List retrieves profile summaries with pagination.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := max(input.Offset, 0)

	records, total, err := db.List(database, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]ProfileSummary, 0, len(records))
	for i := range records {
		items = append(items, summarize(&records[i]))
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
		Sort: "updated_at_desc",
	}, nil
}
