package persistence

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dukex/flowdesk/pkg/models"
)

// List defaults.
const (
	DefaultLimit = 20
	MaxLimit     = 100

	SortCreatedAt = "created_at"
	SortUpdatedAt = "updated_at"
	SortName      = "name"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListOptions filters and pages a repository listing.
type ListOptions struct {
	OwnerID  string
	IsActive *bool
	AgentID  string

	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// ListResult is one page of records.
type ListResult[T any] struct {
	Items       []T   `json:"items"`
	TotalCount  int64 `json:"total_count"`
	HasNextPage bool  `json:"has_next_page"`
}

// Normalize applies defaults and checks the sort parameters against the allowlist.
func (o ListOptions) Normalize() (ListOptions, error) {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}

	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}

	if o.Offset < 0 {
		o.Offset = 0
	}

	if o.SortBy == "" {
		o.SortBy = SortCreatedAt
	}

	if o.SortOrder == "" {
		o.SortOrder = SortDesc
	}

	o.SortOrder = strings.ToLower(o.SortOrder)

	switch o.SortBy {
	case SortCreatedAt, SortUpdatedAt, SortName:
	default:
		return o, fmt.Errorf("%w: %s", ErrInvalidSortField, o.SortBy)
	}

	if o.SortOrder != SortAsc && o.SortOrder != SortDesc {
		return o, fmt.Errorf("%w: %s", ErrInvalidSortOrder, o.SortOrder)
	}

	return o, nil
}

// Matches reports whether a document passes the owner, active and agent filters.
func (o ListOptions) Matches(doc models.Document) bool {
	base := doc.Base()

	if o.OwnerID != "" && base.OwnerID != o.OwnerID {
		return false
	}

	if o.IsActive != nil && base.IsActive != *o.IsActive {
		return false
	}

	if o.AgentID != "" {
		linked, ok := doc.(models.AgentLinked)
		if !ok || linked.AgentRef() == nil || *linked.AgentRef() != o.AgentID {
			return false
		}
	}

	return true
}

// Paginate filters, sorts and pages documents in memory. opts must be normalized.
func Paginate[T models.Document](docs []T, opts ListOptions) *ListResult[T] {
	filtered := make([]T, 0, len(docs))

	for _, doc := range docs {
		if opts.Matches(doc) {
			filtered = append(filtered, doc)
		}
	}

	SortDocuments(filtered, opts.SortBy, opts.SortOrder)

	totalCount := int64(len(filtered))

	if opts.Offset >= len(filtered) {
		return &ListResult[T]{Items: make([]T, 0), TotalCount: totalCount}
	}

	endIdx := min(opts.Offset+opts.Limit, len(filtered))

	return &ListResult[T]{
		Items:       slices.Clone(filtered[opts.Offset:endIdx]),
		TotalCount:  totalCount,
		HasNextPage: endIdx < len(filtered),
	}
}

// SortDocuments sorts in place by the given field; ties fall back to the id so listings
// are stable across calls.
func SortDocuments[T models.Document](docs []T, sortBy, sortOrder string) {
	slices.SortStableFunc(docs, func(a, b T) int {
		var cmp int

		switch sortBy {
		case SortUpdatedAt:
			cmp = a.Base().UpdatedAt.Compare(b.Base().UpdatedAt)
		case SortName:
			cmp = strings.Compare(a.DisplayName(), b.DisplayName())
		default:
			cmp = a.Base().CreatedAt.Compare(b.Base().CreatedAt)
		}

		if cmp == 0 {
			cmp = strings.Compare(a.Base().ID, b.Base().ID)
		}

		if sortOrder == SortDesc {
			return -cmp
		}

		return cmp
	})
}
