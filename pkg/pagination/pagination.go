package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Cursor marks the last item a client has seen. Results resume strictly after it
// in (At desc, ID desc) order.
type Cursor struct {
	ID string    `json:"id"`
	At time.Time `json:"at"`
}

// CursorParams represents input parameters for cursor-based pagination
type CursorParams struct {
	Cursor string `form:"cursor" json:"cursor"` // base64 encoded Cursor
	Limit  int    `form:"limit" json:"limit"`
}

// CursorPagination is the pagination block returned alongside a page of items
type CursorPagination struct {
	NextCursor *string `json:"next_cursor,omitempty"`
	HasNext    bool    `json:"has_next"`
	Limit      int     `json:"limit"`
	Total      int64   `json:"total"`
}

// CursorPaginatedResult represents a cursor-paginated result with items
type CursorPaginatedResult[T any] struct {
	Items      []T               `json:"items"`
	Pagination *CursorPagination `json:"pagination"`
}

// Validate clamps the limit into [1, MaxLimit]
func (c *CursorParams) Validate() {
	if c.Limit < 1 {
		c.Limit = DefaultLimit
	}
	if c.Limit > MaxLimit {
		c.Limit = MaxLimit
	}
}

// DecodeCursor decodes the base64 cursor. An empty cursor yields (nil, nil).
func (c *CursorParams) DecodeCursor() (*Cursor, error) {
	if c.Cursor == "" {
		return nil, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(c.Cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor format: %w", err)
	}

	var cursor Cursor
	if err := json.Unmarshal(decoded, &cursor); err != nil {
		return nil, fmt.Errorf("invalid cursor data: %w", err)
	}
	if cursor.ID == "" {
		return nil, fmt.Errorf("invalid cursor data: missing id")
	}

	return &cursor, nil
}

// EncodeCursor creates a base64 encoded cursor
func EncodeCursor(id string, at time.Time) string {
	data, _ := json.Marshal(Cursor{ID: id, At: at.UTC()})
	return base64.URLEncoding.EncodeToString(data)
}

// NewCursorPaginatedResult trims items fetched with limit+1 down to limit and
// builds the next cursor from the last item kept.
func NewCursorPaginatedResult[T any](items []T, limit int, total int64, key func(T) (string, time.Time)) *CursorPaginatedResult[T] {
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	p := &CursorPagination{
		Limit:   limit,
		HasNext: hasMore,
		Total:   total,
	}
	if hasMore && len(items) > 0 {
		id, at := key(items[len(items)-1])
		next := EncodeCursor(id, at)
		p.NextCursor = &next
	}

	if items == nil {
		items = []T{}
	}
	return &CursorPaginatedResult[T]{Items: items, Pagination: p}
}
