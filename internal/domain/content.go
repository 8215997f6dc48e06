package domain

import (
	"time"

	"github.com/google/uuid"
)

type ContentKind string

const (
	ContentPost    ContentKind = "post"
	ContentPage    ContentKind = "page"
	ContentProduct ContentKind = "product"
	ContentCourse  ContentKind = "course"
	ContentMedia   ContentKind = "media"
)

// ContentItem is a tenant-scoped CMS record. TenantID nil means production
// data; a non-nil TenantID means the row belongs exclusively to that trial
// environment and is only ever visible through its scope.
type ContentItem struct {
	ID        uuid.UUID   `db:"id"`
	TenantID  *uuid.UUID  `db:"tenant_id"`
	Kind      ContentKind `db:"kind"`
	Title     string      `db:"title"`
	Slug      string      `db:"slug"`
	Body      string      `db:"body"`
	Published bool        `db:"published"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt *time.Time  `db:"updated_at"`
}
