package tenantscope

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nodepress/demo-control-plane/internal/domain"
	"github.com/nodepress/demo-control-plane/internal/repository"
)

// Filters is the caller-facing filter set. It deliberately has no tenant
// field: the scope decides that, and only the scope.
type Filters struct {
	Kind      *domain.ContentKind
	Published *bool
	Limit     int
	Offset    int
}

// Store filters every content access by scope. Creates are force-stamped
// with the scope's tenant id regardless of what the payload carries; by-id
// reads post-check ownership and report mismatches as not-found, so the
// existence of other tenants' records never leaks.
type Store struct {
	contents repository.Contents
}

func NewStore(contents repository.Contents) *Store {
	return &Store{
		contents: contents,
	}
}

func (s *Store) Create(ctx context.Context, scope Scope, item *domain.ContentItem) error {
	item.TenantID = scope.TenantID()

	if item.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate content id failed: %w", err)
		}
		item.ID = id
	}

	return s.contents.Create(ctx, item)
}

func (s *Store) GetByID(ctx context.Context, scope Scope, id uuid.UUID) (*domain.ContentItem, error) {
	item, err := s.contents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !scope.owns(item.TenantID) {
		return nil, domain.ErrNotFound
	}

	return item, nil
}

func (s *Store) List(ctx context.Context, scope Scope, filters *Filters) ([]*domain.ContentItem, error) {
	return s.contents.List(ctx, scoped(scope, filters))
}

func (s *Store) Count(ctx context.Context, scope Scope, filters *Filters) (int64, error) {
	return s.contents.Count(ctx, scoped(scope, filters))
}

func (s *Store) Update(ctx context.Context, scope Scope, item *domain.ContentItem) error {
	return s.contents.UpdateScoped(ctx, item, scope.TenantID())
}

func (s *Store) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	return s.contents.DeleteScoped(ctx, id, scope.TenantID())
}

func scoped(scope Scope, filters *Filters) *repository.ContentFilters {
	out := &repository.ContentFilters{
		Tenant: scope.TenantID(),
	}
	if filters != nil {
		out.Kind = filters.Kind
		out.Published = filters.Published
		out.Limit = filters.Limit
		out.Offset = filters.Offset
	}
	return out
}
