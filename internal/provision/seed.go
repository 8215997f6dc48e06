package provision

import (
	"context"

	pkgerrors "github.com/pkg/errors"

	"github.com/nodepress/demo-control-plane/internal/domain"
	"github.com/nodepress/demo-control-plane/internal/tenantscope"
)

type seedEntry struct {
	kind  domain.ContentKind
	title string
	slug  string
	body  string
}

var sampleContent = []seedEntry{
	{domain.ContentPage, "Welcome to your demo", "welcome", "This trial environment is yours to explore. Everything you see can be edited or deleted."},
	{domain.ContentPage, "About us", "about", "A sample about page showing the page editor."},
	{domain.ContentPost, "Getting started with your site", "getting-started", "Walk through creating your first post, page and product."},
	{domain.ContentPost, "Three tips for launch week", "launch-week-tips", "Sample editorial content to play with."},
	{domain.ContentProduct, "Starter plan", "starter-plan", "An example product with a price and description."},
	{domain.ContentProduct, "Annual membership", "annual-membership", "A second product for testing listings."},
	{domain.ContentCourse, "Intro course", "intro-course", "A sample course shell with one module."},
}

// seedSampleContent loads the demo's starting content through the scoped
// store, which stamps every row with the tenant's id.
func seedSampleContent(ctx context.Context, store *tenantscope.Store, t *domain.Tenant) error {
	scope := tenantscope.ForTenant(t.ID)

	for _, entry := range sampleContent {
		item := &domain.ContentItem{
			Kind:      entry.kind,
			Title:     entry.title,
			Slug:      entry.slug,
			Body:      entry.body,
			Published: true,
		}
		if err := store.Create(ctx, scope, item); err != nil {
			return pkgerrors.Wrapf(err, "seed %s %q", entry.kind, entry.slug)
		}
	}

	return nil
}
