// Package tenantscope is the single gate to tenant-scoped storage. Every
// read or write of tenant-scoped records must go through Store with an
// explicit Scope; nothing outside this package and the teardown path may
// touch the content repository directly.
package tenantscope

import "github.com/google/uuid"

// Scope identifies whose data a request may see. It is built once per
// request by the HTTP layer and passed down explicitly; there is no ambient
// or global lookup.
type Scope struct {
	tenantID *uuid.UUID
}

// Production is the scope of non-demo traffic: it sees only rows with no
// tenant id.
func Production() Scope {
	return Scope{}
}

// ForTenant scopes access to exactly one tenant's rows.
func ForTenant(id uuid.UUID) Scope {
	return Scope{tenantID: &id}
}

// TenantID returns the scoped tenant id, or nil for production.
func (s Scope) TenantID() *uuid.UUID {
	if s.tenantID == nil {
		return nil
	}
	id := *s.tenantID
	return &id
}

func (s Scope) IsTenant() bool {
	return s.tenantID != nil
}

// owns reports whether a record carrying the given tenant id belongs to this
// scope.
func (s Scope) owns(recordTenant *uuid.UUID) bool {
	if s.tenantID == nil {
		return recordTenant == nil
	}
	return recordTenant != nil && *recordTenant == *s.tenantID
}
