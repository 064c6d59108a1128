package shared

import (
	"github.com/google/uuid"
)

// TenantContext identifies the tenant and acting user for an engine call.
// It replaces any process-wide session state: every service operation takes
// one explicitly.
type TenantContext struct {
	TenantID uuid.UUID
	ActorID  uuid.UUID
}

// NewTenantContext creates a tenant context for the given tenant and actor
func NewTenantContext(tenantID, actorID uuid.UUID) TenantContext {
	return TenantContext{TenantID: tenantID, ActorID: actorID}
}

// Valid reports whether the context carries a usable tenant ID
func (t TenantContext) Valid() bool {
	return t.TenantID != uuid.Nil
}

// Actor returns the acting user ID, or nil when anonymous
func (t TenantContext) Actor() *uuid.UUID {
	if t.ActorID == uuid.Nil {
		return nil
	}
	id := t.ActorID
	return &id
}
