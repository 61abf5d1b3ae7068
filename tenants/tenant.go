package tenants

import "time"

// Tenant is the top of the multi-tenant hierarchy: a charging network
// operator with zero-or-more organizations underneath it.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Organization groups stations under a tenant. Region places the
// organization on the map and feeds the caller's scope.
type Organization struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Region    string    `json:"region,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
