package events

// Emitter publishes fire-and-forget messages for downstream consumers
// (station-command dispatch, notification fan-out). No delivery guarantee
// is required or consumed by the auth core; failures are logged by the
// implementation and never propagated to the caller.
type Emitter interface {
	Emit(topic string, payload any)
}

// IdentityEvent is the payload emitted on auth lifecycle topics.
type IdentityEvent struct {
	IdentityID string `json:"identity_id"`
	TenantID   string `json:"tenant_id"`
	Role       string `json:"role,omitempty"`
}

type nopEmitter struct{}

func (nopEmitter) Emit(string, any) {}

// Nop returns an emitter that drops everything. Default when no broker is
// configured.
func Nop() Emitter {
	return nopEmitter{}
}
