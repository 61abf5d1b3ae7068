package config

type SecurityConfig interface {
	GetPasswordHashCost() int
	GetHashingConcurrency() int64
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetPasswordHashCost returns the bcrypt cost factor (default 10).
func (Security) GetPasswordHashCost() int {
	return envInt("PASSWORD_HASH_COST", 10)
}

// GetHashingConcurrency bounds how many bcrypt operations may run at once,
// so login bursts degrade login throughput rather than the whole server.
func (Security) GetHashingConcurrency() int64 {
	return int64(envInt("PASSWORD_HASH_WORKERS", 4))
}
