package config

import (
	"strconv"
	"time"
)

type AuthConfig interface {
	GetSigningSecret() string
	GetIssuer() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetRefreshTokenLength() int
}

type Auth struct{}

var _ AuthConfig = Auth{}

func (Auth) GetSigningSecret() string {
	return GetEnv("SIGNING_SECRET", "")
}

func (Auth) GetIssuer() string {
	return GetEnv("TOKEN_ISSUER", "voltgrid-auth")
}

// GetAccessTokenExpiry returns the access token lifetime. Short by design;
// a stolen access token expires before it is worth replaying.
func (Auth) GetAccessTokenExpiry() time.Duration {
	minutes := envInt("ACCESS_TOKEN_TTL_MINUTES", 15)
	return time.Duration(minutes) * time.Minute
}

// GetRefreshTokenExpiry returns the refresh token lifetime (default 30 days).
func (Auth) GetRefreshTokenExpiry() time.Duration {
	days := envInt("REFRESH_TOKEN_TTL_DAYS", 30)
	return time.Duration(days) * 24 * time.Hour
}

func (Auth) GetRefreshTokenLength() int {
	return 32 // 32 bytes = 256 bits of entropy
}

func envInt(envVar string, defaultValue int) int {
	v := GetEnv(envVar, "")
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
