package auth

import "time"

// Config holds token verification settings for the external identity provider.
type Config struct {
	Issuer          string
	JWKSURL         string
	Audience        string
	RefreshInterval time.Duration
}

// DefaultRefreshInterval is used when RefreshInterval is not set.
const DefaultRefreshInterval = 15 * time.Minute
