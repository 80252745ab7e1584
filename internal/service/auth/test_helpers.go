package auth

import "time"

// NewTestJWTService creates a JWT service with an injectable time function
// for deterministic tests. The refresh token lifetime is fixed at ten times
// the access token lifetime.
func NewTestJWTService(
	secret string,
	tokenLifetime time.Duration,
	timeFunc func() time.Time,
) JWTService {
	return &hmacJWTService{
		signingKey:           []byte(secret),
		tokenLifetime:        tokenLifetime,
		refreshTokenLifetime: 10 * tokenLifetime,
		timeFunc:             timeFunc,
		clockSkew:            0, // No leeway so expiry tests are exact
	}
}
