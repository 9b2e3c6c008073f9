package gate

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/inovacc/gistvault/internal/application"
	"github.com/inovacc/gistvault/internal/model"
)

// DefaultSessionTTL bounds how long a login stays valid.
const DefaultSessionTTL = 12 * time.Hour

type sessionClaims struct {
	jwt.RegisteredClaims
}

// mintSession signs a session token for cred. The signing key lives in the
// credential record, so replacing the record voids every earlier token.
func (g *Gate) mintSession(cred *model.Credential) (string, time.Time, error) {
	now := g.now()
	expires := now.Add(g.ttl)

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    application.AppName,
			Subject:   cred.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cred.SessionKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}

	return signed, expires, nil
}

// parseSession returns the claims of a valid token for cred.
func (g *Gate) parseSession(cred *model.Credential, token string) (*sessionClaims, error) {
	if len(cred.SessionKey) == 0 {
		return nil, errors.New("credential has no session key")
	}

	claims := &sessionClaims{}

	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return cred.SessionKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(application.AppName),
		jwt.WithSubject(cred.Username),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		return nil, err
	}

	return claims, nil
}
