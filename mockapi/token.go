package mockapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/darhlilove/streambase"
)

type sessionClaims struct {
	jwt.RegisteredClaims
	Kind           streambase.PrincipalKind `json:"kind"`
	Name           string                   `json:"name"`
	Email          string                   `json:"email"`
	Roles          []string                 `json:"roles,omitempty"`
	PrivilegeLevel int                      `json:"privilege_level,omitempty"`
}

func (s *Server) mintToken(a *account, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.tokenTTL)

	claims := &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    "streambase-mockapi",
			Subject:   a.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Kind:           a.Kind,
		Name:           a.Name,
		Email:          a.Email,
		Roles:          a.Roles,
		PrivilegeLevel: a.PrivilegeLevel,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *Server) principalFromRequest(r *http.Request) (streambase.Principal, error) {
	header := r.Header.Get("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return streambase.NoPrincipal(), errors.New("missing bearer token")
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return streambase.NoPrincipal(), err
	}

	switch claims.Kind {
	case streambase.KindAdmin:
		return streambase.NewAdminPrincipal(claims.Subject, claims.Name, claims.Email, claims.PrivilegeLevel), nil
	case streambase.KindUser:
		return streambase.NewUserPrincipal(claims.Subject, claims.Name, claims.Email, claims.Roles), nil
	default:
		return streambase.NoPrincipal(), errors.New("token carries no principal kind")
	}
}
