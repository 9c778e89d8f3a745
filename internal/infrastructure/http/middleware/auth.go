package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/okhomin/silent-auction-service/internal/domain/auction"
	"github.com/okhomin/silent-auction-service/internal/infrastructure/http/response"
)

type contextKey string

const bidderKey contextKey = "bidder"

const roleAdmin = "admin"

// BidderClaims carries the authenticated identity. The bidder is
// always taken from the verified token, never from the request body.
type BidderClaims struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

func (a *Authenticator) parse(tokenString string) (*BidderClaims, error) {
	claims := &BidderClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// RequireBidder rejects requests without a valid bearer token and puts
// the authenticated bidder on the request context.
func (a *Authenticator) RequireBidder(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.claimsFromRequest(r)
		if err != nil {
			response.WriteError(w, http.StatusUnauthorized, response.StatusUnauthorized, "invalid_bidder", "Missing or invalid bearer token")
			return
		}

		bidder := auction.Bidder{ID: claims.Subject, Name: claims.Name}
		ctx := context.WithValue(r.Context(), bidderKey, bidder)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireAdmin additionally requires the admin role claim.
func (a *Authenticator) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.claimsFromRequest(r)
		if err != nil {
			response.WriteError(w, http.StatusUnauthorized, response.StatusUnauthorized, "invalid_bidder", "Missing or invalid bearer token")
			return
		}
		if claims.Role != roleAdmin {
			response.WriteError(w, http.StatusForbidden, response.StatusForbidden, "forbidden", "Admin role required")
			return
		}

		bidder := auction.Bidder{ID: claims.Subject, Name: claims.Name}
		ctx := context.WithValue(r.Context(), bidderKey, bidder)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func (a *Authenticator) claimsFromRequest(r *http.Request) (*BidderClaims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("authorization header missing")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errors.New("invalid authorization header format")
	}

	return a.parse(parts[1])
}

// BidderFromContext returns the identity put there by RequireBidder.
func BidderFromContext(ctx context.Context) (auction.Bidder, bool) {
	bidder, ok := ctx.Value(bidderKey).(auction.Bidder)
	return bidder, ok
}
