package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/peterldowns/testy/check"

	"github.com/okhomin/silent-auction-service/internal/domain/auction"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims BidderClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	check.Nil(t, err)
	return signed
}

func bidderToken(t *testing.T, id, name, role string) string {
	return signToken(t, BidderClaims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
}

func TestRequireBidder_ValidToken(t *testing.T) {
	auth := NewAuthenticator(testSecret)

	var got auction.Bidder
	handler := auth.RequireBidder(func(w http.ResponseWriter, r *http.Request) {
		bidder, ok := BidderFromContext(r.Context())
		check.True(t, ok)
		got = bidder
	})

	req := httptest.NewRequest(http.MethodPost, "/items/item-1/bids", nil)
	req.Header.Set("Authorization", "Bearer "+bidderToken(t, "user-1", "Ann", ""))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	check.Equal(t, http.StatusOK, rec.Code)
	check.Equal(t, "user-1", got.ID)
	check.Equal(t, "Ann", got.Name)
}

func TestRequireBidder_MissingHeader(t *testing.T) {
	auth := NewAuthenticator(testSecret)

	handler := auth.RequireBidder(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	})

	req := httptest.NewRequest(http.MethodPost, "/items/item-1/bids", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	check.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireBidder_WrongSecret(t *testing.T) {
	auth := NewAuthenticator(testSecret)

	handler := auth.RequireBidder(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a forged token")
	})

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, BidderClaims{
		Name:             "Mallory",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-9"},
	})
	signed, err := forged.SignedString([]byte("other-secret"))
	check.Nil(t, err)

	req := httptest.NewRequest(http.MethodPost, "/items/item-1/bids", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	check.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireBidder_ExpiredToken(t *testing.T) {
	auth := NewAuthenticator(testSecret)

	handler := auth.RequireBidder(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an expired token")
	})

	expired := signToken(t, BidderClaims{
		Name: "Ann",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/items/item-1/bids", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	check.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin_RoleEnforced(t *testing.T) {
	auth := NewAuthenticator(testSecret)

	called := false
	handler := auth.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodPost, "/items", nil)
	req.Header.Set("Authorization", "Bearer "+bidderToken(t, "user-1", "Ann", ""))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	check.Equal(t, http.StatusForbidden, rec.Code)
	check.False(t, called)
}

func TestRequireAdmin_AdminAllowed(t *testing.T) {
	auth := NewAuthenticator(testSecret)

	called := false
	handler := auth.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodPost, "/items", nil)
	req.Header.Set("Authorization", "Bearer "+bidderToken(t, "admin-1", "Root", "admin"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	check.Equal(t, http.StatusOK, rec.Code)
	check.True(t, called)
}
