package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-market/internal/service"
	"campus-market/internal/token"
	transport "campus-market/internal/transport/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc.def.ghi", "abc.def.ghi", true},
		{"Bearer ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"", "", false},
		{"abc.def.ghi", "", false},
	}
	for _, c := range cases {
		got, ok := transport.ExtractBearerToken(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ExtractBearerToken(%q) = %q, %v; want %q, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider := token.NewHSProvider("secret", "campus-market", "campus-market-api")
	userID := uuid.New()

	r := gin.New()
	r.GET("/whoami", transport.AuthRequired(provider), func(c *gin.Context) {
		uid, ok := service.UserIDFromContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no identity"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": uid})
	})

	do := func(authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no header: want 401, got %d", w.Code)
	}
	if w := do("Bearer garbage"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: want 401, got %d", w.Code)
	}

	expired, _, err := provider.Sign(userID, -time.Minute)
	if err != nil {
		t.Fatalf("Sign expired: %v", err)
	}
	if w := do("Bearer " + expired); w.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: want 401, got %d", w.Code)
	}

	valid, _, err := provider.Sign(userID, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if w := do("Bearer " + valid); w.Code != http.StatusOK {
		t.Fatalf("valid token: want 200, got %d (%s)", w.Code, w.Body.String())
	}
}
