package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(t *testing.T, svc jwt.Service, extra ...func(http.Handler) http.Handler) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	r.Use(svc.Verifier())
	r.Use(AuthRequired(svc))
	ok := func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		w.Write([]byte(p.UserID))
	}
	// route-level mount so chi has resolved {branchID} before extra runs
	r.With(extra...).Get("/branches/{branchID}", ok)
	r.With(extra...).Get("/events", ok)
	r.Route("/reconciliations/{employeeID}/{branchID}", func(r chi.Router) {
		r.Use(extra...)
		r.Get("/", ok)
	})
	return r
}

func tokenFor(t *testing.T, svc jwt.Service, p user.Principal) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(p)
	require.NoError(t, err)
	return token
}

func TestAuthRequired(t *testing.T) {
	svc := jwt.NewJWTService("secret", "1h")
	router := newProtectedRouter(t, svc)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("header token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, svc, user.Principal{UserID: "u1", Role: user.RoleMaster}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", rec.Body.String())
	})

	t.Run("query token", func(t *testing.T) {
		token := tokenFor(t, svc, user.Principal{UserID: "u2", Role: user.RoleMaster})
		req := httptest.NewRequest(http.MethodGet, "/events?token="+token, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("other secret", func(t *testing.T) {
		other := jwt.NewJWTService("other", "1h")
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, other, user.Principal{UserID: "u1", Role: user.RoleMaster}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireBranchAccess(t *testing.T) {
	svc := jwt.NewJWTService("secret", "1h")
	router := newProtectedRouter(t, svc, RequireBranchAccess)
	manager := tokenFor(t, svc, user.Principal{UserID: "m1", Role: user.RoleManager, BranchIDs: []string{"br-1"}})

	cases := []struct {
		path string
		code int
	}{
		{"/branches/br-1", http.StatusOK},
		{"/branches/br-2", http.StatusForbidden},
		{"/events?branch_id=br-2", http.StatusForbidden},
		{"/events?branch_id=br-1", http.StatusOK},
		{"/reconciliations/e1/br-1", http.StatusOK},
		{"/reconciliations/e1/br-2", http.StatusForbidden},
		{"/reconciliations/e1/br-2?branch_id=br-1", http.StatusForbidden},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, c.path, nil)
		req.Header.Set("Authorization", "Bearer "+manager)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, c.code, rec.Code, c.path)
	}
}

func TestRequirePermission(t *testing.T) {
	svc := jwt.NewJWTService("secret", "1h")
	router := newProtectedRouter(t, svc, RequirePermission(user.PermissionPayrollUnconfirm))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, svc, user.Principal{UserID: "m1", Role: user.RoleManager}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRateLimitByUser(t *testing.T) {
	svc := jwt.NewJWTService("secret", "1h")
	router := newProtectedRouter(t, svc, RateLimitByUser(NewKeyedRateLimiter(0.001, 2)))
	token := tokenFor(t, svc, user.Principal{UserID: "u1", Role: user.RoleMaster})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestKeyedRateLimiter_Evict(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	l := NewKeyedRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.GetLimiter("old")
	now = now.Add(10 * time.Minute)
	l.GetLimiter("fresh")

	assert.Equal(t, 1, l.Evict(5*time.Minute))
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 0, l.Evict(5*time.Minute))
}
