package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/arqon-study-api/internal/models"
	appErrors "github.com/noah-isme/arqon-study-api/pkg/errors"
)

type fakeAuthenticator struct {
	claims *models.JWTClaims
	err    error
	token  string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*models.JWTClaims, error) {
	f.token = token
	return f.claims, f.err
}

func protectedRouter(auth Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWT(auth), func(c *gin.Context) {
		claims := Claims(c)
		c.String(http.StatusOK, claims.Username)
	})
	return r
}

func TestJWTRequiresHeader(t *testing.T) {
	r := protectedRouter(&fakeAuthenticator{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid authorization header")
}

func TestJWTRejectsClosedSession(t *testing.T) {
	r := protectedRouter(&fakeAuthenticator{err: appErrors.Clone(appErrors.ErrUnauthorized, "session expired or logged out")})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "session expired")
}

func TestJWTStoresClaims(t *testing.T) {
	auth := &fakeAuthenticator{claims: &models.JWTClaims{UserID: 1, Username: "ada", SessionID: "s1"}}
	r := protectedRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer  abc ")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada", rec.Body.String())
	assert.Equal(t, "abc", auth.token)
}

func TestClaimsOutsideProtectedRoute(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, Claims(c))
}

type recordedRequest struct {
	method string
	path   string
	status int
}

type fakeObserver struct {
	requests []recordedRequest
}

func (f *fakeObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{method: method, path: path, status: status})
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observer := &fakeObserver{}
	r := gin.New()
	r.Use(Metrics(observer))
	r.GET("/courses/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/courses/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Len(t, observer.requests, 2)
	assert.Equal(t, recordedRequest{method: http.MethodGet, path: "/courses/:id", status: http.StatusNoContent}, observer.requests[0])
	assert.Equal(t, "unmatched", observer.requests[1].path)
	assert.Equal(t, http.StatusNotFound, observer.requests[1].status)
}
