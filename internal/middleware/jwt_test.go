package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/todoiti/todoiti/internal/utils"
)

const testSecret = "unit-test-secret"

// invoke runs the JWTAuth middleware around a handler that echoes the
// resolved user id, and returns the recorder.
func invoke(t *testing.T, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTAuth(testSecret)(func(c echo.Context) error {
		id, err := CurrentUserID(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, id)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	signed, err := utils.NewAccessToken(testSecret, "user-7", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec := invoke(t, "Bearer "+signed.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "user-7" {
		t.Errorf("user id = %q, want user-7", rec.Body.String())
	}
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	if rec := invoke(t, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthRejectsMalformedHeader(t *testing.T) {
	if rec := invoke(t, "Token abc"); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	signed, err := utils.NewAccessToken("some-other-secret", "user-7", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if rec := invoke(t, "Bearer "+signed.Token); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestCurrentUserIDWithoutMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if _, err := CurrentUserID(c); err == nil {
		t.Error("expected an error when no user is attached to the context")
	}
}
