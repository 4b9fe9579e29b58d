package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/todoiti/todoiti/internal/model"
	"github.com/todoiti/todoiti/internal/repository"
)

// stubGrants serves a canned grant/error so every middleware branch can
// be exercised without a database.
type stubGrants struct {
	grant model.AccessGrant
	err   error
}

func (s stubGrants) Get(context.Context, string, string) (model.AccessGrant, error) {
	return s.grant, s.err
}

func runAccess(t *testing.T, grants GrantSource, required model.AccessLevel, withUser bool) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("taskListId")
	c.SetParamValues("list-1")
	if withUser {
		c.Set("user_id", "user-1")
	}

	h := RequireListAccess(grants, required)(func(c echo.Context) error {
		return c.String(http.StatusOK, "reached")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestRequireListAccess(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	cases := []struct {
		name     string
		grants   GrantSource
		required model.AccessLevel
		want     int
	}{
		{
			// A missing grant must look exactly like a missing list.
			name:     "no grant answers 404",
			grants:   stubGrants{err: repository.ErrNotFound},
			required: model.AccessRead,
			want:     http.StatusNotFound,
		},
		{
			name:     "suspended grant answers 403",
			grants:   stubGrants{grant: model.AccessGrant{Level: model.AccessSuspended}},
			required: model.AccessRead,
			want:     http.StatusForbidden,
		},
		{
			// An expired grant is treated as a suspension even when its
			// level would otherwise suffice.
			name:     "expired grant answers 403",
			grants:   stubGrants{grant: model.AccessGrant{Level: model.AccessAdmin, ExpiresAt: &past}},
			required: model.AccessRead,
			want:     http.StatusForbidden,
		},
		{
			name:     "insufficient level answers 403",
			grants:   stubGrants{grant: model.AccessGrant{Level: model.AccessRead}},
			required: model.AccessWrite,
			want:     http.StatusForbidden,
		},
		{
			name:     "sufficient level passes",
			grants:   stubGrants{grant: model.AccessGrant{Level: model.AccessWrite}},
			required: model.AccessWrite,
			want:     http.StatusOK,
		},
		{
			name:     "future expiry still passes",
			grants:   stubGrants{grant: model.AccessGrant{Level: model.AccessAdmin, ExpiresAt: &future}},
			required: model.AccessAdmin,
			want:     http.StatusOK,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := runAccess(t, c.grants, c.required, true)
			if rec.Code != c.want {
				t.Errorf("status = %d, want %d", rec.Code, c.want)
			}
		})
	}
}

func TestRequireListAccessWithoutUserIsServerError(t *testing.T) {
	rec := runAccess(t, stubGrants{grant: model.AccessGrant{Level: model.AccessAdmin}}, model.AccessRead, false)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 for wrong middleware ordering", rec.Code)
	}
}

func TestRequireListAccessStoresLevel(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("taskListId")
	c.SetParamValues("list-1")
	c.Set("user_id", "user-1")

	var seen model.AccessLevel
	h := RequireListAccess(stubGrants{grant: model.AccessGrant{Level: model.AccessAdmin}}, model.AccessRead)(func(c echo.Context) error {
		seen, _ = c.Get("access_level").(model.AccessLevel)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if seen != model.AccessAdmin {
		t.Errorf("access_level in context = %v, want admin", seen)
	}
}
