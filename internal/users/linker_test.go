package users

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
)

type resolverFunc func(ctx context.Context, principal *auth.Principal) (*User, error)

func (f resolverFunc) Resolve(ctx context.Context, principal *auth.Principal) (*User, error) {
	return f(ctx, principal)
}

// TestLinkPrincipal tests principal resolution outcomes
func TestLinkPrincipal(t *testing.T) {
	testCases := []struct {
		name           string
		principal      *auth.Principal
		user           *User
		err            error
		expectedStatus int
	}{
		{"no principal", nil, nil, nil, http.StatusUnauthorized},
		{"unlinked", &auth.Principal{UserID: "s"}, nil, ErrUnlinkedIdentity, http.StatusForbidden},
		{"lookup failure", &auth.Principal{UserID: "s"}, nil, errors.New("db down"), http.StatusInternalServerError},
		{"inactive", &auth.Principal{UserID: "s"}, &User{ID: 2, Role: RoleMother, IsActive: false}, nil, http.StatusForbidden},
		{"active", &auth.Principal{UserID: "s", Roles: []string{"offline_access"}}, &User{ID: 2, Role: RoleMother, IsActive: true}, nil, http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var seen *auth.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = auth.FromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			mw := LinkPrincipal(resolverFunc(func(ctx context.Context, p *auth.Principal) (*User, error) {
				return tc.user, tc.err
			}))

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.principal != nil {
				req = req.WithContext(auth.ContextWithPrincipal(req.Context(), tc.principal))
			}
			w := httptest.NewRecorder()
			mw(next).ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tc.expectedStatus, w.Code)
			}
			if tc.expectedStatus != http.StatusOK {
				return
			}
			if seen.LocalUserID != 2 {
				t.Errorf("Expected LocalUserID 2, got %d", seen.LocalUserID)
			}
			if len(seen.Roles) != 1 || seen.Roles[0] != "MOTHER" {
				t.Errorf("Expected roles [MOTHER], got %v", seen.Roles)
			}
			if tc.principal.LocalUserID != 0 {
				t.Error("Expected original principal to be left untouched")
			}
		})
	}
}
