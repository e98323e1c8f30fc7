package users

import (
	"errors"
	"net/http"

	"github.com/WailSalutem-Health-Care/maternal-care-service/internal/auth"
	"github.com/rs/zerolog/log"
)

// LinkPrincipal resolves the verified token principal to the local account.
// Downstream handlers see LocalUserID set and Roles replaced by the local
// role, so permissions.yml is checked against the clinic's own records.
func LinkPrincipal(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pr, ok := auth.FromContext(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
				return
			}

			u, err := resolver.Resolve(r.Context(), pr)
			if err != nil {
				if errors.Is(err, ErrUnlinkedIdentity) {
					respondError(w, http.StatusForbidden, "forbidden", err.Error())
					return
				}
				log.Error().Err(err).Str("subject", pr.UserID).Msg("failed to resolve principal")
				respondError(w, http.StatusInternalServerError, "identity_lookup_failed", "Internal server error")
				return
			}
			if !u.IsActive {
				respondError(w, http.StatusForbidden, "forbidden", ErrAccountDisabled.Error())
				return
			}

			linked := *pr
			linked.LocalUserID = u.ID
			linked.Roles = []string{u.Role.PermissionRole()}
			if linked.Email == "" {
				linked.Email = u.Email
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), &linked)))
		})
	}
}
