package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const principalKey ctxKey = "auth_principal"

var tracer = otel.Tracer("github.com/WailSalutem-Health-Care/maternal-care-service/auth")

var (
	errMissingAuthorization = errors.New("missing authorization")
	errMalformedHeader      = errors.New("invalid authorization header")
)

// MetricsRecorder records authentication failures.
type MetricsRecorder interface {
	RecordAuthFailure(ctx context.Context, reason string)
}

// PermissionMetricsRecorder records permission check outcomes.
type PermissionMetricsRecorder interface {
	RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool)
}

// writeError renders the service-wide JSON error body.
func writeError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": errorType, "message": message})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", "missing_authorization", errMissingAuthorization
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", "invalid_header_format", errMalformedHeader
	}
	return token, "", nil
}

// Middleware validates the bearer token and injects the Principal into the request context.
func Middleware(ver *Verifier) func(http.Handler) http.Handler {
	return MiddlewareWithMetrics(ver, nil)
}

// MiddlewareWithMetrics is Middleware with failure metrics.
func MiddlewareWithMetrics(ver *Verifier, metrics MetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(r.Context(), "auth.Middleware", trace.WithSpanKind(trace.SpanKindInternal))
			defer span.End()

			reject := func(reason string, err error) {
				span.SetStatus(codes.Error, err.Error())
				span.SetAttributes(attribute.String("error.type", reason))
				if metrics != nil {
					metrics.RecordAuthFailure(ctx, reason)
				}
				writeError(w, http.StatusUnauthorized, reason, err.Error())
			}

			token, reason, err := bearerToken(r)
			if err != nil {
				reject(reason, err)
				return
			}

			pr, err := ver.ParseAndVerifyToken(token)
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("token rejected")
				reject("invalid_token", errors.New("invalid token"))
				return
			}

			span.SetAttributes(
				attribute.String("user.id", pr.UserID),
				attribute.StringSlice("user.roles", pr.Roles),
			)
			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, pr)))
		})
	}
}

// RequirePermission returns middleware that ensures the principal has permission.
func RequirePermission(per string, perms Permissions) func(http.Handler) http.Handler {
	return RequirePermissionWithMetrics(per, perms, nil)
}

// RequirePermissionWithMetrics is RequirePermission with check metrics.
func RequirePermissionWithMetrics(per string, perms Permissions, metrics PermissionMetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx, span := tracer.Start(r.Context(), "auth.RequirePermission",
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attribute.String("permission.required", per)),
			)
			defer span.End()

			pr, authenticated := FromContext(ctx)
			allowed := authenticated && HasPermission(pr, per, perms)
			span.SetAttributes(attribute.Bool("permission.allowed", allowed))
			if metrics != nil {
				metrics.RecordPermissionCheck(ctx, per, float64(time.Since(start).Microseconds())/1000, allowed)
			}

			switch {
			case !authenticated:
				span.SetStatus(codes.Error, "unauthenticated")
				writeError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
			case !allowed:
				log.Warn().Str("user", pr.UserID).Strs("roles", pr.Roles).Str("permission", per).Msg("permission denied")
				span.SetStatus(codes.Error, "forbidden")
				writeError(w, http.StatusForbidden, "forbidden", "Missing permission "+per)
			default:
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

// WithPrincipal returns a copy of ctx carrying pr.
func WithPrincipal(ctx context.Context, pr *Principal) context.Context {
	return context.WithValue(ctx, principalKey, pr)
}

// FromContext returns the principal stored by Middleware.
func FromContext(ctx context.Context) (*Principal, bool) {
	pr, ok := ctx.Value(principalKey).(*Principal)
	return pr, ok && pr != nil
}

// HasPermission reports whether any of the principal's roles grants
// permission. Roles match permissions.yml keys case-insensitively.
func HasPermission(pr *Principal, permission string, perms Permissions) bool {
	for _, role := range pr.Roles {
		granted, ok := perms[role]
		if !ok {
			granted = perms[strings.ToUpper(role)]
		}
		for _, p := range granted {
			if p == permission {
				return true
			}
		}
	}
	return false
}
