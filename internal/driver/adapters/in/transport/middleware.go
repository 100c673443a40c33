package transport

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"towntriphub/internal/shared/auth"
	"towntriphub/internal/shared/logger"
	"towntriphub/internal/shared/observability"
)

type contextKey string

const (
	ContextKeyUserID   contextKey = "user_id"
	ContextKeyUserRole contextKey = "user_role"
)

// ActorFromContext возвращает ID и роль аутентифицированного пользователя.
func ActorFromContext(ctx context.Context) (userID, role string) {
	userID, _ = ctx.Value(ContextKeyUserID).(string)
	role, _ = ctx.Value(ContextKeyUserRole).(string)
	return userID, role
}

// DriverAuthMiddleware создает middleware для проверки JWT + роль DRIVER
func DriverAuthMiddleware(jwtService *auth.JWTService, log *logger.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondUnauthorized(w, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondUnauthorized(w, "invalid authorization header format")
				return
			}

			claims, err := jwtService.ValidateToken(parts[1])
			if err != nil {
				log.Warn(logger.Entry{
					Action:  "jwt_validation_failed",
					Message: err.Error(),
					Error:   &logger.ErrObj{Msg: err.Error()},
				})
				respondUnauthorized(w, "invalid or expired token")
				return
			}

			if claims.Role != "DRIVER" {
				log.Warn(logger.Entry{
					Action:  "driver_auth_forbidden",
					Message: "insufficient permissions",
					Additional: map[string]any{
						"user_id": claims.UserID,
						"role":    claims.Role,
					},
				})
				respondForbidden(w, "driver role required")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextKeyUserRole, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// statusRecorder запоминает код ответа для логирования и метрик
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// ObserveMiddleware логирует запрос и инкрементирует счетчик HTTP запросов.
func ObserveMiddleware(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		observability.HTTPRequestsTotal.WithLabelValues(
			r.Method, r.URL.Path, strconv.Itoa(rec.status),
		).Inc()

		log.Debug(logger.Entry{
			Action:  "http_request",
			Message: r.Method + " " + r.URL.Path,
			Additional: map[string]any{
				"status": rec.status,
			},
		})
	})
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}

func respondForbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
