package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/drparash/site-backend/internal/db"
	"github.com/drparash/site-backend/internal/utils"
)

type SessionFetcher interface {
	FindSessionByID(id string) (utils.SessionData, error)
}

func SessionMiddleware(fetcher SessionFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("session_id")
			if err != nil {
				http.Error(w, "Couldn't find cookie", http.StatusUnauthorized)
				return
			}

			session, err := fetcher.FindSessionByID(cookie.Value)
			if err != nil {
				http.Error(w, "Couldn't find session", http.StatusUnauthorized)
				return
			}

			if session.ExpiresAt.Before(time.Now()) {
				http.Error(w, "Session expired", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextUserIDKey, session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var allowed = map[string]struct{}{
	"http://localhost:5173":       {},
	"http://localhost:5174":       {},
	"https://drparash.com.np":     {},
	"https://www.drparash.com.np": {},
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Echo the origin back only if it’s on our allow-list
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin") // important for caches
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods",
				"GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers",
				"Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Role mirrors one grant row from app_auth.roles. Declared here rather than
// imported from the auth package to keep middleware free of that dependency.
type Role struct {
	UserID string
	Role   string
}

func (Role) TableName() string { return "app_auth.roles" }

// RoleGranter answers whether a user holds a named role. Errors fail closed.
type RoleGranter interface {
	HasRole(userID, role string) (bool, error)
}

// DBRoleGranter checks grants against the roles table.
type DBRoleGranter struct{}

func (DBRoleGranter) HasRole(userID, role string) (bool, error) {
	var count int64
	err := db.DB.Model(&Role{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RequireRole gates a route on one role grant. Any lookup error is treated as
// "no grant", never as a pass.
func RequireRole(granter RoleGranter, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
				return
			}

			granted, err := granter.HasRole(userID, role)
			if err != nil || !granted {
				http.Error(w, "Forbidden: "+role+" access required", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func AdminMiddleware(granter RoleGranter) func(http.Handler) http.Handler {
	return RequireRole(granter, "admin")
}

func ViewerMiddleware(granter RoleGranter) func(http.Handler) http.Handler {
	return RequireRole(granter, "viewer")
}
