package auth

import (
	"context"
	"log"

	"github.com/drparash/site-backend/internal/db"
)

// RoleFlags is the derived authorization projection for one user. It is a
// cache of a remote decision: recomputed on every session transition, never
// persisted.
type RoleFlags struct {
	IsAdmin      bool `json:"is_admin"`
	IsViewer     bool `json:"is_viewer"`
	IsSuperAdmin bool `json:"is_super_admin"`
}

// RoleChecker answers the three role predicates for a user id.
type RoleChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
	IsViewer(ctx context.Context, userID string) (bool, error)
	IsSuperAdmin(ctx context.Context, userID string) (bool, error)
}

// ResolveRoles evaluates the predicates in order: admin, viewer, super-admin.
// Any predicate error aborts the walk and leaves that flag and every
// unevaluated flag false, so uncertainty always resolves to the
// least-privileged outcome.
func ResolveRoles(ctx context.Context, rc RoleChecker, userID string) RoleFlags {
	var flags RoleFlags

	isAdmin, err := rc.IsAdmin(ctx, userID)
	if err != nil {
		log.Println("role check is_admin failed:", err)
		return flags
	}
	flags.IsAdmin = isAdmin

	isViewer, err := rc.IsViewer(ctx, userID)
	if err != nil {
		log.Println("role check is_viewer failed:", err)
		return flags
	}
	flags.IsViewer = isViewer

	isSuperAdmin, err := rc.IsSuperAdmin(ctx, userID)
	if err != nil {
		log.Println("role check is_super_admin failed:", err)
		return flags
	}
	flags.IsSuperAdmin = isSuperAdmin

	return flags
}

// DBRoleChecker answers predicates from the app_auth.roles table.
type DBRoleChecker struct{}

func (DBRoleChecker) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return hasRole(ctx, userID, "admin")
}

func (DBRoleChecker) IsViewer(ctx context.Context, userID string) (bool, error) {
	return hasRole(ctx, userID, "viewer")
}

func (DBRoleChecker) IsSuperAdmin(ctx context.Context, userID string) (bool, error) {
	return hasRole(ctx, userID, "super_admin")
}

func hasRole(ctx context.Context, userID, role string) (bool, error) {
	var count int64
	err := db.DB.WithContext(ctx).Model(&Role{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
