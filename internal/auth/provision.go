package auth

import (
	"context"

	"github.com/drparash/site-backend/internal/db"
)

// Provisioner performs the one-time reporting setup triggered when a
// super-admin session is first detected. Implementations must be idempotent.
type Provisioner interface {
	SetupUsersView(ctx context.Context) error
}

// DBProvisioner creates the contact_views reporting view used by the viewer
// back office. Safe to run repeatedly.
type DBProvisioner struct{}

func (DBProvisioner) SetupUsersView(ctx context.Context) error {
	return db.DB.WithContext(ctx).Exec(`
		CREATE OR REPLACE VIEW site.contact_views AS
		SELECT c.id,
		       c.name,
		       c.email,
		       c.message,
		       c.created_at,
		       c.viewed_at,
		       c.viewed_at IS NOT NULL AS viewed
		FROM site.contacts c
	`).Error
}
