package main

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/kbukum/recordkit/auth/password"
	"github.com/kbukum/recordkit/database"
	"github.com/kbukum/recordkit/internal/models"
	"github.com/kbukum/recordkit/logger"
)

// seedAdmin creates the configured administrator unless a user with that
// email already exists. The seeded user has no creator.
func seedAdmin(ctx context.Context, db *database.DB, hasher password.Hasher, cfg BootstrapConfig, log *logger.Logger) error {
	if cfg.AdminEmail == "" {
		return nil
	}
	email := models.NormalizeEmail(cfg.AdminEmail)

	var existing models.User
	err := db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "email"}, Value: email}).
		Take(&existing).Error
	switch {
	case err == nil:
		log.Debug("Bootstrap admin already present", logger.Fields("user_id", existing.ID))
		return nil
	case !database.IsNotFoundError(err):
		return fmt.Errorf("lookup bootstrap admin: %w", err)
	}

	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash bootstrap admin password: %w", err)
	}
	admin := &models.User{
		Email:        email,
		PasswordHash: &hash,
		Scopes:       models.Scopes{models.ScopeAdmin, models.ScopeUser},
	}
	if err := db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}
	log.Info("Bootstrap admin created", logger.Fields("user_id", admin.ID, "email", email))
	return nil
}
