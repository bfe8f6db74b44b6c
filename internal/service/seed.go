package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/cforclown/school-admin/internal/auth"
	"github.com/cforclown/school-admin/internal/config"
	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/repository"
)

const adminRoleName = "admin"

// Seed bootstraps an empty store with a full-access default role and, when a
// password is configured, an administrator holding it.
func Seed(ctx context.Context, roles repository.RoleRepository, users repository.UserRepository, cfg config.SeedConfig, bcryptCost int, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	count, err := roles.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	role := &domain.Role{
		Name:        adminRoleName,
		Description: "Full access",
		Permissions: domain.FullAccess(),
		IsDefault:   true,
	}
	if err := roles.Create(ctx, role); err != nil {
		return err
	}
	logger.Info("seeded admin role", zap.String("role_id", role.ID))

	if cfg.AdminPassword == "" {
		logger.Warn("SEED_ADMIN_PASSWORD not set, skipping admin user")
		return nil
	}
	taken, err := users.UsernameTaken(ctx, cfg.AdminUsername, "")
	if err != nil || taken {
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword, bcryptCost)
	if err != nil {
		return err
	}
	user := &domain.User{
		Username:     cfg.AdminUsername,
		Fullname:     cfg.AdminFullname,
		PasswordHash: hash,
		RoleID:       role.ID,
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}
	logger.Info("seeded admin user", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return nil
}
