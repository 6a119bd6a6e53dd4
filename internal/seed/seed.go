package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/tuitiondesk/internal/app/models"
	appRepos "github.com/yigit/tuitiondesk/internal/app/repositories"
	"github.com/yigit/tuitiondesk/internal/pkg/apperrors"
	"github.com/yigit/tuitiondesk/internal/pkg/auth"
)

// AdminAccount describes the administrator created on first start
type AdminAccount struct {
	Email    string
	Password string
	FullName string
}

// CreateDefaultAdmin creates the configured admin user unless a user with
// that email already exists. An empty email disables seeding.
func CreateDefaultAdmin(ctx context.Context, users appRepos.IUserRepository, hasher auth.PasswordHasher, admin AdminAccount, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" {
		lgr.Info().Msg("No admin account configured, skipping seed")
		return nil
	}

	existing, err := users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != appModels.RoleAdmin {
			lgr.Warn().Str("email", email).Str("role", string(existing.Role)).Msg("Seed email belongs to a non-admin user, leaving it untouched")
		} else {
			lgr.Info().Msg("Admin user already exists, skipping creation")
		}
		return nil
	case !errors.Is(err, apperrors.ErrResourceNotFound):
		return fmt.Errorf("error checking if admin user exists: %w", err)
	}

	hashed, err := hasher.Hash(admin.Password)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	fullName := strings.TrimSpace(admin.FullName)
	if fullName == "" {
		fullName = "Administrator"
	}

	adminID, err := users.CreateUser(ctx, &appModels.User{
		FullName: fullName,
		Email:    email,
		Password: hashed,
		Role:     appModels.RoleAdmin,
	})
	if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		// another instance won the race
		return nil
	}
	if err != nil {
		return fmt.Errorf("error creating admin user: %w", err)
	}

	lgr.Info().Int64("adminID", adminID).Str("email", email).Msg("Default admin user created successfully")
	return nil
}
