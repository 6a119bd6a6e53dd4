package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/tuitiondesk/internal/app/models"
	"github.com/yigit/tuitiondesk/internal/app/models/dto"
	"github.com/yigit/tuitiondesk/internal/app/repositories"
	"github.com/yigit/tuitiondesk/internal/pkg/apperrors"
	"github.com/yigit/tuitiondesk/internal/pkg/auth"
	"github.com/yigit/tuitiondesk/internal/pkg/email"
	"github.com/yigit/tuitiondesk/internal/pkg/validation"
)

// AuthService handles registration and login
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, userID int64) (*dto.MeResponse, error)
}

type authServiceImpl struct {
	store      repositories.Store
	hasher     auth.PasswordHasher
	jwtService *auth.JWTService
	mailer     email.EmailService
	logger     zerolog.Logger

	timingOnce sync.Once
	timingHash string
}

// NewAuthService creates a new AuthService. jwtService and mailer may be nil.
func NewAuthService(
	store repositories.Store,
	hasher auth.PasswordHasher,
	jwtService *auth.JWTService,
	mailer email.EmailService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		store:      store,
		hasher:     hasher,
		jwtService: jwtService,
		mailer:     mailer,
		logger:     logger,
	}
}

// Register creates a student account and its profile in one transaction
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	fullName := strings.TrimSpace(req.FullName)
	if err := validateFullName(fullName); err != nil {
		return nil, err
	}
	emailAddr, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FullName: fullName,
		Email:    emailAddr,
		Mobile:   strings.TrimSpace(req.Mobile),
		Password: hash,
		Role:     models.RoleStudent,
	}

	var student *models.Student
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if _, err := repos.Users.CreateUser(ctx, user); err != nil {
			return err
		}
		var err error
		student, err = linkOrCreateProfile(ctx, repos, user, dto.StudentProfileFields{})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Int64("studentID", student.ID).Msg("Student registered")
	sendWelcome(s.mailer, s.logger, user)

	return &dto.RegisterResponse{
		UserID:    user.ID,
		StudentID: student.ID,
		Email:     user.Email,
		Role:      user.Role,
	}, nil
}

// Login verifies the credentials and reports the stored role. Unknown email
// and wrong password fail with the same error.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	emailAddr := validation.NormalizeEmail(req.Email)
	if emailAddr == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("email and password are required")
	}

	repos := s.store.Repos()
	user, err := repos.Users.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if isNotFound(err) {
			s.hasher.Compare(s.dummyHash(), req.Password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Compare(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if req.Role != "" && !strings.EqualFold(req.Role, string(user.Role)) {
		s.logger.Debug().Str("claimed", req.Role).Str("stored", string(user.Role)).Msg("Ignoring client-supplied role")
	}

	profile, err := findProfile(ctx, repos, user)
	if err != nil {
		return nil, err
	}

	resp := &dto.LoginResponse{
		Success: true,
		Role:    user.Role,
		Email:   user.Email,
		Profile: profile,
	}

	if s.jwtService != nil {
		token, expiresIn, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role))
		if err != nil {
			return nil, fmt.Errorf("failed to generate access token: %w", err)
		}
		resp.Token = &dto.TokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresIn: expiresIn}
	}

	return resp, nil
}

// Me returns the user behind a validated token
func (s *authServiceImpl) Me(ctx context.Context, userID int64) (*dto.MeResponse, error) {
	if err := validateID("userId", userID); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	user, err := repos.Users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := findProfile(ctx, repos, user)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{User: user, Profile: profile}, nil
}

// dummyHash lets a login for an unknown email spend the same bcrypt work as
// a wrong password
func (s *authServiceImpl) dummyHash() string {
	s.timingOnce.Do(func() {
		h, err := s.hasher.Hash("not-a-real-password")
		if err == nil {
			s.timingHash = h
		}
	})
	return s.timingHash
}

// findProfile returns the student profile linked to user, falling back to an
// unlinked profile with the same email. nil when there is none.
func findProfile(ctx context.Context, repos *repositories.Repositories, user *models.User) (*models.Student, error) {
	profile, err := repos.Students.GetStudentByUserID(ctx, user.ID)
	if err == nil {
		return profile, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	profile, err = repos.Students.GetStudentByEmail(ctx, user.Email)
	switch {
	case err == nil && !profile.IsLinked():
		return profile, nil
	case err == nil, isNotFound(err):
		return nil, nil
	default:
		return nil, err
	}
}

func sendWelcome(mailer email.EmailService, logger zerolog.Logger, user *models.User) {
	if mailer == nil {
		return
	}
	go func() {
		if err := mailer.SendWelcomeEmail(user.Email, user.FullName); err != nil {
			logger.Warn().Err(err).Str("email", user.Email).Msg("Failed to send welcome email")
		}
	}()
}
