package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/tuitiondesk/internal/app/models"
	"github.com/yigit/tuitiondesk/internal/app/models/dto"
	"github.com/yigit/tuitiondesk/internal/app/repositories"
	"github.com/yigit/tuitiondesk/internal/pkg/apperrors"
	"github.com/yigit/tuitiondesk/internal/pkg/auth"
	"github.com/yigit/tuitiondesk/internal/pkg/email"
)

// StudentService defines the operations on student profiles
type StudentService interface {
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	UpsertByEmail(ctx context.Context, email string, fields dto.StudentProfileFields) (student *models.Student, created bool, err error)
	CreateLinkedToUser(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error)
	Enroll(ctx context.Context, req *dto.EnrollStudentRequest) (*models.Student, error)
	Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]*models.Student, error)
	ListByBatch(ctx context.Context, batch string) ([]*models.Student, error)
	ListBatches(ctx context.Context) ([]string, error)
}

type studentServiceImpl struct {
	store  repositories.Store
	hasher auth.PasswordHasher
	mailer email.EmailService
	logger zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(store repositories.Store, hasher auth.PasswordHasher, mailer email.EmailService, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		store:  store,
		hasher: hasher,
		mailer: mailer,
		logger: logger,
	}
}

// GetByEmail retrieves a profile by email
func (s *studentServiceImpl) GetByEmail(ctx context.Context, raw string) (*models.Student, error) {
	emailAddr, err := normalizeEmail(raw)
	if err != nil {
		return nil, err
	}
	return s.store.Repos().Students.GetStudentByEmail(ctx, emailAddr)
}

// GetByID retrieves a profile by id
func (s *studentServiceImpl) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	return s.store.Repos().Students.GetStudentByID(ctx, id)
}

// UpsertByEmail updates the profile with this email, or creates it. Only the
// non-empty fields are applied to an existing profile. A new profile is
// linked to the user with the same email when that user has no profile yet.
func (s *studentServiceImpl) UpsertByEmail(ctx context.Context, raw string, fields dto.StudentProfileFields) (*models.Student, bool, error) {
	emailAddr, err := normalizeEmail(raw)
	if err != nil {
		return nil, false, err
	}
	if err := normalizeProfile(&fields); err != nil {
		return nil, false, err
	}

	var (
		student *models.Student
		created bool
	)
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		existing, err := repos.Students.GetStudentByEmail(ctx, emailAddr)
		if err == nil {
			applyProfile(existing, fields, true)
			if err := repos.Students.UpdateStudent(ctx, existing); err != nil {
				return err
			}
			student = existing
			return syncLinkedUser(ctx, repos, existing)
		}
		if !isNotFound(err) {
			return err
		}

		if fields.FullName == "" {
			return apperrors.NewValidationError("fullName is required to create a student")
		}

		student = &models.Student{Email: emailAddr}
		applyProfile(student, fields, false)

		userID, err := unlinkedUserID(ctx, repos, emailAddr)
		if err != nil {
			return err
		}
		student.UserID = userID

		if _, err := repos.Students.CreateStudent(ctx, student); err != nil {
			return err
		}
		created = true
		return syncLinkedUser(ctx, repos, student)
	})
	if err != nil {
		return nil, false, err
	}

	return student, created, nil
}

// CreateLinkedToUser creates the profile of an existing user
func (s *studentServiceImpl) CreateLinkedToUser(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	if req.UserID <= 0 {
		return nil, apperrors.NewValidationError("userId is required")
	}
	fields := req.StudentProfileFields
	if err := normalizeProfile(&fields); err != nil {
		return nil, err
	}

	var student *models.Student
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		user, err := repos.Users.GetUserByID(ctx, req.UserID)
		if err != nil {
			if isNotFound(err) {
				return apperrors.NewValidationError("userId does not reference an existing user")
			}
			return err
		}
		if user.Role != models.RoleStudent {
			return apperrors.NewValidationError("userId must reference a student account")
		}

		if _, err := repos.Students.GetStudentByUserID(ctx, user.ID); err == nil {
			return apperrors.ErrUserAlreadyLinked
		} else if !isNotFound(err) {
			return err
		}

		student = newLinkedProfile(user, fields)
		_, err = repos.Students.CreateStudent(ctx, student)
		return err
	})
	if err != nil {
		return nil, err
	}
	return student, nil
}

// Enroll creates a student account with a password and its profile
func (s *studentServiceImpl) Enroll(ctx context.Context, req *dto.EnrollStudentRequest) (*models.Student, error) {
	emailAddr, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	fields := req.StudentProfileFields
	if err := normalizeProfile(&fields); err != nil {
		return nil, err
	}
	if fields.FullName == "" {
		return nil, apperrors.NewValidationError("fullName is required")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FullName: fields.FullName,
		Email:    emailAddr,
		Mobile:   fields.Mobile,
		Password: hash,
		Role:     models.RoleStudent,
	}

	var student *models.Student
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if _, err := repos.Users.CreateUser(ctx, user); err != nil {
			return err
		}
		var err error
		student, err = linkOrCreateProfile(ctx, repos, user, fields)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Int64("studentID", student.ID).Msg("Student enrolled")
	sendWelcome(s.mailer, s.logger, user)
	return student, nil
}

// Update replaces a profile. A linked user follows the name, email and
// mobile change; an email already taken by another user aborts the update.
func (s *studentServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	emailAddr, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	fields := req.StudentProfileFields
	if err := normalizeProfile(&fields); err != nil {
		return nil, err
	}
	if fields.FullName == "" {
		return nil, apperrors.NewValidationError("fullName is required")
	}

	var student *models.Student
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		student, err = repos.Students.GetStudentByID(ctx, id)
		if err != nil {
			return err
		}

		applyProfile(student, fields, false)
		student.Email = emailAddr
		if err := repos.Students.UpdateStudent(ctx, student); err != nil {
			return err
		}
		return syncLinkedUser(ctx, repos, student)
	})
	if err != nil {
		return nil, err
	}
	return student, nil
}

// Delete removes a profile, its fees and attendance, and the linked student
// account, all in one transaction
func (s *studentServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := validateID("id", id); err != nil {
		return err
	}

	return s.store.WithinTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		student, err := repos.Students.GetStudentByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repos.Students.DeleteStudent(ctx, id); err != nil {
			return err
		}
		if !student.IsLinked() {
			return nil
		}

		if err := repos.Users.DeleteUser(ctx, *student.UserID); err != nil && !isNotFound(err) {
			return err
		}
		return nil
	})
}

// ListAll returns every profile
func (s *studentServiceImpl) ListAll(ctx context.Context) ([]*models.Student, error) {
	return s.store.Repos().Students.ListStudents(ctx)
}

// ListByBatch returns the profiles of one batch
func (s *studentServiceImpl) ListByBatch(ctx context.Context, batch string) ([]*models.Student, error) {
	batch = strings.TrimSpace(batch)
	if batch == "" {
		return nil, apperrors.NewValidationError("batch is required")
	}
	return s.store.Repos().Students.ListStudentsByBatch(ctx, batch)
}

// ListBatches returns the distinct batch names
func (s *studentServiceImpl) ListBatches(ctx context.Context) ([]string, error) {
	return s.store.Repos().Students.ListBatches(ctx)
}

// linkOrCreateProfile attaches an unlinked profile with the user's email to
// the new user, or creates a fresh profile
func linkOrCreateProfile(ctx context.Context, repos *repositories.Repositories, user *models.User, fields dto.StudentProfileFields) (*models.Student, error) {
	existing, err := repos.Students.GetStudentByEmail(ctx, user.Email)
	switch {
	case err == nil && !existing.IsLinked():
		applyProfile(existing, fields, true)
		existing.UserID = &user.ID
		existing.FullName = user.FullName
		if user.Mobile != "" {
			existing.Mobile = user.Mobile
		}
		if err := repos.Students.UpdateStudent(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case err != nil && !isNotFound(err):
		return nil, err
	}

	student := newLinkedProfile(user, fields)
	if _, err := repos.Students.CreateStudent(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func newLinkedProfile(user *models.User, fields dto.StudentProfileFields) *models.Student {
	student := &models.Student{UserID: &user.ID, Email: user.Email}
	applyProfile(student, fields, false)
	if student.FullName == "" {
		student.FullName = user.FullName
	}
	if student.Mobile == "" {
		student.Mobile = user.Mobile
	}
	return student
}

// unlinkedUserID returns the id of the student account with email when that
// account has no profile yet. Other roles are never linked.
func unlinkedUserID(ctx context.Context, repos *repositories.Repositories, emailAddr string) (*int64, error) {
	user, err := repos.Users.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if user.Role != models.RoleStudent {
		return nil, nil
	}

	if _, err := repos.Students.GetStudentByUserID(ctx, user.ID); err == nil {
		return nil, nil
	} else if !isNotFound(err) {
		return nil, err
	}
	return &user.ID, nil
}

// syncLinkedUser copies the profile's identity fields to its user
func syncLinkedUser(ctx context.Context, repos *repositories.Repositories, student *models.Student) error {
	if !student.IsLinked() {
		return nil
	}
	return repos.Users.UpdateUserIdentity(ctx, *student.UserID, student.FullName, student.Email, student.Mobile)
}
