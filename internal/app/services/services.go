package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/tuitiondesk/internal/app/models"
	"github.com/yigit/tuitiondesk/internal/app/models/dto"
	"github.com/yigit/tuitiondesk/internal/pkg/apperrors"
	"github.com/yigit/tuitiondesk/internal/pkg/validation"
)

// Services defined in this package:
// - AuthService: registration, login and the caller's own identity
// - StudentService: student profiles and their link to user accounts
// - FeeService: per-student fees and batch fee fan-out
// - AttendanceService: batch roll marking and attendance history
// - AnnouncementService: announcements and their live feed

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrResourceNotFound)
}

// normalizeEmail lowercases and trims raw, then checks its shape
func normalizeEmail(raw string) (string, error) {
	email := validation.NormalizeEmail(raw)
	if email == "" {
		return "", apperrors.NewValidationError("email is required")
	}
	if len(email) > validation.EmailMaxLength {
		return "", apperrors.NewValidationError(
			fmt.Sprintf("email must be at most %d characters", validation.EmailMaxLength))
	}
	if !validation.IsValidEmail(email) {
		return "", apperrors.NewValidationError("email format is invalid")
	}
	return email, nil
}

func validateID(field string, id int64) error {
	if id <= 0 {
		return apperrors.NewValidationError(fmt.Sprintf("%s must be a positive integer", field))
	}
	return nil
}

// normalizeDate checks a YYYY-MM-DD value and returns it trimmed
func normalizeDate(field, raw string) (string, error) {
	d := strings.TrimSpace(raw)
	if d == "" {
		return "", apperrors.NewValidationError(field + " is required")
	}
	if _, ok := validation.ParseDate(d); !ok {
		return "", apperrors.NewValidationError(field + " must be a date in YYYY-MM-DD format")
	}
	return d, nil
}

func validatePassword(password string) error {
	if len(password) < validation.PasswordMinLength {
		return apperrors.NewValidationError(
			fmt.Sprintf("password must be at least %d characters long", validation.PasswordMinLength))
	}
	if len(password) > validation.PasswordMaxLength {
		return apperrors.NewValidationError(
			fmt.Sprintf("password must be at most %d bytes long", validation.PasswordMaxLength))
	}
	return nil
}

func validateFullName(name string) error {
	ok := validation.NewStringValidation(name).
		WithRequired(true).
		WithMinLength(validation.NameMinLength).
		WithMaxLength(validation.NameMaxLength).
		Validate()
	if !ok {
		return apperrors.NewValidationError(
			fmt.Sprintf("fullName is required and must be at most %d characters", validation.NameMaxLength))
	}
	return nil
}

// normalizeProfile trims every field in place and validates the optional ones
func normalizeProfile(f *dto.StudentProfileFields) error {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Mobile = strings.TrimSpace(f.Mobile)
	f.Batch = strings.TrimSpace(f.Batch)
	f.Gender = strings.TrimSpace(f.Gender)
	f.Address = strings.TrimSpace(f.Address)
	f.ParentsContact = strings.TrimSpace(f.ParentsContact)

	if f.FullName != "" {
		if err := validateFullName(f.FullName); err != nil {
			return err
		}
	}
	if f.DOB != nil {
		dob := strings.TrimSpace(*f.DOB)
		if dob == "" {
			f.DOB = nil
			return nil
		}
		if _, err := normalizeDate("dob", dob); err != nil {
			return err
		}
		f.DOB = &dob
	}
	return nil
}

// applyProfile copies fields onto s. With patch set, empty fields leave the
// current value alone.
func applyProfile(s *models.Student, f dto.StudentProfileFields, patch bool) {
	set := func(dst *string, v string) {
		if !patch || v != "" {
			*dst = v
		}
	}
	set(&s.FullName, f.FullName)
	set(&s.Mobile, f.Mobile)
	set(&s.Batch, f.Batch)
	set(&s.Gender, f.Gender)
	set(&s.Address, f.Address)
	set(&s.ParentsContact, f.ParentsContact)
	if !patch || f.DOB != nil {
		s.DOB = f.DOB
	}
}
