package services

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/tuitiondesk/internal/app/models"
	"github.com/yigit/tuitiondesk/internal/app/models/dto"
	"github.com/yigit/tuitiondesk/internal/app/repositories"
	"github.com/yigit/tuitiondesk/internal/pkg/apperrors"
)

// maxFeeAmount is the largest value a NUMERIC(12,2) column holds
const maxFeeAmount = 9999999999.99

// FeeService defines fee operations
type FeeService interface {
	GetForStudent(ctx context.Context, studentID int64) ([]*models.Fee, error)
	GetForStudentByEmail(ctx context.Context, email string) ([]*models.Fee, error)
	UpdateStatus(ctx context.Context, feeID int64, status string) error
	ApplyToBatch(ctx context.Context, req *dto.ApplyBatchFeeRequest) (*dto.BatchResult, error)
}

type feeServiceImpl struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewFeeService creates a new FeeService
func NewFeeService(store repositories.Store, logger zerolog.Logger) FeeService {
	return &feeServiceImpl{store: store, logger: logger}
}

// GetForStudent lists a student's fees, newest due date first
func (s *feeServiceImpl) GetForStudent(ctx context.Context, studentID int64) ([]*models.Fee, error) {
	if err := validateID("studentId", studentID); err != nil {
		return nil, err
	}
	return s.store.Repos().Fees.ListFeesByStudentID(ctx, studentID)
}

// GetForStudentByEmail lists the fees of the profile with this email
func (s *feeServiceImpl) GetForStudentByEmail(ctx context.Context, raw string) ([]*models.Fee, error) {
	emailAddr, err := normalizeEmail(raw)
	if err != nil {
		return nil, err
	}
	return s.store.Repos().Fees.ListFeesByStudentEmail(ctx, emailAddr)
}

// UpdateStatus sets the status of one fee
func (s *feeServiceImpl) UpdateStatus(ctx context.Context, feeID int64, raw string) error {
	if err := validateID("id", feeID); err != nil {
		return err
	}
	status, ok := models.ParseFeeStatus(raw)
	if !ok {
		return apperrors.NewValidationError("status must be one of Pending, Paid, Overdue, Waived")
	}
	return s.store.Repos().Fees.UpdateFeeStatus(ctx, feeID, status)
}

// ApplyToBatch upserts a Pending fee for every student in the batch. Either
// every student gets the fee or none does.
func (s *feeServiceImpl) ApplyToBatch(ctx context.Context, req *dto.ApplyBatchFeeRequest) (*dto.BatchResult, error) {
	batch := strings.TrimSpace(req.Batch)
	if batch == "" {
		return nil, apperrors.NewValidationError("batch is required")
	}
	if req.Amount == nil {
		return nil, apperrors.NewValidationError("amount is required")
	}
	amount := *req.Amount
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, apperrors.NewValidationError("amount must be a non-negative number")
	}
	if amount > maxFeeAmount {
		return nil, apperrors.NewValidationError("amount must not exceed 9999999999.99")
	}
	dueDate, err := normalizeDate("dueDate", req.DueDate)
	if err != nil {
		return nil, err
	}

	result := &dto.BatchResult{Batch: batch, Date: dueDate}
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		ids, err := repos.Students.StudentIDsInBatch(ctx, batch)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return apperrors.ErrBatchEmpty
		}

		fees := make([]models.Fee, 0, len(ids))
		for _, id := range ids {
			fees = append(fees, models.Fee{
				StudentID: id,
				Amount:    amount,
				Status:    models.FeeStatusPending,
				DueDate:   dueDate,
			})
		}

		n, err := repos.Fees.UpsertFees(ctx, fees)
		if err != nil {
			return err
		}
		result.AppliedCount = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("batch", batch).
		Str("dueDate", dueDate).
		Int("applied", result.AppliedCount).
		Msg("Batch fee applied")
	return result, nil
}
