package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/tuitiondesk/internal/app/models"
	"github.com/yigit/tuitiondesk/internal/app/models/dto"
	"github.com/yigit/tuitiondesk/internal/app/repositories"
	"github.com/yigit/tuitiondesk/internal/pkg/apperrors"
)

// AttendanceService defines attendance operations
type AttendanceService interface {
	MarkBatch(ctx context.Context, req *dto.MarkAttendanceRequest) (*dto.BatchResult, error)
	HistoryForStudent(ctx context.Context, studentID int64) ([]dto.AttendanceEntry, error)
	ForBatchAndDate(ctx context.Context, batch, date string) ([]dto.BatchAttendanceEntry, error)
}

type attendanceServiceImpl struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(store repositories.Store, logger zerolog.Logger) AttendanceService {
	return &attendanceServiceImpl{store: store, logger: logger}
}

// MarkBatch records one status per student for a batch and date. Every
// student must belong to the batch; any bad entry rejects the whole call.
func (s *attendanceServiceImpl) MarkBatch(ctx context.Context, req *dto.MarkAttendanceRequest) (*dto.BatchResult, error) {
	batch := strings.TrimSpace(req.Batch)
	if batch == "" {
		return nil, apperrors.NewValidationError("batch is required")
	}
	date, err := normalizeDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	if len(req.Statuses) == 0 {
		return nil, apperrors.NewValidationError("statuses must contain at least one student")
	}

	records, err := parseStatuses(batch, date, req.Statuses)
	if err != nil {
		return nil, err
	}

	result := &dto.BatchResult{Batch: batch, Date: date}
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		members, err := repos.Students.StudentIDsInBatch(ctx, batch)
		if err != nil {
			return err
		}
		inBatch := make(map[int64]struct{}, len(members))
		for _, id := range members {
			inBatch[id] = struct{}{}
		}

		var outside []string
		for _, r := range records {
			if _, ok := inBatch[r.StudentID]; !ok {
				outside = append(outside, strconv.FormatInt(r.StudentID, 10))
			}
		}
		if len(outside) > 0 {
			return apperrors.NewCustomError(apperrors.ErrValidationFailed,
				fmt.Sprintf("students not in batch %s: %s", batch, strings.Join(outside, ", "))).
				WithDetails(map[string]interface{}{"studentIds": outside})
		}

		n, err := repos.Attendance.UpsertAttendance(ctx, records)
		if err != nil {
			return err
		}
		result.AppliedCount = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("batch", batch).Str("date", date).Int("applied", result.AppliedCount).Msg("Attendance marked")
	return result, nil
}

// parseStatuses turns the id->status map into records ordered by student id
func parseStatuses(batch, date string, statuses map[string]string) ([]models.Attendance, error) {
	records := make([]models.Attendance, 0, len(statuses))
	for key, raw := range statuses {
		id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil || id <= 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid student id %q", key))
		}
		status, ok := models.ParseAttendanceStatus(raw)
		if !ok {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("invalid status %q for student %d: must be present, absent, late or excused", raw, id))
		}
		records = append(records, models.Attendance{StudentID: id, Batch: batch, Date: date, Status: status})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].StudentID < records[j].StudentID })
	return records, nil
}

// HistoryForStudent returns every mark of a student, newest date first
func (s *attendanceServiceImpl) HistoryForStudent(ctx context.Context, studentID int64) ([]dto.AttendanceEntry, error) {
	if err := validateID("studentId", studentID); err != nil {
		return nil, err
	}
	records, err := s.store.Repos().Attendance.ListAttendanceByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.AttendanceEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, dto.AttendanceEntry{Date: r.Date, Status: string(r.Status), Batch: r.Batch})
	}
	return entries, nil
}

// ForBatchAndDate returns the roll of one batch on one date, ordered by name
func (s *attendanceServiceImpl) ForBatchAndDate(ctx context.Context, batch, date string) ([]dto.BatchAttendanceEntry, error) {
	batch = strings.TrimSpace(batch)
	if batch == "" {
		return nil, apperrors.NewValidationError("batch is required")
	}
	date, err := normalizeDate("date", date)
	if err != nil {
		return nil, err
	}

	records, err := s.store.Repos().Attendance.ListAttendanceByBatchAndDate(ctx, batch, date)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.BatchAttendanceEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, dto.BatchAttendanceEntry{
			StudentID:   r.StudentID,
			StudentName: r.StudentName,
			Status:      string(r.Status),
		})
	}
	return entries, nil
}
