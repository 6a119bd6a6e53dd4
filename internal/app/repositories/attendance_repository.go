package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/tuitiondesk/internal/app/models"
	"github.com/yigit/tuitiondesk/internal/pkg/apperrors"
	"github.com/yigit/tuitiondesk/internal/pkg/logger"
)

// IAttendanceRepository defines the interface for attendance operations
type IAttendanceRepository interface {
	UpsertAttendance(ctx context.Context, records []models.Attendance) (int, error)
	ListAttendanceByStudent(ctx context.Context, studentID int64) ([]*models.Attendance, error)
	ListAttendanceByBatchAndDate(ctx context.Context, batch, date string) ([]*models.Attendance, error)
}

// AttendanceRepository handles attendance database operations
type AttendanceRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db DBTX) *AttendanceRepository {
	return &AttendanceRepository{db: db, sb: psql}
}

func (r *AttendanceRepository) attendanceUpsertQuery(a models.Attendance) (string, []interface{}, error) {
	return r.sb.Insert("attendance").
		Columns("student_id", "batch", "date", "status").
		Values(a.StudentID, a.Batch, squirrel.Expr("?::date", a.Date), a.Status).
		Suffix("ON CONFLICT (student_id, date) DO UPDATE SET status = EXCLUDED.status, batch = EXCLUDED.batch, updated_at = NOW()").
		ToSql()
}

// UpsertAttendance writes one mark per record, replacing any earlier mark
// for the same student and date
func (r *AttendanceRepository) UpsertAttendance(ctx context.Context, records []models.Attendance) (int, error) {
	batch := &pgx.Batch{}
	for _, a := range records {
		sql, args, err := r.attendanceUpsertQuery(a)
		if err != nil {
			return 0, apperrors.NewStoreError("build upsert attendance query", err)
		}
		batch.Queue(sql, args...)
	}
	return execBatch(ctx, r.db, batch, "upsert attendance")
}

// ListAttendanceByStudent returns a student's history, newest date first
func (r *AttendanceRepository) ListAttendanceByStudent(ctx context.Context, studentID int64) ([]*models.Attendance, error) {
	q := r.sb.Select("a.id", "a.student_id", "a.batch", "to_char(a.date, 'YYYY-MM-DD')", "a.status", "s.full_name").
		From("attendance a").
		Join("students s ON s.id = a.student_id").
		Where(squirrel.Eq{"a.student_id": studentID}).
		OrderBy("a.date DESC")
	return r.list(ctx, q)
}

// ListAttendanceByBatchAndDate returns the roll for one batch and date,
// ordered by student name
func (r *AttendanceRepository) ListAttendanceByBatchAndDate(ctx context.Context, batch, date string) ([]*models.Attendance, error) {
	q := r.sb.Select("a.id", "a.student_id", "a.batch", "to_char(a.date, 'YYYY-MM-DD')", "a.status", "s.full_name").
		From("attendance a").
		Join("students s ON s.id = a.student_id").
		Where(squirrel.Eq{"a.batch": batch}).
		Where(squirrel.Expr("a.date = ?::date", date)).
		OrderBy("s.full_name ASC", "a.student_id ASC")
	return r.list(ctx, q)
}

func (r *AttendanceRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Attendance, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, apperrors.NewStoreError("build list attendance query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying attendance")
		return nil, apperrors.NewStoreError("list attendance", err)
	}
	defer rows.Close()

	records := []*models.Attendance{}
	for rows.Next() {
		a := &models.Attendance{}
		if err := rows.Scan(&a.ID, &a.StudentID, &a.Batch, &a.Date, &a.Status, &a.StudentName); err != nil {
			logger.Error().Err(err).Msg("Error scanning attendance row")
			return nil, apperrors.NewStoreError("scan attendance", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("iterate attendance", err)
	}
	return records, nil
}
