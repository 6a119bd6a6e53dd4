package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/tuitiondesk/internal/app/models"
	"github.com/yigit/tuitiondesk/internal/pkg/apperrors"
	"github.com/yigit/tuitiondesk/internal/pkg/dberrors"
	"github.com/yigit/tuitiondesk/internal/pkg/logger"
)

// IFeeRepository defines the interface for fee operations
type IFeeRepository interface {
	ListFeesByStudentID(ctx context.Context, studentID int64) ([]*models.Fee, error)
	ListFeesByStudentEmail(ctx context.Context, email string) ([]*models.Fee, error)
	UpdateFeeStatus(ctx context.Context, id int64, status models.FeeStatus) error
	UpsertFees(ctx context.Context, fees []models.Fee) (int, error)
}

// FeeRepository handles fee database operations
type FeeRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewFeeRepository creates a new FeeRepository
func NewFeeRepository(db DBTX) *FeeRepository {
	return &FeeRepository{db: db, sb: psql}
}

func (r *FeeRepository) selectFees() squirrel.SelectBuilder {
	return r.sb.Select(
		"f.id", "f.student_id", "f.amount", "f.status", "to_char(f.due_date, 'YYYY-MM-DD')",
		"s.full_name", "s.batch",
	).
		From("fees f").
		Join("students s ON s.id = f.student_id").
		OrderBy("f.due_date DESC", "f.id DESC")
}

// ListFeesByStudentID returns a student's fees, newest due date first
func (r *FeeRepository) ListFeesByStudentID(ctx context.Context, studentID int64) ([]*models.Fee, error) {
	return r.listFees(ctx, r.selectFees().Where(squirrel.Eq{"f.student_id": studentID}))
}

// ListFeesByStudentEmail returns the fees of the student profile(s) with email
func (r *FeeRepository) ListFeesByStudentEmail(ctx context.Context, email string) ([]*models.Fee, error) {
	return r.listFees(ctx, r.selectFees().Where(squirrel.Eq{"s.email": email}))
}

func (r *FeeRepository) listFees(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Fee, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, apperrors.NewStoreError("build list fees query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying fees")
		return nil, apperrors.NewStoreError("list fees", err)
	}
	defer rows.Close()

	fees := []*models.Fee{}
	for rows.Next() {
		f := &models.Fee{}
		if err := rows.Scan(&f.ID, &f.StudentID, &f.Amount, &f.Status, &f.DueDate, &f.StudentName, &f.Batch); err != nil {
			logger.Error().Err(err).Msg("Error scanning fee row")
			return nil, apperrors.NewStoreError("scan fee", err)
		}
		fees = append(fees, f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("iterate fees", err)
	}
	return fees, nil
}

// UpdateFeeStatus sets the status of one fee
func (r *FeeRepository) UpdateFeeStatus(ctx context.Context, id int64, status models.FeeStatus) error {
	sql, args, err := r.sb.Update("fees").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return apperrors.NewStoreError("build update fee query", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("feeID", id).Msg("Error updating fee status")
		return apperrors.NewStoreError("update fee status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrFeeNotFound
	}
	return nil
}

// feeUpsertQuery inserts a fee or, when (student_id, due_date) already has
// one, overwrites its amount. The existing status is kept.
func (r *FeeRepository) feeUpsertQuery(f models.Fee) (string, []interface{}, error) {
	return r.sb.Insert("fees").
		Columns("student_id", "amount", "status", "due_date").
		Values(f.StudentID, f.Amount, f.Status, squirrel.Expr("?::date", f.DueDate)).
		Suffix("ON CONFLICT (student_id, due_date) DO UPDATE SET amount = EXCLUDED.amount, due_date = EXCLUDED.due_date, updated_at = NOW()").
		ToSql()
}

// UpsertFees sends every fee in one pgx batch and returns how many rows were
// written. The first failure aborts the remaining statements; callers run it
// inside a transaction so nothing partial is committed.
func (r *FeeRepository) UpsertFees(ctx context.Context, fees []models.Fee) (int, error) {
	batch := &pgx.Batch{}
	for _, f := range fees {
		sql, args, err := r.feeUpsertQuery(f)
		if err != nil {
			return 0, apperrors.NewStoreError("build upsert fee query", err)
		}
		batch.Queue(sql, args...)
	}

	return execBatch(ctx, r.db, batch, "upsert fees")
}

// execBatch drains every queued statement and counts the affected rows
func execBatch(ctx context.Context, db DBTX, batch *pgx.Batch, op string) (int, error) {
	if batch.Len() == 0 {
		return 0, nil
	}

	br := db.SendBatch(ctx, batch)
	defer br.Close()

	applied := 0
	for i := 0; i < batch.Len(); i++ {
		tag, err := br.Exec()
		if err != nil {
			if dberrors.IsCheckViolation(err) {
				return applied, apperrors.NewValidationError("value rejected by store constraint")
			}
			if dberrors.IsForeignKeyViolation(err) {
				return applied, apperrors.ErrStudentNotFound
			}
			logger.Error().Err(err).Int("statement", i).Str("op", op).Msg("Batch statement failed")
			return applied, apperrors.NewStoreError(op, err)
		}
		applied += int(tag.RowsAffected())
	}

	if err := br.Close(); err != nil {
		return applied, apperrors.NewStoreError(op, err)
	}
	return applied, nil
}
