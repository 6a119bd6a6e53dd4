package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/tuitiondesk/internal/app/models"
	"github.com/yigit/tuitiondesk/internal/pkg/apperrors"
	"github.com/yigit/tuitiondesk/internal/pkg/dberrors"
	"github.com/yigit/tuitiondesk/internal/pkg/logger"
)

// IStudentRepository defines the interface for student profile operations
type IStudentRepository interface {
	CreateStudent(ctx context.Context, student *models.Student) (int64, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	GetStudentByEmail(ctx context.Context, email string) (*models.Student, error)
	GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error)
	UpdateStudent(ctx context.Context, student *models.Student) error
	DeleteStudent(ctx context.Context, id int64) error
	ListStudents(ctx context.Context) ([]*models.Student, error)
	ListStudentsByBatch(ctx context.Context, batch string) ([]*models.Student, error)
	ListBatches(ctx context.Context) ([]string, error)
	StudentIDsInBatch(ctx context.Context, batch string) ([]int64, error)
}

var studentColumns = []string{
	"id", "user_id", "full_name", "email", "mobile", "batch",
	"to_char(dob, 'YYYY-MM-DD')", "gender", "address", "parents_contact",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{db: db, sb: psql}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(&s.ID, &s.UserID, &s.FullName, &s.Email, &s.Mobile, &s.Batch,
		&s.DOB, &s.Gender, &s.Address, &s.ParentsContact)
	return s, err
}

// dateArg binds an optional YYYY-MM-DD string to a DATE column
func dateArg(d *string) interface{} {
	if d == nil || *d == "" {
		return nil
	}
	return squirrel.Expr("?::date", *d)
}

// CreateStudent inserts a profile and returns its id
func (r *StudentRepository) CreateStudent(ctx context.Context, s *models.Student) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("user_id", "full_name", "email", "mobile", "batch", "dob", "gender", "address", "parents_contact").
		Values(s.UserID, s.FullName, s.Email, s.Mobile, s.Batch, dateArg(s.DOB), s.Gender, s.Address, s.ParentsContact).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, apperrors.NewStoreError("build create student query", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.ID); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "students_user_id_key"):
			return 0, apperrors.ErrUserAlreadyLinked
		case dberrors.IsForeignKeyViolation(err):
			return 0, apperrors.NewValidationError("userId does not reference an existing user")
		}
		logger.Error().Err(err).Str("email", s.Email).Msg("Error creating student")
		return 0, apperrors.NewStoreError("create student", err)
	}
	return s.ID, nil
}

// GetStudentByID retrieves a student by ID
func (r *StudentRepository) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getStudent(ctx, squirrel.Eq{"id": id})
}

// GetStudentByEmail retrieves a student by email. When several profiles
// share an email the oldest wins.
func (r *StudentRepository) GetStudentByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.getStudent(ctx, squirrel.Eq{"email": email})
}

// GetStudentByUserID retrieves the profile linked to a user
func (r *StudentRepository) GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	return r.getStudent(ctx, squirrel.Eq{"user_id": userID})
}

func (r *StudentRepository) getStudent(ctx context.Context, pred squirrel.Eq) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(pred).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, apperrors.NewStoreError("build get student query", err)
	}

	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Interface("filter", pred).Msg("Error getting student")
		return nil, apperrors.NewStoreError("get student", err)
	}
	return s, nil
}

// UpdateStudent overwrites every mutable column of the profile, including the
// user link
func (r *StudentRepository) UpdateStudent(ctx context.Context, s *models.Student) error {
	sql, args, err := r.sb.Update("students").
		Set("user_id", s.UserID).
		Set("full_name", s.FullName).
		Set("email", s.Email).
		Set("mobile", s.Mobile).
		Set("batch", s.Batch).
		Set("dob", dateArg(s.DOB)).
		Set("gender", s.Gender).
		Set("address", s.Address).
		Set("parents_contact", s.ParentsContact).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return apperrors.NewStoreError("build update student query", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_user_id_key") {
			return apperrors.ErrUserAlreadyLinked
		}
		logger.Error().Err(err).Int64("studentID", s.ID).Msg("Error updating student")
		return apperrors.NewStoreError("update student", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// DeleteStudent removes a profile together with its fees and attendance
func (r *StudentRepository) DeleteStudent(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("students").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return apperrors.NewStoreError("build delete student query", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error deleting student")
		return apperrors.NewStoreError("delete student", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// ListStudents returns every profile ordered by name
func (r *StudentRepository) ListStudents(ctx context.Context) ([]*models.Student, error) {
	return r.listStudents(ctx, r.sb.Select(studentColumns...).From("students"))
}

// ListStudentsByBatch returns the profiles of one batch ordered by name
func (r *StudentRepository) ListStudentsByBatch(ctx context.Context, batch string) ([]*models.Student, error) {
	return r.listStudents(ctx, r.sb.Select(studentColumns...).From("students").Where(squirrel.Eq{"batch": batch}))
}

func (r *StudentRepository) listStudents(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Student, error) {
	sql, args, err := q.OrderBy("full_name ASC", "id ASC").ToSql()
	if err != nil {
		return nil, apperrors.NewStoreError("build list students query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying students")
		return nil, apperrors.NewStoreError("list students", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, apperrors.NewStoreError("scan student", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("iterate students", err)
	}
	return students, nil
}

// ListBatches returns the distinct non-empty batch names
func (r *StudentRepository) ListBatches(ctx context.Context) ([]string, error) {
	sql, args, err := r.sb.Select("DISTINCT batch").
		From("students").
		Where(squirrel.NotEq{"batch": ""}).
		OrderBy("batch ASC").
		ToSql()
	if err != nil {
		return nil, apperrors.NewStoreError("build list batches query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying batches")
		return nil, apperrors.NewStoreError("list batches", err)
	}
	batches, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperrors.NewStoreError("scan batches", err)
	}
	return batches, nil
}

// StudentIDsInBatch returns the ids of every student in batch
func (r *StudentRepository) StudentIDsInBatch(ctx context.Context, batch string) ([]int64, error) {
	sql, args, err := r.sb.Select("id").
		From("students").
		Where(squirrel.Eq{"batch": batch}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, apperrors.NewStoreError("build batch members query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("batch", batch).Msg("Error querying batch members")
		return nil, apperrors.NewStoreError("list batch members", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, apperrors.NewStoreError("scan batch members", err)
	}
	return ids, nil
}
