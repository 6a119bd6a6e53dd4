package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/tuitiondesk/internal/app/models"
	"github.com/yigit/tuitiondesk/internal/pkg/apperrors"
	"github.com/yigit/tuitiondesk/internal/pkg/logger"
)

// IAnnouncementRepository defines the interface for announcement operations
type IAnnouncementRepository interface {
	CreateAnnouncement(ctx context.Context, a *models.Announcement) (int64, error)
	ListAnnouncements(ctx context.Context) ([]*models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id int64) error
}

// AnnouncementRepository handles announcement database operations
type AnnouncementRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewAnnouncementRepository creates a new AnnouncementRepository
func NewAnnouncementRepository(db DBTX) *AnnouncementRepository {
	return &AnnouncementRepository{db: db, sb: psql}
}

// CreateAnnouncement inserts an announcement and fills in its id and creation time
func (r *AnnouncementRepository) CreateAnnouncement(ctx context.Context, a *models.Announcement) (int64, error) {
	sql, args, err := r.sb.Insert("announcements").
		Columns("title", "message", "date", "time").
		Values(a.Title, a.Message, squirrel.Expr("?::date", a.Date), a.Time).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, apperrors.NewStoreError("build create announcement query", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
		logger.Error().Err(err).Msg("Error creating announcement")
		return 0, apperrors.NewStoreError("create announcement", err)
	}
	return a.ID, nil
}

// ListAnnouncements returns every announcement, newest first
func (r *AnnouncementRepository) ListAnnouncements(ctx context.Context) ([]*models.Announcement, error) {
	sql, args, err := r.sb.Select("id", "title", "message", "to_char(date, 'YYYY-MM-DD')", "time", "created_at").
		From("announcements").
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		return nil, apperrors.NewStoreError("build list announcements query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying announcements")
		return nil, apperrors.NewStoreError("list announcements", err)
	}
	defer rows.Close()

	list := []*models.Announcement{}
	for rows.Next() {
		a := &models.Announcement{}
		if err := rows.Scan(&a.ID, &a.Title, &a.Message, &a.Date, &a.Time, &a.CreatedAt); err != nil {
			return nil, apperrors.NewStoreError("scan announcement", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("iterate announcements", err)
	}
	return list, nil
}

// DeleteAnnouncement removes one announcement
func (r *AnnouncementRepository) DeleteAnnouncement(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("announcements").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return apperrors.NewStoreError("build delete announcement query", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("announcementID", id).Msg("Error deleting announcement")
		return apperrors.NewStoreError("delete announcement", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAnnouncementNotFound
	}
	return nil
}
