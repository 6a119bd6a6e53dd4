package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/tuitiondesk/internal/app/models"
	"github.com/yigit/tuitiondesk/internal/app/models/dto"
	"github.com/yigit/tuitiondesk/internal/app/repositories"
	"github.com/yigit/tuitiondesk/internal/pkg/apperrors"
	"github.com/yigit/tuitiondesk/internal/pkg/validation"
)

// Live feed event types
const (
	EventAnnouncementCreated = "announcement.created"
	EventAnnouncementDeleted = "announcement.deleted"
)

// AnnouncementPublisher pushes announcement changes to connected clients
type AnnouncementPublisher interface {
	PublishAnnouncement(eventType string, a *models.Announcement)
}

// AnnouncementService defines announcement operations
type AnnouncementService interface {
	Create(ctx context.Context, req *dto.CreateAnnouncementRequest) (*models.Announcement, error)
	ListAll(ctx context.Context) ([]*models.Announcement, error)
	Delete(ctx context.Context, id int64) error
}

type announcementServiceImpl struct {
	store     repositories.Store
	publisher AnnouncementPublisher
	logger    zerolog.Logger
}

// NewAnnouncementService creates a new AnnouncementService. publisher may be nil.
func NewAnnouncementService(store repositories.Store, publisher AnnouncementPublisher, logger zerolog.Logger) AnnouncementService {
	return &announcementServiceImpl{store: store, publisher: publisher, logger: logger}
}

// Create stores an announcement and notifies the live feed
func (s *announcementServiceImpl) Create(ctx context.Context, req *dto.CreateAnnouncementRequest) (*models.Announcement, error) {
	title := strings.TrimSpace(req.Title)
	message := strings.TrimSpace(req.Message)
	if title == "" || message == "" {
		return nil, apperrors.NewValidationError("title and message are required")
	}
	date, err := normalizeDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	var clock *string
	if req.Time != nil {
		if t := strings.TrimSpace(*req.Time); t != "" {
			if !validation.IsValidTime(t) {
				return nil, apperrors.NewValidationError("time must be in HH:MM format")
			}
			clock = &t
		}
	}

	a := &models.Announcement{Title: title, Message: message, Date: date, Time: clock}
	if _, err := s.store.Repos().Announcements.CreateAnnouncement(ctx, a); err != nil {
		return nil, err
	}

	s.publish(EventAnnouncementCreated, a)
	return a, nil
}

// ListAll returns announcements, newest first
func (s *announcementServiceImpl) ListAll(ctx context.Context) ([]*models.Announcement, error) {
	return s.store.Repos().Announcements.ListAnnouncements(ctx)
}

// Delete removes an announcement and notifies the live feed
func (s *announcementServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := validateID("id", id); err != nil {
		return err
	}
	if err := s.store.Repos().Announcements.DeleteAnnouncement(ctx, id); err != nil {
		return err
	}
	s.publish(EventAnnouncementDeleted, &models.Announcement{ID: id})
	return nil
}

func (s *announcementServiceImpl) publish(eventType string, a *models.Announcement) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishAnnouncement(eventType, a)
	s.logger.Debug().Str("event", eventType).Int64("announcementID", a.ID).Msg("Announcement published")
}
