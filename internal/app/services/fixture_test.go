package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/tuitiondesk/internal/app/models"
	"github.com/yigit/tuitiondesk/internal/app/models/dto"
	"github.com/yigit/tuitiondesk/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

type publishedEvent struct {
	Type string
	ID   int64
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishAnnouncement(eventType string, a *models.Announcement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, ID: a.ID})
}

type fixture struct {
	store         *memStore
	hasher        auth.PasswordHasher
	jwt           *auth.JWTService
	feed          *recordingPublisher
	auth          AuthService
	students      StudentService
	fees          FeeService
	attendance    AttendanceService
	announcements AnnouncementService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	hasher := auth.BcryptHasher{Cost: bcrypt.MinCost}
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "tuitiondesk-test"})
	feed := &recordingPublisher{}
	log := zerolog.Nop()

	return &fixture{
		store:         store,
		hasher:        hasher,
		jwt:           jwtService,
		feed:          feed,
		auth:          NewAuthService(store, hasher, jwtService, nil, log),
		students:      NewStudentService(store, hasher, nil, log),
		fees:          NewFeeService(store, log),
		attendance:    NewAttendanceService(store, log),
		announcements: NewAnnouncementService(store, feed, log),
	}
}

func (f *fixture) register(t *testing.T, name, email string) *dto.RegisterResponse {
	t.Helper()
	resp, err := f.auth.Register(context.Background(), &dto.RegisterRequest{
		FullName: name, Email: email, Mobile: "9000000000", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return resp
}

// addStudent creates an unlinked profile in batch
func (f *fixture) addStudent(t *testing.T, name, email, batch string) *models.Student {
	t.Helper()
	s, created, err := f.students.UpsertByEmail(context.Background(), email, dto.StudentProfileFields{FullName: name, Batch: batch})
	if err != nil || !created {
		t.Fatalf("add student %s: created=%v err=%v", email, created, err)
	}
	return s
}

func (f *fixture) addAdmin(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	if err != nil {
		t.Fatal(err)
	}
	u := &models.User{FullName: "Admin", Email: email, Password: hash, Role: models.RoleAdmin}
	if _, err := f.store.Repos().Users.CreateUser(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return u
}

func assertKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("err = %v, want %v", err, kind)
	}
}

func ptr[T any](v T) *T { return &v }

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
