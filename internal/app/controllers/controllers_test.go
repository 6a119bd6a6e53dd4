package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/yigit/tuitiondesk/internal/app/models"
	"github.com/yigit/tuitiondesk/internal/app/models/dto"
	"github.com/yigit/tuitiondesk/internal/app/services"
	"github.com/yigit/tuitiondesk/internal/middleware"
	"github.com/yigit/tuitiondesk/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Fakes embed the service interface so unset methods panic if reached.

type fakeAuthService struct {
	services.AuthService
	register func(*dto.RegisterRequest) (*dto.RegisterResponse, error)
	login    func(*dto.LoginRequest) (*dto.LoginResponse, error)
	me       func(int64) (*dto.MeResponse, error)
}

func (f *fakeAuthService) Register(_ context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	return f.register(req)
}

func (f *fakeAuthService) Login(_ context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	return f.login(req)
}

func (f *fakeAuthService) Me(_ context.Context, id int64) (*dto.MeResponse, error) {
	return f.me(id)
}

type fakeStudentService struct {
	services.StudentService
	getByID func(int64) (*models.Student, error)
	upsert  func(string, dto.StudentProfileFields) (*models.Student, bool, error)
	update  func(int64, *dto.UpdateStudentRequest) (*models.Student, error)
	remove  func(int64) error
	batches []string
}

func (f *fakeStudentService) GetByID(_ context.Context, id int64) (*models.Student, error) {
	return f.getByID(id)
}

func (f *fakeStudentService) UpsertByEmail(_ context.Context, email string, fields dto.StudentProfileFields) (*models.Student, bool, error) {
	return f.upsert(email, fields)
}

func (f *fakeStudentService) Update(_ context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	return f.update(id, req)
}

func (f *fakeStudentService) Delete(_ context.Context, id int64) error {
	return f.remove(id)
}

func (f *fakeStudentService) ListBatches(context.Context) ([]string, error) {
	return f.batches, nil
}

type fakeFeeService struct {
	services.FeeService
	updateStatus func(int64, string) error
	apply        func(*dto.ApplyBatchFeeRequest) (*dto.BatchResult, error)
}

func (f *fakeFeeService) UpdateStatus(_ context.Context, id int64, status string) error {
	return f.updateStatus(id, status)
}

func (f *fakeFeeService) ApplyToBatch(_ context.Context, req *dto.ApplyBatchFeeRequest) (*dto.BatchResult, error) {
	return f.apply(req)
}

type fakeAttendanceService struct {
	services.AttendanceService
	mark   func(*dto.MarkAttendanceRequest) (*dto.BatchResult, error)
	onDate func(batch, date string) ([]dto.BatchAttendanceEntry, error)
}

func (f *fakeAttendanceService) MarkBatch(_ context.Context, req *dto.MarkAttendanceRequest) (*dto.BatchResult, error) {
	return f.mark(req)
}

func (f *fakeAttendanceService) ForBatchAndDate(_ context.Context, batch, date string) ([]dto.BatchAttendanceEntry, error) {
	return f.onDate(batch, date)
}

type fakeAnnouncementService struct {
	services.AnnouncementService
	create func(*dto.CreateAnnouncementRequest) (*models.Announcement, error)
	remove func(int64) error
}

func (f *fakeAnnouncementService) Create(_ context.Context, req *dto.CreateAnnouncementRequest) (*models.Announcement, error) {
	return f.create(req)
}

func (f *fakeAnnouncementService) Delete(_ context.Context, id int64) error {
	return f.remove(id)
}

func do(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return env
}

func TestAuthController_Register(t *testing.T) {
	svc := &fakeAuthService{register: func(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
		if req.Email == "taken@example.com" {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return &dto.RegisterResponse{UserID: 1, StudentID: 2, Email: req.Email, Role: models.RoleStudent}, nil
	}}
	r := gin.New()
	r.POST("/auth/register", NewAuthController(svc).Register)

	w := do(r, http.MethodPost, "/auth/register", dto.RegisterRequest{FullName: "Asha", Email: "asha@example.com", Password: "secret123"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	var got dto.RegisterResponse
	if err := json.Unmarshal(decode(t, w).Data, &got); err != nil {
		t.Fatal(err)
	}
	want := dto.RegisterResponse{UserID: 1, StudentID: 2, Email: "asha@example.com", Role: models.RoleStudent}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}

	w = do(r, http.MethodPost, "/auth/register", dto.RegisterRequest{FullName: "Asha", Email: "taken@example.com", Password: "secret123"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", w.Code)
	}

	w = do(r, http.MethodPost, "/auth/register", dto.RegisterRequest{FullName: "Asha", Email: "asha@example.com", Password: "123"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("short password status = %d", w.Code)
	}
	if env := decode(t, w); env.Error == nil || env.Error.Code != dto.ErrorCodeValidationFailed {
		t.Fatalf("unexpected error body %s", w.Body)
	}
}

func TestAuthController_Login(t *testing.T) {
	svc := &fakeAuthService{login: func(req *dto.LoginRequest) (*dto.LoginResponse, error) {
		if req.Password != "secret123" {
			return nil, apperrors.ErrInvalidCredentials
		}
		return &dto.LoginResponse{Success: true, Role: models.RoleAdmin, Email: req.Email}, nil
	}}
	r := gin.New()
	r.POST("/auth/login", NewAuthController(svc).Login)

	w := do(r, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "a@example.com", Password: "secret123", Role: "student"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got dto.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if !got.Success || got.Role != models.RoleAdmin {
		t.Fatalf("unexpected login response %+v", got)
	}

	w = do(r, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "a@example.com", Password: "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", w.Code)
	}
	if env := decode(t, w); env.Success || env.Error.Code != dto.ErrorCodeInvalidCredentials {
		t.Fatalf("unexpected error body %s", w.Body)
	}
}

func TestAuthController_MeRequiresIdentity(t *testing.T) {
	svc := &fakeAuthService{me: func(id int64) (*dto.MeResponse, error) {
		return &dto.MeResponse{User: &models.User{ID: id}}, nil
	}}
	ctrl := NewAuthController(svc)

	r := gin.New()
	r.GET("/anon", ctrl.Me)
	r.GET("/me", func(c *gin.Context) { c.Set(middleware.ContextUserID, int64(9)) }, ctrl.Me)

	if w := do(r, http.MethodGet, "/anon", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", w.Code)
	}
	w := do(r, http.MethodGet, "/me", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got dto.MeResponse
	if err := json.Unmarshal(decode(t, w).Data, &got); err != nil {
		t.Fatal(err)
	}
	if got.User.ID != 9 {
		t.Fatalf("user id = %d", got.User.ID)
	}
}

func TestStudentController_UpsertByEmailStatus(t *testing.T) {
	svc := &fakeStudentService{upsert: func(email string, f dto.StudentProfileFields) (*models.Student, bool, error) {
		return &models.Student{ID: 4, Email: email, FullName: f.FullName}, email == "new@example.com", nil
	}}
	r := gin.New()
	r.POST("/students/email/:email", NewStudentController(svc).UpsertByEmail)

	w := do(r, http.MethodPost, "/students/email/new@example.com", dto.StudentProfileFields{FullName: "New"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	w = do(r, http.MethodPost, "/students/email/old@example.com", dto.StudentProfileFields{Batch: "B1"})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d", w.Code)
	}
}

func TestStudentController_ByID(t *testing.T) {
	svc := &fakeStudentService{
		getByID: func(id int64) (*models.Student, error) {
			if id != 1 {
				return nil, apperrors.ErrStudentNotFound
			}
			return &models.Student{ID: 1, FullName: "Asha"}, nil
		},
		update: func(id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
			if req.Email == "taken@example.com" {
				return nil, apperrors.ErrEmailAlreadyExists
			}
			return &models.Student{ID: id, Email: req.Email, FullName: req.FullName}, nil
		},
		remove: func(id int64) error {
			if id != 1 {
				return apperrors.ErrStudentNotFound
			}
			return nil
		},
	}
	ctrl := NewStudentController(svc)
	r := gin.New()
	r.GET("/students/:id", ctrl.GetByID)
	r.PUT("/students/:id", ctrl.UpdateStudent)
	r.DELETE("/students/:id", ctrl.DeleteStudent)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
	}{
		{"get", http.MethodGet, "/students/1", nil, http.StatusOK},
		{"get missing", http.MethodGet, "/students/2", nil, http.StatusNotFound},
		{"get bad id", http.MethodGet, "/students/abc", nil, http.StatusBadRequest},
		{"update", http.MethodPut, "/students/1", dto.UpdateStudentRequest{Email: "a@example.com", StudentProfileFields: dto.StudentProfileFields{FullName: "A"}}, http.StatusOK},
		{"update conflict", http.MethodPut, "/students/1", dto.UpdateStudentRequest{Email: "taken@example.com", StudentProfileFields: dto.StudentProfileFields{FullName: "A"}}, http.StatusConflict},
		{"update malformed", http.MethodPut, "/students/1", "{", http.StatusBadRequest},
		{"delete", http.MethodDelete, "/students/1", nil, http.StatusOK},
		{"delete missing", http.MethodDelete, "/students/3", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(r, tt.method, tt.path, tt.body); w.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body)
			}
		})
	}
}

func TestStudentController_ListBatches(t *testing.T) {
	r := gin.New()
	r.GET("/students/batches", NewStudentController(&fakeStudentService{batches: []string{"A", "B"}}).ListBatches)

	w := do(r, http.MethodGet, "/students/batches", nil)
	var got dto.BatchListResponse
	if err := json.Unmarshal(decode(t, w).Data, &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"A", "B"}, got.Batches); diff != "" {
		t.Errorf("batches mismatch (-want +got):\n%s", diff)
	}
}

func TestFeeController(t *testing.T) {
	var gotStatus string
	svc := &fakeFeeService{
		updateStatus: func(id int64, status string) error {
			gotStatus = status
			if status == "Lost" {
				return apperrors.NewValidationError("status must be one of Pending, Paid, Overdue, Waived")
			}
			return nil
		},
		apply: func(req *dto.ApplyBatchFeeRequest) (*dto.BatchResult, error) {
			return &dto.BatchResult{Batch: req.Batch, AppliedCount: 3}, nil
		},
	}
	ctrl := NewFeeController(svc)
	r := gin.New()
	r.PUT("/fees/:id/status", ctrl.UpdateStatus)
	r.POST("/fees/batch", ctrl.ApplyToBatch)

	if w := do(r, http.MethodPut, "/fees/5/status", dto.UpdateFeeStatusRequest{Status: "paid"}); w.Code != http.StatusOK || gotStatus != "paid" {
		t.Fatalf("status = %d, forwarded %q", w.Code, gotStatus)
	}
	if w := do(r, http.MethodPut, "/fees/5/status", dto.UpdateFeeStatusRequest{Status: "Lost"}); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status code = %d", w.Code)
	}

	w := do(r, http.MethodPost, "/fees/batch", map[string]interface{}{"batch": "B1", "amount": 500, "dueDate": "2024-01-01"})
	if w.Code != http.StatusOK {
		t.Fatalf("apply status = %d", w.Code)
	}
	var result dto.BatchResult
	if err := json.Unmarshal(decode(t, w).Data, &result); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(dto.BatchResult{Batch: "B1", AppliedCount: 3}, result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}

	// amount is required, zero is allowed
	if w := do(r, http.MethodPost, "/fees/batch", map[string]interface{}{"batch": "B1", "dueDate": "2024-01-01"}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing amount status = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/fees/batch", map[string]interface{}{"batch": "B1", "amount": 0, "dueDate": "2024-01-01"}); w.Code != http.StatusOK {
		t.Fatalf("zero amount status = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/fees/batch", map[string]interface{}{"batch": "B1", "amount": -1, "dueDate": "2024-01-01"}); w.Code != http.StatusBadRequest {
		t.Fatalf("negative amount status = %d", w.Code)
	}
}

func TestAttendanceController(t *testing.T) {
	svc := &fakeAttendanceService{
		mark: func(req *dto.MarkAttendanceRequest) (*dto.BatchResult, error) {
			if _, ok := req.Statuses["99"]; ok {
				return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "students not in batch B1: 99").
					WithDetails(map[string]interface{}{"studentIds": []string{"99"}})
			}
			return &dto.BatchResult{Batch: req.Batch, Date: req.Date, AppliedCount: len(req.Statuses)}, nil
		},
		onDate: func(batch, date string) ([]dto.BatchAttendanceEntry, error) {
			return []dto.BatchAttendanceEntry{{StudentID: 1, StudentName: batch + " " + date, Status: "present"}}, nil
		},
	}
	ctrl := NewAttendanceController(svc)
	r := gin.New()
	r.POST("/attendance", ctrl.MarkBatch)
	r.GET("/attendance/batch/:batch/:date", ctrl.ForBatchAndDate)

	body := dto.MarkAttendanceRequest{Batch: "B1", Date: "2024-03-05", Statuses: map[string]string{"1": "present", "2": "absent"}}
	if w := do(r, http.MethodPost, "/attendance", body); w.Code != http.StatusOK {
		t.Fatalf("mark status = %d", w.Code)
	}

	body.Statuses = map[string]string{"99": "present"}
	w := do(r, http.MethodPost, "/attendance", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("outside batch status = %d", w.Code)
	}

	body.Statuses = map[string]string{}
	if w := do(r, http.MethodPost, "/attendance", body); w.Code != http.StatusBadRequest {
		t.Fatalf("empty statuses status = %d", w.Code)
	}

	w = do(r, http.MethodGet, "/attendance/batch/B1/2024-03-05", nil)
	var entries []dto.BatchAttendanceEntry
	if err := json.Unmarshal(decode(t, w).Data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].StudentName != "B1 2024-03-05" {
		t.Fatalf("params not forwarded: %+v", entries)
	}
}

func TestAnnouncementController(t *testing.T) {
	svc := &fakeAnnouncementService{
		create: func(req *dto.CreateAnnouncementRequest) (*models.Announcement, error) {
			return &models.Announcement{ID: 7, Title: req.Title, Message: req.Message, Date: req.Date}, nil
		},
		remove: func(id int64) error {
			if id == 7 {
				return nil
			}
			return apperrors.ErrAnnouncementNotFound
		},
	}
	ctrl := NewAnnouncementController(svc)
	r := gin.New()
	r.POST("/announcements", ctrl.CreateAnnouncement)
	r.DELETE("/announcements/:id", ctrl.DeleteAnnouncement)

	w := do(r, http.MethodPost, "/announcements", dto.CreateAnnouncementRequest{Title: "Holiday", Message: "Closed", Date: "2024-08-15"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/announcements", dto.CreateAnnouncementRequest{Message: "Closed", Date: "2024-08-15"}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing title status = %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/announcements/7", nil); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/announcements/8", nil); w.Code != http.StatusNotFound {
		t.Fatalf("delete missing status = %d", w.Code)
	}
}
