package services

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/tuitiondesk/internal/app/models"
	"github.com/yigit/tuitiondesk/internal/app/repositories"
	"github.com/yigit/tuitiondesk/internal/pkg/apperrors"
)

// memState mirrors the relational schema closely enough for service tests:
// unique keys, the user link and cascading deletes
type memState struct {
	nextID        int64
	users         map[int64]models.User
	students      map[int64]models.Student
	fees          map[int64]models.Fee
	attendance    map[int64]models.Attendance
	announcements map[int64]models.Announcement
}

func newMemState() *memState {
	return &memState{
		users:         map[int64]models.User{},
		students:      map[int64]models.Student{},
		fees:          map[int64]models.Fee{},
		attendance:    map[int64]models.Attendance{},
		announcements: map[int64]models.Announcement{},
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	c.nextID = s.nextID
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.students {
		c.students[k] = v
	}
	for k, v := range s.fees {
		c.fees[k] = v
	}
	for k, v := range s.attendance {
		c.attendance[k] = v
	}
	for k, v := range s.announcements {
		c.announcements[k] = v
	}
	return c
}

func (s *memState) id() int64 {
	s.nextID++
	return s.nextID
}

// memStore is an in-memory repositories.Store. WithinTx restores the
// previous state when fn fails.
type memStore struct {
	state *memState

	failStudentCreate    error
	failFeeUpsert        error
	failAttendanceUpsert error
}

func newMemStore() *memStore {
	return &memStore{state: newMemState()}
}

func (m *memStore) Repos() *repositories.Repositories {
	r := &memRepo{m: m}
	return &repositories.Repositories{Users: r, Students: r, Fees: r, Attendance: r, Announcements: r}
}

func (m *memStore) WithinTx(ctx context.Context, fn repositories.TxFn) error {
	snapshot := m.state.clone()
	if err := fn(ctx, m.Repos()); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

type memRepo struct {
	m *memStore
}

func (r *memRepo) st() *memState { return r.m.state }

func copyInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyStudent(s models.Student) *models.Student {
	s.UserID = copyInt64(s.UserID)
	s.DOB = copyString(s.DOB)
	return &s
}

// users

func (r *memRepo) CreateUser(_ context.Context, u *models.User) (int64, error) {
	for _, existing := range r.st().users {
		if existing.Email == u.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	u.ID = r.st().id()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.st().users[u.ID] = *u
	return u.ID, nil
}

func (r *memRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := r.st().users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (r *memRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.st().users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *memRepo) UpdateUserIdentity(_ context.Context, id int64, fullName, email, mobile string) error {
	u, ok := r.st().users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	for _, other := range r.st().users {
		if other.ID != id && other.Email == email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	u.FullName, u.Email, u.Mobile = fullName, email, mobile
	r.st().users[id] = u
	return nil
}

func (r *memRepo) DeleteUser(_ context.Context, id int64) error {
	if _, ok := r.st().users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(r.st().users, id)
	for sid, s := range r.st().students {
		if s.UserID != nil && *s.UserID == id {
			r.deleteStudentCascade(sid)
		}
	}
	return nil
}

// students

func (r *memRepo) checkLink(s *models.Student) error {
	if s.UserID == nil {
		return nil
	}
	if _, ok := r.st().users[*s.UserID]; !ok {
		return apperrors.NewValidationError("userId does not reference an existing user")
	}
	for _, other := range r.st().students {
		if other.ID != s.ID && other.UserID != nil && *other.UserID == *s.UserID {
			return apperrors.ErrUserAlreadyLinked
		}
	}
	return nil
}

func (r *memRepo) CreateStudent(_ context.Context, s *models.Student) (int64, error) {
	if r.m.failStudentCreate != nil {
		return 0, r.m.failStudentCreate
	}
	if err := r.checkLink(s); err != nil {
		return 0, err
	}
	s.ID = r.st().id()
	r.st().students[s.ID] = *copyStudent(*s)
	return s.ID, nil
}

func (r *memRepo) GetStudentByID(_ context.Context, id int64) (*models.Student, error) {
	s, ok := r.st().students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return copyStudent(s), nil
}

func (r *memRepo) findStudent(match func(models.Student) bool) (*models.Student, error) {
	var found *models.Student
	for _, s := range r.st().students {
		if match(s) && (found == nil || s.ID < found.ID) {
			found = copyStudent(s)
		}
	}
	if found == nil {
		return nil, apperrors.ErrStudentNotFound
	}
	return found, nil
}

func (r *memRepo) GetStudentByEmail(_ context.Context, email string) (*models.Student, error) {
	return r.findStudent(func(s models.Student) bool { return s.Email == email })
}

func (r *memRepo) GetStudentByUserID(_ context.Context, userID int64) (*models.Student, error) {
	return r.findStudent(func(s models.Student) bool { return s.UserID != nil && *s.UserID == userID })
}

func (r *memRepo) UpdateStudent(_ context.Context, s *models.Student) error {
	if _, ok := r.st().students[s.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	if err := r.checkLink(s); err != nil {
		return err
	}
	r.st().students[s.ID] = *copyStudent(*s)
	return nil
}

func (r *memRepo) deleteStudentCascade(id int64) {
	delete(r.st().students, id)
	for fid, f := range r.st().fees {
		if f.StudentID == id {
			delete(r.st().fees, fid)
		}
	}
	for aid, a := range r.st().attendance {
		if a.StudentID == id {
			delete(r.st().attendance, aid)
		}
	}
}

func (r *memRepo) DeleteStudent(_ context.Context, id int64) error {
	if _, ok := r.st().students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	r.deleteStudentCascade(id)
	return nil
}

func (r *memRepo) sortedStudents(match func(models.Student) bool) []*models.Student {
	list := []*models.Student{}
	for _, s := range r.st().students {
		if match(s) {
			list = append(list, copyStudent(s))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].FullName != list[j].FullName {
			return list[i].FullName < list[j].FullName
		}
		return list[i].ID < list[j].ID
	})
	return list
}

func (r *memRepo) ListStudents(context.Context) ([]*models.Student, error) {
	return r.sortedStudents(func(models.Student) bool { return true }), nil
}

func (r *memRepo) ListStudentsByBatch(_ context.Context, batch string) ([]*models.Student, error) {
	return r.sortedStudents(func(s models.Student) bool { return s.Batch == batch }), nil
}

func (r *memRepo) ListBatches(context.Context) ([]string, error) {
	seen := map[string]bool{}
	batches := []string{}
	for _, s := range r.st().students {
		if s.Batch != "" && !seen[s.Batch] {
			seen[s.Batch] = true
			batches = append(batches, s.Batch)
		}
	}
	sort.Strings(batches)
	return batches, nil
}

func (r *memRepo) StudentIDsInBatch(_ context.Context, batch string) ([]int64, error) {
	ids := []int64{}
	for _, s := range r.st().students {
		if s.Batch == batch {
			ids = append(ids, s.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// fees

func (r *memRepo) withStudent(f models.Fee) *models.Fee {
	s := r.st().students[f.StudentID]
	f.StudentName, f.Batch = s.FullName, s.Batch
	return &f
}

func (r *memRepo) listFees(match func(models.Fee) bool) []*models.Fee {
	list := []*models.Fee{}
	for _, f := range r.st().fees {
		if match(f) {
			list = append(list, r.withStudent(f))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].DueDate != list[j].DueDate {
			return list[i].DueDate > list[j].DueDate
		}
		return list[i].ID > list[j].ID
	})
	return list
}

func (r *memRepo) ListFeesByStudentID(_ context.Context, studentID int64) ([]*models.Fee, error) {
	return r.listFees(func(f models.Fee) bool { return f.StudentID == studentID }), nil
}

func (r *memRepo) ListFeesByStudentEmail(_ context.Context, email string) ([]*models.Fee, error) {
	return r.listFees(func(f models.Fee) bool { return r.st().students[f.StudentID].Email == email }), nil
}

func (r *memRepo) UpdateFeeStatus(_ context.Context, id int64, status models.FeeStatus) error {
	f, ok := r.st().fees[id]
	if !ok {
		return apperrors.ErrFeeNotFound
	}
	f.Status = status
	r.st().fees[id] = f
	return nil
}

func (r *memRepo) UpsertFees(_ context.Context, fees []models.Fee) (int, error) {
	applied := 0
	for i, f := range fees {
		if i == 1 && r.m.failFeeUpsert != nil {
			return applied, r.m.failFeeUpsert
		}
		if _, ok := r.st().students[f.StudentID]; !ok {
			return applied, apperrors.ErrStudentNotFound
		}
		updated := false
		for id, existing := range r.st().fees {
			if existing.StudentID == f.StudentID && existing.DueDate == f.DueDate {
				existing.Amount = f.Amount
				r.st().fees[id] = existing
				updated = true
				break
			}
		}
		if !updated {
			f.ID = r.st().id()
			r.st().fees[f.ID] = f
		}
		applied++
	}
	return applied, nil
}

// attendance

func (r *memRepo) UpsertAttendance(_ context.Context, records []models.Attendance) (int, error) {
	applied := 0
	for i, a := range records {
		if i == 1 && r.m.failAttendanceUpsert != nil {
			return applied, r.m.failAttendanceUpsert
		}
		if _, ok := r.st().students[a.StudentID]; !ok {
			return applied, apperrors.ErrStudentNotFound
		}
		updated := false
		for id, existing := range r.st().attendance {
			if existing.StudentID == a.StudentID && existing.Date == a.Date {
				existing.Status, existing.Batch = a.Status, a.Batch
				r.st().attendance[id] = existing
				updated = true
				break
			}
		}
		if !updated {
			a.ID = r.st().id()
			r.st().attendance[a.ID] = a
		}
		applied++
	}
	return applied, nil
}

func (r *memRepo) ListAttendanceByStudent(_ context.Context, studentID int64) ([]*models.Attendance, error) {
	list := []*models.Attendance{}
	for _, a := range r.st().attendance {
		if a.StudentID == studentID {
			a.StudentName = r.st().students[a.StudentID].FullName
			a := a
			list = append(list, &a)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date > list[j].Date })
	return list, nil
}

func (r *memRepo) ListAttendanceByBatchAndDate(_ context.Context, batch, date string) ([]*models.Attendance, error) {
	list := []*models.Attendance{}
	for _, a := range r.st().attendance {
		if a.Batch == batch && a.Date == date {
			a.StudentName = r.st().students[a.StudentID].FullName
			a := a
			list = append(list, &a)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].StudentName != list[j].StudentName {
			return list[i].StudentName < list[j].StudentName
		}
		return list[i].StudentID < list[j].StudentID
	})
	return list, nil
}

// announcements

func (r *memRepo) CreateAnnouncement(_ context.Context, a *models.Announcement) (int64, error) {
	a.ID = r.st().id()
	a.CreatedAt = time.Now()
	c := *a
	c.Time = copyString(a.Time)
	r.st().announcements[a.ID] = c
	return a.ID, nil
}

func (r *memRepo) ListAnnouncements(context.Context) ([]*models.Announcement, error) {
	list := []*models.Announcement{}
	for _, a := range r.st().announcements {
		a := a
		list = append(list, &a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (r *memRepo) DeleteAnnouncement(_ context.Context, id int64) error {
	if _, ok := r.st().announcements[id]; !ok {
		return apperrors.ErrAnnouncementNotFound
	}
	delete(r.st().announcements, id)
	return nil
}
