package models

// Attendance is one mark per (StudentID, Date). Batch is copied from the
// student when the mark is written.
type Attendance struct {
	ID        int64            `json:"id" db:"id"`
	StudentID int64            `json:"studentId" db:"student_id"`
	Batch     string           `json:"batch" db:"batch"`
	Date      string           `json:"date" db:"date" example:"2024-03-05"`
	Status    AttendanceStatus `json:"status" db:"status" example:"present"`

	StudentName string `json:"studentName,omitempty"`
}
