package dto

// MarkAttendanceRequest records statuses for a batch on one date. Statuses is
// keyed by student id.
type MarkAttendanceRequest struct {
	Batch    string            `json:"batch" binding:"required" example:"JEE-2025-A"`
	Date     string            `json:"date" binding:"required" example:"2024-03-05"`
	Statuses map[string]string `json:"statuses" binding:"required,min=1"`
}

// AttendanceEntry is one row of a student's history
type AttendanceEntry struct {
	Date   string `json:"date" example:"2024-03-05"`
	Status string `json:"status" example:"present"`
	Batch  string `json:"batch" example:"JEE-2025-A"`
}

// BatchAttendanceEntry is one student's mark in a batch roll
type BatchAttendanceEntry struct {
	StudentID   int64  `json:"studentId" example:"12"`
	StudentName string `json:"studentName" example:"Asha Rao"`
	Status      string `json:"status" example:"present"`
}
