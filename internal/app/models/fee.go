package models

// Fee is a financial obligation of one student, unique per (StudentID, DueDate)
type Fee struct {
	ID        int64     `json:"id" db:"id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	Amount    float64   `json:"amount" db:"amount" example:"500"`
	Status    FeeStatus `json:"status" db:"status" example:"Pending"`
	DueDate   string    `json:"dueDate" db:"due_date" example:"2024-01-01"`

	// Display fields joined from students
	StudentName string `json:"fullName,omitempty"`
	Batch       string `json:"batch,omitempty"`
}
