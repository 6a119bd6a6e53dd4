package models

// Student is a profile row in the 'students' table. When UserID is set the
// profile is linked and Email mirrors the user's email.
type Student struct {
	ID             int64   `json:"id" db:"id" example:"12"`
	UserID         *int64  `json:"userId" db:"user_id" example:"3"`
	FullName       string  `json:"fullName" db:"full_name" example:"Asha Rao"`
	Email          string  `json:"email" db:"email" example:"asha@example.com"`
	Mobile         string  `json:"mobile" db:"mobile" example:"9876543210"`
	Batch          string  `json:"batch" db:"batch" example:"JEE-2025-A"`
	DOB            *string `json:"dob" db:"dob" example:"2008-04-17"`
	Gender         string  `json:"gender" db:"gender" example:"female"`
	Address        string  `json:"address" db:"address"`
	ParentsContact string  `json:"parentsContact" db:"parents_contact" example:"9123456780"`
}

// IsLinked reports whether the profile belongs to a user account
func (s *Student) IsLinked() bool {
	return s.UserID != nil && *s.UserID > 0
}
