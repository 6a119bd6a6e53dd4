package dto

// StudentProfileFields are the mutable student attributes shared by the
// create and update payloads
type StudentProfileFields struct {
	FullName       string  `json:"fullName" binding:"max=100" example:"Asha Rao"`
	Mobile         string  `json:"mobile" binding:"max=20" example:"9876543210"`
	Batch          string  `json:"batch" binding:"max=50" example:"JEE-2025-A"`
	DOB            *string `json:"dob,omitempty" example:"2008-04-17"`
	Gender         string  `json:"gender" binding:"max=20" example:"female"`
	Address        string  `json:"address" binding:"max=255"`
	ParentsContact string  `json:"parentsContact" binding:"max=20" example:"9123456780"`
}

// CreateStudentRequest creates a profile for an existing user
type CreateStudentRequest struct {
	UserID int64 `json:"userId" binding:"required,min=1" example:"3"`
	StudentProfileFields
}

// EnrollStudentRequest creates a user account and its profile in one step
type EnrollStudentRequest struct {
	Email    string `json:"email" binding:"required,email,max=255" example:"asha@example.com"`
	Password string `json:"password" binding:"required,min=6,max=72" example:"secret123"`
	StudentProfileFields
}

// UpdateStudentRequest replaces a profile. Email changes propagate to the
// linked user.
type UpdateStudentRequest struct {
	Email string `json:"email" binding:"required,email,max=255" example:"asha@example.com"`
	StudentProfileFields
}

// StudentListResponse wraps a list of profiles
type StudentListResponse struct {
	Students interface{} `json:"students"`
	Count    int         `json:"count" example:"24"`
}

// BatchListResponse lists the distinct batch names
type BatchListResponse struct {
	Batches []string `json:"batches"`
}
