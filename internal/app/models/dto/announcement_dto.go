package dto

// CreateAnnouncementRequest publishes a new announcement
type CreateAnnouncementRequest struct {
	Title   string  `json:"title" binding:"required,max=200" example:"Holiday notice"`
	Message string  `json:"message" binding:"required" example:"The centre is closed on Friday."`
	Date    string  `json:"date" binding:"required" example:"2024-08-15"`
	Time    *string `json:"time,omitempty" example:"10:00"`
}
