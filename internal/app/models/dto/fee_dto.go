package dto

// ApplyBatchFeeRequest upserts one fee for every student in a batch
type ApplyBatchFeeRequest struct {
	Batch   string   `json:"batch" binding:"required" example:"JEE-2025-A"`
	Amount  *float64 `json:"amount" binding:"required,gte=0,lte=9999999999.99" example:"500"`
	DueDate string   `json:"dueDate" binding:"required" example:"2024-01-01"`
}

// UpdateFeeStatusRequest changes the status of a single fee
type UpdateFeeStatusRequest struct {
	Status string `json:"status" binding:"required" example:"Paid"`
}
