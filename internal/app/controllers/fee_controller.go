package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tuitiondesk/internal/app/models/dto"
	"github.com/yigit/tuitiondesk/internal/app/services"
	"github.com/yigit/tuitiondesk/internal/middleware"
)

// FeeController handles fee endpoints
type FeeController struct {
	feeService services.FeeService
}

// NewFeeController creates a new FeeController
func NewFeeController(feeService services.FeeService) *FeeController {
	return &FeeController{feeService: feeService}
}

// GetForStudent lists the fees of a student
// @Summary List fees of a student
// @Description Fees ordered by due date, newest first. An unknown student yields an empty list.
// @Tags fees
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]models.Fee}
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Router /fees/student/{id} [get]
func (c *FeeController) GetForStudent(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	fees, err := c.feeService.GetForStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: fees, Timestamp: time.Now()})
}

// GetForStudentByEmail lists the fees of the student with this email
// @Summary List fees by student email
// @Tags fees
// @Produce json
// @Param email path string true "Student email"
// @Success 200 {object} dto.APIResponse{data=[]models.Fee}
// @Failure 400 {object} dto.ErrorResponse "Invalid email"
// @Router /fees/email/{email} [get]
func (c *FeeController) GetForStudentByEmail(ctx *gin.Context) {
	fees, err := c.feeService.GetForStudentByEmail(ctx.Request.Context(), ctx.Param("email"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: fees, Timestamp: time.Now()})
}

// UpdateStatus changes the status of one fee
// @Summary Update fee status
// @Tags fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fee ID"
// @Param request body dto.UpdateFeeStatusRequest true "New status: Pending, Paid, Overdue or Waived"
// @Success 200 {object} dto.APIResponse "Fee status updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 404 {object} dto.ErrorResponse "Fee not found"
// @Router /fees/{id}/status [put]
func (c *FeeController) UpdateStatus(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateFeeStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.feeService.UpdateStatus(ctx.Request.Context(), id, req.Status); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Message: "Fee status updated", Timestamp: time.Now()})
}

// ApplyToBatch sets one fee for every student in a batch
// @Summary Apply a fee to a batch
// @Description Upserts a fee keyed by (student, due date) for every member of the batch. Either every row is written or none is.
// @Tags fees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ApplyBatchFeeRequest true "Batch fee"
// @Success 200 {object} dto.APIResponse{data=dto.BatchResult}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Database error"
// @Router /fees/batch [post]
func (c *FeeController) ApplyToBatch(ctx *gin.Context) {
	var req dto.ApplyBatchFeeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.feeService.ApplyToBatch(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Message: "Fee applied to batch", Data: result, Timestamp: time.Now()})
}
