package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tuitiondesk/internal/app/models/dto"
	"github.com/yigit/tuitiondesk/internal/app/services"
	"github.com/yigit/tuitiondesk/internal/middleware"
)

// AttendanceController handles attendance endpoints
type AttendanceController struct {
	attendanceService services.AttendanceService
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService services.AttendanceService) *AttendanceController {
	return &AttendanceController{attendanceService: attendanceService}
}

// MarkBatch records attendance for a batch on one date
// @Summary Mark attendance
// @Description Upserts one mark per student keyed by (student, date). Every student must belong to the batch. Either every mark is written or none is.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MarkAttendanceRequest true "Statuses keyed by student id"
// @Success 200 {object} dto.APIResponse{data=dto.BatchResult}
// @Failure 400 {object} dto.ErrorResponse "Invalid status or student outside the batch"
// @Router /attendance [post]
func (c *AttendanceController) MarkBatch(ctx *gin.Context) {
	var req dto.MarkAttendanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.attendanceService.MarkBatch(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Message: "Attendance saved", Data: result, Timestamp: time.Now()})
}

// HistoryForStudent lists every mark of a student
// @Summary Attendance history of a student
// @Tags attendance
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.AttendanceEntry}
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Router /attendance/student/{id} [get]
func (c *AttendanceController) HistoryForStudent(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	entries, err := c.attendanceService.HistoryForStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: entries, Timestamp: time.Now()})
}

// ForBatchAndDate lists the roll of a batch on a date
// @Summary Attendance of a batch on a date
// @Tags attendance
// @Produce json
// @Param batch path string true "Batch name"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]dto.BatchAttendanceEntry}
// @Failure 400 {object} dto.ErrorResponse "Invalid batch or date"
// @Router /attendance/batch/{batch}/{date} [get]
func (c *AttendanceController) ForBatchAndDate(ctx *gin.Context) {
	entries, err := c.attendanceService.ForBatchAndDate(ctx.Request.Context(), ctx.Param("batch"), ctx.Param("date"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: entries, Timestamp: time.Now()})
}
