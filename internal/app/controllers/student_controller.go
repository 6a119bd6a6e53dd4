package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tuitiondesk/internal/app/models/dto"
	"github.com/yigit/tuitiondesk/internal/app/services"
	"github.com/yigit/tuitiondesk/internal/middleware"
)

// StudentController handles student profile endpoints
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// ListStudents returns every profile
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	students, err := c.studentService.ListAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.StudentListResponse{Students: students, Count: len(students)},
		Timestamp: time.Now(),
	})
}

// ListBatches returns the distinct batch names
// @Summary List batches
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.BatchListResponse}
// @Router /students/batches [get]
func (c *StudentController) ListBatches(ctx *gin.Context) {
	batches, err := c.studentService.ListBatches(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.BatchListResponse{Batches: batches},
		Timestamp: time.Now(),
	})
}

// ListByBatch returns the profiles in one batch
// @Summary List students in a batch
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param batch path string true "Batch name"
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid batch"
// @Router /students/batch/{batch} [get]
func (c *StudentController) ListByBatch(ctx *gin.Context) {
	students, err := c.studentService.ListByBatch(ctx.Request.Context(), ctx.Param("batch"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      dto.StudentListResponse{Students: students, Count: len(students)},
		Timestamp: time.Now(),
	})
}

// GetByEmail returns the profile with this email
// @Summary Get student by email
// @Tags students
// @Produce json
// @Param email path string true "Student email"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.ErrorResponse "Invalid email"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/email/{email} [get]
func (c *StudentController) GetByEmail(ctx *gin.Context) {
	student, err := c.studentService.GetByEmail(ctx.Request.Context(), ctx.Param("email"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: student, Timestamp: time.Now()})
}

// UpsertByEmail creates or updates the profile with this email
// @Summary Create or update a student by email
// @Description Updates the non-empty fields of an existing profile, or creates a new one (fullName required). A new profile is linked to the user with the same email.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param email path string true "Student email"
// @Param request body dto.StudentProfileFields true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Profile updated"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Profile created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /students/email/{email} [post]
func (c *StudentController) UpsertByEmail(ctx *gin.Context) {
	var req dto.StudentProfileFields
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, created, err := c.studentService.UpsertByEmail(ctx.Request.Context(), ctx.Param("email"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status, message := http.StatusOK, "Student updated"
	if created {
		status, message = http.StatusCreated, "Student created"
	}
	ctx.JSON(status, dto.APIResponse{Success: true, Message: message, Data: student, Timestamp: time.Now()})
}

// GetByID returns one profile
// @Summary Get student by id
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetByID(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: student, Timestamp: time.Now()})
}

// CreateStudent creates the profile of an existing user
// @Summary Create a student profile for a user
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Profile linked to userId"
// @Success 201 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.ErrorResponse "Missing or unknown userId"
// @Failure 409 {object} dto.ErrorResponse "User already has a profile"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.CreateLinkedToUser(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Success: true, Data: student, Timestamp: time.Now()})
}

// Enroll creates a student account and profile
// @Summary Enroll a student
// @Description Creates a user with role student, its password and its profile atomically
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollStudentRequest true "Account and profile"
// @Success 201 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /students/enroll [post]
func (c *StudentController) Enroll(ctx *gin.Context) {
	var req dto.EnrollStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Enroll(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Success: true, Data: student, Timestamp: time.Now()})
}

// UpdateStudent replaces a profile
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Profile"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Data: student, Timestamp: time.Now()})
}

// DeleteStudent removes a profile with its fees, attendance and account
// @Summary Delete a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse "Student deleted"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.studentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Success: true, Message: "Student deleted", Timestamp: time.Now()})
}
