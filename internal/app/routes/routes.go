package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tuitiondesk/internal/app/controllers"
	"github.com/yigit/tuitiondesk/internal/app/models/dto"
	"github.com/yigit/tuitiondesk/internal/middleware"
	"github.com/yigit/tuitiondesk/internal/pkg/websocket"
)

// Controllers groups every HTTP handler the router mounts
type Controllers struct {
	Auth         *controllers.AuthController
	Student      *controllers.StudentController
	Fee          *controllers.FeeController
	Attendance   *controllers.AttendanceController
	Announcement *controllers.AnnouncementController
	Feed         *websocket.Handler
}

// SetupRouter configures all application routes. When requireToken is set,
// admin operations need a bearer token carrying role admin.
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	requireToken bool,
) {
	// API version group
	v1 := router.Group("/api/v1")

	admin := authMiddleware.AdminOnly(requireToken)

	// --- Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
		auth.GET("/me", authMiddleware.JWTAuth(), ctrl.Auth.Me)
	}

	// --- Student routes ---
	students := v1.Group("/students")
	{
		students.GET("", ctrl.Student.ListStudents)
		students.GET("/batches", ctrl.Student.ListBatches)
		students.GET("/batch/:batch", ctrl.Student.ListByBatch)
		students.GET("/email/:email", ctrl.Student.GetByEmail)
		students.GET("/:id", ctrl.Student.GetByID)

		studentsAdmin := students.Group("", admin...)
		{
			studentsAdmin.POST("", ctrl.Student.CreateStudent)
			studentsAdmin.POST("/enroll", ctrl.Student.Enroll)
			studentsAdmin.POST("/email/:email", ctrl.Student.UpsertByEmail)
			studentsAdmin.PUT("/:id", ctrl.Student.UpdateStudent)
			studentsAdmin.DELETE("/:id", ctrl.Student.DeleteStudent)
		}
	}

	// --- Fee routes ---
	fees := v1.Group("/fees")
	{
		fees.GET("/student/:id", ctrl.Fee.GetForStudent)
		fees.GET("/email/:email", ctrl.Fee.GetForStudentByEmail)

		feesAdmin := fees.Group("", admin...)
		{
			feesAdmin.PUT("/:id/status", ctrl.Fee.UpdateStatus)
			feesAdmin.POST("/batch", ctrl.Fee.ApplyToBatch)
		}
	}

	// --- Attendance routes ---
	attendance := v1.Group("/attendance")
	{
		attendance.GET("/student/:id", ctrl.Attendance.HistoryForStudent)
		attendance.GET("/batch/:batch/:date", ctrl.Attendance.ForBatchAndDate)
		attendance.POST("", append(admin, ctrl.Attendance.MarkBatch)...)
	}

	// --- Announcement routes ---
	announcements := v1.Group("/announcements")
	{
		announcements.GET("", ctrl.Announcement.ListAnnouncements)
		if ctrl.Feed != nil {
			announcements.GET("/ws", ctrl.Feed.HandleConnection)
		}

		announcementsAdmin := announcements.Group("", admin...)
		{
			announcementsAdmin.POST("", ctrl.Announcement.CreateAnnouncement)
			announcementsAdmin.DELETE("/:id", ctrl.Announcement.DeleteAnnouncement)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.APIResponse{
			Success:   true,
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
}
