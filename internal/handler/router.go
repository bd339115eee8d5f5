package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnroot/learnroot-api/internal/middleware"
	"github.com/learnroot/learnroot-api/internal/models"
	"github.com/learnroot/learnroot-api/internal/service"
)

// Registry bundles every handler so route wiring stays in one place.
type Registry struct {
	Auth          *AuthHandler
	Teachers      *TeacherHandler
	Subjects      *SubjectHandler
	Grades        *GradeHandler
	Classes       *ClassHandler
	Students      *StudentHandler
	Timetable     *TimetableHandler
	Events        *EventHandler
	Announcements *AnnouncementHandler
	Dashboard     *DashboardHandler
	Reports       *ReportHandler
	Settings      *SettingHandler
}

// Register mounts all API routes under the given prefix. Reads require a
// valid token; writes additionally require an admin role. Teacher
// provisioning is restricted to school_admin since it mints login accounts.
func (reg *Registry) Register(r *gin.Engine, prefix string, authService *service.AuthService) {
	authed := middleware.JWT(authService)
	admins := middleware.RequireRoles(models.RoleSchoolAdmin, models.RoleSuperAdmin)
	schoolAdmin := middleware.RequireRoles(models.RoleSchoolAdmin)

	api := r.Group(prefix)

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Learnroot API is running"})
	})

	auth := api.Group("/auth")
	{
		auth.POST("/register", reg.Auth.Register)
		auth.POST("/login", reg.Auth.Login)
		auth.POST("/logout", reg.Auth.Logout)
		auth.POST("/forgot-password", reg.Auth.ForgotPassword)
		auth.POST("/reset-password", reg.Auth.ResetPassword)
		auth.GET("/me", authed, reg.Auth.Me)
	}

	teachers := api.Group("/teachers", authed)
	{
		teachers.GET("", reg.Teachers.List)
		teachers.GET("/:id", reg.Teachers.Get)
		teachers.POST("", schoolAdmin, reg.Teachers.Create)
		teachers.PUT("/:id", schoolAdmin, reg.Teachers.Update)
		teachers.DELETE("/:id", schoolAdmin, reg.Teachers.Delete)
	}

	subjects := api.Group("/subjects", authed)
	{
		subjects.GET("", reg.Subjects.List)
		subjects.GET("/:id", reg.Subjects.Get)
		subjects.POST("", admins, reg.Subjects.Create)
		subjects.PUT("/:id", admins, reg.Subjects.Update)
		subjects.DELETE("/:id", admins, reg.Subjects.Delete)
	}

	grades := api.Group("/grades", authed)
	{
		grades.GET("", reg.Grades.List)
		grades.GET("/:id", reg.Grades.Get)
		grades.POST("", admins, reg.Grades.Create)
		grades.PUT("/:id", admins, reg.Grades.Update)
		grades.DELETE("/:id", admins, reg.Grades.Delete)
	}

	classes := api.Group("/classes", authed)
	{
		classes.GET("", reg.Classes.List)
		classes.GET("/:id", reg.Classes.Get)
		classes.POST("", admins, reg.Classes.Create)
		classes.PUT("/:id", admins, reg.Classes.Update)
		classes.DELETE("/:id", admins, reg.Classes.Delete)
	}

	students := api.Group("/students", authed)
	{
		students.GET("", reg.Students.List)
		students.GET("/:id", reg.Students.Get)
		students.POST("", admins, reg.Students.Create)
		students.PUT("/:id", admins, reg.Students.Update)
		students.DELETE("/:id", admins, reg.Students.Delete)
	}

	timetable := api.Group("/timetable", authed)
	{
		timetable.GET("", reg.Timetable.List)
		timetable.GET("/class/:id", reg.Timetable.ListByClass)
		timetable.POST("", admins, reg.Timetable.Create)
		timetable.PUT("/:id", admins, reg.Timetable.Update)
		timetable.DELETE("/:id", admins, reg.Timetable.Delete)
	}

	events := api.Group("/events", authed)
	{
		events.GET("", reg.Events.List)
		events.GET("/:id", reg.Events.Get)
		events.POST("", admins, reg.Events.Create)
		events.PUT("/:id", admins, reg.Events.Update)
		events.DELETE("/:id", admins, reg.Events.Delete)
	}

	announcements := api.Group("/announcements", authed)
	{
		announcements.GET("", reg.Announcements.List)
		announcements.GET("/:id", reg.Announcements.Get)
		announcements.POST("", admins, reg.Announcements.Create)
		announcements.PUT("/:id", admins, reg.Announcements.Update)
		announcements.DELETE("/:id", admins, reg.Announcements.Delete)
	}

	api.GET("/dashboard", authed, reg.Dashboard.Overview)

	reports := api.Group("/reports", authed)
	{
		reports.GET("/students", reg.Reports.Students)
		reports.GET("/teachers", reg.Reports.Teachers)
	}

	settings := api.Group("/settings", authed)
	{
		settings.GET("", reg.Settings.List)
		settings.PUT("", admins, reg.Settings.Update)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})
}
