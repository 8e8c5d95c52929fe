package router

import (
	"csv_manager_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.LoginUser)
		authRoutes.GET("/status", authHandler.GetAuthStatus)
	}
}

// SetupSessionRoutes sets up the session and record routes.
func SetupSessionRoutes(apiGroup *gin.RouterGroup, sessionHandler *handlers.SessionHandler, requireOperator gin.HandlerFunc) {
	sessionRoutes := apiGroup.Group("/sessions")
	{
		sessionRoutes.GET("/:id", sessionHandler.GetSession)
		sessionRoutes.GET("/:id/records", sessionHandler.GetRecords)
		sessionRoutes.GET("/:id/export", sessionHandler.ExportSession)
		sessionRoutes.GET("/:id/summary", sessionHandler.GetSummary)

		writeRoutes := sessionRoutes.Group("")
		writeRoutes.Use(requireOperator)
		{
			writeRoutes.POST("", sessionHandler.OpenSession)
			writeRoutes.POST("/upload", sessionHandler.UploadSession)
			writeRoutes.POST("/:id/records", sessionHandler.AppendRecord)
			writeRoutes.PUT("/:id/records", sessionHandler.ReplaceRecords)
			writeRoutes.POST("/:id/save", sessionHandler.SaveSession)
			writeRoutes.POST("/:id/reload", sessionHandler.ReloadSession)
			writeRoutes.DELETE("/:id", sessionHandler.CloseSession)
		}
	}
}

// SetupCalendarRoutes sets up the reservation calendar routes.
func SetupCalendarRoutes(apiGroup *gin.RouterGroup, calendarHandler *handlers.CalendarHandler) {
	calendarRoutes := apiGroup.Group("/sessions/:id")
	{
		calendarRoutes.GET("/calendar", calendarHandler.GetCalendar)
		calendarRoutes.GET("/calendar.ics", calendarHandler.GetCalendarICS)
	}
}

// SetupTemplateRoutes sets up the template generation routes.
func SetupTemplateRoutes(apiGroup *gin.RouterGroup, templateHandler *handlers.TemplateHandler) {
	templateRoutes := apiGroup.Group("/templates")
	{
		templateRoutes.POST("/client-profile", templateHandler.GenerateClientProfile)
	}
}
