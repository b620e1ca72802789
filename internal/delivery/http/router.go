package http

import (
	"time"

	"certifree/internal/delivery/http/controllers"
	authcontroller "certifree/internal/delivery/http/controllers/auth"
	catalogcontroller "certifree/internal/delivery/http/controllers/catalog"
	coursecontroller "certifree/internal/delivery/http/controllers/course"
	"certifree/internal/delivery/http/controllers/middleware"
	"certifree/internal/models"
	"certifree/internal/service"
	"certifree/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitRoutes(l logger.Log, u service.Collection) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(config))

	authMw := middleware.NewAuthMiddlewareProvider(l, u.AuthService)

	statusController := controllers.NewStatusHandler()
	authController := authcontroller.NewAuthHandler(l, u.AuthService)
	catalogQuery := catalogcontroller.NewQueryHandler(l, u.CatalogQueryService)
	catalogFavorite := catalogcontroller.NewFavoriteHandler(l, u.FavoriteService)
	catalogManagement := catalogcontroller.NewManagementHandler(l, u.CatalogManagementService)
	courseContent := coursecontroller.NewContentHandler(l, u.ContentService)
	courseManagement := coursecontroller.NewManagementHandler(l, u.CourseManagementService)
	enrollmentController := coursecontroller.NewEnrollmentHandler(l, u.EnrollmentService)
	certificateController := coursecontroller.NewCertificateHandler(l, u.CertificateService)

	v1 := r.Group("/v1", middleware.LoggingMiddleware(l))
	{
		v1.GET("/status", statusController.Status)

		v1.GET("/me", authMw.AuthMiddleware, authController.Me)

		auth := v1.Group("/auth")
		{
			auth.POST("/login", authController.Login)
			auth.POST("/register", authController.Register)
			auth.POST("/refresh", authController.Refresh)
		}

		catalog := v1.Group("/certifications")
		{
			catalog.GET("", catalogQuery.ListCertificationsPreview)
			catalog.GET("/categories", catalogQuery.ListCategories)
			catalog.GET("/:certification_id", catalogQuery.CertificationByID)
			catalog.GET("/:certification_id/logo", catalogQuery.GetCertificationLogoURL)

			client := catalog.Group("", authMw.AuthMiddleware, middleware.RequireRoles(models.ClientRole))
			{
				client.GET("/favorites", catalogFavorite.ListFavorites)
				client.POST("/:certification_id/favorite", catalogFavorite.Favorite)
				client.DELETE("/:certification_id/favorite", catalogFavorite.Unfavorite)
			}

			admin := catalog.Group("", authMw.AuthMiddleware, middleware.RequireRoles(models.AdminRole))
			{
				admin.POST("/categories", catalogManagement.CreateCategory)
				admin.POST("", catalogManagement.CreateCertification)
				admin.PUT("/:certification_id", catalogManagement.UpdateCertification)
				admin.DELETE("/:certification_id", catalogManagement.DeleteCertification)
				admin.PATCH("/:certification_id/publish", catalogManagement.Publish)
				admin.PATCH("/:certification_id/hide", catalogManagement.Hide)
				admin.PUT("/:certification_id/logo", catalogManagement.UploadLogo)
			}
		}

		courses := v1.Group("/courses")
		{
			courses.GET("/:course_id/outline", courseContent.Outline)

			client := courses.Group("", authMw.AuthMiddleware, middleware.RequireRoles(models.ClientRole))
			{
				client.GET("/:course_id/content", courseContent.CourseContent)
				client.POST("/:course_id/enroll", enrollmentController.Enroll)
				client.GET("/:course_id/progress", enrollmentController.Progress)
				client.POST("/:course_id/lessons/:lesson_id/toggle", enrollmentController.ToggleLesson)
				client.POST("/:course_id/quizzes/:quiz_id/submit", enrollmentController.SubmitQuiz)
				client.POST("/:course_id/certificate", certificateController.Issue)
				client.GET("/:course_id/certificate", certificateController.Get)
			}

			admin := courses.Group("", authMw.AuthMiddleware, middleware.RequireRoles(models.AdminRole))
			{
				admin.POST("", courseManagement.CreateCourse)
				admin.GET("/:course_id/admin-content", courseManagement.AdminCourseContent)
				admin.POST("/:course_id/modules", courseManagement.CreateModule)
				admin.DELETE("/:course_id/modules/:module_id", courseManagement.DeleteModule)
				admin.POST("/:course_id/lessons", courseManagement.CreateLesson)
				admin.DELETE("/:course_id/lessons/:lesson_id", courseManagement.DeleteLesson)
				admin.POST("/:course_id/quizzes", courseManagement.CreateQuiz)
				admin.POST("/:course_id/questions", courseManagement.CreateQuestion)
			}
		}
	}
	return r
}
