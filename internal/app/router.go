package app

import (
	"campus_erp_backend/docs"
	"campus_erp_backend/internal/config"
	"campus_erp_backend/internal/middleware"
	"campus_erp_backend/internal/model"

	"campus_erp_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Check)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// 基础数据
		authGroup.GET("/departments", c.academic.ListDepartments)
		authGroup.GET("/subjects", c.academic.ListSubjects)
		authGroup.GET("/students", c.academic.ListStudents)
		authGroup.GET("/roster", c.academic.Roster)

		// 蓝图与成绩：仅教师/管理员
		faculty := authGroup.Group("/")
		faculty.Use(middleware.RoleMiddleware(model.RoleFaculty))
		{
			faculty.POST("/blueprint", c.blueprint.Create)
			faculty.GET("/blueprint", c.blueprint.Get)
			faculty.PUT("/blueprint/:id", c.blueprint.Update)

			faculty.GET("/grid", c.grid.GetGrid)
			faculty.POST("/marks", c.mark.SaveMark)

			faculty.GET("/template", c.transfer.DownloadTemplate)
			faculty.POST("/upload", c.transfer.Upload)
			faculty.GET("/export", c.transfer.Export)
		}

		// 学籍维护：仅管理员
		admin := authGroup.Group("/")
		admin.Use(middleware.RoleMiddleware(model.RoleAdmin))
		{
			admin.POST("/subjects", c.academic.CreateSubject)
			admin.POST("/students", c.academic.CreateStudent)
			admin.GET("/faculty", c.auth.ListFaculty)
		}
	}
}
