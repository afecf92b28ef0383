package router

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"blog-api/api/handlers"
	"blog-api/api/middleware"
	_ "blog-api/docs"
	"blog-api/services"
)

// Deps are the process-scoped handles the routes need.
type Deps struct {
	Blogs *services.BlogService
	Ping  func(ctx context.Context) error
}

func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestTrace(), middleware.RequestLogging(), gin.Recovery())

	r.GET("/health", handlers.HealthHandler(deps.Ping))

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	blogs := r.Group("/blogs")
	{
		blogs.POST("", handlers.CreateBlogHandler(deps.Blogs))
		blogs.GET("", handlers.ListBlogsHandler(deps.Blogs))
		blogs.GET("/:id", handlers.GetBlogHandler(deps.Blogs))
		blogs.PUT("/:id", handlers.UpdateBlogHandler(deps.Blogs))
		blogs.DELETE("/:id", handlers.DeleteBlogHandler(deps.Blogs))
	}

	return r
}
