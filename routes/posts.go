package routes

import (
	"github.com/Dafi-web/abunearegawi/handlers/posts"
	"github.com/Dafi-web/abunearegawi/middleware"

	"github.com/gin-gonic/gin"
)

func PostsRoutes(r *gin.Engine) {
	postsRoutes := r.Group("/posts")
	{
		postsRoutes.GET("/", posts.GetAllPosts)
		postsRoutes.GET("/:id", posts.GetPost)
		postsRoutes.POST("/", middleware.AdminAuth(), posts.CreatePost)
		postsRoutes.PUT("/:id", middleware.AdminAuth(), posts.UpdatePost)
		postsRoutes.DELETE("/:id", middleware.AdminAuth(), posts.DeletePost)
		postsRoutes.POST("/upload-image", middleware.AdminAuth(), posts.UploadImage)
		postsRoutes.POST("/upload-video", middleware.AdminAuth(), posts.UploadVideo)
	}
}
