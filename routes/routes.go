package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"socialfeed/auth"
	"socialfeed/handlers"
	"socialfeed/middleware"
	"socialfeed/store"
)

// Deps carries everything the router wires into the handler chain.
type Deps struct {
	Auth   *handlers.AuthHandler
	Posts  *handlers.PostHandler
	Tokens *auth.TokenService
	Users  store.UserStore

	// UploadDir is served statically under /uploads.
	UploadDir string
}

func SetupRouter(deps Deps) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Uploaded images are public, keyed by generated filename
	router.Static("/uploads", deps.UploadDir)

	requireAuth := middleware.RequireAuth(deps.Tokens, deps.Users)

	authRoutes := router.Group("/auth")
	authRoutes.Use(middleware.RateLimit(60, time.Minute))
	authRoutes.POST("/signup", deps.Auth.Signup)
	authRoutes.POST("/login", deps.Auth.Login)
	authRoutes.GET("/me", requireAuth, deps.Auth.Me)

	posts := router.Group("/posts")
	posts.GET("", deps.Posts.List)
	posts.GET("/:id/comments", deps.Posts.ListComments)
	posts.POST("", requireAuth, deps.Posts.Create)
	posts.POST("/:id/like", requireAuth, deps.Posts.ToggleLike)
	posts.POST("/:id/comment", requireAuth, deps.Posts.AddComment)
	posts.PUT("/:id", requireAuth, deps.Posts.Update)
	posts.DELETE("/:id", requireAuth, deps.Posts.Delete)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error": "Endpoint not found",
			"path":  c.Request.URL.Path,
		})
	})

	return router
}
