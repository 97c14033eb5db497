package server

import (
	"DocVault-backend/internal/auth"
	"DocVault-backend/internal/controller/file"
	"DocVault-backend/internal/middleware"
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	// Init swagger doc
	_ "DocVault-backend/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.Default()

	lAuth := auth.NewLocalAuthHandler(s.DB)
	logout := auth.NewLogoutController(s.Revocation)
	files := file.NewFileController(s.DB, s.Storage, s.AllowedExtensions)

	r.Use(middleware.SafeHeader())
	if allowOrigins := corsAllowOrigins(); len(allowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     allowOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	r.GET("/", s.WelcomeHandler)
	r.GET("/health", s.healthHandler)

	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.Use(middleware.EnvRateLimitMiddleware())
			authRoute.POST("register", lAuth.LocalRegisterHandler)
			authRoute.POST("login", lAuth.LocalLoginHandler)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB), middleware.RevokedTokenCheck(s.Revocation))

			needAuth.POST("/auth/logout", logout.LogoutHandler)

			needAuth.GET("/dashboard", files.Dashboard)
			needAuth.POST("/upload", middleware.SizeLimit(s.MaxUploadBytes), files.Upload)
			needAuth.GET("/uploads/:filename", files.Download)
			needAuth.DELETE("/uploads/:filename", files.Delete)
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// corsAllowOrigins reads ALLOW_ORIGIN as a comma-separated origin list.
// Blank entries are dropped; cors.New panics on an empty origin string,
// so an unset variable leaves CORS disabled instead of crashing startup.
func corsAllowOrigins() []string {
	var origins []string
	for _, o := range strings.Split(os.Getenv("ALLOW_ORIGIN"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// WelcomeHandler handle request by returning a welcome message
func (s *Server) WelcomeHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "DocVault API"

	c.JSON(http.StatusOK, resp)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
