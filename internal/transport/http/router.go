package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/notes-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/notes-api/internal/transport/http/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, noteHandler *handler.NoteHandler, jwtKey []byte, corsOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(jwtKey)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to Notes API")
	})

	user := r.Group("/user")
	user.POST("/sendOTP", authHandler.SendOTP)
	user.POST("/verify-otp", authHandler.VerifyOTP)
	user.POST("/signup", authHandler.Signup)
	user.POST("/createUser", authHandler.CreateUser)
	user.POST("/login", authHandler.Login)
	user.POST("/logout", authHandler.Logout)
	user.GET("/loggedIn", authMW, authHandler.LoggedIn)

	// Note routes keep their historical top-level paths.
	r.POST("/createNotes", authMW, noteHandler.Create)
	r.GET("/viewNotes", authMW, noteHandler.List)
	r.GET("/viewNote/:id", authMW, noteHandler.GetByID)
	r.PUT("/updateNotes/:id", authMW, noteHandler.Update)
	r.DELETE("/deleteNotes/:id", authMW, noteHandler.Delete)

	return r
}
