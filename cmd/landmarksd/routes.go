package main

import (
	"html/template"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/opst/landmarks/cmd/landmarksd/handlers"
	"github.com/opst/landmarks/pkg/auth"
	kdb "github.com/opst/landmarks/pkg/db"
	"github.com/opst/landmarks/pkg/events"
	"github.com/opst/landmarks/pkg/images"
)

type server struct {
	landmarks kdb.LandmarkInterface
	users     kdb.UserInterface
	images    images.Store
	events    events.Publisher
	issuer    handlers.TokenIssuer
	templates *template.Template

	// URL path and directory of images stored locally. Both are empty for other stores.
	mediaPrefix string
	mediaRoot   string
}

// register routes of the server to e.
func register(e *echo.Echo, s server) {
	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			return s.mediaPrefix != "" && strings.HasPrefix(c.Request().URL.Path, s.mediaPrefix)
		},
	}))
	e.Renderer = handlers.NewTemplates(s.templates)

	authn := auth.Middleware(s.issuer)
	api := e.Group("/api")

	{
		id := "id"
		g := api.Group("/landmarks", authn)
		g.GET("/", handlers.ListLandmarksHandler(s.landmarks, s.images))
		g.POST("/", handlers.CreateLandmarkHandler(s.landmarks, s.images, s.events))

		g.GET("/:id/", handlers.GetLandmarkHandler(s.landmarks, s.images, id))
		update := handlers.UpdateLandmarkHandler(s.landmarks, s.images, s.events, id)
		g.PUT("/:id/", update)
		g.PATCH("/:id/", update)
		g.DELETE("/:id/", handlers.DeleteLandmarkHandler(s.landmarks, s.images, s.events, id))

		g.POST("/:id/upload_image/", handlers.UploadImageHandler(s.landmarks, s.images, s.events, id))
	}

	{
		register := handlers.RegisterUserHandler(s.users)
		api.GET("/users/", handlers.ListUsersHandler(s.users), authn)
		api.POST("/users/", register)
		api.POST("/users/register/", register)

		api.POST("/token/", handlers.ObtainTokenHandler(s.users, s.issuer))
		api.POST("/token/refresh/", handlers.RefreshTokenHandler(s.users, s.issuer))
	}

	api.GET("/categories/", handlers.CategoriesHandler())

	e.GET("/browse/", handlers.BrowseHandler(s.landmarks, s.images, "browse.html"))

	if s.mediaPrefix != "" {
		e.Static(strings.TrimSuffix(s.mediaPrefix, "/"), s.mediaRoot)
	}
}
