package api

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	config "github.com/maheshrc27/foodblog-api/configs"
	"github.com/maheshrc27/foodblog-api/internal/api/handlers"
	"github.com/maheshrc27/foodblog-api/internal/api/middleware"
	"github.com/maheshrc27/foodblog-api/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BodyLimit fits a full batch of seven maximum-size media files.
const BodyLimit = 400 * 1024 * 1024

type Services struct {
	Auth       service.AuthService
	Users      service.UserService
	Blogs      service.BlogService
	Landing    service.LandingService
	Site       service.SiteSettingsService
	Navigation service.NavigationService
}

// NewApp builds the HTTP application. Uploaded files are served from
// cfg.UploadDir when the disk backend is used. A nil gatherer disables
// /metrics.
func NewApp(cfg *config.Config, svc Services, gatherer prometheus.Gatherer) *fiber.App {
	// Parsed values end up in the stores, so they must not alias fasthttp buffers.
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    BodyLimit,
		Immutable:    true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: cfg.FrontendURL != "*",
		MaxAge:           3600,
	}))

	if cfg.MediaBackend != config.MediaBackendR2 {
		// No file cache: removed media must stop being served right away.
		app.Static("/uploads", cfg.UploadDir, fiber.Static{CacheDuration: -1})
	}
	if gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg, svc.Auth)
	protect := authMiddleware.Protect()
	admin := authMiddleware.Admin()

	api := app.Group("/api")

	blog := handlers.NewBlogHandler(svc.Blogs)
	blogs := api.Group("/blogs")
	blogs.Get("/", blog.ListBlogs)
	blogs.Get("/count", blog.CountBlogs)
	blogs.Get("/comments/count", blog.CountComments)
	blogs.Get("/:id", blog.GetBlog)
	blogs.Post("/:id/like", protect, blog.LikeBlog)
	blogs.Post("/:id/unlike", protect, blog.UnlikeBlog)
	blogs.Post("/:id/comment", protect, blog.CommentBlog)
	blogs.Post("/:id/comment/:commentId/unlike", protect, blog.DeleteComment)
	blogs.Post("/", protect, admin, blog.CreateBlog)
	blogs.Put("/:id", protect, admin, blog.UpdateBlog)
	blogs.Delete("/:id", protect, admin, blog.DeleteBlog)
	blogs.Post("/:id/uploads", protect, admin, blog.UploadImage)

	user := handlers.NewUserHandler(svc.Users)
	users := api.Group("/users")
	users.Post("/register", user.Register)
	users.Post("/login", user.Login)
	users.Get("/count", user.CountUsers)
	users.Get("/profile", protect, user.GetProfile)
	users.Put("/profile", protect, user.UpdateProfile)
	users.Get("/", protect, admin, user.ListUsers)
	users.Get("/:id", protect, admin, user.GetUser)
	users.Delete("/:id", protect, admin, user.DeleteUser)
	users.Put("/:id/admin", protect, admin, user.SetAdminStatus)

	landing := handlers.NewLandingHandler(svc.Landing)
	landingPage := api.Group("/landing-page")
	landingPage.Get("/", landing.GetLandingPage)
	landingPage.Put("/", protect, admin, landing.UpdateLandingPage)
	landingPage.Post("/hero/upload", protect, admin, landing.UploadHeroMedia)
	landingPage.Post("/upload", protect, admin, landing.UploadMedia)
	landingPage.Post("/reels", protect, admin, landing.AddReel)
	landingPage.Put("/reels", protect, admin, landing.UpdateReelsSection)
	landingPage.Delete("/reels/:reelId", protect, admin, landing.DeleteReel)

	site := handlers.NewSiteSettingsHandler(svc.Site)
	siteSettings := api.Group("/site-settings")
	siteSettings.Get("/", site.GetSettings)
	siteSettings.Put("/", protect, admin, site.UpdateSettings)
	siteSettings.Post("/upload", protect, admin, site.UploadAsset)

	nav := handlers.NewNavigationHandler(svc.Navigation)
	navigation := api.Group("/navigation")
	navigation.Get("/", nav.GetNavigation)
	navigation.Put("/", protect, admin, nav.UpdateNavigation)

	return app
}
