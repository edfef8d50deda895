package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/foodblog-api/configs"
	"github.com/maheshrc27/foodblog-api/internal/api"
	job "github.com/maheshrc27/foodblog-api/internal/jobs"
	"github.com/maheshrc27/foodblog-api/internal/media"
	"github.com/maheshrc27/foodblog-api/internal/queue"
	"github.com/maheshrc27/foodblog-api/internal/repository"
	"github.com/maheshrc27/foodblog-api/internal/repository/memory"
	"github.com/maheshrc27/foodblog-api/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron"
)

type repositories struct {
	users repository.UserRepository
	blogs repository.BlogRepository
	docs  repository.DocumentRepository
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	if cfg.SecretKey == "" {
		log.Fatal("SECRET_KEY must be set")
	}
	ctx := context.Background()

	var db *sql.DB
	var repos repositories
	switch cfg.Storage {
	case config.StorageMemory:
		log.Println("Using in-memory storage; data is lost on restart")
		repos = repositories{
			users: memory.NewUserStore(),
			blogs: memory.NewBlogStore(),
			docs:  memory.NewDocumentStore(),
		}
	default:
		var err error
		db, err = sql.Open("postgres", cfg.PostgresURI)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer closeDB(db)

		if err := db.Ping(); err != nil {
			log.Fatalf("Database is unreachable: %v", err)
		}
		if err := repository.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("Failed to prepare database schema: %v", err)
		}
		repos = repositories{
			users: repository.NewUserRepository(db),
			blogs: repository.NewBlogRepository(db),
			docs:  repository.NewDocumentRepository(db),
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observer, err := media.NewPrometheusObserver("media_store", registry)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	var store media.Store
	switch cfg.MediaBackend {
	case config.MediaBackendR2:
		r2Store, err := media.NewR2Store(ctx, cfg.R2)
		if err != nil {
			log.Fatalf("Failed to configure R2 storage: %v", err)
		}
		store = r2Store
	default:
		store = media.NewDiskStore(cfg.UploadDir)
	}
	store = media.Observe(store, observer)

	queueW := queue.NewQueue(store)

	var cleaner service.MediaCleaner
	var worker *asynq.Server
	if cfg.RedisURI != "" {
		redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
		client := asynq.NewClient(redisConn)
		defer client.Close()
		cleaner = queue.NewAsynqCleaner(client)

		worker = asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})
		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeMediaCleanup, queueW.HandleMediaCleanupTask)

		go func() {
			log.Println("Starting the Asynq server...")
			if err := worker.Run(mux); err != nil {
				log.Fatalf("Could not start Asynq server: %v", err)
			}
		}()
	} else {
		log.Println("REDIS_URI not set; media cleanup runs in-process")
		inline := queue.NewInlineCleaner(queueW)
		defer inline.Wait()
		cleaner = inline
	}

	uploadService := service.NewUploadService(store, observer)
	authService := service.NewAuthService(cfg, repos.users)
	services := api.Services{
		Auth:       authService,
		Users:      service.NewUserService(cfg, repos.users, repos.blogs, authService, uploadService, cleaner),
		Blogs:      service.NewBlogService(repos.blogs, uploadService, cleaner),
		Landing:    service.NewLandingService(repos.docs, uploadService, cleaner),
		Site:       service.NewSiteSettingsService(repos.docs, uploadService, cleaner),
		Navigation: service.NewNavigationService(repos.docs),
	}

	app := api.NewApp(cfg, services, registry)

	// cron jobs
	orphanAuditJob := job.NewOrphanAuditJob(store, repos.blogs, repos.users, repos.docs)

	c := cron.New()
	if err := c.AddFunc(cfg.OrphanAuditSchedule, orphanAuditJob.Run); err != nil {
		log.Fatalf("Invalid orphan audit schedule %q: %v", cfg.OrphanAuditSchedule, err)
	}
	c.Start()
	defer c.Stop()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, worker)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, worker *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}

	log.Println("Server shutdown complete.")
}
