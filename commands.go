package main

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/auth"
	"github.com/junaidrashid-git/food-delivery-api/config"
	orderControllers "github.com/junaidrashid-git/food-delivery-api/controllers/order"
	"github.com/junaidrashid-git/food-delivery-api/database"
	"github.com/junaidrashid-git/food-delivery-api/events"
	"github.com/junaidrashid-git/food-delivery-api/logger"
	"github.com/junaidrashid-git/food-delivery-api/middleware"
	"github.com/junaidrashid-git/food-delivery-api/notify"
	"github.com/junaidrashid-git/food-delivery-api/routes"
	"github.com/junaidrashid-git/food-delivery-api/seed"
	"github.com/junaidrashid-git/food-delivery-api/storage"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "food-delivery-api",
		Short:         "Storefront and admin panel API for food delivery",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), seedCmd(), tokenCmd(), backupCmd())
	return root
}

// bootstrap loads config and configures the logger.
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openDB connects and migrates.
func openDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			logger.Log.Info("starting application")

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			fee, err := cfg.Fee()
			if err != nil {
				return err
			}

			publisher, err := events.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
			if err != nil {
				return err
			}
			defer publisher.Close()

			images := &storage.Images{Dir: cfg.UploadDir}
			app := &routes.App{
				DB:       db,
				Images:   images,
				Sessions: sessionResolver(cfg, db),
				Orders: &orderControllers.Deps{
					DB:          db,
					Feed:        orderControllers.NewHub(),
					Events:      publisher,
					Mailer:      notify.New(cfg.SMTP),
					DeliveryFee: fee,
				},
				AdminAPIKey: cfg.AdminAPIKey,
				DeliveryFee: fee,
				Location:    cfg.Location(),
			}
			if cfg.AdminAPIKey == "" {
				logger.Log.Warn("ADMIN_API_KEY is empty, panel routes will reject every request")
			}

			r := gin.New()
			r.Use(middleware.RequestID(), middleware.RequestLogger(), gin.Recovery())

			// Allow large file uploads (32 MB)
			r.MaxMultipartMemory = 32 << 20

			r.Use(cors.New(cors.Config{
				AllowOrigins:     cfg.CORSOrigins,
				AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
				AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", "X-Request-ID"},
				ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
				AllowCredentials: true,
				MaxAge:           12 * time.Hour,
			}))

			// Serve uploaded images
			r.Static(storage.PublicPrefix, cfg.UploadDir)

			routes.SetupRoutes(r, app)

			logger.Log.WithField("port", cfg.Port).Info("server running")
			return r.Run(":" + cfg.Port)
		},
	}
}

// sessionResolver reads the auth collaborator's sessions, through redis
// when configured, and accepts bearer tokens when a JWT secret is set.
func sessionResolver(cfg *config.Config, db *gorm.DB) *auth.Resolver {
	var sessions auth.SessionStore = auth.NewDBSessions(db)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		sessions = auth.NewCachedSessions(sessions, client, cfg.Session.CacheTTL)
	}

	resolver := &auth.Resolver{Sessions: sessions, Cookie: cfg.Session.Cookie}
	if cfg.JWTSecret != "" {
		resolver.Tokens = &auth.Tokens{Secret: []byte(cfg.JWTSecret), TTL: cfg.Session.TokenTTL}
	}
	return resolver
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			if _, err := openDB(cfg); err != nil {
				return err
			}
			logger.Log.Info("migrations applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			_, err = seed.Run(db)
			return err
		},
	}
}

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Print a bearer token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			tokens := &auth.Tokens{Secret: []byte(cfg.JWTSecret), TTL: cfg.Session.TokenTTL}
			token, err := tokens.Issue(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the upload directory and prune old copies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			_, err = storage.Backup(cfg.UploadDir, cfg.Backup.Dir, cfg.Backup.Retention, time.Now())
			return err
		},
	}
}
