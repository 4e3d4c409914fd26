package main

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"photoframer/auth"
	"photoframer/config"
	"photoframer/db"
	"photoframer/handlers"
	"photoframer/imagetoken"
	"photoframer/models"
	"photoframer/storage"
	"photoframer/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

const sessionCookieName = "token"

func main() {
	if config.SESSION_KEY == "" {
		log.Fatal("SESSION_KEY must be configured")
	}
	if config.IMAGE_TOKEN_SECRET == "" {
		log.Fatal("IMAGE_TOKEN_SECRET must be configured")
	}

	dbConn, err := db.Open(config.MYSQL_DSN, config.SQLITE_FILE)
	if err != nil {
		log.Fatalf("DB: %v", err)
	}
	if err = models.Init(dbConn); err != nil {
		log.Fatalf("DB migration: %v", err)
	}

	var files storage.FileStore
	if config.S3_BUCKET != "" {
		files, err = storage.NewS3Storage(storage.S3Config{
			Bucket:   config.S3_BUCKET,
			Region:   config.S3_REGION,
			Endpoint: config.S3_ENDPOINT,
			Key:      config.S3_KEY,
			Secret:   config.S3_SECRET,
		})
	} else {
		files, err = storage.NewDiskStorage(config.DATA_DIR)
	}
	if err != nil {
		log.Fatalf("Storage: %v", err)
	}
	store, err := storage.NewLayout(files, filepath.Join(config.DATA_DIR, "temp"))
	if err != nil {
		log.Fatalf("Storage: %v", err)
	}
	go store.SweepLoop()

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "PUT", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	cookieStore := gormsessions.NewStore(dbConn, true, []byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{MaxAge: auth.SessionMaxAge, Path: "/", HttpOnly: true})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		// Originals are already compressed; don't gzip the full-res stream
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/photos/full"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	userSessions := &auth.Sessions{DB: dbConn}
	api := &handlers.API{
		DB:       dbConn,
		Store:    store,
		Tokens:   imagetoken.NewService(config.IMAGE_TOKEN_SECRET),
		Sessions: userSessions,
	}

	base := router.Group("/api")
	authRouter := &auth.Router{Base: base, Sessions: userSessions}

	// Auth
	base.POST("/auth/login", api.UserLogin)
	base.GET("/auth/status", api.UserStatus)
	authRouter.POST("/auth/logout", api.UserLogout, models.RoleViewer)
	// Admin user management
	authRouter.GET("/users", api.UserList, models.RoleAdmin)
	authRouter.POST("/users", api.UserCreate, models.RoleAdmin)
	authRouter.PUT("/users/:id/role", api.UserChangeRole, models.RoleAdmin)
	authRouter.POST("/users/:id/deactivate", api.UserDeactivate, models.RoleAdmin)
	// Albums - reads are public, visibility is checked inside
	base.GET("/albums", api.AlbumList)
	base.GET("/albums/:slug", api.AlbumGet)
	authRouter.POST("/albums", api.AlbumCreate, models.RoleContributor)
	authRouter.PUT("/albums/:id", api.AlbumUpdate, models.RoleContributor)
	authRouter.PUT("/albums/:id/settings", api.AlbumUpdateSettings, models.RoleContributor)
	authRouter.DELETE("/albums/:id", api.AlbumDelete, models.RoleContributor)
	authRouter.POST("/albums/:id/photos", api.AlbumUploadPhotos, models.RoleContributor)
	// Photos
	base.GET("/photos/:id", api.PhotoGet)
	authRouter.PUT("/photos/:id", api.PhotoUpdate, models.RoleContributor)
	authRouter.DELETE("/photos/:id", api.PhotoDelete, models.RoleContributor)
	authRouter.GET("/photos/:id/full", api.PhotoFullResToken, models.RoleViewer)
	base.GET("/photos/full/:token/:filename", api.PhotoFullResFetch)

	// Thumbnails are the only long-cacheable surface
	thumbs := router.Group("/thumbs")
	thumbs.Use(handlers.BlockBadBots())
	thumbs.Use(handlers.HotlinkProtection(splitHosts(config.ALLOWED_HOSTS)))
	thumbs.Use((&utils.CacheRouter{CacheTime: 30 * 86400}).Handler())
	thumbs.GET("/:filename", api.ThumbFetch)

	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}

func splitHosts(list string) []string {
	result := []string{}
	for _, host := range strings.Split(list, ",") {
		host = strings.TrimSpace(host)
		if host != "" {
			result = append(result, host)
		}
	}
	return result
}
