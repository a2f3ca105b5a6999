package main

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	_ "github.com/heroku/x/hmetrics/onload"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	log "github.com/sirupsen/logrus"
	"github.com/ulule/limiter"
	mgin "github.com/ulule/limiter/drivers/middleware/gin"
	"github.com/ulule/limiter/drivers/store/memory"

	"github.com/zirius/linkcloak/modules/auth"
	"github.com/zirius/linkcloak/modules/cache"
	"github.com/zirius/linkcloak/modules/link"
	"github.com/zirius/linkcloak/modules/queue"
	"github.com/zirius/linkcloak/pg"
)

func init() {
	// Output to stdout instead of the default stderr
	log.SetOutput(os.Stdout)
}

func main() {
	godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		log.Fatal("$PORT must be set")
	}

	database := os.Getenv("DATABASE_URL")
	if database == "" {
		log.Fatal("$DATABASE_URL must be set")
	}

	fallbackURL := os.Getenv("FALLBACK_URL")
	if fallbackURL == "" {
		fallbackURL = "https://www.google.com"
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("$SESSION_SECRET must be set")
	}

	// Que-Go
	pgxpool, qc, err := queue.Setup(database)
	if err != nil {
		log.Fatal("error initializing que-go")
	}
	defer pgxpool.Close()

	db, err := sqlx.Open("postgres", database)
	if err != nil {
		log.Fatalf("Error opening database: %q", err)
	}
	store := pg.NewStore(db)

	// Optional Redis cache on the resolution path
	var linkCache *cache.Cache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		linkCache, err = cache.Connect(redisURL, os.Getenv("REDIS_PASSWORD"))
		if err != nil {
			log.WithError(err).Fatal("error connecting to redis")
		}
		defer linkCache.Close()
	}

	// Rate Limiter
	rate := limiter.Rate{
		Period: time.Second,
		Limit: func() int64 {
			rate, err := strconv.Atoi(os.Getenv("RATE_LIMIT"))
			if err != nil {
				return 100
			}
			return int64(rate)
		}(),
	}
	limiterStore := memory.NewStore()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.LoadHTMLGlob("templates/*.tmpl.html")
	router.ForwardedByClientIP = true
	router.Use(mgin.NewMiddleware(limiter.New(limiterStore, rate)))
	router.Use(cors.New(cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Length", "Content-Type"},
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowCredentials: true,
		MaxAge:           10 * time.Minute,
	}))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	if os.Getenv("NEW_RELIC_LICENSE_KEY") != "" {
		app, err := newrelic.NewApplication(
			newrelic.ConfigAppName(os.Getenv("APP_NAME")),
			newrelic.ConfigLicense(os.Getenv("NEW_RELIC_LICENSE_KEY")),
		)
		if err != nil {
			log.Fatal("error initializing new relic")
		}
		router.Use(nrgin.Middleware(app))
	}

	sessionStore := sessions.NewCookieStore([]byte(sessionSecret))

	linkHandler := link.NewHandler(store, qc, linkCache, fallbackURL, baseURL)
	authHandler := auth.NewHandler(store, sessionStore)

	router.GET("", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/admin")
	})
	router.GET("/:code", linkHandler.Interstitial)
	router.POST("/verify", linkHandler.Verify)

	router.POST("/api/auth/login", authHandler.Login)
	router.POST("/api/auth/logout", authHandler.Logout)

	api := router.Group("/api/links", authHandler.RequireAdmin)
	api.GET("", linkHandler.APIGetLinks)
	api.POST("", linkHandler.APICreateLink)
	api.GET("/:linkId/stats", linkHandler.APIGetLinkStats)
	api.GET("/:linkId/qr", linkHandler.APIGetLinkQR)

	router.Run(":" + port)
}
