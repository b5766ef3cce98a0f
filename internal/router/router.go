package router

import (
	"net/http"
	"path"
	"slices"
	"strings"
	"time"

	"reviewhub/internal/config"
	"reviewhub/internal/handlers"
	"reviewhub/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 10 << 20

type Deps struct {
	Config   *config.Config
	Reviews  handlers.ReviewService
	Users    handlers.UserService
	Tokens   middleware.TokenParser
	Registry *prometheus.Registry
}

// New builds the engine with every API route registered.
func New(d Deps) (*gin.Engine, error) {
	cfg := d.Config
	dev := cfg.IsDevelopment()

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.NewMetricsBuilder(d.Registry).Build(),
		corsMiddleware(cfg.CORSAllowedOrigins),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/metrics"})),
		middleware.BodyLimit(maxBodyBytes),
		middleware.Timeout(cfg.RequestTimeout),
	)

	reviewHandler := handlers.NewReviewHandler(d.Reviews, dev)
	voteHandler := handlers.NewVoteHandler(d.Reviews, dev)
	categoryHandler := handlers.NewCategoryHandler(d.Reviews, dev)
	authHandler := handlers.NewAuthHandler(d.Users, dev)
	userHandler := handlers.NewUserHandler(d.Users, dev)

	authRequired := middleware.AuthRequired(d.Tokens)

	api := r.Group("/api")
	api.GET("/health", handlers.Health)
	api.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	reviews := api.Group("/reviews")
	{
		reviews.GET("", reviewHandler.List)
		reviews.GET("/search", reviewHandler.Search)
		reviews.GET("/categories", categoryHandler.ListCategories)
		reviews.GET("/:id", middleware.OptionalAuth(d.Tokens), reviewHandler.Detail)

		reviews.POST("", authRequired, reviewHandler.Create)
		reviews.PUT("/:id", authRequired, reviewHandler.Update)
		reviews.DELETE("/:id", authRequired, reviewHandler.Delete)
		reviews.POST("/:id/comments", authRequired, reviewHandler.CreateComment)
		reviews.POST("/:id/comments/:commentId/vote", authRequired, voteHandler.Vote)
	}

	users := api.Group("/users")
	{
		credentials := users.Group("")
		if cfg.AuthRateLimit > 0 {
			limiter, err := middleware.NewRateLimiter(cfg.AuthRateLimit, time.Minute)
			if err != nil {
				return nil, errors.Wrap(err, "auth rate limiter")
			}
			credentials.Use(limiter.Middleware())
		}
		credentials.POST("/register", authHandler.Register)
		credentials.POST("/login", authHandler.Login)

		me := users.Group("", authRequired)
		me.GET("/profile", userHandler.Profile)
		me.PUT("/profile", userHandler.UpdateProfile)
		me.PUT("/change-password", userHandler.ChangePassword)
		me.GET("/reviews", userHandler.Reviews)
		me.GET("/comments", userHandler.Comments)
	}

	r.NoRoute(staticFallback(cfg.StaticDir))
	return r, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowAll := len(origins) == 0 || slices.Contains(origins, "*")
	return cors.New(cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		AllowOriginFunc: func(origin string) bool {
			return allowAll || slices.Contains(origins, origin)
		},
		MaxAge: 12 * time.Hour,
	})
}

func routeNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
}

// staticFallback serves the frontend for non-API GETs and answers
// everything else with the JSON 404.
func staticFallback(dir string) gin.HandlerFunc {
	if dir == "" {
		return routeNotFound
	}
	root := http.Dir(dir)
	fileServer := http.FileServer(root)

	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if strings.HasPrefix(p, "/api/") || p == "/api" ||
			(c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			routeNotFound(c)
			return
		}

		name := path.Clean("/" + p)
		f, err := root.Open(name)
		if err != nil {
			routeNotFound(c)
			return
		}
		info, err := f.Stat()
		_ = f.Close()
		if err != nil {
			routeNotFound(c)
			return
		}
		if info.IsDir() {
			index, err := root.Open(path.Join(name, "index.html"))
			if err != nil {
				routeNotFound(c)
				return
			}
			_ = index.Close()
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
