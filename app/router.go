// Package app wires the HTTP surface together
package app

import (
	"avekl/folio-api/app/auth"
	"avekl/folio-api/app/post"
	"avekl/folio-api/app/root"
	"avekl/folio-api/app/stats"
	"avekl/folio-api/app/user"
	"avekl/folio-api/aws"
	"avekl/folio-api/db"
	"avekl/folio-api/internal"
	"avekl/folio-api/internal/service"
	"avekl/folio-api/internal/store"
	"avekl/folio-api/kv"
	"avekl/folio-api/pkg/middleware"
	"avekl/folio-api/pkg/security"
	"fmt"
	"strings"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewRouter() (*gin.Engine, error) {
	d := &internal.Deps{}

	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	d.DB = database

	redis, err := kv.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis, %w", err)
	}

	issuer, err := security.NewTokenIssuer(viper.GetString("jwt.secret"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token issuer, %w", err)
	}
	d.Tokens = issuer

	s3, err := aws.NewS3()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
	}

	d.Refresh = store.NewRefreshStore(redis)
	d.Visitors = store.NewVisitorCounter(redis)
	d.Verif = service.NewVerification(store.NewVerificationCache(redis), service.NewMailer())
	d.Avatars = service.NewAvatarUploader(s3)

	router := gin.New()

	origins := strings.Split(viper.GetString("host.cors"), ",")

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = viper.GetInt64("upload.max_size")

	rateLimit := viper.GetInt("security.rate_limit")

	jwt := middleware.NewJWTMiddleware(database, issuer)
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rateLimit,
		Burst:             rateLimit * 2,
	})

	// Response cache is per-instance. The entries are short enough
	// that instances drifting for a few seconds doesn't matter
	cacheStore := persist.NewMemoryStore(time.Minute)
	cacheFor := func(sec int) gin.HandlerFunc {
		return cache.CacheByRequestURI(cacheStore, time.Second*time.Duration(sec))
	}

	m := router.Group("/api", rateLimiter)
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)
	}

	a := m.Group("/auth", middleware.BodySizeLimiter(viper.GetInt64("upload.max_size")+(1<<20)))
	{
		// POST /api/auth/register	-> Registers a new account (multipart, avatar required)
		a.POST("/register", func(c *gin.Context) { auth.Register(c, d) })

		// POST /api/auth/login 	-> Verifies credentials, returns a token pair
		a.POST("/login", func(c *gin.Context) { auth.Login(c, d) })

		// POST /api/auth/logout	-> Revokes a refresh token, idempotent
		a.POST("/logout", func(c *gin.Context) { auth.Logout(c, d) })

		// POST /api/auth/refresh	-> Exchanges a refresh token for a new pair
		a.POST("/refresh", func(c *gin.Context) { auth.Refresh(c, d) })

		// POST /api/auth/verify/request -> Mails a fresh verification code
		a.POST("/verify/request", func(c *gin.Context) { auth.VerifyRequest(c, d) })

		// POST /api/auth/verify/confirm -> Burns a code, flags the account verified
		a.POST("/verify/confirm", func(c *gin.Context) { auth.VerifyConfirm(c, d) })
	}

	u := m.Group("/users")
	{
		// GET /api/users/me		-> Returns the logged-in user's profile
		u.GET("/me", jwt, func(c *gin.Context) { user.Fetch(c, d) })
	}

	p := m.Group("/posts")
	{
		// GET /api/posts		-> Lists all posts, newest first
		p.GET("", cacheFor(30), func(c *gin.Context) { post.List(c, d) })

		// GET /api/posts/:slug		-> Returns a single post by slug
		p.GET("/:slug", cacheFor(30), func(c *gin.Context) { post.Fetch(c, d) })

		// POST /api/posts		-> Creates a post
		p.POST("", jwt, func(c *gin.Context) { post.Create(c, d) })

		// DELETE /api/posts/:id	-> Deletes an owned post
		p.DELETE("/:id", jwt, func(c *gin.Context) { post.Delete(c, d) })
	}

	s := m.Group("/stats")
	{
		// POST /api/stats/visit	-> Records a page visit
		s.POST("/visit", func(c *gin.Context) { stats.Visit(c, d) })

		// GET /api/stats/visitors	-> Returns the total visit count
		s.GET("/visitors", cacheFor(5), func(c *gin.Context) { stats.Visitors(c, d) })
	}

	return router, nil
}
