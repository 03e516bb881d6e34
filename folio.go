// Package folio is a personal portfolio site with a blog content-management
// subsystem: static marketing pages, a JSON blog API with search, filtering,
// and pagination, admin authoring gated behind cookie sessions, image upload
// through an external CDN, and SEO surfaces (sitemap, RSS, JSON-LD).
package folio

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avellar/folio/cdn"
)

// App wires together the store, CDN client, handlers, and middleware.
// Handlers read the store directly on every request; there is deliberately
// no in-process cache of posts.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store

	cdnClient    *cdn.Client
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
	staticPages  []string
}

// defaultStaticPages are the portfolio pages listed in the sitemap.
var defaultStaticPages = []string{"about", "resume", "services", "testimonials"}

// New creates a folio App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:      cfg,
		Echo:        echo.New(),
		staticDir:   "public",
		staticPages: defaultStaticPages,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start initializes the database, middleware, and routes, and runs the
// server until it is shut down.
func (a *App) Start() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("folio: init store: %w", err)
	}
	a.Store = store

	if a.Config.CDN.BaseURL != "" {
		a.cdnClient = cdn.NewClient(a.Config.CDN.BaseURL, a.Config.CDN.CloudName, a.Config.CDN.UploadPreset)
	}
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Portfolio pages and assets.
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public blog API.
	e.GET("/blogs", a.handleListBlogs)
	e.GET("/blogs/categories", a.handleCategories)
	e.GET("/blogs/:id", a.handleGetBlog) // id or slug
	e.GET("/blogs/:id/related", a.handleRelatedBlogs)

	// Authoring API, session-gated.
	e.POST("/blogs", a.handleCreateBlog, requireAdmin)
	e.PUT("/blogs/:id", a.handleUpdateBlog, requireAdmin)
	e.DELETE("/blogs/:id", a.handleDeleteBlog, requireAdmin)
	e.POST("/upload", a.handleUpload, requireAdmin)

	// Admin session management.
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.POST("/admin/preview/", a.handleAdminPreview, requireAdmin)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
