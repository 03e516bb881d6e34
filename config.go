package folio

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string // Site name (default "Folio")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD and post defaults

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/folio.db")

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	CDN CDNConfig
}

// CDNConfig points folio at the external image CDN. When BaseURL is empty
// the upload endpoint answers 503 rather than inventing a local fallback.
type CDNConfig struct {
	BaseURL      string // e.g. "https://media.example-cdn.com"
	CloudName    string // account segment of the CDN URL scheme
	UploadPreset string // unsigned upload preset name
	Folder       string // folder/tag applied to uploads (default "folio")
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Folio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/folio.db"
	}
	if c.CDN.Folder == "" {
		c.CDN.Folder = "folio"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static portfolio assets (default
// "public"). The marketing pages (about, resume, services, testimonials)
// are served from here.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithStaticPages overrides the portfolio page paths listed in the sitemap.
func WithStaticPages(pages []string) Option {
	return func(a *App) {
		a.staticPages = pages
	}
}
