// Command folio runs the portfolio site. Configuration comes from
// environment variables (a .env file is loaded automatically when present).
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/avellar/folio"
)

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "serve":
		app := folio.New(configFromEnv())
		defer app.Close()
		if err := app.Start(); err != nil {
			log.Fatal(err)
		}
	case "seed":
		if err := runSeed(configFromEnv()); err != nil {
			log.Fatal(err)
		}
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func configFromEnv() folio.SiteConfig {
	return folio.SiteConfig{
		Name:          folio.EnvOr("SITE_NAME", "Folio"),
		URL:           strings.TrimSuffix(folio.EnvOr("SITE_URL", "http://localhost:3000"), "/"),
		Description:   os.Getenv("SITE_DESCRIPTION"),
		Author:        os.Getenv("SITE_AUTHOR"),
		Addr:          folio.EnvOr("ADDR", ":3000"),
		DatabasePath:  folio.EnvOr("DATABASE_PATH", "data/folio.db"),
		SessionSecret: mustEnv("ADMIN_SESSION_SECRET"),
		CookieSecure:  strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
		CDN: folio.CDNConfig{
			BaseURL:      os.Getenv("CDN_BASE_URL"),
			CloudName:    os.Getenv("CDN_CLOUD_NAME"),
			UploadPreset: os.Getenv("CDN_UPLOAD_PRESET"),
			Folder:       folio.EnvOr("CDN_FOLDER", "folio"),
		},
	}
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("required environment variable %s is not set", key)
	}
	return v
}

func printUsage() {
	fmt.Println(`folio - personal portfolio site with a blog CMS

Usage:
  folio <command>

Commands:
  serve    Start the HTTP server (default)
  seed     Populate demo posts and a demo admin credential
  help     Show this help message`)
}
