package main

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/avellar/folio"
)

// runSeed populates demo content and a demo admin credential. It is
// repeatable: the admin credential is upserted and existing slugs are left
// alone.
func runSeed(cfg folio.SiteConfig) error {
	store, err := folio.NewStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	username := folio.EnvOr("ADMIN_USERNAME", "admin")
	password := folio.EnvOr("ADMIN_PASSWORD", "folio-admin")
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := store.CreateUser(username, string(hash), "admin"); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	log.Printf("seeded admin user %q", username)

	for _, p := range samplePosts() {
		if err := store.CreatePost(&p); err != nil {
			if err == folio.ErrSlugTaken {
				log.Printf("post %q already seeded, skipping", p.Slug)
				continue
			}
			return fmt.Errorf("seed post %q: %w", p.Title, err)
		}
		log.Printf("seeded post %q", p.Slug)
	}
	return nil
}

func samplePosts() []folio.BlogPost {
	return []folio.BlogPost{
		demoPost(
			"TypeScript Best Practices for Frontend Development",
			"A field guide to the TypeScript habits that keep large frontend codebases maintainable.",
			"Development",
			[]string{"typescript", "frontend"},
			date(2024, 9, 18),
			`## Lean on the compiler

Strict mode is not optional. Turn on `+"`strict`"+` and treat every `+"`any`"+` as a bug waiting for a stack trace.

- Prefer discriminated unions over boolean flags
- Model API responses as types first, code second
- Let inference do the work; annotate boundaries, not locals

## Keep types close to the data

A type that lives three folders away from the code it describes will drift. Co-locate, export sparingly, and delete dead types the moment the shape changes.`,
		),
		demoPost(
			"Designing Accessible Color Systems",
			"Building a palette that survives contrast checks without flattening your brand.",
			"Development",
			[]string{"design", "accessibility"},
			date(2024, 9, 15),
			`## Contrast is a budget

Every tint you add spends contrast somewhere else. Start from the text colors and work outward.

1. Fix the body text ratio at 7:1
2. Derive surfaces from the text, not the other way around
3. Test the palette in grayscale before shipping`,
		),
		demoPost(
			"Shipping Side Projects Without Burning Out",
			"Scope, momentum, and knowing when a project is actually done.",
			"Development",
			[]string{"productivity"},
			date(2024, 9, 12),
			`## Cut scope, not corners

A side project dies the week its scope doubles. Write the one-sentence version of the idea and build only that.

> Done is a feature. Everything else is a release note.`,
		),
	}
}

func demoPost(title, excerpt, category string, tags []string, published time.Time, content string) folio.BlogPost {
	return folio.BlogPost{
		Title:       title,
		Slug:        folio.Slugify(title),
		Excerpt:     excerpt,
		Content:     content,
		Author:      folio.EnvOr("SITE_AUTHOR", "Demo Author"),
		Category:    category,
		Tags:        tags,
		ReadTime:    folio.ReadTime(content),
		IsPublished: true,
		PublishedAt: &published,
		CreatedAt:   published,
		UpdatedAt:   published,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}
