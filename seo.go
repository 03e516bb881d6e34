package folio

import (
	"encoding/json"
	"strings"

	"github.com/avellar/folio/cdn"
)

// PageMeta carries per-page OpenGraph and SEO metadata. Post pages fall back
// to title/excerpt when the SEO overrides are empty.
type PageMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`    // canonical + og:url
	OGType      string `json:"ogType"` // "website" or "article"
	OGImage     string `json:"ogImage,omitempty"`
}

// ogImageTransform is the rendition used for social preview cards.
var ogImageTransform = cdn.Transform{Width: 1200, Height: 630, Crop: "fill", Gravity: "auto", Quality: "auto"}

// PostMeta builds the SEO metadata for a post page.
func (a *App) PostMeta(p BlogPost) PageMeta {
	title := p.SEOTitle
	if title == "" {
		title = p.Title
	}
	desc := p.SEODescription
	if desc == "" {
		desc = p.Excerpt
	}
	meta := PageMeta{
		Title:       title,
		Description: desc,
		URL:         BuildURL(a.Config.URL, "blogs", p.Slug),
		OGType:      "article",
	}
	if img := p.FeaturedImage; img != "" && a.cdnClient != nil {
		if id := cdn.PublicIDFromURL(img); id != "" {
			meta.OGImage = a.cdnClient.URL(id, ogImageTransform)
		} else {
			meta.OGImage = img
		}
	}
	return meta
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(cfg SiteConfig, post BlogPost) string {
	postURL := BuildURL(cfg.URL, "blogs", post.Slug)
	headline := post.SEOTitle
	if headline == "" {
		headline = post.Title
	}
	description := post.SEODescription
	if description == "" {
		description = post.Excerpt
	}
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    headline,
		"description": description,
		"url":         postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.PublishedAt != nil {
		data["datePublished"] = post.PublishedAt.Format("2006-01-02")
	}
	author := post.Author
	if author == "" {
		author = cfg.Author
	}
	if author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
