// Package cdn is the adapter for the external image CDN. It only builds
// upload requests and transformation URLs; storage, resizing at delivery
// time, and caching all belong to the CDN itself.
package cdn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

// UploadTimeout is the single fixed timeout applied to uploads. There is no
// retry; a slow CDN surfaces as an error to the caller.
const UploadTimeout = 30 * time.Second

// Client talks to the CDN's HTTP upload API.
type Client struct {
	BaseURL      string
	CloudName    string
	UploadPreset string
	HTTPClient   *http.Client
}

// NewClient creates a Client with the fixed upload timeout.
func NewClient(baseURL, cloudName, uploadPreset string) *Client {
	return &Client{
		BaseURL:      strings.TrimSuffix(baseURL, "/"),
		CloudName:    cloudName,
		UploadPreset: uploadPreset,
		HTTPClient:   &http.Client{Timeout: UploadTimeout},
	}
}

// UploadOptions carries the metadata attached to an upload request.
type UploadOptions struct {
	PublicID string // target public ID, without extension
	Folder   string
	Tags     []string
}

// UploadResult is the CDN's answer to a successful upload.
type UploadResult struct {
	PublicID string `json:"public_id"`
	URL      string `json:"secure_url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Bytes    int    `json:"bytes"`
	Format   string `json:"format"`
}

func (c *Client) uploadURL() string {
	return c.BaseURL + "/" + c.CloudName + "/image/upload"
}

// Upload sends the image bytes to the CDN as a multipart request. Exactly
// one attempt is made.
func (c *Client) Upload(ctx context.Context, data []byte, opts UploadOptions) (UploadResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", opts.PublicID+".jpg")
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := part.Write(data); err != nil {
		return UploadResult{}, err
	}
	fields := map[string]string{
		"upload_preset": c.UploadPreset,
		"public_id":     opts.PublicID,
		"folder":        opts.Folder,
	}
	if len(opts.Tags) > 0 {
		fields["tags"] = strings.Join(opts.Tags, ",")
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return UploadResult{}, err
		}
	}
	if err := w.Close(); err != nil {
		return UploadResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL(), &body)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("cdn upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return UploadResult{}, fmt.Errorf("cdn upload: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return UploadResult{}, fmt.Errorf("cdn upload: decode response: %w", err)
	}
	return result, nil
}

// Transform describes a derived rendition of an uploaded image. Zero-value
// fields are omitted from the URL.
type Transform struct {
	Width   int
	Height  int
	Crop    string // e.g. "fill", "fit", "scale"
	Quality string // e.g. "auto", "80"
	Format  string // e.g. "auto", "webp"
	Gravity string // e.g. "auto", "face"
}

func (t Transform) params() string {
	var parts []string
	if t.Width > 0 {
		parts = append(parts, "w_"+strconv.Itoa(t.Width))
	}
	if t.Height > 0 {
		parts = append(parts, "h_"+strconv.Itoa(t.Height))
	}
	if t.Crop != "" {
		parts = append(parts, "c_"+t.Crop)
	}
	if t.Gravity != "" {
		parts = append(parts, "g_"+t.Gravity)
	}
	if t.Quality != "" {
		parts = append(parts, "q_"+t.Quality)
	}
	if t.Format != "" {
		parts = append(parts, "f_"+t.Format)
	}
	return strings.Join(parts, ",")
}

// URL builds the delivery URL for publicID with this transform applied.
func (c *Client) URL(publicID string, t Transform) string {
	segments := []string{c.CloudName, "image", "upload"}
	if p := t.params(); p != "" {
		segments = append(segments, p)
	}
	segments = append(segments, publicID)
	return c.BaseURL + "/" + strings.Join(segments, "/")
}

// PublicIDFromURL extracts the public ID back out of a previously returned
// delivery URL, for editing flows. Transform and version segments between
// "upload" and the public ID are skipped; the file extension is dropped.
// Returns "" when the URL does not look like a CDN delivery URL.
func PublicIDFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	idx := -1
	for i, p := range parts {
		if p == "upload" {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(parts)-1 {
		return ""
	}
	rest := parts[idx+1:]
	for len(rest) > 1 && (isTransformSegment(rest[0]) || isVersionSegment(rest[0])) {
		rest = rest[1:]
	}
	id := strings.Join(rest, "/")
	if ext := path.Ext(id); ext != "" {
		id = strings.TrimSuffix(id, ext)
	}
	return id
}

func isTransformSegment(s string) bool {
	if !strings.Contains(s, "_") {
		return false
	}
	for _, chunk := range strings.Split(s, ",") {
		k, _, ok := strings.Cut(chunk, "_")
		if !ok {
			return false
		}
		switch k {
		case "w", "h", "c", "g", "q", "f":
		default:
			return false
		}
	}
	return true
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}
