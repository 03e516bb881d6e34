package folio

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avellar/folio/cdn"
)

const maxUploadSize = 10 << 20 // 10MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var uploadVariants = map[string]cdn.Transform{
	"thumbnail": {Width: 400, Height: 300, Crop: "fill", Gravity: "auto", Quality: "auto"},
	"card":      {Width: 800, Height: 450, Crop: "fill", Gravity: "auto", Quality: "auto"},
	"og":        {Width: 1200, Height: 630, Crop: "fill", Gravity: "auto", Quality: "auto"},
}

// UploadResponse is the body of a successful POST /upload.
type UploadResponse struct {
	URL      string            `json:"url"`
	PublicID string            `json:"publicId"`
	Width    int               `json:"width"`
	Height   int               `json:"height"`
	Variants map[string]string `json:"variants"`
}

// handleUpload serves POST /upload. Size and content type are validated
// before any network call; the CDN gets exactly one attempt under the fixed
// upload timeout.
func (a *App) handleUpload(c echo.Context) error {
	if a.cdnClient == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "media uploads are not configured")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no image file provided")
	}
	if file.Size > maxUploadSize {
		return echo.NewHTTPError(http.StatusBadRequest, "file too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return err
	}
	if ct := http.DetectContentType(head[:n]); !allowedImageTypes[ct] {
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported image type (JPEG, PNG, GIF, or WebP only)")
	}

	processed, err := cdn.Process(io.MultiReader(bytes.NewReader(head[:n]), src))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image: "+err.Error())
	}

	publicID := uploadPublicID(file.Filename)
	result, err := a.cdnClient.Upload(c.Request().Context(), processed.Data, cdn.UploadOptions{
		PublicID: publicID,
		Folder:   a.Config.CDN.Folder,
		Tags:     []string{"folio"},
	})
	if err != nil {
		return fmt.Errorf("upload image: %w", err)
	}

	variants := make(map[string]string, len(uploadVariants))
	for name, t := range uploadVariants {
		variants[name] = a.cdnClient.URL(result.PublicID, t)
	}
	return c.JSON(http.StatusOK, UploadResponse{
		URL:      result.URL,
		PublicID: result.PublicID,
		Width:    result.Width,
		Height:   result.Height,
		Variants: variants,
	})
}

// uploadPublicID derives a CDN public ID from the original filename, with a
// short random suffix so re-uploads of the same file never collide.
func uploadPublicID(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	slug := Slugify(base)
	if slug == "" {
		slug = "image"
	}
	return slug + "-" + uuid.NewString()[:8]
}
