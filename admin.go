package folio

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/avellar/folio/markdown"
)

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts, try again later")
	}
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid login payload")
	}
	user, err := a.Store.GetUserByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			a.loginLimiter.Record(ip)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		a.loginLimiter.Record(ip)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err := setAdminSession(c, user.Username); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged in",
		"role":    user.Role,
	})
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// handleCreateBlog serves POST /blogs. Title, content, and author are
// required; the slug is derived from the title and a collision answers 409.
func (a *App) handleCreateBlog(c echo.Context) error {
	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid blog payload")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	if missing := missingFields(req); len(missing) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest,
			"missing required fields: "+strings.Join(missing, ", "))
	}

	slug := Slugify(req.Title)
	if slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title does not produce a usable slug")
	}

	now := time.Now().UTC().Truncate(time.Second)
	post := BlogPost{
		Title:          req.Title,
		Slug:           slug,
		Excerpt:        req.Excerpt,
		Content:        req.Content,
		Author:         req.Author,
		Category:       req.Category,
		Tags:           FilterEmpty(req.Tags),
		Thumbnail:      req.Thumbnail,
		FeaturedImage:  req.FeaturedImage,
		ReadTime:       ReadTime(req.Content),
		IsPublished:    req.IsPublished,
		IsDraft:        !req.IsPublished,
		SEOTitle:       req.SEOTitle,
		SEODescription: req.SEODescription,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.IsPublished {
		post.PublishedAt = &now
	}
	if err := a.Store.CreatePost(&post); err != nil {
		if errors.Is(err, ErrSlugTaken) {
			return echo.NewHTTPError(http.StatusConflict, "a blog with this slug already exists")
		}
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

func missingFields(req CreatePostRequest) []string {
	var missing []string
	if req.Title == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(req.Content) == "" {
		missing = append(missing, "content")
	}
	if req.Author == "" {
		missing = append(missing, "author")
	}
	return missing
}

// handleUpdateBlog serves PUT /blogs/:id. Only fields present in the body
// change. A title change regenerates the slug only when the slug actually
// differs, and a collision with another post answers 409. Publishing for the
// first time stamps PublishedAt; unpublishing clears it only when the
// request says clearPublishedAt.
func (a *App) handleUpdateBlog(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid blog id")
	}
	post, err := a.Store.GetPostByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "blog not found")
		}
		return err
	}

	var req UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid blog payload")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "title cannot be empty")
		}
		if title != post.Title {
			newSlug := Slugify(title)
			if newSlug == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "title does not produce a usable slug")
			}
			if newSlug != post.Slug {
				taken, err := a.Store.SlugExists(newSlug, id)
				if err != nil {
					return err
				}
				if taken {
					return echo.NewHTTPError(http.StatusConflict, "a blog with this slug already exists")
				}
				post.Slug = newSlug
			}
		}
		post.Title = title
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "content cannot be empty")
		}
		post.Content = *req.Content
		post.ReadTime = ReadTime(post.Content)
	}
	if req.Author != nil {
		author := strings.TrimSpace(*req.Author)
		if author == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "author cannot be empty")
		}
		post.Author = author
	}
	if req.Category != nil {
		post.Category = *req.Category
	}
	if req.Tags != nil {
		post.Tags = FilterEmpty(*req.Tags)
		if post.Tags == nil {
			post.Tags = []string{}
		}
	}
	if req.Thumbnail != nil {
		post.Thumbnail = *req.Thumbnail
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = *req.FeaturedImage
	}
	if req.SEOTitle != nil {
		post.SEOTitle = *req.SEOTitle
	}
	if req.SEODescription != nil {
		post.SEODescription = *req.SEODescription
	}
	if req.IsPublished != nil {
		wasPublished := post.IsPublished
		post.IsPublished = *req.IsPublished
		post.IsDraft = !post.IsPublished
		if post.IsPublished && !wasPublished && post.PublishedAt == nil {
			now := time.Now().UTC().Truncate(time.Second)
			post.PublishedAt = &now
		}
	}
	if req.ClearPublishedAt && post.IsDraft {
		post.PublishedAt = nil
	}
	post.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	if err := a.Store.UpdatePost(post); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "blog not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// handleDeleteBlog serves DELETE /blogs/:id. Deletion is permanent.
func (a *App) handleDeleteBlog(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid blog id")
	}
	if err := a.Store.DeletePost(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "blog not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "blog deleted"})
}

type previewRequest struct {
	Content string `json:"content" form:"content"`
}

// handleAdminPreview renders markdown content to HTML for the authoring form.
func (a *App) handleAdminPreview(c echo.Context) error {
	var req previewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid preview payload")
	}
	return RenderHTML(c, markdown.Markdown(req.Content))
}
