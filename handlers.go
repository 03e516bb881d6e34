package folio

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/avellar/folio/markdown"
)

// handleListBlogs serves GET /blogs. Anonymous callers always get published
// posts; an admin session may widen the listing with published=all or
// published=draft.
func (a *App) handleListBlogs(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	q := ListQuery{
		Page:     page,
		PageSize: limit,
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Tag:      c.QueryParam("tag"),
	}
	if IsAdmin(c) {
		switch c.QueryParam("published") {
		case "all":
			q.IncludeDrafts = true
		case "draft", "false":
			q.DraftsOnly = true
		}
	}
	posts, pg, err := a.Store.ListPosts(q)
	if err != nil {
		return fmt.Errorf("list blogs: %w", err)
	}
	return c.JSON(http.StatusOK, ListResponse{Blogs: posts, Pagination: pg})
}

// handleGetBlog serves GET /blogs/:id, where the parameter is an id or a
// slug. A numeric parameter is an id lookup (admin preview path, drafts
// included for admins, no view counting); anything else is a slug lookup of
// a published post, which increments the view counter.
func (a *App) handleGetBlog(c echo.Context) error {
	param := c.Param("id")

	if id, err := strconv.ParseInt(param, 10, 64); err == nil {
		post, err := a.Store.GetPostByID(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "blog not found")
			}
			return err
		}
		if post.IsDraft && !IsAdmin(c) {
			return echo.NewHTTPError(http.StatusNotFound, "blog not found")
		}
		post.ContentHTML = markdown.ToHTML(post.Content)
		return c.JSON(http.StatusOK, post)
	}

	post, err := a.Store.GetPublishedBySlug(param)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "blog not found")
		}
		return err
	}
	if err := a.Store.IncrementViewCount(param); err != nil {
		return err
	}
	post.ViewCount++
	post.ContentHTML = markdown.ToHTML(post.Content)
	return c.JSON(http.StatusOK, post)
}

// handleRelatedBlogs serves GET /blogs/:id/related.
func (a *App) handleRelatedBlogs(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid blog id")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	related, err := a.Store.RelatedPosts(id, limit)
	if err != nil {
		return fmt.Errorf("related blogs: %w", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"blogs": related})
}

// handleCategories serves GET /blogs/categories for the listing filter UI.
func (a *App) handleCategories(c echo.Context) error {
	categories, err := a.Store.ListCategories()
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": categories})
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots generates robots.txt dynamically using the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}
