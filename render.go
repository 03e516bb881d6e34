package folio

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// RenderHTML writes a templ component as an HTTP 200 HTML response.
func RenderHTML(c echo.Context, cmp templ.Component) error {
	return RenderHTMLStatus(c, http.StatusOK, cmp)
}

// RenderHTMLStatus writes a templ component with a specific HTTP status code.
func RenderHTMLStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}
