package sitegen

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/ruofeng/sitegen/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// renderPNG writes an encoded preview image.
func renderPNG(c echo.Context, png []byte) error {
	return c.Blob(http.StatusOK, "image/png", png)
}

// renderError writes the error page for code.
func (a *App) renderError(c echo.Context, code int, heading, message string) error {
	return RenderStatus(c, code, a.Views.Error(views.ErrorPage{
		Base:    a.base(c, views.PageMeta{Title: heading, NoIndex: true}),
		Code:    code,
		Heading: heading,
		Message: message,
	}))
}
