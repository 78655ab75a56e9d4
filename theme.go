package sitegen

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	themeLight = "light"
	themeDark  = "dark"
)

// theme returns the color scheme stored in the visitor's session.
func (a *App) theme(c echo.Context) string {
	if !a.Config.LightAndDarkMode || isBuild(c) {
		return themeLight
	}
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return themeLight
	}
	if t, ok := sess.Values["theme"].(string); ok && t == themeDark {
		return themeDark
	}
	return themeLight
}

// handleTheme stores the posted theme and sends the visitor back to the page
// they came from.
func (a *App) handleTheme(c echo.Context) error {
	if !a.Config.LightAndDarkMode {
		return echo.ErrNotFound
	}
	t := c.FormValue("theme")
	if t != themeLight && t != themeDark {
		return echo.NewHTTPError(http.StatusBadRequest, "theme must be light or dark")
	}
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values["theme"] = t
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, sameSiteReferer(c.Request()))
}

// sameSiteReferer returns the path of the Referer when it points at this
// host, else "/".
func sameSiteReferer(r *http.Request) string {
	u, err := url.Parse(r.Referer())
	if err != nil || u.Path == "" || strings.HasPrefix(u.Path, "//") || (u.Host != "" && u.Host != r.Host) {
		return "/"
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
