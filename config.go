package sitegen

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/ruofeng/sitegen/imagecache"
	"github.com/ruofeng/sitegen/ogimage"
)

// EditPost configures the "edit page" link shown on posts.
type EditPost struct {
	Enabled bool   `toml:"enabled"`
	Text    string `toml:"text"`
	URL     string `toml:"url"`
}

// SiteConfig holds all configuration for a site.
type SiteConfig struct {
	Website             string        `toml:"website"`     // canonical URL (default "https://ruofeng.me", env MY_SITE)
	Author              string        `toml:"author"`      // default post author
	Profile             string        `toml:"profile"`     // author profile URL (default Website)
	Description         string        `toml:"description"` // site description for RSS and meta tags
	Title               string        `toml:"title"`
	OGImage             string        `toml:"og_image"` // static site image under PublicDir, used when DynamicOGImage is off
	LightAndDarkMode    bool          `toml:"light_and_dark_mode"`
	PostPerIndex        int           `toml:"post_per_index"`
	PostPerPage         int           `toml:"post_per_page"`
	ScheduledPostMargin time.Duration `toml:"scheduled_post_margin"`
	ShowArchives        bool          `toml:"show_archives"`
	ShowBackButton      bool          `toml:"show_back_button"`
	EditPost            EditPost      `toml:"edit_post"`
	DynamicOGImage      bool          `toml:"dynamic_og_image"`
	Dir                 string        `toml:"dir"`
	Lang                string        `toml:"lang"`
	Timezone            string        `toml:"timezone"`

	ContentDir      string        `toml:"content_dir"`       // default "src/content/blog"
	PublicDir       string        `toml:"public_dir"`        // default "public"
	FontPath        string        `toml:"font_path"`         // default ogimage.DefaultFontPath
	FontFamily      string        `toml:"font_family"`       // default ogimage.DefaultFontFamily
	FontWeight      int           `toml:"font_weight"`       // default ogimage.DefaultFontWeight
	Addr            string        `toml:"addr"`              // listen address (default ":4321", env SITEGEN_ADDR)
	CachePath       string        `toml:"cache_path"`        // SQLite image cache; "-" disables it
	RedisURL        string        `toml:"redis_url"`         // optional shared image cache
	PostCacheTTL    time.Duration `toml:"post_cache_ttl"`    // content reload interval in serve mode (default 5m)
	OGFailurePolicy string        `toml:"og_failure_policy"` // fail, skip or site
	DateRedirects   bool          `toml:"date_redirects"`    // also redirect /YYYY/MM/DD/<slug> for every post
	HighlightLight  string        `toml:"highlight_light"`
	HighlightDark   string        `toml:"highlight_dark"`
	RenderRate      int           `toml:"render_rate"` // on-demand image renders per IP per minute (default 30)

	SessionSecret          string `toml:"session_secret"` // env SITEGEN_SESSION_SECRET
	CookieSecure           bool   `toml:"cookie_secure"`
	Dev                    bool   `toml:"dev"` // keep scheduled posts
	GoogleSiteVerification string `toml:"google_site_verification"`
}

// DefaultConfig returns the configuration of the original site. Boolean
// settings that default to true are set here; LoadConfig decodes on top of it.
func DefaultConfig() SiteConfig {
	cfg := SiteConfig{
		ShowArchives:   true,
		ShowBackButton: true,
		DynamicOGImage: true,
		EditPost: EditPost{
			Text: "Edit page",
			URL:  "https://github.com/satnaing/astro-paper/edit/main/",
		},
	}
	cfg.setDefaults()
	return cfg
}

func (c *SiteConfig) setDefaults() {
	if c.Website == "" {
		c.Website = "https://ruofeng.me"
	}
	if c.Author == "" {
		c.Author = "Lei"
	}
	if c.Profile == "" {
		c.Profile = c.Website
	}
	if c.Description == "" {
		c.Description = "The place I write."
	}
	if c.Title == "" {
		c.Title = "Ruofeng's Blog"
	}
	if c.PostPerIndex == 0 {
		c.PostPerIndex = 8
	}
	if c.PostPerPage == 0 {
		c.PostPerPage = 10
	}
	if c.ScheduledPostMargin == 0 {
		c.ScheduledPostMargin = 15 * time.Minute
	}
	if c.Dir == "" {
		c.Dir = "ltr"
	}
	if c.Lang == "" {
		c.Lang = "en"
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Shanghai"
	}
	if c.ContentDir == "" {
		c.ContentDir = "src/content/blog"
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.FontPath == "" {
		c.FontPath = ogimage.DefaultFontPath
	}
	if c.FontFamily == "" {
		c.FontFamily = ogimage.DefaultFontFamily
	}
	if c.FontWeight == 0 {
		c.FontWeight = ogimage.DefaultFontWeight
	}
	if c.Addr == "" {
		c.Addr = ":4321"
	}
	if c.CachePath == "" {
		c.CachePath = "data/ogcache.db"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.RenderRate == 0 {
		c.RenderRate = 30
	}
}

// LoadConfig reads the TOML file at path over DefaultConfig and applies
// environment overrides. An empty path skips the file; a missing file at
// a non-empty path is an error.
func LoadConfig(path string) (SiteConfig, error) {
	cfg := DefaultConfig()
	cfg.Profile = "" // follows Website unless set
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return SiteConfig{}, fmt.Errorf("sitegen: config %s: %w", path, err)
			}
			return SiteConfig{}, fmt.Errorf("sitegen: parse config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return SiteConfig{}, fmt.Errorf("sitegen: config %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	}
	cfg.applyEnv()
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) applyEnv() {
	c.Website = EnvOr("MY_SITE", c.Website)
	c.GoogleSiteVerification = EnvOr("PUBLIC_GOOGLE_SITE_VERIFICATION", c.GoogleSiteVerification)
	c.Addr = EnvOr("SITEGEN_ADDR", c.Addr)
	c.SessionSecret = EnvOr("SITEGEN_SESSION_SECRET", c.SessionSecret)
}

// Location returns the site timezone.
func (c SiteConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("sitegen: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// FontFace returns the declared face of the font asset.
func (c SiteConfig) FontFace() ogimage.FontFace {
	return ogimage.FontFace{Family: c.FontFamily, Weight: c.FontWeight, Style: ogimage.StyleNormal}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger sets the application logger.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithClock replaces time.Now for scheduling decisions.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// WithImageCache replaces the image caches built from the configuration.
func WithImageCache(b imagecache.Backend) Option {
	return func(a *App) {
		a.imageCache = b
	}
}
