// Package fixture serves a minimal LMS exposing exactly the surfaces
// the harness drives: a login form, a learner dashboard with a course
// listing and a search box, and a heartbeat route. The scenario tests
// run against it so they do not depend on a live platform.
package fixture

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const sessionCookie = "derex_session"

// Course is one entry in the dashboard course listing.
type Course struct {
	ID    string
	Title string
}

// Options configures a fixture LMS instance.
type Options struct {
	Email    string
	Password string
	Courses  []Course
	// ThrowScriptError makes the dashboard raise an uncaught page
	// exception shortly after load.
	ThrowScriptError bool
	// SigningKey signs session tokens. Randomized when empty.
	SigningKey []byte
}

// Server is an in-process fixture LMS.
type Server struct {
	opts   Options
	engine *gin.Engine

	mu       sync.Mutex
	searches []string
}

var (
	loginTpl     = pongo2.Must(pongo2.FromString(loginHTML))
	dashboardTpl = pongo2.Must(pongo2.FromString(dashboardHTML))
)

// New creates a fixture LMS with the given options.
func New(opts Options) *Server {
	if opts.Email == "" {
		opts.Email = "staff@example.com"
	}
	if opts.Password == "" {
		opts.Password = "secret"
	}
	if len(opts.SigningKey) == 0 {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("fixture: could not generate signing key: %v", err))
		}
		opts.SigningKey = key
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{opts: opts, engine: engine}

	engine.GET("/heartbeat", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	engine.GET("/login", s.showLogin)
	engine.POST("/login", s.handleLogin)
	engine.GET("/logout", s.handleLogout)
	engine.GET("/dashboard", s.requireSession, s.showDashboard)
	engine.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/login")
	})

	return s
}

// Handler returns the fixture's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Searches returns the queries the dashboard search received, in order.
func (s *Server) Searches() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.searches))
	copy(out, s.searches)
	return out
}

// SearchCount returns how many search submissions the dashboard received.
func (s *Server) SearchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.searches)
}

func (s *Server) showLogin(c *gin.Context) {
	s.renderLogin(c, http.StatusOK, "")
}

func (s *Server) handleLogin(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	if email != s.opts.Email || password != s.opts.Password {
		s.renderLogin(c, http.StatusOK, "Email or password is incorrect.")
		return
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.opts.SigningKey)
	if err != nil {
		c.String(http.StatusInternalServerError, "could not issue session: %v", err)
		return
	}
	c.SetCookie(sessionCookie, signed, 3600, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (s *Server) handleLogout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (s *Server) requireSession(c *gin.Context) {
	raw, err := c.Cookie(sessionCookie)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	_, err = jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.opts.SigningKey, nil
	})
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) showDashboard(c *gin.Context) {
	query := c.Query("search")
	if c.Request.URL.Query().Has("search") {
		s.mu.Lock()
		s.searches = append(s.searches, query)
		s.mu.Unlock()
	}

	courses := s.opts.Courses
	if query != "" {
		filtered := make([]Course, 0, len(courses))
		for _, course := range courses {
			if strings.Contains(strings.ToLower(course.Title), strings.ToLower(query)) {
				filtered = append(filtered, course)
			}
		}
		courses = filtered
	}

	s.render(c, dashboardTpl, pongo2.Context{
		"courses":     courses,
		"query":       query,
		"throw_error": s.opts.ThrowScriptError,
	})
}

func (s *Server) renderLogin(c *gin.Context, code int, errorMsg string) {
	c.Status(code)
	s.render(c, loginTpl, pongo2.Context{"error": errorMsg})
}

func (s *Server) render(c *gin.Context, tpl *pongo2.Template, ctx pongo2.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := tpl.ExecuteWriter(ctx, c.Writer); err != nil {
		c.String(http.StatusInternalServerError, "template error: %v", err)
	}
}
