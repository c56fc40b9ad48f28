package config

import (
	"bufio"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// ConfFilename is the per-project configuration file. It is discovered
// by walking up from the working directory, so the harness can be
// invoked from anywhere inside a project tree.
const ConfFilename = "derex.config.yaml"

// Config holds all configuration for the E2E harness.
type Config struct {
	LMSURL       string
	UserEmail    string
	UserPassword string
	Headless     bool
	SlowMo       time.Duration
	Timeout      time.Duration
	Screenshots  bool
	ArtifactsDir string
}

var loadOnce sync.Once

// loadDotEnv loads simple KEY=VALUE lines from .env if present.
// Existing environment variables take precedence and are not overwritten.
func loadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") { // skip comments/empty
				continue
			}
			i := strings.Index(line, "=")
			if i <= 0 {
				continue
			}
			key := strings.TrimSpace(line[:i])
			val := strings.TrimSpace(line[i+1:])
			if key == "" || val == "" {
				continue
			}
			// Strip optional surrounding quotes
			if (strings.HasPrefix(val, "\"") && strings.HasSuffix(val, "\"")) || (strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'")) {
				val = val[1 : len(val)-1]
			}
			if os.Getenv(key) == "" { // don't override existing
				_ = os.Setenv(key, val)
			}
		}
		_ = f.Close()
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("lms_url", "http://localhost:8000")
	v.SetDefault("user_email", "")
	v.SetDefault("user_password", "")
	v.SetDefault("headless", true)
	v.SetDefault("slow_mo", 0)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("screenshots", true)
	v.SetDefault("artifacts_dir", "./test-results")

	_ = v.BindEnv("lms_url", "LMS_URL")
	_ = v.BindEnv("user_email", "DEREX_USER_EMAIL")
	_ = v.BindEnv("user_password", "DEREX_USER_PASSWORD")
	_ = v.BindEnv("headless", "HEADLESS")
	_ = v.BindEnv("slow_mo", "SLOW_MO")
	_ = v.BindEnv("timeout", "E2E_TIMEOUT")
	_ = v.BindEnv("screenshots", "SCREENSHOTS")
	_ = v.BindEnv("artifacts_dir", "ARTIFACTS_DIR")
	return v
}

// Get returns the harness configuration. Environment variables win over
// the project config file, which wins over defaults.
func Get() *Config {
	loadOnce.Do(func() { loadDotEnv() })

	v := newViper()
	if wd, err := os.Getwd(); err == nil {
		if root, ok := FindProjectRoot(wd); ok {
			v.SetConfigFile(filepath.Join(root, ConfFilename))
			if err := v.ReadInConfig(); err != nil {
				log.Printf("[config] ignoring unreadable %s: %v", ConfFilename, err)
			}
		}
	}

	return &Config{
		LMSURL:       strings.TrimRight(v.GetString("lms_url"), "/"),
		UserEmail:    v.GetString("user_email"),
		UserPassword: v.GetString("user_password"),
		Headless:     v.GetBool("headless"),
		SlowMo:       time.Duration(v.GetInt("slow_mo")) * time.Millisecond,
		Timeout:      v.GetDuration("timeout"),
		Screenshots:  v.GetBool("screenshots"),
		ArtifactsDir: v.GetString("artifacts_dir"),
	}
}

// FindProjectRoot walks up the filesystem from the given path until a
// directory containing a derex.config.yaml is found.
func FindProjectRoot(path string) (string, bool) {
	current := filepath.Clean(path)
	for {
		if _, err := os.Stat(filepath.Join(current, ConfFilename)); err == nil {
			return current, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// Reachable reports whether the LMS at base answers on its TCP port and
// responds to a quick heartbeat or login probe.
func Reachable(base string) bool {
	u, err := url.Parse(base)
	if err != nil {
		return false
	}
	host := u.Host
	if !strings.Contains(host, ":") {
		host += ":80"
	}
	d := net.Dialer{Timeout: 250 * time.Millisecond}
	conn, err := d.Dial("tcp", host)
	if err != nil {
		return false
	}
	_ = conn.Close()
	client := &http.Client{Timeout: 800 * time.Millisecond}
	for _, path := range []string{"/heartbeat", "/login"} {
		req, _ := http.NewRequest("GET", base+path, nil)
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			return true
		}
	}
	return false
}
