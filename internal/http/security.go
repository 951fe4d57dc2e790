package http

import (
	"fmt"
	"net"
	"strings"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	applog "github.com/xRahul/wedding-planner-app-sub001/internal/log"
)

// HeadersConfig holds the security headers sent with every response.
type HeadersConfig struct {
	CSP string

	// HSTS is only sent over TLS.
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool

	XFrameOptions       string
	XSSProtection       string
	ReferrerPolicy      string
	PermissionsPolicy   string
	CrossOriginOpener   string
	CrossOriginResource string
}

// DefaultHeadersConfig returns defaults for a JSON-only API.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		CSP:                   "default-src 'none'; frame-ancestors 'none'; base-uri 'none'",
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
		HSTSPreload:           true,
		XFrameOptions:         "DENY",
		XSSProtection:         "1; mode=block",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=(), payment=()",
		CrossOriginOpener:     "same-origin",
		CrossOriginResource:   "same-origin",
	}
}

// securityHeaders applies cfg through echo's Secure middleware plus the
// headers it does not know about.
func securityHeaders(cfg HeadersConfig) echo.MiddlewareFunc {
	secure := middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         cfg.XSSProtection,
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         cfg.XFrameOptions,
		HSTSMaxAge:            cfg.HSTSMaxAge,
		HSTSExcludeSubdomains: !cfg.HSTSIncludeSubdomains,
		HSTSPreloadEnabled:    cfg.HSTSPreload,
		ContentSecurityPolicy: cfg.CSP,
		ReferrerPolicy:        cfg.ReferrerPolicy,
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := secure(next)
		return func(c echo.Context) error {
			headers := c.Response().Header()
			headers.Set("Permissions-Policy", cfg.PermissionsPolicy)
			headers.Set("Cross-Origin-Opener-Policy", cfg.CrossOriginOpener)
			headers.Set("Cross-Origin-Resource-Policy", cfg.CrossOriginResource)
			return h(c)
		}
	}
}

// trustedProxies defines networks that are trusted to set forwarding headers.
var trustedProxies = []*net.IPNet{
	parsecidr("127.0.0.0/8"),    // localhost
	parsecidr("10.0.0.0/8"),     // private networks
	parsecidr("172.16.0.0/12"),  // private networks
	parsecidr("192.168.0.0/16"), // private networks
}

// parsecidr is a helper to parse CIDR during initialization.
func parsecidr(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("failed to parse trusted proxy CIDR %s: %v", cidr, err))
	}
	return network
}

// clientIPExtractor trusts X-Forwarded-For only when it was set by one of
// trustedProxies.
func clientIPExtractor() echo.IPExtractor {
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trustedProxies {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

var (
	suspiciousPatterns = []string{
		"../", "..\\", ".env", "wp-admin", "phpmyadmin",
		"admin.php", "config.php", ".git", ".ssh",
		"eval(", "javascript:", "<script", "union select",
		"etc/passwd", "cmd.exe",
	}
	suspiciousAgents = []string{"sqlmap", "nmap", "nikto", "gobuster", "dirb"}
)

// isSuspicious reports scanner-looking requests.
func isSuspicious(c echo.Context) bool {
	req := c.Request()
	path := strings.ToLower(req.URL.Path)
	query := strings.ToLower(req.URL.RawQuery)
	for _, p := range suspiciousPatterns {
		if strings.Contains(path, p) || strings.Contains(query, p) {
			return true
		}
	}
	ua := strings.ToLower(req.UserAgent())
	for _, a := range suspiciousAgents {
		if strings.Contains(ua, a) {
			return true
		}
	}
	switch req.Method {
	case "TRACE", "TRACK", "DEBUG", "CONNECT":
		return true
	}
	return len(req.URL.String()) > 2048
}

// suspiciousRequests logs scanner-looking requests and counts them. They are
// still served; routing turns them into 404s.
func suspiciousRequests(counter *atomic.Int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isSuspicious(c) {
				counter.Add(1)
				applog.FromContext(c.Request().Context()).WithComponent(applog.ComponentHTTP).WarnContext(
					c.Request().Context(), "Suspicious request",
					applog.FieldClientIP, c.RealIP(),
					applog.FieldMethod, c.Request().Method,
					applog.FieldPath, c.Request().URL.Path,
				)
			}
			return next(c)
		}
	}
}
