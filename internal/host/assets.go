// Package host implements the webview host (spec §4.2): window+webview
// creation per platform, asset serving, and the dev-mode proxy.
//
// Production asset serving runs a gin.Engine bound to an OS-assigned
// loopback port rather than a bare net/http.ServeMux — grounded in the
// teacher's pervasive use of gin for every HTTP surface (api/cmd/main.go,
// internal/handlers/*). The webview is pointed at this loopback server
// instead of a file:// URL so relative asset paths and dev/prod parity both
// work the same way the teacher's own console/proxy handlers do.
package host

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/krema-build/krema/internal/errors"
	"github.com/krema-build/krema/internal/logger"
	"github.com/microcosm-cc/bluemonday"
)

// AssetServer serves the embedded frontend bundle in production, or
// reverse-proxies to the configured dev server in dev mode.
type AssetServer struct {
	engine   *gin.Engine
	server   *http.Server
	listener net.Listener
	sanitize *bluemonday.Policy
}

// NewProductionAssetServer serves files out of assetFS at "/", listening on
// port (0 picks any free port, the CLI's --port default).
func NewProductionAssetServer(assetFS fs.FS, port int) (*AssetServer, error) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.StaticFS("/", http.FS(assetFS))

	return newAssetServer(engine, port)
}

// NewDevProxyAssetServer reverse-proxies every request to devURL (the
// configured build.frontend_dev_url), the spec's "Dev mode reverse-proxies
// to the configured frontend_dev_url" behavior (SPEC_FULL.md §4.2a). port
// is the CLI's --port flag (0 picks any free port).
func NewDevProxyAssetServer(devURL string, port int) (*AssetServer, error) {
	target, err := url.Parse(devURL)
	if err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid, "invalid frontend_dev_url", err)
	}

	gin.SetMode(gin.DebugMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	proxy := httputil.NewSingleHostReverseProxy(target)
	engine.NoRoute(func(c *gin.Context) {
		proxy.ServeHTTP(c.Writer, c.Request)
	})

	return newAssetServer(engine, port)
}

func newAssetServer(engine *gin.Engine, port int) (*AssetServer, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, errors.Wrap(errors.IO, "bind asset server", err)
	}

	srv := &http.Server{Handler: engine}
	as := &AssetServer{
		engine:   engine,
		server:   srv,
		listener: listener,
		sanitize: bluemonday.UGCPolicy(),
	}

	go func() {
		if err := srv.Serve(listener); err != nil && !strings.Contains(err.Error(), "use of closed network connection") && !strings.Contains(err.Error(), "http: Server closed") {
			logger.Named("host.assets").Error().Err(err).Msg("asset server stopped")
		}
	}()

	return as, nil
}

// Addr returns the loopback URL the webview should be pointed at.
func (a *AssetServer) Addr() string {
	return fmt.Sprintf("http://%s", a.listener.Addr().String())
}

// SanitizeHTML runs raw through bluemonday's UGC policy before it's handed
// to the webview via load-html, closing the script-injection path a
// handler that builds HTML from untrusted data would otherwise open
// (SPEC_FULL.md §4.2a).
func (a *AssetServer) SanitizeHTML(raw string) string {
	return a.sanitize.Sanitize(raw)
}

// Shutdown stops the asset server.
func (a *AssetServer) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return a.server.Shutdown(shutdownCtx)
}
