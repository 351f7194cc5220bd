package ssoauth

import (
	"context"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/krema-build/krema/internal/capability/shell"
)

// newLoopbackCallbackServer serves a single GET /callback route on an
// already-bound loopback listener, mirroring host/assets.go's gin-backed
// loopback server rather than a bare net/http.ServeMux — every HTTP
// surface in this codebase goes through gin. The caller owns closing it
// once the callback fires (or the login attempt times out).
func newLoopbackCallbackServer(listener net.Listener, handle gin.HandlerFunc) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.GET("/callback", handle)
	engine.POST("/callback", handle) // SAML POST binding delivers the assertion this way

	srv := &http.Server{Handler: engine}
	go srv.Serve(listener)
	return srv
}

// browserOpen launches the system browser at url via the shell capability,
// the same mechanism a handler reaches for shell:open commands — ssoauth
// just calls it directly instead of going through the bridge.
func browserOpen(ctx context.Context, url string) error {
	return shell.Open(ctx, url)
}
