package main

import (
	"embed"
	"io/fs"
)

// embeddedAssetsRaw holds the frontend bundle `build` copies into
// embedded_assets/ before compiling, so the production krema binary serves
// its UI from an embedded asset map (spec §2 "Webview host") rather than
// reading loose files beside itself. A placeholder file ships in source
// control so the embed directive is always satisfiable before the first
// `krema build` populates the directory for real.
//
//go:embed all:embedded_assets
var embeddedAssetsRaw embed.FS

// embeddedAssetsFS returns the embedded bundle rooted at its contents,
// stripping the embedded_assets/ directory prefix embed.FS otherwise keeps.
func embeddedAssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssetsRaw, "embedded_assets")
	if err != nil {
		return embeddedAssetsRaw
	}
	return sub
}
