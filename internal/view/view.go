package view

import (
	"io"

	"github.com/cuihairu/arcadehub/internal/ui"
)

// Adapter draws a ui.Page in one presentation.
type Adapter interface {
	ContentType() string
	Render(w io.Writer, p ui.Page) error
}

// Embedded player attributes. The frame runs third-party content in its own
// origin; these grant it what browser games commonly need and nothing about the host page.
const (
	FrameAllow          = "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; fullscreen"
	FrameSandbox        = "allow-scripts allow-same-origin allow-forms allow-pointer-lock allow-popups"
	FrameReferrerPolicy = "no-referrer"
)

// ContentSecurityPolicy is sent with every HTML page: host scripts from self only, frames from any https origin.
const ContentSecurityPolicy = "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; " +
	"img-src https: data:; frame-src https:; connect-src 'self'; object-src 'none'; base-uri 'self'; frame-ancestors 'self'"
