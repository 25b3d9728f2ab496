// Package ui embeds the templates served by cmd/web.
package ui

import "embed"

//go:embed templates
var Files embed.FS
