// Package theme provides the embedded board theme and utilities for loading it.
package theme

import "embed"

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
