// Package mapdata provides the built-in maps, embedded as JSON, and turns
// them into renderable scenes.
package mapdata

import "embed"

// dataFS embeds the map definitions at build time.
//
//go:embed *.json
var dataFS embed.FS
