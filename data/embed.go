package data

import "embed"

var (
	//go:embed zkauth.yaml
	DefaultConfig embed.FS
)
