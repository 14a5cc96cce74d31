package web

import (
	"embed"
)

// staticFiles holds the job form page and its assets.
//
//go:embed static/*
var staticFiles embed.FS
