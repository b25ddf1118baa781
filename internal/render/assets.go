package render

import (
	"embed"
	"io/fs"
)

//go:embed assets
var _assetsRaw embed.FS

// Assets holds the stylesheet and script referenced by every page.
var Assets, _ = fs.Sub(_assetsRaw, "assets")

// AssetNames lists the built-in assets in write order.
var AssetNames = []string{"style.css", "main.js"}
