package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"

	"smartinput/internal/logging"
)

const iconSize = 32

var (
	pinyinColor  = color.RGBA{R: 0xD8, G: 0x3B, B: 0x3B, A: 0xFF}
	englishColor = color.RGBA{R: 0x2B, G: 0x6C, B: 0xD4, A: 0xFF}
)

// loadIcon reads a PNG icon file, falling back to a drawn icon in the given
// color when the path is empty or unreadable.
func loadIcon(path string, fallback color.RGBA, log *logging.Logger) []byte {
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if _, err := png.DecodeConfig(bytes.NewReader(data)); err == nil {
				return data
			}
			log.Warn("icon file is not a valid PNG, using fallback", "path", path)
		} else {
			log.Warn("icon file unreadable, using fallback", "path", path, "error", err)
		}
	}
	return drawIcon(fallback)
}

// drawIcon renders a filled square with a white inner band, enough to tell
// the two modes apart at tray size.
func drawIcon(c color.RGBA) []byte {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			switch {
			case y >= iconSize*3/8 && y < iconSize*5/8 && x >= iconSize/8 && x < iconSize*7/8:
				img.SetRGBA(x, y, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF})
			default:
				img.SetRGBA(x, y, c)
			}
		}
	}

	var buf bytes.Buffer
	// Encoding an in-memory RGBA image cannot fail.
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
