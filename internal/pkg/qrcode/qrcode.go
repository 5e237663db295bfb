package qrcode

import (
	"encoding/base64"
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

const DefaultSize = 400

// Generator renders QR codes as PNG data URLs.
type Generator struct {
	size  int
	level goqrcode.RecoveryLevel
}

func NewGenerator(size int) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	return &Generator{
		size:  size,
		level: goqrcode.Medium,
	}
}

// DataURL encodes content as a "data:image/png;base64," URL.
func (g *Generator) DataURL(content string) (string, error) {
	q, err := goqrcode.New(content, g.level)
	if err != nil {
		return "", fmt.Errorf("failed to build qr code: %w", err)
	}

	png, err := q.PNG(g.size)
	if err != nil {
		return "", fmt.Errorf("failed to render qr code: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
