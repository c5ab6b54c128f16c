package qr

import (
	"fmt"
	"io"
	"os"

	"github.com/mdp/qrterminal"
	rscqr "rsc.io/qr"
)

// Renderer displays a string as a scannable QR code.
type Renderer interface {
	Render(text string) error
}

// TerminalRenderer draws QR codes as text blocks on a terminal.
type TerminalRenderer struct {
	writer io.Writer
}

func NewTerminalRenderer(writer io.Writer) *TerminalRenderer {
	return &TerminalRenderer{
		writer: writer,
	}
}

func (r *TerminalRenderer) Render(text string) error {
	qrterminal.Generate(text, qrterminal.M, r.writer)
	return nil
}

// PNGRenderer writes QR codes to a PNG file.
type PNGRenderer struct {
	path  string
	scale int
}

// NewPNGRenderer creates a renderer writing to the given path with each module drawn
// as a scale x scale block of pixels.
func NewPNGRenderer(path string, scale int) *PNGRenderer {
	return &PNGRenderer{
		path:  path,
		scale: scale,
	}
}

func (r *PNGRenderer) Render(text string) error {
	code, err := rscqr.Encode(text, rscqr.M)
	if err != nil {
		return fmt.Errorf("failed to encode QR code: %w", err)
	}

	if r.scale > 0 {
		code.Scale = r.scale
	}

	if err := os.WriteFile(r.path, code.PNG(), 0o644); err != nil {
		return fmt.Errorf("failed to write QR code to '%s': %w", r.path, err)
	}

	return nil
}
