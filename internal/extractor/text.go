package extractor

import (
	"bytes"
	"fmt"
	"os/exec"
)

// TextExtractor pulls the text layer out of a PDF file.
type TextExtractor interface {
	ExtractText(pdfPath string) (string, error)
}

// PdftotextExtractor runs poppler's pdftotext, which must be on PATH.
type PdftotextExtractor struct {
	// Binary defaults to "pdftotext".
	Binary string
}

// NewPdftotextExtractor returns an extractor using the pdftotext on PATH.
func NewPdftotextExtractor() *PdftotextExtractor {
	return &PdftotextExtractor{Binary: "pdftotext"}
}

// ExtractText runs pdftotext in layout mode and returns its output.
func (e *PdftotextExtractor) ExtractText(pdfPath string) (string, error) {
	bin := e.Binary
	if bin == "" {
		bin = "pdftotext"
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(bin, "-layout", pdfPath, "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running pdftotext: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.String(), nil
}
