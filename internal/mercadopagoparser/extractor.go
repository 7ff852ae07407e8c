package mercadopagoparser

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// PDFExtractor turns PDF bytes into plain text.
type PDFExtractor interface {
	ExtractText(ctx context.Context, content []byte) (string, error)
}

// PdftotextExtractor shells out to poppler's pdftotext in layout mode.
type PdftotextExtractor struct {
	// Path is the pdftotext binary; empty means "pdftotext" on $PATH.
	Path string
}

// NewPdftotextExtractor returns an extractor using the given binary.
func NewPdftotextExtractor(path string) *PdftotextExtractor {
	return &PdftotextExtractor{Path: path}
}

// ExtractText writes content to a temporary file and returns pdftotext's output.
func (e *PdftotextExtractor) ExtractText(ctx context.Context, content []byte) (string, error) {
	bin := e.Path
	if bin == "" {
		bin = "pdftotext"
	}

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return "", fmt.Errorf("error creating temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("error writing temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("error closing temporary file: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-layout", "-enc", "UTF-8", tmp.Name(), "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running pdftotext: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.String(), nil
}

// MockPDFExtractor returns canned text, for tests.
type MockPDFExtractor struct {
	Text string
	Err  error
	// Calls counts ExtractText invocations.
	Calls int
}

// NewMockPDFExtractor returns an extractor that yields text or err.
func NewMockPDFExtractor(text string, err error) *MockPDFExtractor {
	return &MockPDFExtractor{Text: text, Err: err}
}

func (m *MockPDFExtractor) ExtractText(_ context.Context, _ []byte) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}
