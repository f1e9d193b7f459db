package pdfsource

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Validator performs up-front checks on input files so the batch can
// report a clear reason for skipping a document instead of failing
// mid-extraction.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a Validator with the given size limit.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// Validate checks that path names a readable, well-formed PDF with at
// least one page.
func (v *Validator) Validate(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}
	if v.maxFileSize > 0 && info.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), v.maxFileSize)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}
	if pages == 0 {
		return fmt.Errorf("PDF has no pages: %s", path)
	}
	return nil
}

// IsValidPDF reports whether path passes all validation checks.
func (v *Validator) IsValidPDF(path string) bool {
	return v.Validate(path) == nil
}
