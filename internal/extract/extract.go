// Package extract turns uploaded resume files and pasted job descriptions
// into clean plain text.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	pdf "github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedFormat is returned for files that are not PDF, DOCX or plain text.
	ErrUnsupportedFormat = errors.New("unsupported file format: only pdf, docx and txt are allowed")
	// ErrNoText is returned when a file yields no readable text.
	ErrNoText = errors.New("no readable text found in file")
)

// Format is a supported upload format.
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatText    Format = "txt"
	FormatUnknown Format = ""
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeZip  = "application/zip"
	mimeText = "text/plain"
)

// Error wraps a failure while reading a specific file.
type Error struct {
	Filename string
	Format   Format
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract %s (%s): %v", e.Filename, e.Format, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Detect sniffs the content type of data. The filename extension is only
// consulted when the content is a generic zip container or undetectable.
func Detect(filename string, data []byte) Format {
	mtype := mimetype.Detect(data)
	for m := mtype; m != nil; m = m.Parent() {
		switch {
		case m.Is(mimePDF):
			return FormatPDF
		case m.Is(mimeDOCX):
			return FormatDOCX
		case m.Is(mimeText):
			return FormatText
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if mtype.Is(mimeZip) && ext == ".docx" {
		return FormatDOCX
	}
	return FormatUnknown
}

// FromUpload extracts and cleans the text of an uploaded resume.
func FromUpload(filename string, data []byte) (string, error) {
	format := Detect(filename, data)

	var (
		raw string
		err error
	)
	switch format {
	case FormatPDF:
		raw, err = pdfText(data)
	case FormatDOCX:
		raw, err = docxText(data)
	case FormatText:
		raw, err = plainText(data)
	default:
		return "", ErrUnsupportedFormat
	}
	if err != nil {
		return "", &Error{Filename: filename, Format: format, Cause: err}
	}

	text := CleanText(raw)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return buf.String(), nil
}

func plainText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return strings.ToValidUTF8(string(data), ""), nil
	}
	return string(data), nil
}
