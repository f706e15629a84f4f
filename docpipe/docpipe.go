// Package docpipe loads survey draft documents and returns their plain-text
// content.
//
// Supported formats:
//   - .txt  — plain text (undecodable bytes dropped, never an error)
//   - .docx — Microsoft Word (archive/zip → word/document.xml paragraphs)
//   - .pdf  — PDF text extraction via pdfcpu (page-wise)
//
// Whatever the source format, the output is one text blob with newline
// separators; the segmenter depends on that contract, not on extraction
// fidelity.
package docpipe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Pipeline is the document loading engine.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// Detect returns the draft format based on file extension.
func (p *Pipeline) Detect(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt":
		return FormatTXT, nil
	case ".docx":
		return FormatDocx, nil
	case ".pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Load reads a draft file and returns its full text content.
func (p *Pipeline) Load(ctx context.Context, path string) (*Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := p.Detect(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > p.cfg.MaxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), p.cfg.MaxFileSize)
	}

	p.logger.Debug("loading draft", "path", path, "format", format)

	var text string
	switch format {
	case FormatTXT:
		text, err = readText(path)
	case FormatDocx:
		text, err = readDocx(path)
	case FormatPDF:
		text, err = readPDF(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s (%s): %v", ErrDocumentRead, path, format, err)
	}

	return &Draft{
		Path:   path,
		Format: format,
		Text:   text,
	}, nil
}

// SupportedFormats returns all supported draft extensions.
func SupportedFormats() []string {
	return []string{"txt", "docx", "pdf"}
}
