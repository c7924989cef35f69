package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/viewline/internal/config"
	"github.com/dshills/viewline/internal/logging"
	"github.com/dshills/viewline/internal/renderer/highlight"
	"github.com/dshills/viewline/internal/renderer/linecache"
	"github.com/dshills/viewline/internal/renderer/viewline"
)

// sampleSize bounds the text used for content-based language detection.
const sampleSize = 4096

// source is a highlighted input file.
type source struct {
	lines       []string
	tokens      []viewline.TokenRuns
	decorations []viewline.InlineDecoration
}

// loadDocument reads the input, highlights it and wraps it in a Document.
func loadDocument(ctx context.Context, cfg *config.Config, opts options, stdin io.Reader) (*linecache.Document, error) {
	src, err := readSource(ctx, cfg, opts, stdin)
	if err != nil {
		return nil, err
	}
	doc := linecache.NewDocument(src.lines, src.tokens, cfg.Template())
	doc.SetDecorations(src.decorations)
	return doc, nil
}

// readSource reads opts.File, or stdin when no file is named, and
// highlights it.
func readSource(ctx context.Context, cfg *config.Config, opts options, stdin io.Reader) (*source, error) {
	l := logging.FromContext(ctx)

	var data []byte
	var err error
	if opts.File == "" || opts.File == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(opts.File)
	}
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	text := string(data)
	src := &source{lines: splitLines(text)}

	sample := text
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}
	h := highlight.DefaultRegistry().Resolve(cfg.Highlight.Language, opts.File, sample)
	src.tokens, err = h.HighlightLines(src.lines)
	if err != nil {
		return nil, fmt.Errorf("highlighting %s: %w", h.Language(), err)
	}
	l.Debug("highlighted",
		zap.String("language", h.Language()),
		zap.Int("lines", len(src.lines)))

	if opts.Find != "" {
		src.decorations = findDecorations(src.lines, opts.Find)
		l.Debug("decorated matches", zap.String("find", opts.Find), zap.Int("matches", len(src.decorations)))
	}
	return src, nil
}

// splitLines splits text on line feeds, dropping carriage returns and
// the empty line after a final newline.
func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// findDecorations returns a decoration for every occurrence of needle.
// Columns are 1-based rune columns.
func findDecorations(lines []string, needle string) []viewline.InlineDecoration {
	n := len([]rune(needle))
	if n == 0 {
		return nil
	}

	var result []viewline.InlineDecoration
	for i, line := range lines {
		rest := line
		column := 1
		for {
			idx := strings.Index(rest, needle)
			if idx < 0 {
				break
			}
			column += len([]rune(rest[:idx]))
			result = append(result, viewline.InlineDecoration{
				Range: viewline.Range{
					StartLine:   i + 1,
					StartColumn: column,
					EndLine:     i + 1,
					EndColumn:   column + n,
				},
				ClassName: highlight.ClassFindMatch,
				Type:      viewline.DecorationRegular,
			})
			column += n
			rest = rest[idx+len(needle):]
		}
	}
	return result
}
