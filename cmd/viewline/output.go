package main

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/viewline/internal/logging"
	"github.com/dshills/viewline/internal/renderer/layout"
	"github.com/dshills/viewline/internal/renderer/linecache"
	"github.com/dshills/viewline/internal/renderer/viewline"
)

// writeHTML renders every line of doc and writes one view-line div per
// rendered row. Wrapped lines produce one div per row.
func writeHTML(ctx context.Context, w io.Writer, doc *linecache.Document, engine *layout.WrapEngine) error {
	var sb strings.Builder
	if engine != nil && engine.WrapWidth() > 0 {
		rows := 0
		for line := range doc.LineCount() {
			if err := ctx.Err(); err != nil {
				return err
			}
			for _, in := range doc.WrappedRowInputs(uint32(line), engine) {
				writeViewLine(&sb, viewline.RenderViewLine(in))
				rows++
			}
		}
		logging.FromContext(ctx).Debug("rendered wrapped",
			zap.Int("lines", doc.LineCount()),
			zap.Int("rows", rows),
			zap.Int("wrapColumn", engine.WrapWidth()))
	} else {
		cache := linecache.New(linecache.DefaultConfig())
		view := linecache.NewViewport(cache, doc.LineCount())
		for _, row := range view.RenderVisible(doc) {
			if err := ctx.Err(); err != nil {
				return err
			}
			writeViewLine(&sb, row.Output)
		}
		stats := cache.Stats()
		logging.FromContext(ctx).Debug("rendered",
			zap.Int("lines", doc.LineCount()),
			zap.Int("cached", stats.Size))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeViewLine(sb *strings.Builder, out *viewline.RenderLineOutput) {
	sb.WriteString(`<div class="view-line">`)
	out.WriteHTML(sb)
	sb.WriteString("</div>\n")
}
