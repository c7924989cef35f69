package linecache

import (
	"math"

	"github.com/dshills/viewline/internal/renderer/viewline"
)

// FNV-1a parameters.
const (
	fnvOffset uint64 = 14695981039346656037
	fnvPrime  uint64 = 1099511628211
)

type hasher uint64

func newHasher() hasher {
	return hasher(fnvOffset)
}

func (h *hasher) writeString(s string) {
	for i := 0; i < len(s); i++ {
		*h = hasher((uint64(*h) ^ uint64(s[i])) * fnvPrime)
	}
	h.writeUint(uint64(len(s)))
}

func (h *hasher) writeUint(v uint64) {
	for i := 0; i < 8; i++ {
		*h = hasher((uint64(*h) ^ (v & 0xff)) * fnvPrime)
		v >>= 8
	}
}

func (h *hasher) writeInt(v int) {
	h.writeUint(uint64(v))
}

func (h *hasher) writeBool(b bool) {
	if b {
		h.writeUint(1)
	} else {
		h.writeUint(0)
	}
}

// hashInput fingerprints everything RenderViewLine reads from the input.
func hashInput(in *viewline.RenderLineInput) uint64 {
	h := newHasher()
	h.writeString(in.LineContent)

	if in.LineTokens != nil {
		n := in.LineTokens.Count()
		h.writeInt(n)
		for i := 0; i < n; i++ {
			h.writeInt(in.LineTokens.EndOffset(i))
			h.writeString(in.LineTokens.ClassName(i))
		}
	}

	h.writeInt(len(in.LineDecorations))
	for _, d := range in.LineDecorations {
		h.writeInt(d.StartColumn)
		h.writeInt(d.EndColumn)
		h.writeString(d.ClassName)
		h.writeInt(int(d.Type))
	}

	h.writeInt(len(in.SelectionsOnLine))
	for _, s := range in.SelectionsOnLine {
		h.writeInt(s.Start)
		h.writeInt(s.End)
	}

	h.writeBool(in.UseMonospaceOptimizations)
	h.writeBool(in.CanUseHalfwidthRightwardsArrow)
	h.writeBool(in.ContinuesWithWrappedLine)
	h.writeBool(in.IsBasicASCII)
	h.writeBool(in.ContainsRTL)
	h.writeBool(in.RenderControlCharacters)
	h.writeBool(in.FontLigatures)
	h.writeBool(in.RenderNewLineWhenEmpty)
	h.writeInt(in.FauxIndentLength)
	h.writeInt(in.TabSize)
	h.writeInt(in.StartVisibleColumn)
	h.writeInt(in.StopRenderingLineAfter)
	h.writeInt(int(in.RenderWhitespace))
	h.writeInt(int(in.TextDirection))
	h.writeUint(math.Float64bits(in.SpaceWidth))
	h.writeUint(math.Float64bits(in.MiddotWidth))
	h.writeUint(math.Float64bits(in.WSMiddotWidth))
	return uint64(h)
}
