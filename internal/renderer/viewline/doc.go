// Package viewline renders one line of text into styled segments and a
// character mapping between line columns and rendered positions.
//
// Rendering runs a fixed pipeline over LinePart sequences:
//
//	token runs ──► overflow / faux indent ──► control characters
//	           ──► whitespace ──► inline decorations ──► long-token split
//	           ──► emission (segments + CharacterMapping)
//
// Each pass returns a new sequence. Emission is a single forward scan
// writing segment text and mapping entries together.
//
// Usage:
//
//	basicASCII, rtl := viewline.DetectLineHints(text)
//	out := viewline.RenderViewLine(&viewline.RenderLineInput{
//		LineContent:            text,
//		IsBasicASCII:           basicASCII,
//		ContainsRTL:            rtl,
//		LineTokens:             viewline.SingleToken(len([]rune(text)), "mtk1"),
//		TabSize:                4,
//		SpaceWidth:             7,
//		MiddotWidth:            7,
//		WSMiddotWidth:          7,
//		StopRenderingLineAfter: viewline.NoStopRendering,
//	})
//	col := out.CharacterMapping.Column(pos, partLength)
//
// RenderViewLine holds no shared state and may run concurrently for
// different lines.
package viewline
