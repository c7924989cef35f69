package viewline

import "strings"

// PartMetadata holds independent boolean facets of a LinePart.
type PartMetadata uint8

// LinePart metadata flags.
const (
	PartWhitespace PartMetadata = 1 << iota
	PartPseudoBefore
	PartPseudoAfter
)

// Has returns true if the metadata contains all of the given flags.
func (m PartMetadata) Has(flag PartMetadata) bool {
	return m&flag == flag
}

// Sentinel classes produced by the renderer.
const (
	ClassWhitespace      = "mtkw"
	ClassWhitespaceWidth = "mtkz"
	ClassControl         = "mtkcontrol"
	ClassOverflow        = "mtkoverflow"
)

// LinePart is a contiguous styled sub-range of a rendered line ending at
// EndIndex (exclusive). Its start is the previous part's end.
//
// Classes is an ordered list of style identifiers: the token class first,
// decoration classes after it. Class lists are never modified in place.
type LinePart struct {
	EndIndex    int
	Classes     []string
	Metadata    PartMetadata
	ContainsRTL bool
}

// NewLinePart creates a part with a single class. An empty class yields a
// part without classes.
func NewLinePart(endIndex int, class string, metadata PartMetadata, rtl bool) LinePart {
	var classes []string
	if class != "" {
		classes = []string{class}
	}
	return LinePart{EndIndex: endIndex, Classes: classes, Metadata: metadata, ContainsRTL: rtl}
}

// IsWhitespace reports whether the part renders visualized whitespace.
func (p LinePart) IsWhitespace() bool {
	return p.Metadata.Has(PartWhitespace)
}

// IsPseudoAfter reports whether the part carries an After decoration.
func (p LinePart) IsPseudoAfter() bool {
	return p.Metadata.Has(PartPseudoAfter)
}

// ClassName joins the classes with a single space.
func (p LinePart) ClassName() string {
	return strings.Join(p.Classes, " ")
}

// isOnlyWhitespace reports whether the part is a plain visualized
// whitespace part with no decoration classes layered on top.
func (p LinePart) isOnlyWhitespace() bool {
	return len(p.Classes) == 1 && p.Classes[0] == ClassWhitespace
}

// withClasses returns a part covering the same facets with extra classes
// appended to a fresh class list.
func (p LinePart) withClasses(endIndex int, extra []string, metadata PartMetadata) LinePart {
	classes := make([]string, 0, len(p.Classes)+len(extra))
	classes = append(classes, p.Classes...)
	classes = append(classes, extra...)
	return LinePart{
		EndIndex:    endIndex,
		Classes:     classes,
		Metadata:    p.Metadata | metadata,
		ContainsRTL: p.ContainsRTL,
	}
}

// withEnd returns a copy of p ending at endIndex.
func (p LinePart) withEnd(endIndex int) LinePart {
	p.EndIndex = endIndex
	return p
}
