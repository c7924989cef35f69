package viewline

import (
	"strconv"
	"strings"
)

// ForeignElementType flags non-text elements inserted into a line.
type ForeignElementType uint8

// Foreign element flags.
const (
	ForeignElementNone   ForeignElementType = 0
	ForeignElementBefore ForeignElementType = 1 << 0
	ForeignElementAfter  ForeignElementType = 1 << 1
)

// Segment is one rendered span. Text is markup-safe: '<', '>' and '&'
// are already escaped.
type Segment struct {
	Classes []string
	// Isolate requests bidi isolation for a part containing RTL text.
	Isolate bool
	// Width is an explicit pixel width, meaningful when HasWidth is set.
	Width    float64
	HasWidth bool
	Text     string
}

// ClassName joins the classes with a single space.
func (s Segment) ClassName() string {
	return strings.Join(s.Classes, " ")
}

// RenderLineOutput is the result of rendering one line.
type RenderLineOutput struct {
	CharacterMapping *CharacterMapping
	Segments         []Segment
	// Dir is the wrapper's direction attribute, empty when unset.
	Dir                     string
	ContainsRTL             bool
	ContainsForeignElements ForeignElementType
	IsOverflowing           bool
	OverflowingCharCount    int
}

// Text returns the concatenated segment text.
func (o *RenderLineOutput) Text() string {
	var sb strings.Builder
	for _, s := range o.Segments {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// HTML serializes the output as nested spans.
func (o *RenderLineOutput) HTML() string {
	var sb strings.Builder
	o.WriteHTML(&sb)
	return sb.String()
}

// WriteHTML appends the span markup for the output to sb.
func (o *RenderLineOutput) WriteHTML(sb *strings.Builder) {
	if o.Dir != "" {
		sb.WriteString(`<span dir="`)
		sb.WriteString(o.Dir)
		sb.WriteString(`">`)
	} else {
		sb.WriteString("<span>")
	}
	for _, s := range o.Segments {
		s.writeHTML(sb)
	}
	sb.WriteString("</span>")
}

func (s Segment) writeHTML(sb *strings.Builder) {
	sb.WriteString("<span")
	if s.Isolate {
		sb.WriteString(` style="unicode-bidi:isolate"`)
	}
	if len(s.Classes) > 0 {
		sb.WriteString(` class="`)
		sb.WriteString(s.ClassName())
		sb.WriteByte('"')
	}
	if s.HasWidth {
		sb.WriteString(` style="width:`)
		sb.WriteString(strconv.FormatFloat(s.Width, 'f', -1, 64))
		sb.WriteString(`px"`)
	}
	sb.WriteByte('>')
	sb.WriteString(s.Text)
	sb.WriteString("</span>")
}
