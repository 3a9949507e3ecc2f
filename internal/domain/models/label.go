package models

import "strings"

// Label is the closed set of qualitative labels shown next to a value.
type Label int

const (
	LabelStable Label = iota
	LabelSteady
	LabelExplosive
	LabelHype
	LabelNervous
	LabelEmergency
	LabelBottleneck
	LabelCautious
	LabelBullish
)

// DefaultLabel is used for any input that maps to nothing else.
const DefaultLabel = LabelStable

// AllLabels lists every label in declaration order.
var AllLabels = []Label{
	LabelStable, LabelSteady, LabelExplosive, LabelHype, LabelNervous,
	LabelEmergency, LabelBottleneck, LabelCautious, LabelBullish,
}

func (l Label) String() string {
	switch l {
	case LabelStable:
		return "Stable"
	case LabelSteady:
		return "Steady"
	case LabelExplosive:
		return "Explosive"
	case LabelHype:
		return "Hype"
	case LabelNervous:
		return "Nervous"
	case LabelEmergency:
		return "Emergency"
	case LabelBottleneck:
		return "Bottleneck"
	case LabelCautious:
		return "Cautious"
	case LabelBullish:
		return "Bullish"
	default:
		return DefaultLabel.String()
	}
}

// MarshalText renders the label by name.
func (l Label) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText accepts any label name; unknown names become DefaultLabel.
func (l *Label) UnmarshalText(b []byte) error {
	*l, _ = ParseLabel(string(b))
	return nil
}

var labelsByName = func() map[string]Label {
	m := make(map[string]Label, len(AllLabels))
	for _, l := range AllLabels {
		m[strings.ToLower(l.String())] = l
	}
	return m
}()

// ParseLabel matches s against the label names, ignoring case and
// surrounding space. ok is false when nothing matches.
func ParseLabel(s string) (l Label, ok bool) {
	l, ok = labelsByName[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return DefaultLabel, false
	}
	return l, true
}

// Tone groups labels for styling.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNeutral  Tone = "neutral"
	ToneWarning  Tone = "warning"
	ToneCritical Tone = "critical"
)

// RenderHint is the presentation hint attached to a label.
type RenderHint struct {
	Tone  Tone   `json:"tone"`
	Color string `json:"color"`
}

// Hint returns the render hint for l.
func (l Label) Hint() RenderHint {
	switch l {
	case LabelExplosive:
		return RenderHint{Tone: TonePositive, Color: "#00c853"}
	case LabelHype:
		return RenderHint{Tone: TonePositive, Color: "#64dd17"}
	case LabelBullish:
		return RenderHint{Tone: TonePositive, Color: "#2e7d32"}
	case LabelSteady:
		return RenderHint{Tone: ToneNeutral, Color: "#1e88e5"}
	case LabelStable:
		return RenderHint{Tone: ToneNeutral, Color: "#90a4ae"}
	case LabelCautious:
		return RenderHint{Tone: ToneWarning, Color: "#fbc02d"}
	case LabelNervous:
		return RenderHint{Tone: ToneWarning, Color: "#ff9800"}
	case LabelBottleneck:
		return RenderHint{Tone: ToneWarning, Color: "#8d6e63"}
	case LabelEmergency:
		return RenderHint{Tone: ToneCritical, Color: "#d50000"}
	default:
		return DefaultLabel.Hint()
	}
}
