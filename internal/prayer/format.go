package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Format modes understood by FormatOutput.
const (
	ModeClock         = "clock"           // 03:12:04
	ModeLabelAndClock = "label-and-clock" // İFTARA KALAN VAKİT 03:12:04
	ModeShort         = "short"           // İftar 3sa 12dk
	ModeFull          = "full"            // İFTARA KALAN VAKİT 03:12:04 (Yarının Sahuru: 05:28)
)

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Label     string  // "İFTARA KALAN VAKİT"
	Short     string  // "İftar" or "Sahur"
	Clock     string  // "03:12:04"
	Remaining string  // "3sa 12dk"
	Target    string  // "19:45"
	Info      string  // "Yarının Sahuru: 05:28"
	Percent   int     // 0-100
	Progress  float64 // 0-1
	Hours     int
	Minutes   int
	Seconds   int
}

// ShortName returns "İftar" or "Sahur" for the boundary being counted down to.
func (b Boundary) ShortName() string {
	switch b.Phase {
	case PhaseFasting:
		return "İftar"
	case PhasePreDawn, PhasePostSunset:
		return "Sahur"
	default:
		return ""
	}
}

// FormatClock formats d as HH:MM:SS. Whole days fold into the hour field and
// negative durations render as 00:00:00.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatRemaining formats a duration as "Xsa Ydk" or "Ydk" under an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0dk"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dsa %ddk", h, m)
	}
	return fmt.Sprintf("%ddk", m)
}

// FormatOutput renders a boundary as a single line for status bars.
//
// If mode contains "{{", it is treated as a custom Go template over FormatData.
//
// Example: "{{.Short}} {{.Clock}}" -> "İftar 03:12:04"
func FormatOutput(b Boundary, mode string) string {
	if b.Phase == PhaseNoData {
		return LabelNoData
	}

	clock := FormatClock(b.Remaining)

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, FormatData{
			Label:     b.Label,
			Short:     b.ShortName(),
			Clock:     clock,
			Remaining: FormatRemaining(b.Remaining),
			Target:    b.Target.Format("15:04"),
			Info:      b.InfoText(),
			Percent:   int(b.Progress * 100),
			Progress:  b.Progress,
			Hours:     int(b.Remaining.Hours()),
			Minutes:   int(b.Remaining.Minutes()) % 60,
			Seconds:   int(b.Remaining.Seconds()) % 60,
		})
	}

	switch mode {
	case ModeClock:
		return clock
	case ModeShort:
		return fmt.Sprintf("%s %s", b.ShortName(), FormatRemaining(b.Remaining))
	case ModeFull:
		if info := b.InfoText(); info != "" {
			return fmt.Sprintf("%s %s (%s)", b.Label, clock, info)
		}
		return fmt.Sprintf("%s %s", b.Label, clock)
	default:
		return fmt.Sprintf("%s %s", b.Label, clock)
	}
}

// formatCustom executes a user-provided Go template string against the FormatData.
func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}
