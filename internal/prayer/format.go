package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Format constants for display modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// Phases reported on a status line.
const (
	PhaseUpcoming = "upcoming"
	PhaseIqama    = "iqama"
	PhasePrayer   = "prayer"
)

// Line is a countdown to the next boundary of one prayer.
type Line struct {
	Key         string
	Name        string
	Phase       string
	At          int // minute of day of the boundary
	SecondsLeft int
}

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name      string // Display name, e.g. "Asr"
	ShortName string // Abbreviated name, e.g. "A"
	Phase     string // upcoming, iqama or prayer
	Time      string // Boundary time, e.g. "15:02" or "3:02 PM"
	Remaining string // Time remaining, e.g. "2h 15m"
	Hours     int    // Whole hours remaining
	Minutes   int    // Remaining minutes after hours
	Seconds   int    // Total seconds remaining
}

// FormatOutput formats a status line according to the chosen format mode.
// timeFormat should be "15:04" for 24h or "3:04 PM" for 12h.
//
// If mode contains "{{", it is treated as a custom Go template string.
// Available template fields: .Name, .ShortName, .Phase, .Time, .Remaining,
// .Hours, .Minutes, .Seconds
//
// Example: "{{.Name}} {{.Phase}} in {{.Remaining}}" -> "Asr iqama in 12m"
func FormatOutput(l Line, mode string, timeFormat string) string {
	d := time.Duration(l.SecondsLeft) * time.Second
	remaining := FormatRemaining(d)
	timeStr := FormatClock(l.At, timeFormat)
	short := ShortNames[l.Key]
	if short == "" && l.Name != "" {
		short = l.Name[:1]
	}

	label := l.Name
	if l.Phase != "" && l.Phase != PhaseUpcoming {
		label = l.Name + " " + l.Phase
	}

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, FormatData{
			Name:      l.Name,
			ShortName: short,
			Phase:     l.Phase,
			Time:      timeStr,
			Remaining: remaining,
			Hours:     int(d.Hours()),
			Minutes:   int(d.Minutes()) % 60,
			Seconds:   l.SecondsLeft,
		})
	}

	switch mode {
	case FormatTimeRemaining:
		return remaining
	case FormatNextPrayerTime:
		return timeStr
	case FormatNameAndTime:
		return fmt.Sprintf("%s %s", label, timeStr)
	case FormatNameAndRemaining:
		return fmt.Sprintf("%s %s", label, remaining)
	case FormatShortNameAndTime:
		return fmt.Sprintf("%s %s", short, timeStr)
	case FormatShortNameAndRemain:
		return fmt.Sprintf("%s %s", short, remaining)
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", label, timeStr, remaining)
	default:
		return fmt.Sprintf("%s %s", label, timeStr)
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
