package display

import (
	"strings"
)

// Row states on the board.
const (
	RowPassed  = "passed"
	RowCurrent = "current"
	RowNext    = "next"
)

// BoardPrayer is one line of the day's timetable.
type BoardPrayer struct {
	Name  string `json:"name"`
	Adhan string `json:"adhan"`
	Iqama string `json:"iqama"`
	Ends  string `json:"ends"`
	State string `json:"state,omitempty"`
}

// BoardView is everything the masjid screen shows at one instant, already
// formatted.
type BoardView struct {
	Name  string `json:"name,omitempty"`
	Date  string `json:"date"`
	Hijri string `json:"hijri,omitempty"`
	Clock string `json:"clock"`
	// Status is the masjid status kind, used to color StatusLine.
	Status     string        `json:"status"`
	StatusLine string        `json:"status_line,omitempty"`
	Prayers    []BoardPrayer `json:"prayers"`
	Events     []string      `json:"events,omitempty"`
	Notices    []string      `json:"notices,omitempty"`
	Reminder   string        `json:"reminder,omitempty"`
}

// RenderBoard draws v as blank-line separated sections: heading, timetable
// and, when there are any, events, notices and the reminder.
func RenderBoard(v BoardView) string {
	var sections []string

	var head strings.Builder
	if v.Name != "" {
		head.WriteString("  " + Bold(v.Name) + "\n")
	}
	date := v.Date
	if v.Hijri != "" {
		date += " · " + v.Hijri
	}
	head.WriteString("  " + date + "\n")
	clock := "  " + Bold(v.Clock)
	if v.StatusLine != "" {
		clock += "  " + Phase(v.Status, v.StatusLine)
	}
	head.WriteString(clock + "\n")
	sections = append(sections, head.String())

	if len(v.Prayers) > 0 {
		sections = append(sections, timetable(v.Prayers).Render())
	}

	var extra strings.Builder
	if len(v.Events) > 0 {
		extra.WriteString("  " + Cyan("Events:") + " " + strings.Join(v.Events, ", ") + "\n")
	}
	for _, n := range v.Notices {
		extra.WriteString("  " + Cyan("Notice:") + " " + n + "\n")
	}
	if v.Reminder != "" {
		extra.WriteString("  " + Cyan("Reminder:") + " " + v.Reminder + "\n")
	}
	if extra.Len() > 0 {
		sections = append(sections, extra.String())
	}

	return strings.Join(sections, "\n")
}

func timetable(prayers []BoardPrayer) *Table {
	tbl := NewTable("Prayer", "Adhan", "Iqama", "Ends")
	current := false
	for _, p := range prayers {
		if p.State == RowCurrent {
			current = true
		}
	}
	for i, p := range prayers {
		tbl.AddRow(p.Name, p.Adhan, p.Iqama, p.Ends)
		switch {
		case p.State == RowCurrent:
			tbl.Highlight(i)
		case p.State == RowNext && !current:
			tbl.Highlight(i)
		case p.State == RowPassed:
			tbl.Mute(i)
		}
	}
	return tbl
}
