package display

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

func assertGolden(t *testing.T, name, got string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(got))
}

func TestRenderBoard_Full(t *testing.T) {
	SetEnabled(false)

	v := BoardView{
		Name:       "Masjid An-Nur",
		Date:       "Saturday 01 March 2025",
		Hijri:      "1 Ramadan 1446 AH",
		Clock:      "05:16",
		Status:     "clock",
		StatusLine: "Fajr iqama in 4m",
		Prayers: []BoardPrayer{
			{Name: "Fajr", Adhan: "05:00", Iqama: "05:20", Ends: "05:28", State: RowCurrent},
			{Name: "Sunrise", Adhan: "06:20", Iqama: "06:20", Ends: "06:28"},
			{Name: "Dhuhr", Adhan: "12:10", Iqama: "12:25", Ends: "12:33"},
			{Name: "Asr", Adhan: "15:30", Iqama: "15:45", Ends: "15:53"},
			{Name: "Maghrib", Adhan: "18:05", Iqama: "18:15", Ends: "18:23"},
			{Name: "Isha", Adhan: "19:35", Iqama: "19:50", Ends: "19:58"},
		},
		Events:   []string{"RAMADAN"},
		Notices:  []string{"Tafsir circle"},
		Reminder: "The strong believer is better.",
	}

	assertGolden(t, "board_full", RenderBoard(v))
}

func TestRenderBoard_Minimal(t *testing.T) {
	SetEnabled(false)

	v := BoardView{
		Date:  "Thursday 15 October 2026",
		Clock: "21:00",
		Prayers: []BoardPrayer{
			{Name: "Fajr", Adhan: "05:00", Iqama: "05:20", Ends: "05:28", State: RowNext},
		},
	}

	assertGolden(t, "board_minimal", RenderBoard(v))
}

func TestRenderBoard_HighlightsCurrentOverNext(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	v := BoardView{
		Date:  "d",
		Clock: "c",
		Prayers: []BoardPrayer{
			{Name: "Fajr", Adhan: "05:00", Iqama: "05:20", State: RowPassed},
			{Name: "Dhuhr", Adhan: "12:00", Iqama: "12:10", State: RowCurrent},
			{Name: "Asr", Adhan: "15:30", Iqama: "15:45", Ends: "15:53", State: RowNext},
		},
	}

	var fajr, dhuhr, asr string
	for _, line := range strings.Split(RenderBoard(v), "\n") {
		switch {
		case strings.Contains(line, "Fajr"):
			fajr = line
		case strings.Contains(line, "Dhuhr"):
			dhuhr = line
		case strings.Contains(line, "Asr"):
			asr = line
		}
	}
	if !strings.Contains(fajr, fgGray) {
		t.Errorf("passed row = %q, want gray", fajr)
	}
	if !strings.Contains(dhuhr, bold+cyan) {
		t.Errorf("current row = %q, want accent", dhuhr)
	}
	if strings.Contains(asr, "\033[") {
		t.Errorf("next row = %q, want plain while a prayer is current", asr)
	}
}

func TestRenderBoard_StatusColor(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	got := RenderBoard(BoardView{Date: "d", Clock: "c", Status: "prayer", StatusLine: "Fajr"})
	if !strings.Contains(got, red+"Fajr"+reset) {
		t.Errorf("status line not colored for prayer:\n%q", got)
	}
}
