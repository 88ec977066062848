package display

import (
	"strings"
	"testing"
)

func TestTable_EmptyHeaders(t *testing.T) {
	tbl := NewTable()
	if got := tbl.Render(); got != "" {
		t.Errorf("Render() with empty headers = %q, want empty", got)
	}
}

func TestTable_BasicRender(t *testing.T) {
	SetEnabled(false)

	tbl := NewTable("Date", "Fajr", "Isha")
	tbl.AddRow("Sat 01 Mar", "05:06", "19:28")
	tbl.AddRow("Sun 02 Mar", "05:05", "19:29")

	got := tbl.Render()
	want := "" +
		"  Date        Fajr   Isha\n" +
		"  ──────────  ─────  ─────\n" +
		"  Sat 01 Mar  05:06  19:28\n" +
		"  Sun 02 Mar  05:05  19:29\n"
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
}

func TestTable_WideCells(t *testing.T) {
	SetEnabled(false)

	tbl := NewTable("Name", "Time")
	tbl.AddRow("الفجر", "05:00")
	tbl.AddRow("Dhuhr", "12:00")

	lines := strings.Split(strings.TrimSuffix(tbl.Render(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	// Both rows put the time in the same terminal column.
	if !strings.HasSuffix(lines[2], "  05:00") || !strings.HasSuffix(lines[3], "  12:00") {
		t.Errorf("rows not aligned:\n%s\n%s", lines[2], lines[3])
	}
}

func TestTable_HighlightAndMute(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	tbl := NewTable("Prayer", "Time")
	tbl.AddRow("Fajr", "05:00")
	tbl.AddRow("Dhuhr", "12:00")
	tbl.AddRow("Asr", "15:30")
	tbl.Mute(0)
	tbl.Highlight(1)
	tbl.Highlight(7) // out of range is ignored

	lines := strings.Split(tbl.Render(), "\n")
	if !strings.Contains(lines[2], fgGray) {
		t.Errorf("muted row = %q, want gray", lines[2])
	}
	if !strings.Contains(lines[3], bold+cyan) {
		t.Errorf("highlighted row = %q, want accent", lines[3])
	}
	if strings.Contains(lines[4], "\033[") {
		t.Errorf("plain row = %q, want no escape codes", lines[4])
	}
}

func TestFormatRow(t *testing.T) {
	got := formatRow([]string{"abc", "de"}, []int{5, 4})
	want := "abc    de"
	if got != want {
		t.Errorf("formatRow = %q, want %q", got, want)
	}
}

func TestFormatRow_MissingCells(t *testing.T) {
	got := formatRow([]string{"", "b"}, []int{3, 5})
	want := "     b"
	if got != want {
		t.Errorf("formatRow = %q, want %q", got, want)
	}
}
