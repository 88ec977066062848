package display

import (
	"os"
	"testing"
)

func TestWrap_Enabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"Bold", Bold, "\033[1mx\033[0m"},
		{"Dim", Dim, "\033[2mx\033[0m"},
		{"Red", Red, "\033[31mx\033[0m"},
		{"Green", Green, "\033[32mx\033[0m"},
		{"Yellow", Yellow, "\033[33mx\033[0m"},
		{"Cyan", Cyan, "\033[36mx\033[0m"},
		{"Gray", Gray, "\033[90mx\033[0m"},
		{"Accent", Accent, "\033[1m\033[36mx\033[0m"},
	}
	for _, tt := range tests {
		if got := tt.fn("x"); got != tt.want {
			t.Errorf("%s(\"x\") = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestWrap_Disabled(t *testing.T) {
	SetEnabled(false)

	for _, fn := range []func(string) string{Bold, Dim, Red, Green, Yellow, Cyan, Gray, Accent} {
		if got := fn("hello"); got != "hello" {
			t.Errorf("colors disabled: got %q, want plain \"hello\"", got)
		}
	}
}

func TestPhase(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	tests := []struct {
		kind, want string
	}{
		{"prayer", "\033[31mFajr\033[0m"},
		{"azkar", "\033[32mFajr\033[0m"},
		{"iqama", "\033[33mFajr\033[0m"},
		{"clock", "Fajr"},
		{"", "Fajr"},
	}
	for _, tt := range tests {
		if got := Phase(tt.kind, "Fajr"); got != tt.want {
			t.Errorf("Phase(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestDetect_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("FORCE_COLOR", "1")

	if detect(0) {
		t.Error("detect() should be false when NO_COLOR is set")
	}
}

func TestDetect_ForceColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")
	t.Setenv("FORCE_COLOR", "1")

	// Any fd: FORCE_COLOR wins over terminal detection.
	if !detect(^uintptr(0)) {
		t.Error("detect() should be true when FORCE_COLOR is set")
	}
}

func TestSetEnabled(t *testing.T) {
	orig := Enabled()
	defer SetEnabled(orig)

	SetEnabled(true)
	if !Enabled() {
		t.Error("Enabled() = false after SetEnabled(true)")
	}
	SetEnabled(false)
	if Enabled() {
		t.Error("Enabled() = true after SetEnabled(false)")
	}
}
