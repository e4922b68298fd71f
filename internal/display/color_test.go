package display

import (
	"strings"
	"testing"
)

func TestStyles_Enabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	funcs := []struct {
		name string
		fn   func(string) string
	}{
		{"Bold", Bold},
		{"Dim", Dim},
		{"Yellow", Yellow},
		{"Cyan", Cyan},
		{"Accent", Accent},
	}

	for _, f := range funcs {
		t.Run(f.name, func(t *testing.T) {
			got := f.fn("vakit")
			if !strings.Contains(got, "vakit") {
				t.Errorf("%s(\"vakit\") = %q, lost the text", f.name, got)
			}
			if !strings.Contains(got, "\x1b[") {
				t.Errorf("%s(\"vakit\") = %q, want ANSI styling", f.name, got)
			}
		})
	}
}

func TestStyles_Disabled_ReturnPlainText(t *testing.T) {
	SetEnabled(false)

	funcs := []struct {
		name string
		fn   func(string) string
	}{
		{"Bold", Bold},
		{"Dim", Dim},
		{"Yellow", Yellow},
		{"Cyan", Cyan},
		{"Accent", Accent},
	}

	for _, f := range funcs {
		t.Run(f.name, func(t *testing.T) {
			if got := f.fn("plain"); got != "plain" {
				t.Errorf("%s(\"plain\") with colors disabled = %q, want \"plain\"", f.name, got)
			}
		})
	}
}

func TestBoldf(t *testing.T) {
	SetEnabled(false)

	if got := Boldf("şehir: %d", 539); got != "şehir: 539" {
		t.Errorf("Boldf = %q", got)
	}
}

func TestEnabled_ReportsState(t *testing.T) {
	SetEnabled(true)
	if !Enabled() {
		t.Error("Enabled() should return true after SetEnabled(true)")
	}

	SetEnabled(false)
	if Enabled() {
		t.Error("Enabled() should return false after SetEnabled(false)")
	}
}

func TestShouldEnable_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("FORCE_COLOR", "1")
	if shouldEnable() {
		t.Error("NO_COLOR should win over FORCE_COLOR")
	}
}
