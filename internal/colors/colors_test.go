package colors

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestInit_ForceOn(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	color.NoColor = true
	forceOn := true
	Init(&forceOn)

	if color.NoColor {
		t.Error("expected colors enabled when Init(true)")
	}
	if !Enabled() {
		t.Error("Enabled() should return true")
	}
}

func TestInit_ForceOff(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	color.NoColor = false
	forceOff := false
	Init(&forceOff)

	if !color.NoColor {
		t.Error("expected colors disabled when Init(false)")
	}
	if Enabled() {
		t.Error("Enabled() should return false")
	}
}

func TestInit_Nil_KeepsExisting(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	for _, v := range []bool{false, true} {
		color.NoColor = v
		Init(nil)
		if color.NoColor != v {
			t.Errorf("Init(nil) changed NoColor from %v", v)
		}
	}
}

func TestPalette(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	tests := []struct {
		name string
		fn   func() *color.Color
	}{
		{"Bold", Bold},
		{"Faint", Faint},
		{"Address", Address},
		{"Symbol", Symbol},
		{"Image", Image},
		{"Key", Key},
		{"Warn", Warn},
		{"Bad", Bad},
		{"Good", Good},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color.NoColor = false
			if got := tt.fn().Sprint("x"); !strings.Contains(got, "\x1b[") {
				t.Errorf("%s() = %q, want ANSI codes", tt.name, got)
			}
			color.NoColor = true
			if got := tt.fn().Sprint("x"); got != "x" {
				t.Errorf("%s() = %q with colors off, want plain text", tt.name, got)
			}
		})
	}
}

func TestFormatters(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()
	color.NoColor = true

	if got, want := Addr(0x1000), "0x0000000000001000"; got != want {
		t.Errorf("Addr() = %q, want %q", got, want)
	}
	if got := Bool(true); got != "yes" {
		t.Errorf("Bool(true) = %q", got)
	}
	if got := Bool(false); got != "no" {
		t.Errorf("Bool(false) = %q", got)
	}
	if got, want := KeyValue("slide", "0x4000"), "slide: 0x4000"; got != want {
		t.Errorf("KeyValue() = %q, want %q", got, want)
	}
}
