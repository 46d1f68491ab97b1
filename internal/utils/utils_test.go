package utils

import (
	"reflect"
	"strings"
	"testing"
)

func TestConvertStrToInt(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    uint64
		wantErr bool
	}{
		{"hex prefix", "0x1000", 0x1000, false},
		{"upper hex", "0X7FF8_1234_5670", 0x7ff812345670, false},
		{"bare hex", "deadbeef", 0xdeadbeef, false},
		{"decimal", "4096", 4096, false},
		{"max", "0xffffffffffffffff", ^uint64(0), false},
		{"garbage", "zz", 0, true},
		{"overflow", "0x1ffffffffffffffff", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertStrToInt(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ConvertStrToInt(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ConvertStrToInt(%q) = %#x, want %#x", tt.in, got, tt.want)
			}
		})
	}
}

func TestConvertStrsToInts(t *testing.T) {
	got, err := ConvertStrsToInts([]string{"0x10", "16"})
	if err != nil {
		t.Fatal(err)
	}
	if want := []uint64{16, 16}; !reflect.DeepEqual(got, want) {
		t.Errorf("ConvertStrsToInts() = %v, want %v", got, want)
	}
	if _, err := ConvertStrsToInts([]string{"0x10", "nope"}); err == nil {
		t.Error("ConvertStrsToInts() accepted an invalid argument")
	}
}

func TestBits(t *testing.T) {
	lines := strings.Split(Bits(1<<63|1), "\n")
	if len(lines) != 2 {
		t.Fatalf("Bits() returned %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "1000 ") || !strings.HasSuffix(lines[1], " 0001") {
		t.Errorf("Bits() = %q", lines[1])
	}
}

func TestPad(t *testing.T) {
	if got := Pad(3); got != "   " {
		t.Errorf("Pad(3) = %q", got)
	}
	if got := Pad(0); got != " " {
		t.Errorf("Pad(0) = %q", got)
	}
}
