package colorutil

import (
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
	}{
		{"#1e88e5", color.NRGBA{0x1e, 0x88, 0xe5, 0xff}},
		{"1e88e5", color.NRGBA{0x1e, 0x88, 0xe5, 0xff}},
		{"  #FFD835 ", color.NRGBA{0xff, 0xd8, 0x35, 0xff}},
		{"#00000080", color.NRGBA{0, 0, 0, 0x80}},
	}
	for _, tc := range cases {
		got, err := ParseHex(tc.in)
		if err != nil {
			t.Errorf("ParseHex(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseHex(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "#fff", "#gggggg", "#12345", "not a color"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q) succeeded", bad)
		}
	}
}

func TestParseHexDefault(t *testing.T) {
	if got := ParseHexDefault("#43a047", Red); got != Green {
		t.Errorf("valid input returned %+v", got)
	}
	if got := ParseHexDefault("", Blue); got != Blue {
		t.Errorf("fallback = %+v, want Blue", got)
	}
}

func TestFormatHexRoundTrip(t *testing.T) {
	for _, c := range Palette() {
		back, err := ParseHex(FormatHex(c))
		if err != nil {
			t.Fatalf("FormatHex(%+v) unparseable: %v", c, err)
		}
		if back != c {
			t.Errorf("round trip %+v -> %q -> %+v", c, FormatHex(c), back)
		}
	}

	if got := FormatHex(color.NRGBA{0x12, 0x34, 0x56, 0x78}); got != "#12345678" {
		t.Errorf("translucent format = %q", got)
	}
	if got := FormatHex(Black); got != "#000000" {
		t.Errorf("opaque format = %q", got)
	}
}
