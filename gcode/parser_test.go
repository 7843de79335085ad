package gcode

import "testing"

func TestParseLine(t *testing.T) {
	testCases := []struct {
		line       string
		wantType   byte
		wantNumber int
		wantParams map[byte]float64
	}{
		{"G1 X10 Y-5.5 F3000", 'G', 1, map[byte]float64{'X': 10, 'Y': -5.5, 'F': 3000}},
		{"g0 x1.25", 'G', 0, map[byte]float64{'X': 1.25}},
		{"M84", 'M', 84, map[byte]float64{}},
		{"G28 X", 'G', 28, map[byte]float64{'X': 0}},
		{"G92 E0 ; reset extruder", 'G', 92, map[byte]float64{'E': 0}},
		{"T0", 'T', 0, map[byte]float64{}},
	}

	for _, tc := range testCases {
		cmd, err := ParseLine(tc.line)
		if err != nil {
			t.Errorf("ParseLine(%q) failed: %v", tc.line, err)
			continue
		}
		if cmd == nil {
			t.Errorf("ParseLine(%q) = nil", tc.line)
			continue
		}
		if cmd.Type != tc.wantType || cmd.Number != tc.wantNumber {
			t.Errorf("ParseLine(%q) = %c%d, want %c%d",
				tc.line, cmd.Type, cmd.Number, tc.wantType, tc.wantNumber)
		}
		if len(cmd.Params) != len(tc.wantParams) {
			t.Errorf("ParseLine(%q) params = %v, want %v", tc.line, cmd.Params, tc.wantParams)
			continue
		}
		for p, want := range tc.wantParams {
			if got := cmd.Get(p, -9999); got != want {
				t.Errorf("ParseLine(%q) param %c = %v, want %v", tc.line, p, got, want)
			}
		}
	}
}

func TestParseLineEmptyAndComments(t *testing.T) {
	for _, line := range []string{"", "   ", "; just a comment", "  ; indented comment"} {
		cmd, err := ParseLine(line)
		if err != nil {
			t.Errorf("ParseLine(%q) failed: %v", line, err)
		}
		if cmd != nil {
			t.Errorf("ParseLine(%q) = %v, want nil", line, cmd)
		}
	}
}

func TestParseLineMalformed(t *testing.T) {
	for _, line := range []string{"X10 Y20", "G1 Xten", "1G", "G1 ?5"} {
		if _, err := ParseLine(line); err == nil {
			t.Errorf("ParseLine(%q) should fail", line)
		}
	}
}
