package units

import "testing"

func TestLengthConversions(t *testing.T) {
	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"MMToNM", MMToNM(1.5), 1.5e6},
		{"NMToMM", NMToMM(2.54e7), 25.4},
		{"MMToInch", MMToInch(25.4), 1},
		{"InchToMM", InchToMM(2), 50.8},
		{"NMToInch", NMToInch(2.54e7), 1},
		{"InchToNM", InchToNM(1), 2.54e7},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestAngleConversions(t *testing.T) {
	if got := DegToDecidegrees(90); got != 900 {
		t.Errorf("DegToDecidegrees(90) = %v", got)
	}
	if got := DecidegreesToDeg(1800); got != 180 {
		t.Errorf("DecidegreesToDeg(1800) = %v", got)
	}
}

func TestNormalizeAngle(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{180, 180},
		{-180, 180},
		{270, -90},
		{-270, 90},
		{540, 180},
		{-45, -45},
	}
	for _, tc := range cases {
		if got := NormalizeAngle(tc.in); got != tc.want {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
