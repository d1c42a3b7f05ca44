package zodiac

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-30, 330},
		{725, 5},
		{359.5, 359.5},
		{-1e-18, 0},
	}

	for _, tt := range tests {
		got := Normalize(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got < 0 || got >= 360 {
			t.Errorf("Normalize(%v) = %v outside [0,360)", tt.in, got)
		}
	}
}

func TestSeparationIsSymmetricAndBounded(t *testing.T) {
	for a := -360.0; a <= 720; a += 17.3 {
		for b := -360.0; b <= 720; b += 23.9 {
			ab := Separation(a, b)
			ba := Separation(b, a)
			if ab != ba {
				t.Fatalf("Separation(%v,%v)=%v but reversed=%v", a, b, ab, ba)
			}
			if ab < 0 || ab > 180 {
				t.Fatalf("Separation(%v,%v)=%v outside [0,180]", a, b, ab)
			}
		}
	}
}

func TestSeparationAcrossZero(t *testing.T) {
	if got := Separation(0, 181); math.Abs(got-179) > 1e-9 {
		t.Errorf("Separation(0,181) = %v, want 179", got)
	}
	if got := Separation(355, 5); math.Abs(got-10) > 1e-9 {
		t.Errorf("Separation(355,5) = %v, want 10", got)
	}
}

func TestSignOf(t *testing.T) {
	tests := []struct {
		lon    float64
		name   string
		degree float64
	}{
		{0, "Aries", 0},
		{29.99, "Aries", 29.99},
		{30, "Taurus", 0},
		{135.5, "Leo", 15.5},
		{359.9, "Pisces", 29.9},
		{-10, "Pisces", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SignOf(tt.lon).Name; got != tt.name {
				t.Errorf("SignOf(%v) = %s, want %s", tt.lon, got, tt.name)
			}
			if got := DegreeInSign(tt.lon); math.Abs(got-tt.degree) > 1e-9 {
				t.Errorf("DegreeInSign(%v) = %v, want %v", tt.lon, got, tt.degree)
			}
		})
	}
}

func TestLookupSign(t *testing.T) {
	s, ok := LookupSign("Scorpio")
	if !ok || s.Element != Water || s.Modality != Fixed {
		t.Errorf("unexpected lookup result: %+v %v", s, ok)
	}
	if _, ok := LookupSign("Ophiuchus"); ok {
		t.Error("Ophiuchus is not in the tropical zodiac")
	}
}

func TestRound(t *testing.T) {
	if got := Round(12.345678, 4); got != 12.3457 {
		t.Errorf("Round = %v", got)
	}
	if got := Round(-0.125, 2); got != -0.13 {
		t.Errorf("Round half away from zero = %v", got)
	}
	if got := RoundLongitude(359.99996, 4); got != 0 {
		t.Errorf("RoundLongitude should wrap 360 to 0, got %v", got)
	}
}
