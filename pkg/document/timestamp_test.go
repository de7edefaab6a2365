package document

import "testing"

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00:00"},
		{7, "0:00:07"},
		{63, "0:01:03"},
		{63.9, "0:01:03"},
		{600, "0:10:00"},
		{3599, "0:59:59"},
		{3661, "1:01:01"},
		{36000, "10:00:00"},
		{-5, "0:00:00"},
	}

	for _, c := range cases {
		if got := FormatTimestamp(c.seconds); got != c.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestShouldCapture(t *testing.T) {
	cases := []struct {
		t        float64
		interval int
		want     bool
	}{
		{0, 60, true},
		{4, 60, true},
		{4.9, 60, true},
		{5, 60, false},
		{59, 60, false},
		{60, 60, true},
		{64, 60, true},
		{65, 60, false},
		{120.3, 60, true},
		{30, 30, true},
		{10, 0, false},
		{10, -1, false},
	}

	for _, c := range cases {
		if got := ShouldCapture(c.t, c.interval); got != c.want {
			t.Errorf("ShouldCapture(%v, %d) = %v, want %v", c.t, c.interval, got, c.want)
		}
	}
}

func TestScreenshotName(t *testing.T) {
	if got := ScreenshotName(60); got != "screenshot_000060.jpg" {
		t.Errorf("ScreenshotName(60) = %q", got)
	}
	if got := ScreenshotName(3661.7); got != "screenshot_003661.jpg" {
		t.Errorf("ScreenshotName(3661.7) = %q", got)
	}
}
