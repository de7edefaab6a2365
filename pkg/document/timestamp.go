package document

import "fmt"

// FormatTimestamp renders a second offset as an H:MM:SS label, duration
// style: no leading zero on the hours field. 63 -> "0:01:03".
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// ShouldCapture reports whether a frame should be grabbed for a segment at
// absolute offset t: true inside the 5-second window that follows every
// interval boundary. Segment starts rarely land exactly on a boundary, so
// the window is deliberately coarse.
func ShouldCapture(t float64, interval int) bool {
	if interval <= 0 {
		return false
	}
	return int(t)%interval < 5
}

// ScreenshotName is the on-disk name for a frame captured at absolute
// offset t, keyed by whole seconds.
func ScreenshotName(t float64) string {
	return fmt.Sprintf("screenshot_%06d.jpg", int(t))
}
