package handlers

import (
	"testing"
	"time"
)

func TestFormatTime(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2024, 6, 21, 10, 0, 0, 0, time.UTC), "2024-06-21T10:00:00.000Z"},
		{time.Date(2024, 6, 21, 13, 0, 0, 123456789, loc), "2024-06-21T10:00:00.123Z"},
	}
	for _, tt := range tests {
		if got := formatTime(tt.in); got != tt.want {
			t.Errorf("formatTime(%v)=%q want %q", tt.in, got, tt.want)
		}
	}
}

func TestToAppError_PassesThroughUnknown(t *testing.T) {
	err := errBoom{}
	if got := toAppError(err); got != err {
		t.Fatalf("got %v", got)
	}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
