package scheduler

import (
	"testing"
	"time"
)

func TestFormatInterval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "now"},
		{30 * time.Second, "now"},
		{time.Minute, "1m"},
		{10 * time.Minute, "10m"},
		{90 * time.Minute, "1h"},
		{23 * time.Hour, "23h"},
		{24 * time.Hour, "1d"},
		{13 * 24 * time.Hour, "13d"},
		{45 * 24 * time.Hour, "1mo"},
		{365 * 24 * time.Hour, "12mo"},
	}

	for _, tt := range tests {
		if got := formatInterval(tt.in); got != tt.want {
			t.Errorf("formatInterval(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
