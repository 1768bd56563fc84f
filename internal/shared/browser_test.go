package shared

import (
	"strings"
	"testing"
)

func TestBrowserCommand(t *testing.T) {
	url := "http://127.0.0.1:8000/music-player"

	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open " + url},
		{"linux", "xdg-open " + url},
		{"freebsd", "xdg-open " + url},
		{"windows", "cmd /c start " + url},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			cmd, err := browserCommand(tt.goos, url)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := strings.Join(cmd.Args, " "); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	t.Run("unsupported platform", func(t *testing.T) {
		original := getRuntime
		getRuntime = func() string { return "plan9" }
		defer func() { getRuntime = original }()

		if err := OpenBrowser(url); err == nil || !strings.Contains(err.Error(), "unsupported platform: plan9") {
			t.Errorf("expected unsupported platform error, got %v", err)
		}
	})
}
