package shared

import (
	"errors"
	"testing"
)

func TestBrowserCommand(t *testing.T) {
	original := getRuntime
	defer func() { getRuntime = original }()

	tests := []struct {
		name    string
		goos    string
		link    string
		wantBin string
		wantErr bool
	}{
		{name: "darwin", goos: "darwin", link: "https://x.test/job", wantBin: "open"},
		{name: "linux", goos: "linux", link: "https://x.test/job", wantBin: "xdg-open"},
		{name: "windows", goos: "windows", link: "http://x.test/job", wantBin: "rundll32"},
		{name: "unsupported platform", goos: "plan9", link: "https://x.test/job", wantErr: true},
		{name: "non web scheme", goos: "linux", link: "file:///etc/passwd", wantErr: true},
		{name: "relative link", goos: "linux", link: "/jobs/1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getRuntime = func() string { return tt.goos }

			cmd, err := browserCommand(tt.link)
			if (err != nil) != tt.wantErr {
				t.Fatalf("browserCommand() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cmd.Args[0] != tt.wantBin {
				t.Errorf("expected %s, got %s", tt.wantBin, cmd.Args[0])
			}
			if cmd.Args[len(cmd.Args)-1] != tt.link {
				t.Errorf("expected link as last argument, got %v", cmd.Args)
			}
		})
	}

	t.Run("invalid scheme is ErrInvalidArgument", func(t *testing.T) {
		getRuntime = func() string { return "linux" }
		_, err := browserCommand("javascript:alert(1)")
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
