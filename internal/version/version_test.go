package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if info := Get(); info.GoVersion == "" || info.Version != Version {
		t.Errorf("Get() = %+v", info)
	}
}

func TestPretty(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"plain", Info{Version: "1.2.3"}, "pyl 1.2.3"},
		{"commit", Info{Version: "1.2.3", GitCommit: "abc123"}, "pyl 1.2.3 (abc123)"},
		{"all", Info{Version: "0.1.0-dev", GitCommit: "abc123", BuildDate: "2024-01-15"}, "pyl 0.1.0-dev (abc123, 2024-01-15)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Pretty(false); got != tt.want {
				t.Errorf("Pretty(false) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrettyColored(t *testing.T) {
	got := Info{Version: "1.2.3-rc.1"}.Pretty(true)
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected ANSI escapes in %q", got)
	}
	if !strings.HasSuffix(got, "-rc.1") {
		t.Errorf("suffix lost in %q", got)
	}

	if got := (Info{Version: "nightly"}).Pretty(true); got != "pyl nightly" {
		t.Errorf("non-semver version must stay as is, got %q", got)
	}
}
