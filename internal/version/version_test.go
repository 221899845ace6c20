package version

import (
	"strings"
	"testing"

	"github.com/jmylchreest/muloader/pkg/plugin"
)

func TestString(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    []string
	}{
		{
			name:    "development build",
			version: "dev",
			commit:  "unknown",
			date:    "unknown",
			want:    []string{"muloader version dev (protocol " + plugin.ProtocolVersion + ","},
		},
		{
			name:    "release build",
			version: "2.0.0",
			commit:  "0123456789abcdef",
			date:    "2026-01-02T03:04:05Z",
			want: []string{
				"muloader version 2.0.0 (protocol " + plugin.ProtocolVersion + ",",
				"commit: 01234567,",
				"built: 2026-01-02T03:04:05Z",
			},
		},
		{
			name:    "short commit",
			version: "2.0.0",
			commit:  "abc",
			date:    "2026-01-02T03:04:05Z",
			want:    []string{"commit: abc,"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldVersion, oldCommit, oldDate := Version, Commit, Date
			defer func() { Version, Commit, Date = oldVersion, oldCommit, oldDate }()
			Version, Commit, Date = tt.version, tt.commit, tt.date

			got := String()
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("String() = %q, want it to contain %q", got, want)
				}
			}
			if Short() != tt.version {
				t.Errorf("Short() = %q, want %q", Short(), tt.version)
			}
		})
	}
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	if info.GoVersion == "" || info.Platform == "" {
		t.Errorf("GetInfo() = %+v, want Go version and platform", info)
	}
	if info.Protocol != plugin.ProtocolVersion {
		t.Errorf("GetInfo().Protocol = %q, want %q", info.Protocol, plugin.ProtocolVersion)
	}
}
