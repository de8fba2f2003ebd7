package version

import "testing"

func TestCurrentAndString(t *testing.T) {
	oldV, oldSHA, oldTime := Version, GitSHA, BuildTime
	t.Cleanup(func() { Version, GitSHA, BuildTime = oldV, oldSHA, oldTime })

	Version, GitSHA, BuildTime = "1.2.3", "abc123", "2026-01-01T00:00:00Z"

	info := Current()
	if info.Version != "1.2.3" || info.GitSHA != "abc123" || info.BuildTime != "2026-01-01T00:00:00Z" {
		t.Errorf("Current() = %+v", info)
	}
	if got, want := String(), "wifi-heatmap 1.2.3 (abc123, built 2026-01-01T00:00:00Z)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
