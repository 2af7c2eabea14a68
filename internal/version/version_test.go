package version

import "testing"

func TestString(t *testing.T) {
	origVersion, origCommit, origBuildTime := Version, Commit, BuildTime
	t.Cleanup(func() {
		Version, Commit, BuildTime = origVersion, origCommit, origBuildTime
	})

	if got := String(); got != "dev (unknown) built unknown" {
		t.Errorf("String() = %q, want defaults", got)
	}

	Version = "1.2.3"
	Commit = "abc1234"
	BuildTime = "2024-06-28T10:00:00Z"

	want := "1.2.3 (abc1234) built 2024-06-28T10:00:00Z"
	if got := String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
