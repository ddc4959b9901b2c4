package version

import "testing"

func TestUserAgent(t *testing.T) {
	if got, want := UserAgent(), "webmapper/dev (unknown)"; got != want {
		t.Errorf("UserAgent() = %q, want %q", got, want)
	}
}
