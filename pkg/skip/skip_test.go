package skip

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satelliteqe/satellite-tests/pkg/config"
)

func newTrackerStub(t *testing.T, status string) *config.Defects {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/rest/api/2/issue/")
		fmt.Fprintf(w, `{"id": "1", "key": "SAT-1", "fields": {"status": {"name": %q}}}`, status)
	}))
	t.Cleanup(srv.Close)
	return &config.Defects{URL: srv.URL, Username: "bot", Token: "token"}
}

func TestIssueStatus(t *testing.T) {
	defects := newTrackerStub(t, "In Progress")
	status, err := issueStatus(defects, "SAT-1")
	require.NoError(t, err)
	assert.Equal(t, "In Progress", status)
}

func TestIssueStatusUnreachableTracker(t *testing.T) {
	defects := &config.Defects{URL: "http://127.0.0.1:1", Username: "bot", Token: "token"}
	_, err := issueStatus(defects, "SAT-1")
	require.Error(t, err)
}

func TestIfOpenDefectWithoutTrackerRuns(t *testing.T) {
	// must return, not skip, when no tracker is configured
	IfOpenDefect(nil, "SAT-1")
	IfOpenDefect(&config.Defects{}, "SAT-1")
}

func TestReleaseUnsupported(t *testing.T) {
	cases := []struct {
		release     string
		unsupported []string
		want        bool
	}{
		{"RHEL6.9", []string{"RHEL6"}, true},
		{"RHEL7.4", []string{"RHEL6"}, false},
		{"RHEL7.4", []string{"RHEL6", "RHEL7"}, true},
		{"", []string{"RHEL6"}, false},
		{"RHEL6.9", nil, false},
	}
	for _, tc := range cases {
		got := releaseUnsupported(tc.release, tc.unsupported)
		assert.Equal(t, tc.want, got, "release %q against %v", tc.release, tc.unsupported)
	}
}

func TestClosedStatusMatching(t *testing.T) {
	closed := map[string]bool{
		"Closed": true, "RESOLVED": true, "Done": true,
		"In Progress": false, "New": false, "On QA": false,
	}
	for status, want := range closed {
		got := lo.Contains(closedStatuses, strings.ToLower(status))
		assert.Equal(t, want, got, "status %q", status)
	}
}
