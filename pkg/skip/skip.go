// Package skip holds the predicates the suites use to bypass cases whose
// preconditions are not met: missing settings sections, open defects in the
// tracker, unsupported server releases. Skipping is always logged so a green
// run still shows what was not exercised.
package skip

import (
	"fmt"
	"strings"

	jira "github.com/andygrunwald/go-jira"
	g "github.com/onsi/ginkgo"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/satelliteqe/satellite-tests/pkg/config"
)

var log = logrus.WithField("component", "skip")

// IfNotSet skips the current spec unless every named settings section is
// configured.
func IfNotSet(settings *config.Settings, sections ...string) {
	for _, section := range sections {
		if !settings.HasSection(section) {
			g.Skip(fmt.Sprintf("settings section %q not configured", section))
		}
	}
}

// closedStatuses are tracker states under which a defect no longer blocks a
// test.
var closedStatuses = []string{"closed", "resolved", "done", "verified", "release pending"}

// IfOpenDefect skips the current spec while the tracked defect is still
// open. When the tracker is unreachable or unconfigured the test runs; a
// flaky tracker must not hide regressions.
func IfOpenDefect(defects *config.Defects, issueID string) {
	if defects == nil || defects.URL == "" {
		return
	}
	status, err := issueStatus(defects, issueID)
	if err != nil {
		log.WithError(err).Warnf("defect %s lookup failed, running anyway", issueID)
		return
	}
	if !lo.Contains(closedStatuses, strings.ToLower(status)) {
		g.Skip(fmt.Sprintf("defect %s is still %s", issueID, status))
	}
}

func issueStatus(defects *config.Defects, issueID string) (string, error) {
	tp := jira.BasicAuthTransport{
		Username: defects.Username,
		Password: defects.Token,
	}
	client, err := jira.NewClient(tp.Client(), defects.URL)
	if err != nil {
		return "", err
	}
	issue, _, err := client.Issue.Get(issueID, nil)
	if err != nil {
		return "", err
	}
	if issue.Fields == nil || issue.Fields.Status == nil {
		return "", fmt.Errorf("issue %s carries no status", issueID)
	}
	return issue.Fields.Status.Name, nil
}

// IfServerVersion skips the current spec when the server release is one of
// the listed ones. Matching is on the major.minor prefix; an empty release
// never matches and the test runs.
func IfServerVersion(release string, unsupported ...string) {
	if releaseUnsupported(release, unsupported) {
		g.Skip(fmt.Sprintf("not supported on release %s", release))
	}
}

func releaseUnsupported(release string, unsupported []string) bool {
	if release == "" {
		return false
	}
	return lo.SomeBy(unsupported, func(v string) bool {
		return strings.HasPrefix(release, v)
	})
}
