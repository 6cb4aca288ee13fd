package ui

import (
	"time"

	"github.com/pkg/errors"
)

// Navigator moves the session between named pages and switches the
// organization/location context.
type Navigator struct {
	s *Session
}

func (n *Navigator) open(path string) error {
	return errors.Wrapf(n.s.wd.Get(n.s.baseURL+path), "opening %s", path)
}

func (n *Navigator) GoToOrganizations() error { return n.open("/organizations") }
func (n *Navigator) GoToHosts() error         { return n.open("/hosts") }
func (n *Navigator) GoToNewHost() error       { return n.open("/hosts/new") }
func (n *Navigator) GoToOSCAPContents() error { return n.open("/compliance/scap_contents") }

// SelectOrg switches the organization context and returns the name now shown
// in the switcher.
func (n *Navigator) SelectOrg(name string) (string, error) {
	if err := n.s.Click(OrgSwitcher); err != nil {
		return "", err
	}
	if err := n.s.Click(OrgSwitcherAny.Fmt(name)); err != nil {
		return "", errors.Wrapf(err, "selecting organization %q", name)
	}
	el := n.s.WaitUntilElement(OrgSwitcher, DefaultWait)
	if el == nil {
		return "", errors.New("organization switcher missing after select")
	}
	text, err := el.Text()
	if err != nil {
		return "", errors.Wrap(err, "reading organization switcher")
	}
	return text, nil
}

// SelectLoc switches the location context and returns the name now shown in
// the switcher.
func (n *Navigator) SelectLoc(name string) (string, error) {
	if err := n.s.Click(LocSwitcher); err != nil {
		return "", err
	}
	if err := n.s.Click(LocSwitcherAny.Fmt(name)); err != nil {
		return "", errors.Wrapf(err, "selecting location %q", name)
	}
	el := n.s.WaitUntilElement(LocSwitcher, DefaultWait)
	if el == nil {
		return "", errors.New("location switcher missing after select")
	}
	text, err := el.Text()
	if err != nil {
		return "", errors.Wrap(err, "reading location switcher")
	}
	return text, nil
}

// SetContext switches organization and, when non-empty, location.
func (n *Navigator) SetContext(org, loc string) error {
	if org != "" {
		if _, err := n.SelectOrg(org); err != nil {
			return err
		}
	}
	if loc != "" {
		if _, err := n.SelectLoc(loc); err != nil {
			return err
		}
	}
	// context switches reload the page
	time.Sleep(500 * time.Millisecond)
	return nil
}
