// Package ui drives the product web interface through a remote WebDriver.
// Page objects expose the handful of workflows the suites exercise: create
// through a form, search a listing, update, delete, bulk actions.
package ui

import (
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"

	"github.com/satelliteqe/satellite-tests/pkg/config"
)

// DefaultWait bounds element polling when the caller gives no timeout.
const DefaultWait = 12 * time.Second

// Driver wraps a WebDriver with the polling and form helpers shared by all
// page objects.
type Driver struct {
	wd  selenium.WebDriver
	log *logrus.Entry
}

// Session is one authenticated browser session against the product UI.
type Session struct {
	*Driver

	baseURL string

	Nav           *Navigator
	Organizations *OrganizationsPage
	Hosts         *HostsPage
	OSCAPContents *OSCAPContentsPage
}

// NewSession opens a browser, logs into the product and returns the session.
// Callers own Close.
func NewSession(settings *config.Settings) (*Session, error) {
	caps := selenium.Capabilities{"browserName": settings.Selenium.Browser}
	wd, err := selenium.NewRemote(caps, settings.Selenium.RemoteURL)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to WebDriver")
	}

	d := &Driver{
		wd:  wd,
		log: logrus.WithField("component", "ui"),
	}
	s := &Session{
		Driver:  d,
		baseURL: settings.BaseURL(),
	}
	s.Nav = &Navigator{s}
	s.Organizations = &OrganizationsPage{s}
	s.Hosts = &HostsPage{s}
	s.OSCAPContents = &OSCAPContentsPage{s}

	if err := s.login(settings.Server.User, settings.Server.Password); err != nil {
		_ = wd.Quit()
		return nil, err
	}
	return s, nil
}

func (s *Session) login(user, password string) error {
	if err := s.wd.Get(s.baseURL + "/users/login"); err != nil {
		return errors.Wrap(err, "opening login page")
	}
	if err := s.SetText(LoginUsername, user); err != nil {
		return err
	}
	if err := s.SetText(LoginPassword, password); err != nil {
		return err
	}
	if err := s.Click(LoginSubmit); err != nil {
		return err
	}
	if el := s.WaitUntilElement(LoginError, 2*time.Second); el != nil {
		return errors.New("login rejected")
	}
	return nil
}

// Close logs out and quits the browser. Safe to defer even after a failed
// login.
func (s *Session) Close() error {
	if s.wd == nil {
		return nil
	}
	_ = s.wd.Get(s.baseURL + "/users/logout")
	return s.wd.Quit()
}

// find locates one element without waiting.
func (d *Driver) find(loc Locator) (selenium.WebElement, error) {
	return d.wd.FindElement(loc.By, loc.Value)
}

// WaitUntilElement polls for the element until timeout. It returns nil when
// the element never appears; absence is an assertable outcome, not an error.
func (d *Driver) WaitUntilElement(loc Locator, timeout time.Duration) selenium.WebElement {
	if timeout <= 0 {
		timeout = DefaultWait
	}
	const poll = 500 * time.Millisecond

	var el selenium.WebElement
	err := retry.Do(
		func() error {
			found, err := d.find(loc)
			if err != nil {
				return err
			}
			shown, err := found.IsDisplayed()
			if err != nil || !shown {
				return errors.New("element not displayed")
			}
			el = found
			return nil
		},
		retry.Attempts(uint(timeout/poll)+1),
		retry.Delay(poll),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		d.log.WithField("locator", loc.Value).Debug("element not found")
		return nil
	}
	return el
}

// Click waits for the element and clicks it.
func (d *Driver) Click(loc Locator) error {
	el := d.WaitUntilElement(loc, DefaultWait)
	if el == nil {
		return errors.Errorf("element %s not found", loc.Value)
	}
	return errors.Wrapf(el.Click(), "clicking %s", loc.Value)
}

// SetText waits for the input, clears it and types the value.
func (d *Driver) SetText(loc Locator, value string) error {
	el := d.WaitUntilElement(loc, DefaultWait)
	if el == nil {
		return errors.Errorf("input %s not found", loc.Value)
	}
	if err := el.Clear(); err != nil {
		return errors.Wrapf(err, "clearing %s", loc.Value)
	}
	return errors.Wrapf(el.SendKeys(value), "typing into %s", loc.Value)
}

// SelectOption picks the option with the given visible text from a select
// element.
func (d *Driver) SelectOption(loc Locator, option string) error {
	el := d.WaitUntilElement(loc, DefaultWait)
	if el == nil {
		return errors.Errorf("select %s not found", loc.Value)
	}
	opt, err := el.FindElement(selenium.ByXPATH,
		`.//option[normalize-space(.)="`+option+`"]`)
	if err != nil {
		return errors.Wrapf(err, "option %q in %s", option, loc.Value)
	}
	return errors.Wrapf(opt.Click(), "selecting %q", option)
}

// SetCheckbox drives a checkbox to the wanted state.
func (d *Driver) SetCheckbox(loc Locator, checked bool) error {
	el := d.WaitUntilElement(loc, DefaultWait)
	if el == nil {
		return errors.Errorf("checkbox %s not found", loc.Value)
	}
	current, err := el.IsSelected()
	if err != nil {
		return errors.Wrapf(err, "reading checkbox %s", loc.Value)
	}
	if current != checked {
		return errors.Wrapf(el.Click(), "toggling checkbox %s", loc.Value)
	}
	return nil
}

// AttributeValue reads an attribute of an element located now.
func (d *Driver) AttributeValue(loc Locator, attr string) (string, error) {
	el := d.WaitUntilElement(loc, DefaultWait)
	if el == nil {
		return "", errors.Errorf("element %s not found", loc.Value)
	}
	v, err := el.GetAttribute(attr)
	return v, errors.Wrapf(err, "attribute %q of %s", attr, loc.Value)
}
