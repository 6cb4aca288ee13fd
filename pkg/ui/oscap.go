package ui

import (
	"github.com/pkg/errors"
	"github.com/tebeka/selenium"
)

// OSCAPContentsPage drives the compliance SCAP content listing and form.
type OSCAPContentsPage struct {
	s *Session
}

// Create uploads a new SCAP content with the given title. contentPath must
// be an absolute path reachable from the browser node.
func (p *OSCAPContentsPage) Create(title, contentPath string, orgs []string) error {
	if err := p.s.Nav.GoToOSCAPContents(); err != nil {
		return err
	}
	if err := p.s.Click(OSCAPNewButton); err != nil {
		return err
	}
	if err := p.s.SetText(OSCAPTitle, title); err != nil {
		return err
	}
	file := p.s.WaitUntilElement(OSCAPFile, DefaultWait)
	if file == nil {
		return errors.New("scap content file input not found")
	}
	if err := file.SendKeys(contentPath); err != nil {
		return errors.Wrap(err, "attaching scap content file")
	}
	if len(orgs) > 0 {
		if err := p.s.Click(TabOrganizations); err != nil {
			return err
		}
		for _, org := range orgs {
			if err := p.s.Click(EntityUnassigned.Fmt(org)); err != nil {
				return errors.Wrapf(err, "assigning organization %q", org)
			}
		}
	}
	return p.s.Click(SubmitButton)
}

// Search looks the title up in the listing and returns the row link, nil
// when absent.
func (p *OSCAPContentsPage) Search(title string) (selenium.WebElement, error) {
	if err := p.s.Nav.GoToOSCAPContents(); err != nil {
		return nil, err
	}
	if err := p.s.SetText(SearchField, `title = "`+title+`"`); err != nil {
		return nil, err
	}
	if err := p.s.Click(SearchButton); err != nil {
		return nil, err
	}
	return p.s.WaitUntilElement(OSCAPRow.Fmt(title), DefaultWait), nil
}

// Update opens the content by title and retitles it.
func (p *OSCAPContentsPage) Update(title, newTitle string) error {
	el, err := p.Search(title)
	if err != nil {
		return err
	}
	if el == nil {
		return errors.Errorf("scap content %q not listed", title)
	}
	if err := el.Click(); err != nil {
		return errors.Wrap(err, "opening scap content")
	}
	if err := p.s.SetText(OSCAPTitle, newTitle); err != nil {
		return err
	}
	return p.s.Click(SubmitButton)
}

// AssignOrganization opens the content and adds the organization on its
// organizations tab.
func (p *OSCAPContentsPage) AssignOrganization(title, org string) error {
	el, err := p.Search(title)
	if err != nil {
		return err
	}
	if el == nil {
		return errors.Errorf("scap content %q not listed", title)
	}
	if err := el.Click(); err != nil {
		return errors.Wrap(err, "opening scap content")
	}
	if err := p.s.Click(TabOrganizations); err != nil {
		return err
	}
	if err := p.s.Click(EntityUnassigned.Fmt(org)); err != nil {
		return errors.Wrapf(err, "assigning organization %q", org)
	}
	return p.s.Click(SubmitButton)
}

// Delete removes the content through its row dropdown.
func (p *OSCAPContentsPage) Delete(title string) error {
	el, err := p.Search(title)
	if err != nil {
		return err
	}
	if el == nil {
		return errors.Errorf("scap content %q not listed", title)
	}
	if err := p.s.Click(OSCAPDropdown.Fmt(title)); err != nil {
		return err
	}
	if err := p.s.Click(OSCAPDeleteLink.Fmt(title)); err != nil {
		return err
	}
	return p.s.Click(ConfirmDialog)
}
