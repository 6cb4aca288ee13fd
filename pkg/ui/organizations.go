package ui

import (
	"time"

	"github.com/pkg/errors"
	"github.com/tebeka/selenium"
)

// OrgForm is the organization creation form plus its association tabs.
type OrgForm struct {
	Name        string
	Label       string
	Description string

	Locations        []string
	Domains          []string
	Subnets          []string
	Users            []string
	HostGroups       []string
	Media            []string
	Templates        []string
	Environments     []string
	ComputeResources []string
}

// OrgUpdate names the changes an update applies. Add lists move entries into
// the assigned column, Remove lists move them back out.
type OrgUpdate struct {
	NewName string

	AddDomains             []string
	RemoveDomains          []string
	AddSubnets             []string
	RemoveSubnets          []string
	AddUsers               []string
	RemoveUsers            []string
	AddHostGroups          []string
	RemoveHostGroups       []string
	AddMedia               []string
	RemoveMedia            []string
	AddTemplates           []string
	RemoveTemplates        []string
	AddEnvironments        []string
	RemoveEnvironments     []string
	AddComputeResources    []string
	RemoveComputeResources []string
	AddLocations           []string
}

// OrganizationsPage drives the organization listing and forms.
type OrganizationsPage struct {
	s *Session
}

// Create fills and submits the new-organization form. Validation failures
// stay on the form; the caller asserts the error element.
func (p *OrganizationsPage) Create(form OrgForm) error {
	if err := p.s.Nav.GoToOrganizations(); err != nil {
		return err
	}
	if err := p.s.Click(OrgNewButton); err != nil {
		return err
	}
	if err := p.s.SetText(OrgName, form.Name); err != nil {
		return err
	}
	if form.Label != "" {
		if err := p.s.SetText(OrgLabel, form.Label); err != nil {
			return err
		}
	}
	if form.Description != "" {
		if err := p.s.SetText(OrgDesc, form.Description); err != nil {
			return err
		}
	}

	tabs := []struct {
		tab   Locator
		names []string
	}{
		{TabLocations, form.Locations},
		{TabDomains, form.Domains},
		{TabSubnets, form.Subnets},
		{TabUsers, form.Users},
		{TabHostGroups, form.HostGroups},
		{TabMedia, form.Media},
		{TabTemplates, form.Templates},
		{TabEnvironments, form.Environments},
		{TabComputeResources, form.ComputeResources},
	}
	for _, t := range tabs {
		if err := p.assign(t.tab, t.names, nil); err != nil {
			return err
		}
	}

	return p.s.Click(SubmitButton)
}

// assign moves names into the assigned column, and removals back out, on one
// association tab.
func (p *OrganizationsPage) assign(tab Locator, add, remove []string) error {
	if len(add) == 0 && len(remove) == 0 {
		return nil
	}
	if err := p.s.Click(tab); err != nil {
		return err
	}
	for _, name := range add {
		if err := p.s.Click(EntityUnassigned.Fmt(name)); err != nil {
			return errors.Wrapf(err, "assigning %q", name)
		}
	}
	for _, name := range remove {
		if err := p.s.Click(EntityAssigned.Fmt(name)); err != nil {
			return errors.Wrapf(err, "unassigning %q", name)
		}
	}
	return nil
}

// Search looks the organization up by exact name in the listing. Returns nil
// when it is not listed.
func (p *OrganizationsPage) Search(name string) (selenium.WebElement, error) {
	if err := p.s.Nav.GoToOrganizations(); err != nil {
		return nil, err
	}
	if err := p.s.SetText(SearchField, `name = "`+name+`"`); err != nil {
		return nil, err
	}
	if err := p.s.Click(SearchButton); err != nil {
		return nil, err
	}
	return p.s.WaitUntilElement(OrgRow.Fmt(name), DefaultWait), nil
}

// Open clicks through to the organization edit form.
func (p *OrganizationsPage) Open(name string) error {
	el, err := p.Search(name)
	if err != nil {
		return err
	}
	if el == nil {
		return errors.Errorf("organization %q not listed", name)
	}
	return errors.Wrapf(el.Click(), "opening organization %q", name)
}

// Update opens the organization and applies the named changes.
func (p *OrganizationsPage) Update(name string, update OrgUpdate) error {
	if err := p.Open(name); err != nil {
		return err
	}
	if update.NewName != "" {
		if err := p.s.SetText(OrgName, update.NewName); err != nil {
			return err
		}
	}

	tabs := []struct {
		tab         Locator
		add, remove []string
	}{
		{TabDomains, update.AddDomains, update.RemoveDomains},
		{TabSubnets, update.AddSubnets, update.RemoveSubnets},
		{TabUsers, update.AddUsers, update.RemoveUsers},
		{TabHostGroups, update.AddHostGroups, update.RemoveHostGroups},
		{TabMedia, update.AddMedia, update.RemoveMedia},
		{TabTemplates, update.AddTemplates, update.RemoveTemplates},
		{TabEnvironments, update.AddEnvironments, update.RemoveEnvironments},
		{TabComputeResources, update.AddComputeResources, update.RemoveComputeResources},
		{TabLocations, update.AddLocations, nil},
	}
	for _, t := range tabs {
		if err := p.assign(t.tab, t.add, t.remove); err != nil {
			return err
		}
	}

	return p.s.Click(SubmitButton)
}

// Remove deletes the organization from the listing, confirming the dialog.
func (p *OrganizationsPage) Remove(name string) error {
	el, err := p.Search(name)
	if err != nil {
		return err
	}
	if el == nil {
		return errors.Errorf("organization %q not listed", name)
	}
	if err := p.s.Click(OrgDropdown.Fmt(name)); err != nil {
		return err
	}
	if err := p.s.Click(OrgDelete.Fmt(name)); err != nil {
		return err
	}
	return p.s.Click(OrgProceed)
}

// FieldValue reads a form field of the opened organization.
func (p *OrganizationsPage) FieldValue(loc Locator) (string, error) {
	return p.s.AttributeValue(loc, "value")
}

// AutoCompleteSearch types a partial name into the search field and waits
// for the completion entry carrying the full name.
func (p *OrganizationsPage) AutoCompleteSearch(partial, full string) (selenium.WebElement, error) {
	if err := p.s.Nav.GoToOrganizations(); err != nil {
		return nil, err
	}
	if err := p.s.SetText(SearchField, "name = "+partial); err != nil {
		return nil, err
	}
	completion := Locator{selenium.ByXPATH, `//ul[contains(@class,'autocomplete')]//a[contains(.,"` + full + `")]`}
	return p.s.WaitUntilElement(completion, 5*time.Second), nil
}
