package ui

import (
	"time"

	"github.com/pkg/errors"
	"github.com/tebeka/selenium"
)

// HostsPage drives the host listing, the multi-tab creation form and the
// bulk action menu.
type HostsPage struct {
	s *Session
}

// SearchOption tweaks a listing search.
type SearchOption func(*searchOptions)

type searchOptions struct {
	rawQuery string
	timeout  time.Duration
}

// WithRawQuery replaces the default exact-name query with a raw search
// expression, e.g. `params.envkey = envval`.
func WithRawQuery(q string) SearchOption {
	return func(o *searchOptions) { o.rawQuery = q }
}

// WithTimeout bounds the wait for the result row.
func WithTimeout(d time.Duration) SearchOption {
	return func(o *searchOptions) { o.timeout = d }
}

// Create fills the host form from the typed sections and submits it.
func (p *HostsPage) Create(form HostForm) error {
	if form.Host.Organization != "" {
		if err := p.s.Nav.SetContext(form.Host.Organization, form.Host.Location); err != nil {
			return err
		}
	}
	if err := p.s.Nav.GoToNewHost(); err != nil {
		return err
	}
	if err := p.s.SetText(HostName, form.Name); err != nil {
		return err
	}

	currentTab := "Host"
	for _, w := range form.Flatten() {
		if w.Tab != currentTab {
			if err := p.s.Click(hostFormTab.Fmt(w.Tab)); err != nil {
				return err
			}
			currentTab = w.Tab
		}
		if err := p.s.apply(w); err != nil {
			return errors.Wrapf(err, "filling %s / %s", w.Tab, w.Label)
		}
	}

	if writes := form.InterfaceWrites(); len(writes) > 0 {
		if err := p.s.Click(hostFormTab.Fmt("Interfaces")); err != nil {
			return err
		}
		if err := p.s.Click(HostInterfaceFirst); err != nil {
			return err
		}
		for _, w := range writes {
			if err := p.s.apply(w); err != nil {
				return errors.Wrapf(err, "filling interface field %s", w.Label)
			}
		}
		if err := p.s.Click(HostInterfaceModal); err != nil {
			return err
		}
	}

	for _, param := range form.Parameters {
		if err := p.addParameter(param); err != nil {
			return err
		}
	}

	return p.s.Click(SubmitButton)
}

func (p *HostsPage) addParameter(param ParameterField) error {
	if err := p.s.Click(hostFormTab.Fmt("Parameters")); err != nil {
		return err
	}
	if err := p.s.Click(Locator{selenium.ByCSSSelector, "a#add_parameter"}); err != nil {
		return err
	}
	if err := p.s.SetText(Locator{selenium.ByCSSSelector, "input[id$='_name']:last-of-type"}, param.Name); err != nil {
		return err
	}
	return p.s.SetText(Locator{selenium.ByCSSSelector, "textarea[id$='_value']:last-of-type"}, param.Value)
}

// Search queries the host listing for the canonical name and returns the row
// link, or nil when absent.
func (p *HostsPage) Search(canonical string, opts ...SearchOption) (selenium.WebElement, error) {
	o := searchOptions{timeout: DefaultWait}
	for _, opt := range opts {
		opt(&o)
	}

	if err := p.s.Nav.GoToHosts(); err != nil {
		return nil, err
	}
	query := `name = "` + canonical + `"`
	if o.rawQuery != "" {
		query = o.rawQuery
	}
	if err := p.s.SetText(SearchField, query); err != nil {
		return nil, err
	}
	if err := p.s.Click(SearchButton); err != nil {
		return nil, err
	}
	return p.s.WaitUntilElement(HostRow.Fmt(canonical), o.timeout), nil
}

// Update renames the host through the edit form and submits.
func (p *HostsPage) Update(name, domain, newName string) error {
	el, err := p.Search(name + "." + domain)
	if err != nil {
		return err
	}
	if el == nil {
		return errors.Errorf("host %s.%s not listed", name, domain)
	}
	if err := el.Click(); err != nil {
		return errors.Wrap(err, "opening host detail")
	}
	if err := p.s.Click(HostEditButton); err != nil {
		return err
	}
	if err := p.s.SetText(HostName, newName); err != nil {
		return err
	}
	return p.s.Click(SubmitButton)
}

// Delete removes the host via its row dropdown, guarded by a presence check
// so deleting an already absent host is a no-op.
func (p *HostsPage) Delete(canonical string) error {
	el, err := p.Search(canonical)
	if err != nil {
		return err
	}
	if el == nil {
		return nil
	}
	if err := p.s.Click(DropdownToggle); err != nil {
		return err
	}
	deleteLink := Locator{selenium.ByXPATH,
		`//tr[.//a[contains(normalize-space(.),"` + canonical + `")]]//a[contains(@href,'/hosts/') and contains(.,'Delete')]`}
	if err := p.s.Click(deleteLink); err != nil {
		return err
	}
	if err := p.s.Click(ConfirmDialog); err != nil {
		return err
	}
	// the row disappearing is the completion signal
	gone := p.s.WaitUntilElement(HostRow.Fmt(canonical), 2*time.Second)
	if gone != nil {
		return errors.Errorf("host %s still listed after delete", canonical)
	}
	return nil
}

// DeleteInterface opens the host's interface tab and clicks the delete
// button of the identified interface; the product is expected to refuse when
// it is primary.
func (p *HostsPage) DeleteInterface(name, domain, identifier string) error {
	el, err := p.Search(name + "." + domain)
	if err != nil {
		return err
	}
	if el == nil {
		return errors.Errorf("host %s.%s not listed", name, domain)
	}
	if err := el.Click(); err != nil {
		return errors.Wrap(err, "opening host detail")
	}
	if err := p.s.Click(HostEditButton); err != nil {
		return err
	}
	if err := p.s.Click(HostTabInterfaces); err != nil {
		return err
	}
	btn := p.s.WaitUntilElement(HostInterfaceDelete.Fmt(identifier), DefaultWait)
	if btn == nil {
		return errors.Errorf("interface %q has no delete button", identifier)
	}
	// a disabled button swallows the click; that is the expected outcome for
	// primary interfaces
	_ = btn.Click()
	return nil
}

// InterfaceDeleteButton returns the delete button of the identified
// interface on the opened edit form, nil when missing.
func (p *HostsPage) InterfaceDeleteButton(identifier string) selenium.WebElement {
	return p.s.WaitUntilElement(HostInterfaceDelete.Fmt(identifier), DefaultWait)
}

// FetchDetail opens the host detail page and reads the named property rows.
func (p *HostsPage) FetchDetail(name, domain string, fields []string) (map[string]string, error) {
	el, err := p.Search(name + "." + domain)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, errors.Errorf("host %s.%s not listed", name, domain)
	}
	if err := el.Click(); err != nil {
		return nil, errors.Wrap(err, "opening host detail")
	}

	out := make(map[string]string, len(fields))
	for _, field := range fields {
		cell := p.s.WaitUntilElement(HostDetailField.Fmt(field), DefaultWait)
		if cell == nil {
			return nil, errors.Errorf("host detail field %q not found", field)
		}
		text, err := cell.Text()
		if err != nil {
			return nil, errors.Wrapf(err, "reading host detail field %q", field)
		}
		out[field] = text
	}
	return out, nil
}

// BulkAction selects the named hosts in the listing, invokes the action from
// the bulk menu and returns the completion notice element, nil when none
// appeared within the timeout.
func (p *HostsPage) BulkAction(names []string, action string, timeout time.Duration) (selenium.WebElement, error) {
	if err := p.s.Nav.GoToHosts(); err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := p.s.Click(HostRowCheckbox.Fmt(name)); err != nil {
			return nil, errors.Wrapf(err, "selecting host %q", name)
		}
	}
	if err := p.s.Click(HostBulkActions); err != nil {
		return nil, err
	}
	if err := p.s.Click(HostBulkAction.Fmt(action)); err != nil {
		return nil, errors.Wrapf(err, "invoking bulk action %q", action)
	}
	if err := p.s.Click(HostBulkSubmit); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultWait
	}
	return p.s.WaitUntilElement(HostBulkNotice, timeout), nil
}
