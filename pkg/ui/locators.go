package ui

import (
	"fmt"

	"github.com/tebeka/selenium"
)

// Locator is one element-lookup strategy plus its value. Parametrized
// locators hold a printf verb and are instantiated with Fmt.
type Locator struct {
	By    string
	Value string
}

// Fmt instantiates a parametrized locator.
func (l Locator) Fmt(args ...interface{}) Locator {
	return Locator{By: l.By, Value: fmt.Sprintf(l.Value, args...)}
}

// Login page.
var (
	LoginUsername = Locator{selenium.ByID, "login_login"}
	LoginPassword = Locator{selenium.ByID, "login_password"}
	LoginSubmit   = Locator{selenium.ByCSSSelector, "button[type=submit]"}
	LoginError    = Locator{selenium.ByCSSSelector, "div.alert-danger"}
)

// Shared chrome and notifications.
var (
	NameHasError   = Locator{selenium.ByXPATH, `//div[contains(@class,'has-error') and .//input[contains(@id,'_name')]]//span[@class='help-block']`}
	FormHasError   = Locator{selenium.ByCSSSelector, "div.has-error span.help-block"}
	AlertSuccess   = Locator{selenium.ByCSSSelector, "div.alert-success"}
	AlertError     = Locator{selenium.ByCSSSelector, "div.alert-danger"}
	ConfirmDialog  = Locator{selenium.ByCSSSelector, "div.modal-dialog button.btn-danger"}
	SearchField    = Locator{selenium.ByID, "search"}
	SearchButton   = Locator{selenium.ByCSSSelector, "button[type=submit].btn-primary"}
	SubmitButton   = Locator{selenium.ByName, "commit"}
	SelectAllRows  = Locator{selenium.ByID, "check_all"}
	DropdownToggle = Locator{selenium.ByCSSSelector, "td div.btn-group a.dropdown-toggle"}
)

// Entity association pickers on context tabs: items move between the
// unassigned and assigned multi-select lists.
var (
	EntityUnassigned = Locator{selenium.ByXPATH, `//div[contains(@class,'ms-selectable')]//span[normalize-space(.)="%s"]`}
	EntityAssigned   = Locator{selenium.ByXPATH, `//div[contains(@class,'ms-selection')]//span[normalize-space(.)="%s"]`}
)

// Context tabs of the organization edit form.
var (
	TabLocations        = Locator{selenium.ByCSSSelector, "a[href='#locations']"}
	TabOrganizations    = Locator{selenium.ByCSSSelector, "a[href='#organizations']"}
	TabDomains          = Locator{selenium.ByCSSSelector, "a[href='#domains']"}
	TabSubnets          = Locator{selenium.ByCSSSelector, "a[href='#subnets']"}
	TabUsers            = Locator{selenium.ByCSSSelector, "a[href='#users']"}
	TabHostGroups       = Locator{selenium.ByCSSSelector, "a[href='#hostgroups']"}
	TabMedia            = Locator{selenium.ByCSSSelector, "a[href='#media']"}
	TabTemplates        = Locator{selenium.ByCSSSelector, "a[href='#provisioning_templates']"}
	TabEnvironments     = Locator{selenium.ByCSSSelector, "a[href='#environments']"}
	TabComputeResources = Locator{selenium.ByCSSSelector, "a[href='#compute_resources']"}
)

// Organization pages.
var (
	OrgNewButton = Locator{selenium.ByCSSSelector, "a[href='/organizations/new']"}
	OrgName      = Locator{selenium.ByID, "organization_name"}
	OrgLabel     = Locator{selenium.ByID, "organization_label"}
	OrgDesc      = Locator{selenium.ByID, "organization_description"}
	OrgRow       = Locator{selenium.ByXPATH, `//table//a[normalize-space(.)="%s"]`}
	OrgDropdown  = Locator{selenium.ByXPATH, `//tr[.//a[normalize-space(.)="%s"]]//a[@data-toggle='dropdown']`}
	OrgDelete    = Locator{selenium.ByXPATH, `//tr[.//a[normalize-space(.)="%s"]]//a[contains(@data-confirm,'')]`}
	OrgProceed   = Locator{selenium.ByCSSSelector, "a.btn-danger"}
)

// Context selectors in the top navigation.
var (
	OrgSwitcher    = Locator{selenium.ByID, "organization-dropdown"}
	OrgSwitcherAny = Locator{selenium.ByXPATH, `//div[@id='organization-dropdown']//a[normalize-space(.)="%s"]`}
	LocSwitcher    = Locator{selenium.ByID, "location-dropdown"}
	LocSwitcherAny = Locator{selenium.ByXPATH, `//div[@id='location-dropdown']//a[normalize-space(.)="%s"]`}
)

// Host pages.
var (
	HostNewButton       = Locator{selenium.ByCSSSelector, "a[href='/hosts/new']"}
	HostName            = Locator{selenium.ByID, "host_name"}
	HostRow             = Locator{selenium.ByXPATH, `//table//a[contains(normalize-space(.),"%s")]`}
	HostRowCheckbox     = Locator{selenium.ByXPATH, `//tr[.//a[contains(normalize-space(.),"%s")]]//input[@type='checkbox']`}
	HostEditButton      = Locator{selenium.ByCSSSelector, "a.btn-default[href$='/edit']"}
	HostTabInterfaces   = Locator{selenium.ByCSSSelector, "a[href='#network']"}
	HostInterfaceDelete = Locator{selenium.ByXPATH, `//tr[.//td[normalize-space(.)="%s"]]//button[contains(@class,'removeInterface')]`}
	HostInterfaceEdit   = Locator{selenium.ByXPATH, `//tr[.//td[normalize-space(.)="%s"]]//button[contains(@class,'showModal')]`}
	HostInterfaceFirst  = Locator{selenium.ByCSSSelector, "table#interfaceForms button.showModal"}
	HostInterfaceModal  = Locator{selenium.ByCSSSelector, "div#interfaceModal button.btn-primary"}
	HostDetailField     = Locator{selenium.ByXPATH, `//table[@id='properties_table']//tr[.//th[normalize-space(.)="%s"]]/td`}
	HostBulkActions     = Locator{selenium.ByID, "submit_multiple"}
	HostBulkAction      = Locator{selenium.ByXPATH, `//ul[@id='menu_multiple']//a[normalize-space(.)="%s"]`}
	HostBulkSubmit      = Locator{selenium.ByCSSSelector, "div.modal-dialog button[type=submit]"}
	HostBulkNotice      = Locator{selenium.ByCSSSelector, "div.alert-success"}
)

// OpenSCAP content pages.
var (
	OSCAPNewButton  = Locator{selenium.ByCSSSelector, "a[href='/compliance/scap_contents/new']"}
	OSCAPTitle      = Locator{selenium.ByID, "scap_content_title"}
	OSCAPFile       = Locator{selenium.ByID, "scap_content_scap_file"}
	OSCAPRow        = Locator{selenium.ByXPATH, `//table//a[normalize-space(.)="%s"]`}
	OSCAPDropdown   = Locator{selenium.ByXPATH, `//tr[.//a[normalize-space(.)="%s"]]//a[@data-toggle='dropdown']`}
	OSCAPDeleteLink = Locator{selenium.ByXPATH, `//tr[.//a[normalize-space(.)="%s"]]//a[contains(@href,'scap_contents') and contains(.,'Delete')]`}
)
