package ui

import (
	"github.com/tebeka/selenium"
)

// The host creation form spans several tabs. Instead of positional
// [tab, field, value] triples, each tab is a typed section; Flatten produces
// the ordered field writes the driver performs. Empty values mean "leave the
// field alone" so host-group inheritance can fill them.

// HostForm is the complete host creation form.
type HostForm struct {
	Name string

	Host            HostSection
	VirtualMachine  VirtualMachineSection
	OperatingSystem OperatingSystemSection
	Interface       InterfaceSection
	Parameters      []ParameterField
}

// HostSection is the Host tab.
type HostSection struct {
	Organization         string
	Location             string
	HostGroup            string
	DeployOn             string
	LifecycleEnvironment string
	ContentView          string
	PuppetEnvironment    string
}

// VirtualMachineSection is the Virtual Machine tab, present when deploying
// onto a compute resource.
type VirtualMachineSection struct {
	Memory string
}

// OperatingSystemSection is the Operating System tab.
type OperatingSystemSection struct {
	Architecture    string
	OperatingSystem string
	Media           string
	PartitionTable  string
	RootPassword    string
}

// InterfaceSection is the interface modal. Exactly one primary interface is
// supported, matching what the suites exercise.
type InterfaceSection struct {
	Type             string
	DeviceIdentifier string
	MAC              string
	Domain           string
	NetworkType      string
	Network          string
	Primary          bool
}

// ParameterField is one global parameter on the Parameters tab.
type ParameterField struct {
	Name  string
	Value string
}

// FieldKind tells the driver how to write a field.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldSelect
	FieldCheckbox
)

// FieldWrite is one resolved form-field operation.
type FieldWrite struct {
	Tab     string
	Label   string
	Kind    FieldKind
	Locator Locator
	Value   string
	Checked bool
}

var (
	hostFormSelect = Locator{selenium.ByXPATH, `//div[label[normalize-space(.)="%s"]]//select`}
	hostFormText   = Locator{selenium.ByXPATH, `//div[label[normalize-space(.)="%s"]]//input[@type='text' or @type='password']`}
	hostFormTab    = Locator{selenium.ByXPATH, `//ul[contains(@class,'nav-tabs')]//a[normalize-space(.)="%s"]`}
)

// Flatten resolves the typed sections into the ordered field writes the
// driver performs. Fields the caller left empty are skipped.
func (f *HostForm) Flatten() []FieldWrite {
	var out []FieldWrite

	add := func(tab, label, value string, kind FieldKind) {
		if value == "" {
			return
		}
		loc := hostFormSelect
		if kind == FieldText {
			loc = hostFormText
		}
		out = append(out, FieldWrite{
			Tab:     tab,
			Label:   label,
			Kind:    kind,
			Locator: loc.Fmt(label),
			Value:   value,
		})
	}

	add("Host", "Organization", f.Host.Organization, FieldSelect)
	add("Host", "Location", f.Host.Location, FieldSelect)
	add("Host", "Host Group", f.Host.HostGroup, FieldSelect)
	add("Host", "Deploy on", f.Host.DeployOn, FieldSelect)
	add("Host", "Lifecycle Environment", f.Host.LifecycleEnvironment, FieldSelect)
	add("Host", "Content View", f.Host.ContentView, FieldSelect)
	add("Host", "Puppet Environment", f.Host.PuppetEnvironment, FieldSelect)

	add("Virtual Machine", "Memory", f.VirtualMachine.Memory, FieldText)

	add("Operating System", "Architecture", f.OperatingSystem.Architecture, FieldSelect)
	add("Operating System", "Operating system", f.OperatingSystem.OperatingSystem, FieldSelect)
	add("Operating System", "Media", f.OperatingSystem.Media, FieldSelect)
	add("Operating System", "Partition table", f.OperatingSystem.PartitionTable, FieldSelect)
	add("Operating System", "Root password", f.OperatingSystem.RootPassword, FieldText)

	return out
}

// InterfaceWrites resolves the interface modal fields.
func (f *HostForm) InterfaceWrites() []FieldWrite {
	var out []FieldWrite

	add := func(label, value string, kind FieldKind) {
		if value == "" {
			return
		}
		loc := hostFormSelect
		if kind == FieldText {
			loc = hostFormText
		}
		out = append(out, FieldWrite{
			Tab:     "Interfaces",
			Label:   label,
			Kind:    kind,
			Locator: loc.Fmt(label),
			Value:   value,
		})
	}

	add("Type", f.Interface.Type, FieldSelect)
	add("Device Identifier", f.Interface.DeviceIdentifier, FieldText)
	add("MAC address", f.Interface.MAC, FieldText)
	add("Domain", f.Interface.Domain, FieldSelect)
	add("Network type", f.Interface.NetworkType, FieldSelect)
	add("Network", f.Interface.Network, FieldSelect)
	if f.Interface.Primary {
		out = append(out, FieldWrite{
			Tab:     "Interfaces",
			Label:   "Primary",
			Kind:    FieldCheckbox,
			Locator: Locator{selenium.ByXPATH, `//div[label[normalize-space(.)="Primary"]]//input[@type='checkbox']`},
			Checked: true,
		})
	}
	return out
}

// apply performs one field write.
func (d *Driver) apply(w FieldWrite) error {
	switch w.Kind {
	case FieldSelect:
		return d.SelectOption(w.Locator, w.Value)
	case FieldCheckbox:
		return d.SetCheckbox(w.Locator, w.Checked)
	default:
		return d.SetText(w.Locator, w.Value)
	}
}
