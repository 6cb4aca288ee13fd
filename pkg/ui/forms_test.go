package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenSkipsEmptyFields(t *testing.T) {
	form := HostForm{
		Name: "web01",
		Host: HostSection{Organization: "acme"},
		OperatingSystem: OperatingSystemSection{
			Architecture: "x86_64",
			RootPassword: "changeme",
		},
	}

	writes := form.Flatten()
	require.Len(t, writes, 3)

	labels := make([]string, len(writes))
	for i, w := range writes {
		labels[i] = w.Label
	}
	assert.Equal(t, []string{"Organization", "Architecture", "Root password"}, labels)
}

func TestFlattenGroupsByTabInOrder(t *testing.T) {
	form := HostForm{
		Host: HostSection{
			Organization: "acme",
			Location:     "lab",
			HostGroup:    "rhel-group",
		},
		VirtualMachine: VirtualMachineSection{Memory: "1 GB"},
		OperatingSystem: OperatingSystemSection{
			OperatingSystem: "RedHat 7",
			Media:           "mirror",
		},
	}

	writes := form.Flatten()
	var tabs []string
	for _, w := range writes {
		if len(tabs) == 0 || tabs[len(tabs)-1] != w.Tab {
			tabs = append(tabs, w.Tab)
		}
	}
	assert.Equal(t, []string{"Host", "Virtual Machine", "Operating System"}, tabs,
		"writes arrive tab by tab so the page switches tabs once each")
}

func TestFlattenFieldKinds(t *testing.T) {
	form := HostForm{
		Host: HostSection{Organization: "acme"},
		OperatingSystem: OperatingSystemSection{
			RootPassword: "changeme",
		},
	}

	byLabel := map[string]FieldWrite{}
	for _, w := range form.Flatten() {
		byLabel[w.Label] = w
	}
	assert.Equal(t, FieldSelect, byLabel["Organization"].Kind)
	assert.Equal(t, FieldText, byLabel["Root password"].Kind)
}

func TestInterfaceWrites(t *testing.T) {
	form := HostForm{
		Interface: InterfaceSection{
			MAC:         "02:00:00:aa:bb:cc",
			Domain:      "lab.example.com",
			NetworkType: "Physical (Bridge)",
			Network:     "br0",
			Primary:     true,
		},
	}

	writes := form.InterfaceWrites()
	require.NotEmpty(t, writes)
	for _, w := range writes {
		assert.Equal(t, "Interfaces", w.Tab)
	}

	empty := HostForm{}
	assert.Empty(t, empty.InterfaceWrites())
}

func TestLocatorFmt(t *testing.T) {
	loc := OrgRow.Fmt("Default Organization")
	assert.Contains(t, loc.Value, "Default Organization")
	assert.Equal(t, OrgRow.By, loc.By)
	// the template itself is untouched
	assert.Contains(t, OrgRow.Value, "%s")
}
