package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "satellite-tests.properties")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMinimal(t *testing.T) {
	path := writeSettings(t, `
[server]
hostname = sat.example.com
admin_username = admin
admin_password = changeme
`)
	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sat.example.com", s.Server.Hostname)
	assert.Equal(t, "https", s.Server.Scheme)
	assert.Equal(t, 443, s.Server.Port)
	assert.Empty(t, s.Server.Release)
	assert.Nil(t, s.VLANNetworking)
	assert.Nil(t, s.ComputeResources)
	assert.False(t, s.HasSection("vlan_networking"))
}

func TestLoadOptionalSections(t *testing.T) {
	path := writeSettings(t, `
[server]
hostname = sat.example.com
admin_username = admin
admin_password = changeme
release = RHEL7.4

[vlan_networking]
subnet = 10.1.2.0
netmask = 255.255.255.0
gateway = 10.1.2.1
bridge = br0

[compute_resources]
libvirt_hostname = kvm.example.com
libvirt_user = qemu

[defects]
url = https://issues.example.com
username = bot
token = sekrit
`)
	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "RHEL7.4", s.Server.Release)
	require.NotNil(t, s.VLANNetworking)
	assert.Equal(t, "10.1.2.0", s.VLANNetworking.Subnet)
	assert.True(t, s.HasSection("vlan_networking"))
	assert.True(t, s.HasSection("compute_resources"))
	assert.True(t, s.HasSection("defects"))
	assert.False(t, s.HasSection("ostree"))

	assert.Equal(t, "qemu+ssh://qemu@kvm.example.com/system", s.LibvirtURL())
}

func TestValidateRejectsMissingCredentials(t *testing.T) {
	path := writeSettings(t, `
[server]
hostname = sat.example.com
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin credentials")
}

func TestValidateRejectsPartialVLAN(t *testing.T) {
	path := writeSettings(t, `
[server]
hostname = sat.example.com
admin_username = admin
admin_password = changeme

[vlan_networking]
subnet = 10.1.2.0
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vlan_networking")
}

func TestEnvOverrides(t *testing.T) {
	path := writeSettings(t, `
[server]
hostname = sat.example.com
admin_username = admin
admin_password = changeme
`)
	t.Setenv("SATELLITE_SERVER_HOSTNAME", "other.example.com")
	t.Setenv("SATELLITE_ADMIN_PASSWORD", "fromenv")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "other.example.com", s.Server.Hostname)
	assert.Equal(t, "fromenv", s.Server.Password)
}

func TestServerDomain(t *testing.T) {
	s := &Settings{Server: Server{Hostname: "sat.lab.example.com"}}
	assert.Equal(t, "lab.example.com", s.ServerDomain())

	s.Server.Hostname = "standalone"
	assert.Equal(t, "", s.ServerDomain())
}

func TestBaseURL(t *testing.T) {
	s := &Settings{Server: Server{Hostname: "sat.example.com", Scheme: "https", Port: 443}}
	assert.Equal(t, "https://sat.example.com", s.BaseURL())

	s.Server.Port = 8443
	assert.Equal(t, "https://sat.example.com:8443", s.BaseURL())
}

func TestRedactedMasksSecrets(t *testing.T) {
	s := &Settings{
		Server:  Server{Hostname: "sat.example.com", Password: "changeme"},
		Defects: &Defects{URL: "https://issues.example.com", Token: "sekrit"},
	}
	r := s.Redacted()
	assert.Equal(t, "********", r.Server.Password)
	assert.Equal(t, "********", r.Defects.Token)
	// original untouched
	assert.Equal(t, "changeme", s.Server.Password)
	assert.Equal(t, "sekrit", s.Defects.Token)
}
