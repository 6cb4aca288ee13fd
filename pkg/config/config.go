// Package config loads the suite settings from an INI properties file and
// from environment overrides. Optional sections gate whole suites: a suite
// that needs VLAN networking or a libvirt hypervisor is skipped when the
// corresponding section is absent.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

const (
	// EnvConfigPath overrides the default properties file location.
	EnvConfigPath = "SATELLITE_TESTS_CONFIG"

	defaultPath = "satellite-tests.properties"
)

// Server describes the product instance under test.
type Server struct {
	Hostname   string `ini:"hostname"`
	Scheme     string `ini:"scheme"`
	Port       int    `ini:"port"`
	User       string `ini:"admin_username"`
	Password   string `ini:"admin_password"`
	SSHUser    string `ini:"ssh_username"`
	SSHKeyPath string `ini:"ssh_key_path"`
	SSHPort    int    `ini:"ssh_port"`
	VerifySSL  bool   `ini:"verify_ssl"`
	// Release is the OS release the server runs on, e.g. "RHEL7.4". Suites
	// gate on it; empty means no gating.
	Release string `ini:"release"`
}

// Selenium points the UI driver at a WebDriver endpoint.
type Selenium struct {
	RemoteURL string `ini:"remote_url"`
	Browser   string `ini:"browser"`
}

// VLANNetworking carries the shared provisioning network. The subnet named
// here is a singleton on the server and is patched, not recreated, by the
// fixture builder.
type VLANNetworking struct {
	Subnet  string `ini:"subnet"`
	Netmask string `ini:"netmask"`
	Gateway string `ini:"gateway"`
	Bridge  string `ini:"bridge"`
}

// ComputeResources carries the libvirt hypervisor connection parameters.
type ComputeResources struct {
	LibvirtHostname string `ini:"libvirt_hostname"`
	LibvirtUser     string `ini:"libvirt_user"`
	LibvirtImageDir string `ini:"libvirt_image_dir"`
}

// Provisioning carries the OS content the libvirt deployment suite syncs
// into its content view.
type Provisioning struct {
	RHELRepo string `ini:"rhel_repo"`
	OSTitle  string `ini:"os_title"`
}

// OSCAP carries the OpenSCAP content file used by the compliance suites.
type OSCAP struct {
	ContentPath string `ini:"content_path"`
}

// Ostree carries the Atomic installer source.
type Ostree struct {
	InstallerURL string `ini:"ostree_installer"`
}

// Defects configures the defect-tracker lookup behind conditional skips.
type Defects struct {
	URL      string `ini:"url"`
	Username string `ini:"username"`
	Token    string `ini:"token"`
}

// Manifest points at a subscription manifest usable by content suites.
type Manifest struct {
	Path string `ini:"path"`
}

// Settings is the root of the suite configuration. Pointer fields correspond
// to optional sections and stay nil when the section is missing.
type Settings struct {
	Server   Server
	Selenium Selenium

	VLANNetworking   *VLANNetworking
	ComputeResources *ComputeResources
	Provisioning     *Provisioning
	OSCAP            *OSCAP
	Ostree           *Ostree
	Defects          *Defects
	Manifest         *Manifest
}

// Load reads the properties file at path and applies environment overrides.
func Load(path string) (*Settings, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading settings from %s", path)
	}
	return parse(f)
}

// FromEnv resolves the properties file from SATELLITE_TESTS_CONFIG, falling
// back to satellite-tests.properties in the working directory.
func FromEnv() (*Settings, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = defaultPath
	}
	return Load(path)
}

func parse(f *ini.File) (*Settings, error) {
	s := &Settings{
		Server: Server{
			Scheme:    "https",
			Port:      443,
			SSHUser:   "root",
			SSHPort:   22,
			VerifySSL: false,
		},
		Selenium: Selenium{
			RemoteURL: "http://127.0.0.1:4444/wd/hub",
			Browser:   "chrome",
		},
	}

	if err := f.Section("server").MapTo(&s.Server); err != nil {
		return nil, errors.Wrap(err, "parsing [server]")
	}
	if err := f.Section("selenium").MapTo(&s.Selenium); err != nil {
		return nil, errors.Wrap(err, "parsing [selenium]")
	}

	optional := []struct {
		name string
		dst  func() interface{}
	}{
		{"vlan_networking", func() interface{} { s.VLANNetworking = &VLANNetworking{}; return s.VLANNetworking }},
		{"compute_resources", func() interface{} { s.ComputeResources = &ComputeResources{}; return s.ComputeResources }},
		{"provisioning", func() interface{} { s.Provisioning = &Provisioning{}; return s.Provisioning }},
		{"oscap", func() interface{} { s.OSCAP = &OSCAP{}; return s.OSCAP }},
		{"ostree", func() interface{} { s.Ostree = &Ostree{}; return s.Ostree }},
		{"defects", func() interface{} { s.Defects = &Defects{}; return s.Defects }},
		{"manifest", func() interface{} { s.Manifest = &Manifest{}; return s.Manifest }},
	}
	for _, sec := range optional {
		if _, err := f.GetSection(sec.name); err != nil {
			continue
		}
		if err := f.Section(sec.name).MapTo(sec.dst()); err != nil {
			return nil, errors.Wrapf(err, "parsing [%s]", sec.name)
		}
	}

	applyEnvOverrides(s)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func applyEnvOverrides(s *Settings) {
	if v := os.Getenv("SATELLITE_SERVER_HOSTNAME"); v != "" {
		s.Server.Hostname = v
	}
	if v := os.Getenv("SATELLITE_ADMIN_USERNAME"); v != "" {
		s.Server.User = v
	}
	if v := os.Getenv("SATELLITE_ADMIN_PASSWORD"); v != "" {
		s.Server.Password = v
	}
	if v := os.Getenv("SATELLITE_SELENIUM_URL"); v != "" {
		s.Selenium.RemoteURL = v
	}
}

// Validate checks the fields every suite needs. Optional sections are
// validated only when present.
func (s *Settings) Validate() error {
	if s.Server.Hostname == "" {
		return errors.New("server.hostname is required")
	}
	if s.Server.User == "" || s.Server.Password == "" {
		return errors.New("server admin credentials are required")
	}
	if s.VLANNetworking != nil {
		if s.VLANNetworking.Subnet == "" || s.VLANNetworking.Netmask == "" {
			return errors.New("vlan_networking requires subnet and netmask")
		}
	}
	if s.ComputeResources != nil && s.ComputeResources.LibvirtHostname == "" {
		return errors.New("compute_resources requires libvirt_hostname")
	}
	if s.OSCAP != nil && s.OSCAP.ContentPath == "" {
		return errors.New("oscap requires content_path")
	}
	return nil
}

// HasSection reports whether the named optional section was configured.
func (s *Settings) HasSection(name string) bool {
	switch name {
	case "vlan_networking":
		return s.VLANNetworking != nil
	case "compute_resources":
		return s.ComputeResources != nil
	case "provisioning":
		return s.Provisioning != nil
	case "oscap":
		return s.OSCAP != nil
	case "ostree":
		return s.Ostree != nil
	case "defects":
		return s.Defects != nil
	case "manifest":
		return s.Manifest != nil
	}
	return false
}

// ServerDomain returns the DNS domain of the server hostname, the default
// domain for provisioned hosts.
func (s *Settings) ServerDomain() string {
	_, domain, found := strings.Cut(s.Server.Hostname, ".")
	if !found {
		return ""
	}
	return domain
}

// BaseURL returns the root URL of the product API and UI.
func (s *Settings) BaseURL() string {
	host := s.Server.Hostname
	if (s.Server.Scheme == "https" && s.Server.Port != 443) ||
		(s.Server.Scheme == "http" && s.Server.Port != 80) {
		return s.Server.Scheme + "://" + host + ":" + strconv.Itoa(s.Server.Port)
	}
	return s.Server.Scheme + "://" + host
}

// LibvirtURL returns the qemu+ssh connection URL for the configured
// hypervisor, or the empty string when compute resources are not configured.
func (s *Settings) LibvirtURL() string {
	if s.ComputeResources == nil {
		return ""
	}
	user := s.ComputeResources.LibvirtUser
	if user == "" {
		user = "root"
	}
	return "qemu+ssh://" + user + "@" + s.ComputeResources.LibvirtHostname + "/system"
}

// Redacted returns a copy safe for logging, with secrets masked.
func (s *Settings) Redacted() *Settings {
	c := *s
	if c.Server.Password != "" {
		c.Server.Password = "********"
	}
	if s.Defects != nil {
		d := *s.Defects
		if d.Token != "" {
			d.Token = "********"
		}
		c.Defects = &d
	}
	return &c
}
