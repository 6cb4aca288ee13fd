// Package fixtures composes API calls into the entity graphs the suites
// provision against. Every Ensure helper is idempotent: it reuses a matching
// entity when one exists and creates it otherwise, so shared infrastructure
// survives repeated runs against the same server.
package fixtures

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/satelliteqe/satellite-tests/pkg/config"
	"github.com/satelliteqe/satellite-tests/pkg/datafactory"
	"github.com/satelliteqe/satellite-tests/pkg/entities"
)

// Builder creates fixtures for one server.
type Builder struct {
	Client   *entities.Client
	Settings *config.Settings
	log      *logrus.Entry
}

// NewBuilder wires the API client and settings together.
func NewBuilder(client *entities.Client, settings *config.Settings) *Builder {
	return &Builder{
		Client:   client,
		Settings: settings,
		log:      logrus.WithField("component", "fixtures"),
	}
}

// EnsureOrganization creates a fresh organization with a generated name, or
// returns the named one when name is non-empty and it already exists.
func (b *Builder) EnsureOrganization(ctx context.Context, name string) (*entities.Organization, error) {
	if name == "" {
		name = datafactory.UniqueName("org")
	} else {
		org, err := b.Client.Organizations.FindByName(ctx, name)
		if err == nil {
			return org, nil
		}
		if !entities.IsNotFound(err) {
			return nil, err
		}
	}
	b.log.Infof("creating organization %s", name)
	return b.Client.Organizations.Create(ctx, entities.OrganizationSpec{Name: name})
}

// EnsureLocation mirrors EnsureOrganization for locations.
func (b *Builder) EnsureLocation(ctx context.Context, name string, orgID int) (*entities.Location, error) {
	if name == "" {
		name = datafactory.UniqueName("loc")
	} else {
		locs, err := b.Client.Locations.Search(ctx, fmt.Sprintf("name=%q", name))
		if err != nil {
			return nil, err
		}
		if len(locs) == 1 {
			return b.Client.Locations.Update(ctx, locs[0].ID, entities.Fields{
				"organization_ids": entities.AppendRefID(locs[0].Organizations, orgID),
			})
		}
		if len(locs) > 1 {
			return nil, errors.Wrap(entities.ErrAmbiguous, name)
		}
	}
	b.log.Infof("creating location %s", name)
	return b.Client.Locations.Create(ctx, entities.LocationSpec{
		Name:            name,
		OrganizationIDs: []int{orgID},
	})
}

// EnsureProxy finds the server's own smart proxy and assigns it to the
// organization and location. The proxy is installed with the product and is
// never created here.
func (b *Builder) EnsureProxy(ctx context.Context, orgID, locID int) (*entities.SmartProxy, error) {
	proxy, err := b.Client.SmartProxies.FindByName(ctx, b.Settings.Server.Hostname)
	if err != nil {
		return nil, errors.Wrapf(err, "locating smart proxy %s", b.Settings.Server.Hostname)
	}
	return b.Client.SmartProxies.Update(ctx, proxy.ID, entities.Fields{
		"organization_ids": entities.AppendRefID(proxy.Organizations, orgID),
		"location_ids":     entities.AppendRefID(proxy.Locations, locID),
	})
}

// EnsureDomain finds or creates the server's own DNS domain and attaches it
// to the organization and location, with the proxy serving DNS.
func (b *Builder) EnsureDomain(ctx context.Context, proxy *entities.SmartProxy, orgID, locID int) (*entities.Domain, error) {
	name := b.Settings.ServerDomain()
	domains, err := b.Client.Domains.Search(ctx, fmt.Sprintf("name=%q", name))
	if err != nil {
		return nil, err
	}
	switch len(domains) {
	case 0:
		b.log.Infof("creating domain %s", name)
		return b.Client.Domains.Create(ctx, entities.DomainSpec{
			Name:            name,
			DNSID:           proxy.ID,
			OrganizationIDs: []int{orgID},
			LocationIDs:     []int{locID},
		})
	case 1:
		d := domains[0]
		return b.Client.Domains.Update(ctx, d.ID, entities.Fields{
			"dns_id":           proxy.ID,
			"organization_ids": entities.AppendRefID(d.Organizations, orgID),
			"location_ids":     entities.AppendRefID(d.Locations, locID),
		})
	default:
		return nil, errors.Wrap(entities.ErrAmbiguous, name)
	}
}

// EnsureSubnet finds or creates the provisioning subnet from the vlan
// networking settings, with the proxy serving DHCP, TFTP, DNS and discovery.
func (b *Builder) EnsureSubnet(ctx context.Context, proxy *entities.SmartProxy, domain *entities.Domain, orgID, locID int) (*entities.Subnet, error) {
	net := b.Settings.VLANNetworking
	if net == nil {
		return nil, errors.New("vlan_networking settings missing")
	}
	subnets, err := b.Client.Subnets.Search(ctx, fmt.Sprintf("network=%s", net.Subnet))
	if err != nil {
		return nil, err
	}
	switch len(subnets) {
	case 0:
		b.log.Infof("creating subnet %s", net.Subnet)
		return b.Client.Subnets.Create(ctx, entities.SubnetSpec{
			Name:            datafactory.UniqueName("subnet"),
			Network:         net.Subnet,
			Mask:            net.Netmask,
			Gateway:         net.Gateway,
			IPAM:            "DHCP",
			DNSID:           proxy.ID,
			DHCPID:          proxy.ID,
			TFTPID:          proxy.ID,
			DiscoveryID:     proxy.ID,
			DomainIDs:       []int{domain.ID},
			OrganizationIDs: []int{orgID},
			LocationIDs:     []int{locID},
		})
	case 1:
		s := subnets[0]
		return b.Client.Subnets.Update(ctx, s.ID, entities.Fields{
			"dns_id":           proxy.ID,
			"dhcp_id":          proxy.ID,
			"tftp_id":          proxy.ID,
			"discovery_id":     proxy.ID,
			"domain_ids":       entities.AppendRefID(s.Domains, domain.ID),
			"organization_ids": entities.AppendRefID(s.Organizations, orgID),
			"location_ids":     entities.AppendRefID(s.Locations, locID),
		})
	default:
		return nil, errors.Wrap(entities.ErrAmbiguous, net.Subnet)
	}
}

// EnsureLibvirtResource finds or creates the libvirt compute resource
// pointing at the configured hypervisor. Matching is on provider and URL,
// not name, so renamed resources are still reused.
func (b *Builder) EnsureLibvirtResource(ctx context.Context, orgID, locID int) (*entities.ComputeResource, error) {
	if b.Settings.ComputeResources == nil {
		return nil, errors.New("compute_resources settings missing")
	}
	url := b.Settings.LibvirtURL()
	resources, err := b.Client.ComputeResources.Search(ctx, "provider=Libvirt")
	if err != nil {
		return nil, err
	}
	for i := range resources {
		if resources[i].URL == url {
			r := resources[i]
			return b.Client.ComputeResources.Update(ctx, r.ID, entities.Fields{
				"organization_ids": entities.AppendRefID(r.Organizations, orgID),
				"location_ids":     entities.AppendRefID(r.Locations, locID),
			})
		}
	}
	b.log.Infof("creating libvirt compute resource %s", url)
	return b.Client.ComputeResources.Create(ctx, entities.ComputeResourceSpec{
		Name:               datafactory.UniqueName("libvirt"),
		Provider:           entities.ProviderLibvirt,
		URL:                url,
		DisplayType:        "VNC",
		SetConsolePassword: false,
		OrganizationIDs:    []int{orgID},
		LocationIDs:        []int{locID},
	})
}

// EnsureMedia finds or creates an installation media by path.
func (b *Builder) EnsureMedia(ctx context.Context, path, osFamily string, orgID, locID int) (*entities.Media, error) {
	media, err := b.Client.Media.Search(ctx, fmt.Sprintf("path=%q", path))
	if err != nil {
		return nil, err
	}
	switch len(media) {
	case 0:
		b.log.Infof("creating media %s", path)
		return b.Client.Media.Create(ctx, entities.MediaSpec{
			Name:            datafactory.UniqueName("media"),
			Path:            path,
			OSFamily:        osFamily,
			OrganizationIDs: []int{orgID},
			LocationIDs:     []int{locID},
		})
	case 1:
		m := media[0]
		return b.Client.Media.Update(ctx, m.ID, entities.Fields{
			"organization_ids": entities.AppendRefID(m.Organizations, orgID),
			"location_ids":     entities.AppendRefID(m.Locations, locID),
		})
	default:
		return nil, errors.Wrap(entities.ErrAmbiguous, path)
	}
}

// EnsureEnvironment returns a puppet environment visible to the organization,
// creating one when none exists.
func (b *Builder) EnsureEnvironment(ctx context.Context, orgID, locID int) (*entities.Environment, error) {
	envs, err := b.Client.Environments.SearchByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if len(envs) > 0 {
		return b.Client.Environments.Update(ctx, envs[0].ID, entities.Fields{
			"organization_ids": entities.AppendRefID(envs[0].Organizations, orgID),
			"location_ids":     entities.AppendRefID(envs[0].Locations, locID),
		})
	}
	return b.Client.Environments.Create(ctx, entities.EnvironmentSpec{
		Name:            datafactory.GenString(datafactory.Alpha, 8),
		OrganizationIDs: []int{orgID},
		LocationIDs:     []int{locID},
	})
}
