package entities

import (
	"context"
	"fmt"
)

// SmartProxy is the delegated DNS/DHCP/TFTP/discovery endpoint. There is
// normally exactly one per server, matched by the server hostname; fixtures
// patch it, never create it.
type SmartProxy struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	URL           string `json:"url"`
	Organizations []Ref  `json:"organizations"`
	Locations     []Ref  `json:"locations"`
}

type SmartProxiesService struct {
	c *Client
}

func (s *SmartProxiesService) Search(ctx context.Context, query string) ([]SmartProxy, error) {
	return searchEntities[SmartProxy](ctx, s.c, apiRoot+"/smart_proxies", query)
}

func (s *SmartProxiesService) Get(ctx context.Context, id int) (*SmartProxy, error) {
	return getEntity[SmartProxy](ctx, s.c, fmt.Sprintf(apiRoot+"/smart_proxies/%d", id))
}

// FindByName returns exactly the proxy with the given name.
func (s *SmartProxiesService) FindByName(ctx context.Context, name string) (*SmartProxy, error) {
	proxies, err := s.Search(ctx, fmt.Sprintf("name=%s", name))
	if err != nil {
		return nil, err
	}
	return one(proxies, name)
}

func (s *SmartProxiesService) Update(ctx context.Context, id int, fields Fields) (*SmartProxy, error) {
	return updateEntity[SmartProxy](ctx, s.c, fmt.Sprintf(apiRoot+"/smart_proxies/%d", id), "smart_proxy", fields)
}

// Domain is a DNS zone; its dns proxy serves the zone.
type Domain struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	FullName      string `json:"fullname"`
	DNS           *Ref   `json:"dns"`
	Organizations []Ref  `json:"organizations"`
	Locations     []Ref  `json:"locations"`
}

// DomainSpec is the create payload.
type DomainSpec struct {
	Name            string `json:"name"`
	DNSID           int    `json:"dns_id,omitempty"`
	OrganizationIDs []int  `json:"organization_ids,omitempty"`
	LocationIDs     []int  `json:"location_ids,omitempty"`
}

type DomainsService struct {
	c *Client
}

func (s *DomainsService) Create(ctx context.Context, spec DomainSpec) (*Domain, error) {
	return createEntity[Domain](ctx, s.c, apiRoot+"/domains", "domain", spec)
}

func (s *DomainsService) Get(ctx context.Context, id int) (*Domain, error) {
	return getEntity[Domain](ctx, s.c, fmt.Sprintf(apiRoot+"/domains/%d", id))
}

func (s *DomainsService) Search(ctx context.Context, query string) ([]Domain, error) {
	return searchEntities[Domain](ctx, s.c, apiRoot+"/domains", query)
}

func (s *DomainsService) Update(ctx context.Context, id int, fields Fields) (*Domain, error) {
	return updateEntity[Domain](ctx, s.c, fmt.Sprintf(apiRoot+"/domains/%d", id), "domain", fields)
}

func (s *DomainsService) Delete(ctx context.Context, id int) error {
	return deleteEntity(ctx, s.c, fmt.Sprintf(apiRoot+"/domains/%d", id))
}

// Subnet is a provisioning network; the referenced proxies provide its
// DNS/DHCP/TFTP/discovery services.
type Subnet struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Network       string `json:"network"`
	Mask          string `json:"mask"`
	Gateway       string `json:"gateway"`
	From          string `json:"from"`
	To            string `json:"to"`
	IPAM          string `json:"ipam"`
	DNS           *Ref   `json:"dns"`
	DHCP          *Ref   `json:"dhcp"`
	TFTP          *Ref   `json:"tftp"`
	Discovery     *Ref   `json:"discovery"`
	Domains       []Ref  `json:"domains"`
	Organizations []Ref  `json:"organizations"`
	Locations     []Ref  `json:"locations"`
}

// SubnetSpec is the create payload.
type SubnetSpec struct {
	Name            string `json:"name"`
	Network         string `json:"network"`
	Mask            string `json:"mask"`
	Gateway         string `json:"gateway,omitempty"`
	IPAM            string `json:"ipam,omitempty"`
	DNSID           int    `json:"dns_id,omitempty"`
	DHCPID          int    `json:"dhcp_id,omitempty"`
	TFTPID          int    `json:"tftp_id,omitempty"`
	DiscoveryID     int    `json:"discovery_id,omitempty"`
	DomainIDs       []int  `json:"domain_ids,omitempty"`
	OrganizationIDs []int  `json:"organization_ids,omitempty"`
	LocationIDs     []int  `json:"location_ids,omitempty"`
}

type SubnetsService struct {
	c *Client
}

func (s *SubnetsService) Create(ctx context.Context, spec SubnetSpec) (*Subnet, error) {
	return createEntity[Subnet](ctx, s.c, apiRoot+"/subnets", "subnet", spec)
}

func (s *SubnetsService) Get(ctx context.Context, id int) (*Subnet, error) {
	return getEntity[Subnet](ctx, s.c, fmt.Sprintf(apiRoot+"/subnets/%d", id))
}

func (s *SubnetsService) Search(ctx context.Context, query string) ([]Subnet, error) {
	return searchEntities[Subnet](ctx, s.c, apiRoot+"/subnets", query)
}

func (s *SubnetsService) Update(ctx context.Context, id int, fields Fields) (*Subnet, error) {
	return updateEntity[Subnet](ctx, s.c, fmt.Sprintf(apiRoot+"/subnets/%d", id), "subnet", fields)
}

func (s *SubnetsService) Delete(ctx context.Context, id int) error {
	return deleteEntity(ctx, s.c, fmt.Sprintf(apiRoot+"/subnets/%d", id))
}

// ComputeResource is a virtualization backend hosts are deployed onto. Only
// the libvirt provider is exercised here.
type ComputeResource struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	URL           string `json:"url"`
	Organizations []Ref  `json:"organizations"`
	Locations     []Ref  `json:"locations"`
}

// ComputeResourceSpec is the create payload.
type ComputeResourceSpec struct {
	Name               string `json:"name"`
	Provider           string `json:"provider"`
	URL                string `json:"url"`
	DisplayType        string `json:"display_type,omitempty"`
	SetConsolePassword bool   `json:"set_console_password"`
	OrganizationIDs    []int  `json:"organization_ids,omitempty"`
	LocationIDs        []int  `json:"location_ids,omitempty"`
}

// ProviderLibvirt is the only provider the suites deploy onto.
const ProviderLibvirt = "Libvirt"

type ComputeResourcesService struct {
	c *Client
}

func (s *ComputeResourcesService) Create(ctx context.Context, spec ComputeResourceSpec) (*ComputeResource, error) {
	return createEntity[ComputeResource](ctx, s.c, apiRoot+"/compute_resources", "compute_resource", spec)
}

func (s *ComputeResourcesService) Get(ctx context.Context, id int) (*ComputeResource, error) {
	return getEntity[ComputeResource](ctx, s.c, fmt.Sprintf(apiRoot+"/compute_resources/%d", id))
}

func (s *ComputeResourcesService) Search(ctx context.Context, query string) ([]ComputeResource, error) {
	return searchEntities[ComputeResource](ctx, s.c, apiRoot+"/compute_resources", query)
}

func (s *ComputeResourcesService) Update(ctx context.Context, id int, fields Fields) (*ComputeResource, error) {
	return updateEntity[ComputeResource](ctx, s.c, fmt.Sprintf(apiRoot+"/compute_resources/%d", id), "compute_resource", fields)
}
