package entities

import (
	"context"
	"fmt"
)

// PartitionTable is a disk layout template referenced by operating systems
// and host groups.
type PartitionTable struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type PartitionTablesService struct {
	c *Client
}

func (s *PartitionTablesService) Search(ctx context.Context, query string) ([]PartitionTable, error) {
	return searchEntities[PartitionTable](ctx, s.c, apiRoot+"/ptables", query)
}

// FindByName returns exactly the partition table with the given name.
func (s *PartitionTablesService) FindByName(ctx context.Context, name string) (*PartitionTable, error) {
	tables, err := s.Search(ctx, fmt.Sprintf("name=%q", name))
	if err != nil {
		return nil, err
	}
	return one(tables, name)
}

// OperatingSystem bundles the provisioning metadata for one OS release.
type OperatingSystem struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Major           string `json:"major"`
	Minor           string `json:"minor"`
	Family          string `json:"family"`
	Architectures   []Ref  `json:"architectures"`
	PartitionTables []Ref  `json:"ptables"`
	Media           []Ref  `json:"media"`
}

// Title returns the display name the UI uses in OS dropdowns.
func (os *OperatingSystem) Title() string {
	return fmt.Sprintf("%s %s", os.Name, os.Major)
}

type OperatingSystemsService struct {
	c *Client
}

func (s *OperatingSystemsService) Search(ctx context.Context, query string) ([]OperatingSystem, error) {
	return searchEntities[OperatingSystem](ctx, s.c, apiRoot+"/operatingsystems", query)
}

func (s *OperatingSystemsService) Get(ctx context.Context, id int) (*OperatingSystem, error) {
	return getEntity[OperatingSystem](ctx, s.c, fmt.Sprintf(apiRoot+"/operatingsystems/%d", id))
}

func (s *OperatingSystemsService) Update(ctx context.Context, id int, fields Fields) (*OperatingSystem, error) {
	return updateEntity[OperatingSystem](ctx, s.c, fmt.Sprintf(apiRoot+"/operatingsystems/%d", id), "operatingsystem", fields)
}

// Template is a provisioning or PXE config template rendered for hosts.
type Template struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	TemplateKind     *Ref   `json:"template_kind"`
	OperatingSystems []Ref  `json:"operatingsystems"`
	Organizations    []Ref  `json:"organizations"`
	Locations        []Ref  `json:"locations"`
}

type TemplatesService struct {
	c *Client
}

func (s *TemplatesService) Search(ctx context.Context, query string) ([]Template, error) {
	return searchEntities[Template](ctx, s.c, apiRoot+"/provisioning_templates", query)
}

// FindByName returns exactly the template with the given name.
func (s *TemplatesService) FindByName(ctx context.Context, name string) (*Template, error) {
	templates, err := s.Search(ctx, fmt.Sprintf("name=%q", name))
	if err != nil {
		return nil, err
	}
	return one(templates, name)
}

func (s *TemplatesService) Update(ctx context.Context, id int, fields Fields) (*Template, error) {
	return updateEntity[Template](ctx, s.c, fmt.Sprintf(apiRoot+"/provisioning_templates/%d", id), "provisioning_template", fields)
}

// Architecture is a CPU architecture handle (x86_64 in practice).
type Architecture struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ArchitecturesService struct {
	c *Client
}

func (s *ArchitecturesService) Search(ctx context.Context, query string) ([]Architecture, error) {
	return searchEntities[Architecture](ctx, s.c, apiRoot+"/architectures", query)
}

// FindByName returns exactly the architecture with the given name.
func (s *ArchitecturesService) FindByName(ctx context.Context, name string) (*Architecture, error) {
	archs, err := s.Search(ctx, fmt.Sprintf("name=%q", name))
	if err != nil {
		return nil, err
	}
	return one(archs, name)
}

// Media is an installation media source.
type Media struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Path          string `json:"path"`
	OSFamily      string `json:"os_family"`
	Organizations []Ref  `json:"organizations"`
	Locations     []Ref  `json:"locations"`
}

// MediaSpec is the create payload.
type MediaSpec struct {
	Name            string `json:"name,omitempty"`
	Path            string `json:"path"`
	OSFamily        string `json:"os_family,omitempty"`
	OrganizationIDs []int  `json:"organization_ids,omitempty"`
	LocationIDs     []int  `json:"location_ids,omitempty"`
}

type MediaService struct {
	c *Client
}

func (s *MediaService) Create(ctx context.Context, spec MediaSpec) (*Media, error) {
	return createEntity[Media](ctx, s.c, apiRoot+"/media", "medium", spec)
}

func (s *MediaService) Get(ctx context.Context, id int) (*Media, error) {
	return getEntity[Media](ctx, s.c, fmt.Sprintf(apiRoot+"/media/%d", id))
}

func (s *MediaService) Search(ctx context.Context, query string) ([]Media, error) {
	return searchEntities[Media](ctx, s.c, apiRoot+"/media", query)
}

func (s *MediaService) Update(ctx context.Context, id int, fields Fields) (*Media, error) {
	return updateEntity[Media](ctx, s.c, fmt.Sprintf(apiRoot+"/media/%d", id), "medium", fields)
}

// Environment is a puppet environment; hosts and host groups reference one.
type Environment struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Organizations []Ref  `json:"organizations"`
	Locations     []Ref  `json:"locations"`
}

// EnvironmentSpec is the create payload.
type EnvironmentSpec struct {
	Name            string `json:"name"`
	OrganizationIDs []int  `json:"organization_ids,omitempty"`
	LocationIDs     []int  `json:"location_ids,omitempty"`
}

type EnvironmentsService struct {
	c *Client
}

func (s *EnvironmentsService) Create(ctx context.Context, spec EnvironmentSpec) (*Environment, error) {
	return createEntity[Environment](ctx, s.c, apiRoot+"/environments", "environment", spec)
}

func (s *EnvironmentsService) Search(ctx context.Context, query string) ([]Environment, error) {
	return searchEntities[Environment](ctx, s.c, apiRoot+"/environments", query)
}

// SearchByOrganization lists the environments visible to an organization.
func (s *EnvironmentsService) SearchByOrganization(ctx context.Context, orgID int) ([]Environment, error) {
	return searchEntities[Environment](ctx, s.c,
		fmt.Sprintf(apiRoot+"/organizations/%d/environments", orgID), "")
}

func (s *EnvironmentsService) Update(ctx context.Context, id int, fields Fields) (*Environment, error) {
	return updateEntity[Environment](ctx, s.c, fmt.Sprintf(apiRoot+"/environments/%d", id), "environment", fields)
}

// HostGroup bundles provisioning defaults a host inherits wholesale.
type HostGroup struct {
	ID                     int    `json:"id"`
	Name                   string `json:"name"`
	ArchitectureID         int    `json:"architecture_id"`
	DomainID               int    `json:"domain_id"`
	SubnetID               int    `json:"subnet_id"`
	LifecycleEnvironmentID int    `json:"lifecycle_environment_id"`
	ContentViewID          int    `json:"content_view_id"`
	EnvironmentID          int    `json:"environment_id"`
	OperatingSystemID      int    `json:"operatingsystem_id"`
	MediumID               int    `json:"medium_id"`
	PartitionTableID       int    `json:"ptable_id"`
}

// HostGroupSpec is the create payload.
type HostGroupSpec struct {
	Name                   string `json:"name"`
	ArchitectureID         int    `json:"architecture_id,omitempty"`
	DomainID               int    `json:"domain_id,omitempty"`
	SubnetID               int    `json:"subnet_id,omitempty"`
	LifecycleEnvironmentID int    `json:"lifecycle_environment_id,omitempty"`
	ContentViewID          int    `json:"content_view_id,omitempty"`
	EnvironmentID          int    `json:"environment_id,omitempty"`
	OperatingSystemID      int    `json:"operatingsystem_id,omitempty"`
	MediumID               int    `json:"medium_id,omitempty"`
	PartitionTableID       int    `json:"ptable_id,omitempty"`
	PuppetProxyID          int    `json:"puppet_proxy_id,omitempty"`
	PuppetCAProxyID        int    `json:"puppet_ca_proxy_id,omitempty"`
	ContentSourceID        int    `json:"content_source_id,omitempty"`
	OrganizationIDs        []int  `json:"organization_ids,omitempty"`
	LocationIDs            []int  `json:"location_ids,omitempty"`
}

type HostGroupsService struct {
	c *Client
}

func (s *HostGroupsService) Create(ctx context.Context, spec HostGroupSpec) (*HostGroup, error) {
	return createEntity[HostGroup](ctx, s.c, apiRoot+"/hostgroups", "hostgroup", spec)
}

func (s *HostGroupsService) Search(ctx context.Context, query string) ([]HostGroup, error) {
	return searchEntities[HostGroup](ctx, s.c, apiRoot+"/hostgroups", query)
}

func (s *HostGroupsService) Delete(ctx context.Context, id int) error {
	return deleteEntity(ctx, s.c, fmt.Sprintf(apiRoot+"/hostgroups/%d", id))
}
