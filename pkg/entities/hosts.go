package entities

import (
	"context"
	"fmt"
)

// Host is the unit under test. It is either fully specified or inherits its
// provisioning bundle from a host group.
type Host struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	DomainID         int             `json:"domain_id"`
	DomainName       string          `json:"domain_name"`
	OrganizationID   int             `json:"organization_id"`
	OrganizationName string          `json:"organization_name"`
	LocationID       int             `json:"location_id"`
	HostGroupID      int             `json:"hostgroup_id"`
	MAC              string          `json:"mac"`
	ContentFacet     *ContentFacet   `json:"content_facet_attributes,omitempty"`
	Interfaces       []HostInterface `json:"interfaces"`
	Parameters       []HostParameter `json:"parameters"`
}

// ContentFacet carries the host's content binding, inherited from the host
// group when created through one.
type ContentFacet struct {
	LifecycleEnvironmentID int `json:"lifecycle_environment_id"`
	ContentViewID          int `json:"content_view_id"`
}

// Canonical returns the host's canonical display name, name.domain, the key
// used for UI search and teardown.
func (h *Host) Canonical() string {
	if h.DomainName == "" {
		return h.Name
	}
	return fmt.Sprintf("%s.%s", h.Name, h.DomainName)
}

// HostInterface is one network interface of a host.
type HostInterface struct {
	ID         int    `json:"id,omitempty"`
	Type       string `json:"type,omitempty"`
	Identifier string `json:"identifier,omitempty"`
	MAC        string `json:"mac,omitempty"`
	Primary    bool   `json:"primary,omitempty"`
	Provision  bool   `json:"provision,omitempty"`
}

// HostParameter is a global parameter attached to a host, searchable with
// raw queries of the form params.name = value.
type HostParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HostSpec is the create payload. Zero-valued references are inherited from
// the host group when one is set.
type HostSpec struct {
	Name                string          `json:"name,omitempty"`
	OrganizationID      int             `json:"organization_id,omitempty"`
	LocationID          int             `json:"location_id,omitempty"`
	HostGroupID         int             `json:"hostgroup_id,omitempty"`
	DomainID            int             `json:"domain_id,omitempty"`
	ArchitectureID      int             `json:"architecture_id,omitempty"`
	OperatingSystemID   int             `json:"operatingsystem_id,omitempty"`
	MediumID            int             `json:"medium_id,omitempty"`
	PartitionTableID    int             `json:"ptable_id,omitempty"`
	EnvironmentID       int             `json:"environment_id,omitempty"`
	MAC                 string          `json:"mac,omitempty"`
	RootPass            string          `json:"root_pass,omitempty"`
	Build               bool            `json:"build"`
	Managed             bool            `json:"managed"`
	InterfacesAttrs     []HostInterface `json:"interfaces_attributes,omitempty"`
	HostParametersAttrs []HostParameter `json:"host_parameters_attributes,omitempty"`
}

type HostsService struct {
	c *Client
}

func (s *HostsService) Create(ctx context.Context, spec HostSpec) (*Host, error) {
	return createEntity[Host](ctx, s.c, apiRoot+"/hosts", "host", spec)
}

func (s *HostsService) Get(ctx context.Context, id int) (*Host, error) {
	return getEntity[Host](ctx, s.c, fmt.Sprintf(apiRoot+"/hosts/%d", id))
}

func (s *HostsService) Search(ctx context.Context, query string) ([]Host, error) {
	return searchEntities[Host](ctx, s.c, apiRoot+"/hosts", query)
}

// FindByName looks a host up by canonical name. Returns ErrNotFound when the
// host does not exist.
func (s *HostsService) FindByName(ctx context.Context, canonical string) (*Host, error) {
	hosts, err := s.Search(ctx, fmt.Sprintf("name=%q", canonical))
	if err != nil {
		return nil, err
	}
	return one(hosts, canonical)
}

func (s *HostsService) Update(ctx context.Context, id int, fields Fields) (*Host, error) {
	return updateEntity[Host](ctx, s.c, fmt.Sprintf(apiRoot+"/hosts/%d", id), "host", fields)
}

func (s *HostsService) Delete(ctx context.Context, id int) error {
	return deleteEntity(ctx, s.c, fmt.Sprintf(apiRoot+"/hosts/%d", id))
}
