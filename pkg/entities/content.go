package entities

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// LifecycleEnvironment is a stage in the content promotion pipeline. Every
// organization starts with a Library environment; new stages chain off it via
// Prior.
type LifecycleEnvironment struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Library      bool   `json:"library"`
	Prior        *Ref   `json:"prior"`
	Organization Ref    `json:"organization"`
}

// LifecycleEnvironmentSpec is the create payload.
type LifecycleEnvironmentSpec struct {
	Name           string `json:"name"`
	OrganizationID int    `json:"organization_id"`
	PriorID        int    `json:"prior_id,omitempty"`
}

type LifecycleEnvironmentsService struct {
	c *Client
}

func (s *LifecycleEnvironmentsService) Create(ctx context.Context, spec LifecycleEnvironmentSpec) (*LifecycleEnvironment, error) {
	if spec.PriorID == 0 {
		library, err := s.Library(ctx, spec.OrganizationID)
		if err != nil {
			return nil, err
		}
		spec.PriorID = library.ID
	}
	return createEntity[LifecycleEnvironment](ctx, s.c, katelloRoot+"/environments", "environment", spec)
}

// Library returns the organization's built-in Library environment.
func (s *LifecycleEnvironmentsService) Library(ctx context.Context, orgID int) (*LifecycleEnvironment, error) {
	envs, err := searchEntities[LifecycleEnvironment](ctx, s.c,
		fmt.Sprintf(katelloRoot+"/organizations/%d/environments", orgID), `name="Library"`)
	if err != nil {
		return nil, err
	}
	return one(envs, "Library")
}

// Product groups repositories inside an organization.
type Product struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Organization Ref    `json:"organization"`
}

// ProductSpec is the create payload.
type ProductSpec struct {
	Name           string `json:"name"`
	OrganizationID int    `json:"organization_id"`
}

type ProductsService struct {
	c *Client
}

func (s *ProductsService) Create(ctx context.Context, spec ProductSpec) (*Product, error) {
	return createEntity[Product](ctx, s.c, katelloRoot+"/products", "product", spec)
}

// Repository syncs content from an upstream source into a product.
type Repository struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Product     Ref    `json:"product"`
}

// RepositorySpec is the create payload.
type RepositorySpec struct {
	Name        string `json:"name"`
	ProductID   int    `json:"product_id"`
	URL         string `json:"url,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

type RepositoriesService struct {
	c *Client
}

func (s *RepositoriesService) Create(ctx context.Context, spec RepositorySpec) (*Repository, error) {
	if spec.ContentType == "" {
		spec.ContentType = "yum"
	}
	return createEntity[Repository](ctx, s.c, katelloRoot+"/repositories", "repository", spec)
}

func (s *RepositoriesService) Get(ctx context.Context, id int) (*Repository, error) {
	return getEntity[Repository](ctx, s.c, fmt.Sprintf(katelloRoot+"/repositories/%d", id))
}

// Sync pulls content from the upstream source and waits for the sync task.
func (s *RepositoriesService) Sync(ctx context.Context, id int) error {
	var task Task
	path := fmt.Sprintf(katelloRoot+"/repositories/%d/sync", id)
	if err := s.c.do(ctx, http.MethodPost, path, nil, nil, &task); err != nil {
		return err
	}
	return s.c.Tasks.waitSpawned(ctx, &task)
}

// RepositorySet is a Red Hat provided repository definition enabled per
// organization.
type RepositorySet struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Product Ref    `json:"product"`
}

type RepositorySetsService struct {
	c *Client
}

// Enable turns on a Red Hat repository for the organization and returns the
// ID of the repository it materializes. Requires a manifest to be imported
// first.
func (s *RepositorySetsService) Enable(ctx context.Context, orgID int, product, reposet, repo, basearch, releasever string) (int, error) {
	sets, err := searchEntities[RepositorySet](ctx, s.c,
		fmt.Sprintf(katelloRoot+"/organizations/%d/repository_sets", orgID),
		fmt.Sprintf("name=%q", reposet))
	if err != nil {
		return 0, err
	}
	set, err := one(sets, reposet)
	if err != nil {
		return 0, errors.Wrapf(err, "repository set %q of product %q", reposet, product)
	}

	body := Fields{}
	if basearch != "" {
		body["basearch"] = basearch
	}
	if releasever != "" {
		body["releasever"] = releasever
	}
	path := fmt.Sprintf(katelloRoot+"/repository_sets/%d/enable", set.ID)
	if err := s.c.do(ctx, http.MethodPut, path, nil, body, nil); err != nil {
		return 0, err
	}

	repos, err := searchEntities[Repository](ctx, s.c,
		fmt.Sprintf(katelloRoot+"/organizations/%d/repositories", orgID),
		fmt.Sprintf("name=%q", repo))
	if err != nil {
		return 0, err
	}
	enabled, err := one(repos, repo)
	if err != nil {
		return 0, errors.Wrapf(err, "repository %q after enabling set %q", repo, reposet)
	}
	return enabled.ID, nil
}

// ContentView is a curated snapshot of repositories; publishing produces an
// immutable version that promotion moves between lifecycle environments.
type ContentView struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Organization Ref    `json:"organization"`
	Repositories []Ref  `json:"repositories"`
	Versions     []Ref  `json:"versions"`
}

// ContentViewSpec is the create payload.
type ContentViewSpec struct {
	Name           string `json:"name"`
	OrganizationID int    `json:"organization_id"`
}

type ContentViewsService struct {
	c *Client
}

func (s *ContentViewsService) Create(ctx context.Context, spec ContentViewSpec) (*ContentView, error) {
	return createEntity[ContentView](ctx, s.c, katelloRoot+"/content_views", "content_view", spec)
}

func (s *ContentViewsService) Get(ctx context.Context, id int) (*ContentView, error) {
	return getEntity[ContentView](ctx, s.c, fmt.Sprintf(katelloRoot+"/content_views/%d", id))
}

func (s *ContentViewsService) Update(ctx context.Context, id int, fields Fields) (*ContentView, error) {
	return updateEntity[ContentView](ctx, s.c, fmt.Sprintf(katelloRoot+"/content_views/%d", id), "content_view", fields)
}

// Publish produces a new version and waits for the publish task. The updated
// view, including the new version handle, is re-read afterwards.
func (s *ContentViewsService) Publish(ctx context.Context, id int) (*ContentView, error) {
	var task Task
	path := fmt.Sprintf(katelloRoot+"/content_views/%d/publish", id)
	if err := s.c.do(ctx, http.MethodPost, path, nil, nil, &task); err != nil {
		return nil, err
	}
	if err := s.c.Tasks.waitSpawned(ctx, &task); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

type ContentViewVersionsService struct {
	c *Client
}

// Promote moves a published version into a lifecycle environment and waits
// for the promote task.
func (s *ContentViewVersionsService) Promote(ctx context.Context, versionID, environmentID int) error {
	var task Task
	path := fmt.Sprintf(katelloRoot+"/content_view_versions/%d/promote", versionID)
	body := Fields{"environment_ids": []int{environmentID}}
	if err := s.c.do(ctx, http.MethodPost, path, nil, body, &task); err != nil {
		return err
	}
	return s.c.Tasks.waitSpawned(ctx, &task)
}

type SubscriptionsService struct {
	c *Client
}

// Refresh re-reads the organization manifest from the upstream portal.
func (s *SubscriptionsService) Refresh(ctx context.Context, orgID int) error {
	var task Task
	path := fmt.Sprintf(katelloRoot+"/organizations/%d/subscriptions/refresh_manifest", orgID)
	if err := s.c.do(ctx, http.MethodPut, path, nil, nil, &task); err != nil {
		return err
	}
	return s.c.Tasks.waitSpawned(ctx, &task)
}

// DeleteManifest removes the organization manifest.
func (s *SubscriptionsService) DeleteManifest(ctx context.Context, orgID int) error {
	var task Task
	path := fmt.Sprintf(katelloRoot+"/organizations/%d/subscriptions/delete_manifest", orgID)
	if err := s.c.do(ctx, http.MethodPost, path, nil, nil, &task); err != nil {
		return err
	}
	return s.c.Tasks.waitSpawned(ctx, &task)
}
