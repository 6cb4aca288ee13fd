// Package entities is a typed REST client for the product API. Every entity
// is a remote resource with a server-assigned ID; mutation is either a full
// create or a partial update naming exactly the fields that changed.
package entities

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	apiRoot     = "/api/v2"
	katelloRoot = "/katello/api"

	defaultPerPage = 1000
)

// ClientConfig carries the connection parameters for the product API.
type ClientConfig struct {
	BaseURL   string
	Username  string
	Password  string
	VerifySSL bool

	// TaskTimeout bounds waiting for asynchronous actions (repository sync,
	// content view publish, version promote). Zero means DefaultTaskTimeout.
	TaskTimeout time.Duration
}

// DefaultTaskTimeout is generous because repository syncs pull real content.
const DefaultTaskTimeout = 60 * time.Minute

// Client talks to the product API. It is safe for concurrent use.
type Client struct {
	base        *url.URL
	http        *retryablehttp.Client
	username    string
	password    string
	taskTimeout time.Duration
	log         *logrus.Entry

	Organizations         *OrganizationsService
	Locations             *LocationsService
	LifecycleEnvironments *LifecycleEnvironmentsService
	Products              *ProductsService
	Repositories          *RepositoriesService
	RepositorySets        *RepositorySetsService
	ContentViews          *ContentViewsService
	ContentViewVersions   *ContentViewVersionsService
	Subscriptions         *SubscriptionsService
	SmartProxies          *SmartProxiesService
	Domains               *DomainsService
	Subnets               *SubnetsService
	ComputeResources      *ComputeResourcesService
	PartitionTables       *PartitionTablesService
	OperatingSystems      *OperatingSystemsService
	Templates             *TemplatesService
	Architectures         *ArchitecturesService
	Media                 *MediaService
	Environments          *EnvironmentsService
	HostGroups            *HostGroupsService
	Hosts                 *HostsService
	Users                 *UsersService
	Tasks                 *TasksService
}

// NewClient builds a Client for the given endpoint.
func NewClient(cfg ClientConfig) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing base URL %q", cfg.BaseURL)
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, errors.New("API credentials are required")
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 1 * time.Second
	rc.RetryWaitMax = 10 * time.Second
	rc.Logger = nil
	rc.HTTPClient = &http.Client{
		Timeout: 5 * time.Minute,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.VerifySSL},
		},
	}

	taskTimeout := cfg.TaskTimeout
	if taskTimeout == 0 {
		taskTimeout = DefaultTaskTimeout
	}

	c := &Client{
		base:        base,
		http:        rc,
		username:    cfg.Username,
		password:    cfg.Password,
		taskTimeout: taskTimeout,
		log:         logrus.WithField("component", "entities"),
	}
	c.Organizations = &OrganizationsService{c}
	c.Locations = &LocationsService{c}
	c.LifecycleEnvironments = &LifecycleEnvironmentsService{c}
	c.Products = &ProductsService{c}
	c.Repositories = &RepositoriesService{c}
	c.RepositorySets = &RepositorySetsService{c}
	c.ContentViews = &ContentViewsService{c}
	c.ContentViewVersions = &ContentViewVersionsService{c}
	c.Subscriptions = &SubscriptionsService{c}
	c.SmartProxies = &SmartProxiesService{c}
	c.Domains = &DomainsService{c}
	c.Subnets = &SubnetsService{c}
	c.ComputeResources = &ComputeResourcesService{c}
	c.PartitionTables = &PartitionTablesService{c}
	c.OperatingSystems = &OperatingSystemsService{c}
	c.Templates = &TemplatesService{c}
	c.Architectures = &ArchitecturesService{c}
	c.Media = &MediaService{c}
	c.Environments = &EnvironmentsService{c}
	c.HostGroups = &HostGroupsService{c}
	c.Hosts = &HostsService{c}
	c.Users = &UsersService{c}
	c.Tasks = &TasksService{c}
	return c, nil
}

// Fields names the attributes of a partial update. Only the named fields are
// sent to the server.
type Fields map[string]interface{}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := *c.base
	u.Path = path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		payload = bytes.NewReader(buf)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, u.String(), payload)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.WithFields(logrus.Fields{"method": method, "path": path}).Debug("API call")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "reading response of %s %s", method, path)
	}
	if resp.StatusCode >= 400 {
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "decoding response of %s %s", method, path)
	}
	return nil
}

// doRaw performs a request and returns the raw body, for non-JSON responses
// such as the debug certificate download.
func (c *Client) doRaw(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	u := *c.base
	u.Path = path

	req, err := retryablehttp.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.SetBasicAuth(c.username, c.password)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading response of %s %s", method, path)
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

type listResponse[T any] struct {
	Total    int `json:"total"`
	Subtotal int `json:"subtotal"`
	Results  []T `json:"results"`
}

// searchEntities runs a scoped search. An empty query lists everything.
func searchEntities[T any](ctx context.Context, c *Client, path, query string) ([]T, error) {
	params := url.Values{}
	if query != "" {
		params.Set("search", query)
	}
	params.Set("per_page", fmt.Sprint(defaultPerPage))
	var out listResponse[T]
	if err := c.do(ctx, http.MethodGet, path, params, nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func getEntity[T any](ctx context.Context, c *Client, path string) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// createEntity wraps the payload under the entity's root key, e.g.
// {"organization": {...}}.
func createEntity[T any](ctx context.Context, c *Client, path, wrapper string, payload interface{}) (*T, error) {
	var out T
	body := map[string]interface{}{wrapper: payload}
	if err := c.do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// updateEntity sends only the named fields, the partial-update contract the
// whole suite relies on.
func updateEntity[T any](ctx context.Context, c *Client, path, wrapper string, fields Fields) (*T, error) {
	var out T
	body := map[string]interface{}{wrapper: fields}
	if err := c.do(ctx, http.MethodPut, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func deleteEntity(ctx context.Context, c *Client, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// one enforces the singleton contract of ensure-style lookups: zero matches
// is ErrNotFound, more than one is ErrAmbiguous rather than a silent
// first-row pick.
func one[T any](items []T, query string) (*T, error) {
	switch len(items) {
	case 0:
		return nil, errors.Wrapf(ErrNotFound, "query %q", query)
	case 1:
		return &items[0], nil
	default:
		return nil, errors.Wrapf(ErrAmbiguous, "query %q matched %d entities", query, len(items))
	}
}
