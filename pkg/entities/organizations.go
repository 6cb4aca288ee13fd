package entities

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"
)

// Organization is the tenancy root; almost every other entity is scoped to
// one.
type Organization struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Locations   []Ref  `json:"locations"`
}

// OrganizationSpec is the create payload.
type OrganizationSpec struct {
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	LocationIDs []int  `json:"location_ids,omitempty"`
}

type OrganizationsService struct {
	c *Client
}

func (s *OrganizationsService) Create(ctx context.Context, spec OrganizationSpec) (*Organization, error) {
	return createEntity[Organization](ctx, s.c, katelloRoot+"/organizations", "organization", spec)
}

func (s *OrganizationsService) Get(ctx context.Context, id int) (*Organization, error) {
	return getEntity[Organization](ctx, s.c, fmt.Sprintf(katelloRoot+"/organizations/%d", id))
}

func (s *OrganizationsService) Search(ctx context.Context, query string) ([]Organization, error) {
	return searchEntities[Organization](ctx, s.c, katelloRoot+"/organizations", query)
}

// FindByName returns exactly the organization with the given name.
func (s *OrganizationsService) FindByName(ctx context.Context, name string) (*Organization, error) {
	orgs, err := s.Search(ctx, fmt.Sprintf("name=%q", name))
	if err != nil {
		return nil, err
	}
	return one(orgs, name)
}

func (s *OrganizationsService) Update(ctx context.Context, id int, fields Fields) (*Organization, error) {
	return updateEntity[Organization](ctx, s.c, fmt.Sprintf(katelloRoot+"/organizations/%d", id), "organization", fields)
}

func (s *OrganizationsService) Delete(ctx context.Context, id int) error {
	return deleteEntity(ctx, s.c, fmt.Sprintf(katelloRoot+"/organizations/%d", id))
}

// UploadManifest imports a subscription manifest into the organization and
// waits for the import task.
func (s *OrganizationsService) UploadManifest(ctx context.Context, id int, manifest io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("content", "manifest.zip")
	if err != nil {
		return errors.Wrap(err, "building manifest upload")
	}
	if _, err := io.Copy(part, manifest); err != nil {
		return errors.Wrap(err, "copying manifest")
	}
	if err := mw.Close(); err != nil {
		return errors.Wrap(err, "finalizing manifest upload")
	}

	path := fmt.Sprintf(katelloRoot+"/organizations/%d/subscriptions/upload", id)
	raw, err := s.c.doRaw(ctx, http.MethodPost, path, &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}
	task, err := decodeTask(raw)
	if err != nil {
		return err
	}
	return s.c.Tasks.waitSpawned(ctx, task)
}

// DownloadDebugCertificate fetches the organization debug certificate; a
// non-empty PEM blob means subscription services are healthy.
func (s *OrganizationsService) DownloadDebugCertificate(ctx context.Context, id int) ([]byte, error) {
	path := fmt.Sprintf(katelloRoot+"/organizations/%d/download_debug_certificate", id)
	raw, err := s.c.doRaw(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("empty debug certificate")
	}
	return raw, nil
}

// Location is the geographic scoping dimension.
type Location struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Organizations []Ref  `json:"organizations"`
}

// LocationSpec is the create payload.
type LocationSpec struct {
	Name            string `json:"name"`
	OrganizationIDs []int  `json:"organization_ids,omitempty"`
}

type LocationsService struct {
	c *Client
}

func (s *LocationsService) Create(ctx context.Context, spec LocationSpec) (*Location, error) {
	return createEntity[Location](ctx, s.c, apiRoot+"/locations", "location", spec)
}

func (s *LocationsService) Search(ctx context.Context, query string) ([]Location, error) {
	return searchEntities[Location](ctx, s.c, apiRoot+"/locations", query)
}

func (s *LocationsService) Update(ctx context.Context, id int, fields Fields) (*Location, error) {
	return updateEntity[Location](ctx, s.c, fmt.Sprintf(apiRoot+"/locations/%d", id), "location", fields)
}

func (s *LocationsService) Delete(ctx context.Context, id int) error {
	return deleteEntity(ctx, s.c, fmt.Sprintf(apiRoot+"/locations/%d", id))
}

// User is only exercised by organization association scenarios.
type User struct {
	ID        int    `json:"id"`
	Login     string `json:"login"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// UserSpec is the create payload.
type UserSpec struct {
	Login     string `json:"login"`
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
	Password  string `json:"password"`
	AuthID    int    `json:"auth_source_id"`
}

type UsersService struct {
	c *Client
}

func (s *UsersService) Create(ctx context.Context, spec UserSpec) (*User, error) {
	if spec.AuthID == 0 {
		spec.AuthID = 1 // internal auth source
	}
	return createEntity[User](ctx, s.c, apiRoot+"/users", "user", spec)
}

func (s *UsersService) Delete(ctx context.Context, id int) error {
	return deleteEntity(ctx, s.c, fmt.Sprintf(apiRoot+"/users/%d", id))
}
