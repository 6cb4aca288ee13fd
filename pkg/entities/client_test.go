package entities

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(ClientConfig{
		BaseURL:  srv.URL,
		Username: "admin",
		Password: "changeme",
	})
	require.NoError(t, err)
	return c, srv
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(ClientConfig{BaseURL: "https://sat.example.com"})
	require.Error(t, err)
}

func TestSearchSendsScopedQuery(t *testing.T) {
	var gotSearch, gotPerPage string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("search")
		gotPerPage = r.URL.Query().Get("per_page")
		fmt.Fprint(w, `{"total": 1, "results": [{"id": 7, "name": "Default Organization"}]}`)
	}))

	orgs, err := c.Organizations.Search(context.Background(), `name = "Default Organization"`)
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, 7, orgs[0].ID)
	assert.Equal(t, `name = "Default Organization"`, gotSearch)
	assert.Equal(t, "1000", gotPerPage)
}

func TestFindByNameSingletonContract(t *testing.T) {
	results := `[]`
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"results": %s}`, results)
	}))

	_, err := c.Organizations.FindByName(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsNotFound(err))

	results = `[{"id": 1, "name": "dup"}, {"id": 2, "name": "dup"}]`
	_, err = c.Organizations.FindByName(context.Background(), "dup")
	assert.True(t, errors.Is(err, ErrAmbiguous))

	results = `[{"id": 3, "name": "solo"}]`
	org, err := c.Organizations.FindByName(context.Background(), "solo")
	require.NoError(t, err)
	assert.Equal(t, 3, org.ID)
}

func TestCreateWrapsPayload(t *testing.T) {
	var body map[string]json.RawMessage
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `{"id": 42, "name": "acme"}`)
	}))

	org, err := c.Organizations.Create(context.Background(), OrganizationSpec{Name: "acme"})
	require.NoError(t, err)
	assert.Equal(t, 42, org.ID)

	require.Contains(t, body, "organization")
	var spec OrganizationSpec
	require.NoError(t, json.Unmarshal(body["organization"], &spec))
	assert.Equal(t, "acme", spec.Name)
}

func TestUpdateSendsOnlyNamedFields(t *testing.T) {
	var method string
	var body map[string]map[string]interface{}
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, `{"id": 42, "name": "renamed"}`)
	}))

	org, err := c.Organizations.Update(context.Background(), 42, Fields{"name": "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", org.Name)
	assert.Equal(t, http.MethodPut, method)

	require.Contains(t, body, "organization")
	assert.Equal(t, map[string]interface{}{"name": "renamed"}, body["organization"])
}

func TestAPIErrorCarriesStatusAndBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"error": {"full_messages": ["Name can't be blank"]}}`)
	}))

	_, err := c.Organizations.Create(context.Background(), OrganizationSpec{})
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "can't be blank")
	assert.True(t, IsValidationError(err))
	assert.False(t, IsNotFound(err))
}

func TestNotFoundStatusIsNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "not found"}`, http.StatusNotFound)
	}))

	_, err := c.Organizations.Get(context.Background(), 9999)
	assert.True(t, IsNotFound(err))
}

func TestHostCanonicalName(t *testing.T) {
	h := &Host{Name: "web01", DomainName: "lab.example.com"}
	assert.Equal(t, "web01.lab.example.com", h.Canonical())

	bare := &Host{Name: "web01"}
	assert.Equal(t, "web01", bare.Canonical())
}

func TestAppendRefIDDeduplicates(t *testing.T) {
	refs := []Ref{{ID: 1}, {ID: 2}}
	assert.ElementsMatch(t, []int{1, 2, 3}, AppendRefID(refs, 3))
	assert.ElementsMatch(t, []int{1, 2}, AppendRefID(refs, 2))
}
