package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satelliteqe/satellite-tests/pkg/config"
	"github.com/satelliteqe/satellite-tests/pkg/entities"
)

// fakeServer serves just enough of the API for the ensure helpers: searches
// answer from an in-memory store, creates append to it, updates echo the
// stored entity. Create calls are counted per collection.
type fakeServer struct {
	store   map[string][]map[string]interface{}
	creates map[string]int
	updates map[string][]map[string]interface{}
	nextID  int
}

func newFakeServer() *fakeServer {
	f := &fakeServer{
		store:   map[string][]map[string]interface{}{},
		creates: map[string]int{},
		updates: map[string][]map[string]interface{}{},
		nextID:  100,
	}
	// the server's own proxy always exists
	f.store["smart_proxies"] = []map[string]interface{}{{
		"id": 1, "name": "sat.lab.example.com",
		"organizations": []interface{}{}, "locations": []interface{}{},
	}}
	return f
}

func (f *fakeServer) collection(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	// /api/v2/<collection> or /api/v2/<collection>/<id>
	if len(parts) >= 3 {
		return parts[2]
	}
	return ""
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	col := f.collection(r.URL.Path)
	switch r.Method {
	case http.MethodGet:
		json.NewEncoder(w).Encode(map[string]interface{}{"results": f.store[col]})
	case http.MethodPost:
		f.creates[col]++
		var body map[string]map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		var entity map[string]interface{}
		for _, v := range body {
			entity = v
		}
		f.nextID++
		entity["id"] = f.nextID
		f.store[col] = append(f.store[col], entity)
		json.NewEncoder(w).Encode(entity)
	case http.MethodPut:
		var body map[string]map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		for _, fields := range body {
			f.updates[col] = append(f.updates[col], fields)
		}
		// echo the stored entity addressed by the path id
		var id int
		fmt.Sscanf(r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:], "%d", &id)
		for _, e := range f.store[col] {
			if n, ok := e["id"].(int); ok && n == id {
				json.NewEncoder(w).Encode(e)
				return
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"id": id})
	default:
		http.Error(w, "unsupported", http.StatusMethodNotAllowed)
	}
}

func newTestBuilder(t *testing.T, fake *fakeServer) *Builder {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := entities.NewClient(entities.ClientConfig{
		BaseURL:  srv.URL,
		Username: "admin",
		Password: "changeme",
	})
	require.NoError(t, err)

	settings := &config.Settings{
		Server: config.Server{Hostname: "sat.lab.example.com"},
		VLANNetworking: &config.VLANNetworking{
			Subnet:  "10.1.2.0",
			Netmask: "255.255.255.0",
			Gateway: "10.1.2.1",
			Bridge:  "br0",
		},
		ComputeResources: &config.ComputeResources{
			LibvirtHostname: "kvm.lab.example.com",
		},
	}
	return NewBuilder(client, settings)
}

func TestEnsureDomainIsIdempotent(t *testing.T) {
	fake := newFakeServer()
	b := newTestBuilder(t, fake)
	ctx := context.Background()

	proxy, err := b.EnsureProxy(ctx, 10, 20)
	require.NoError(t, err)

	first, err := b.EnsureDomain(ctx, proxy, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, "lab.example.com", first.Name)

	_, err = b.EnsureDomain(ctx, proxy, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.creates["domains"], "second run must reuse the domain")
}

func TestEnsureSubnetIsIdempotent(t *testing.T) {
	fake := newFakeServer()
	b := newTestBuilder(t, fake)
	ctx := context.Background()

	proxy, err := b.EnsureProxy(ctx, 10, 20)
	require.NoError(t, err)
	domain, err := b.EnsureDomain(ctx, proxy, 10, 20)
	require.NoError(t, err)

	first, err := b.EnsureSubnet(ctx, proxy, domain, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, "10.1.2.0", first.Network)

	_, err = b.EnsureSubnet(ctx, proxy, domain, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.creates["subnets"], "second run must reuse the subnet")
}

func TestEnsureLibvirtResourceMatchesOnURL(t *testing.T) {
	fake := newFakeServer()
	b := newTestBuilder(t, fake)
	ctx := context.Background()

	first, err := b.EnsureLibvirtResource(ctx, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, "qemu+ssh://root@kvm.lab.example.com/system", first.URL)

	_, err = b.EnsureLibvirtResource(ctx, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.creates["compute_resources"], "second run must reuse the resource")
}

func TestEnsureMediaIsIdempotent(t *testing.T) {
	fake := newFakeServer()
	b := newTestBuilder(t, fake)
	ctx := context.Background()

	path := "http://mirror.example.com/rhel"
	_, err := b.EnsureMedia(ctx, path, "Redhat", 10, 20)
	require.NoError(t, err)
	_, err = b.EnsureMedia(ctx, path, "Redhat", 10, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.creates["media"], "second run must reuse the media")
}

func TestEnsureLocationAttachesOrganizationOnReuse(t *testing.T) {
	fake := newFakeServer()
	b := newTestBuilder(t, fake)
	ctx := context.Background()

	_, err := b.EnsureLocation(ctx, "lab", 10)
	require.NoError(t, err)

	_, err = b.EnsureLocation(ctx, "lab", 30)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.creates["locations"], "second run must reuse the location")

	require.Len(t, fake.updates["locations"], 1)
	assert.Contains(t, fake.updates["locations"][0], "organization_ids",
		"reuse must still attach the new organization")
}

func TestEnsureProxyNeverCreates(t *testing.T) {
	fake := newFakeServer()
	b := newTestBuilder(t, fake)

	proxy, err := b.EnsureProxy(context.Background(), 10, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, proxy.ID)
	assert.Zero(t, fake.creates["smart_proxies"])
}
