package cli

import (
	"context"

	"github.com/samber/lo"

	"github.com/satelliteqe/satellite-tests/pkg/datafactory"
)

// Factory creates entities over the CLI with generated defaults, the same
// way fixtures create them over the API. Every helper accepts overriding
// options and fails with a FactoryError naming the entity.
type Factory struct {
	h *Hammer
}

// NewFactory wraps the hammer binding.
func NewFactory(h *Hammer) *Factory {
	return &Factory{h: h}
}

func withDefaults(options, defaults map[string]string) map[string]string {
	return lo.Assign(defaults, options)
}

// MakeSubnet creates a subnet with a generated name and /24 network unless
// overridden.
func (f *Factory) MakeSubnet(ctx context.Context, options map[string]string) (Record, error) {
	opts := withDefaults(options, map[string]string{
		"name":    datafactory.UniqueName("subnet"),
		"network": datafactory.GenIPAddr(true),
		"mask":    "255.255.255.0",
	})
	rec, err := f.h.Subnet.Create(ctx, opts)
	if err != nil {
		return nil, &FactoryError{Entity: "subnet", Cause: err}
	}
	return rec, nil
}

// MakeDomain creates a DNS domain.
func (f *Factory) MakeDomain(ctx context.Context, options map[string]string) (Record, error) {
	opts := withDefaults(options, map[string]string{
		"name": datafactory.UniqueName("domain") + ".example.com",
	})
	if err := f.h.modify(ctx, []string{"domain", "create"}, opts); err != nil {
		return nil, &FactoryError{Entity: "domain", Cause: err}
	}
	return f.h.info(ctx, []string{"domain", "info"}, map[string]string{"name": opts["name"]})
}

// MakeLifecycleEnvironment creates an environment chained after Library.
func (f *Factory) MakeLifecycleEnvironment(ctx context.Context, options map[string]string) (Record, error) {
	opts := withDefaults(options, map[string]string{
		"name":  datafactory.UniqueName("lce"),
		"prior": "Library",
	})
	if err := f.h.modify(ctx, []string{"lifecycle-environment", "create"}, opts); err != nil {
		return nil, &FactoryError{Entity: "lifecycle environment", Cause: err}
	}
	return f.h.info(ctx, []string{"lifecycle-environment", "info"}, map[string]string{
		"name":            opts["name"],
		"organization-id": opts["organization-id"],
	})
}

// MakeContentView creates an empty content view.
func (f *Factory) MakeContentView(ctx context.Context, options map[string]string) (Record, error) {
	opts := withDefaults(options, map[string]string{
		"name": datafactory.UniqueName("cv"),
	})
	if err := f.h.ContentView.Create(ctx, opts); err != nil {
		return nil, &FactoryError{Entity: "content view", Cause: err}
	}
	return f.h.info(ctx, []string{"content-view", "info"}, map[string]string{
		"name":            opts["name"],
		"organization-id": opts["organization-id"],
	})
}

// MakeHostGroup creates a host group.
func (f *Factory) MakeHostGroup(ctx context.Context, options map[string]string) (Record, error) {
	opts := withDefaults(options, map[string]string{
		"name": datafactory.UniqueName("hostgroup"),
	})
	if err := f.h.modify(ctx, []string{"hostgroup", "create"}, opts); err != nil {
		return nil, &FactoryError{Entity: "hostgroup", Cause: err}
	}
	return f.h.info(ctx, []string{"hostgroup", "info"}, map[string]string{"name": opts["name"]})
}
