package cli

import "context"

// SubnetCommands covers `hammer subnet ...`.
type SubnetCommands struct {
	h *Hammer
}

// Create makes a subnet from the option map and returns its info record.
func (c *SubnetCommands) Create(ctx context.Context, options map[string]string) (Record, error) {
	if err := c.h.modify(ctx, []string{"subnet", "create"}, options); err != nil {
		return nil, err
	}
	return c.Info(ctx, map[string]string{"name": options["name"]})
}

// List returns every subnet matching the options.
func (c *SubnetCommands) List(ctx context.Context, options map[string]string) ([]Record, error) {
	return c.h.list(ctx, []string{"subnet", "list"}, options)
}

// Info returns the full record of one subnet, addressed by id or name.
func (c *SubnetCommands) Info(ctx context.Context, options map[string]string) (Record, error) {
	return c.h.info(ctx, []string{"subnet", "info"}, options)
}

// Update changes subnet attributes in place.
func (c *SubnetCommands) Update(ctx context.Context, options map[string]string) error {
	return c.h.modify(ctx, []string{"subnet", "update"}, options)
}

// Delete removes the subnet.
func (c *SubnetCommands) Delete(ctx context.Context, options map[string]string) error {
	return c.h.modify(ctx, []string{"subnet", "delete"}, options)
}

// ContentViewCommands covers `hammer content-view ...`.
type ContentViewCommands struct {
	h *Hammer
}

// Create makes a content view.
func (c *ContentViewCommands) Create(ctx context.Context, options map[string]string) error {
	return c.h.modify(ctx, []string{"content-view", "create"}, options)
}

// Publish publishes a new version of the view and waits for the task.
func (c *ContentViewCommands) Publish(ctx context.Context, options map[string]string) error {
	return c.h.modify(ctx, []string{"content-view", "publish"}, options)
}

// VersionList returns the published versions of a view.
func (c *ContentViewCommands) VersionList(ctx context.Context, options map[string]string) ([]Record, error) {
	return c.h.list(ctx, []string{"content-view", "version", "list"}, options)
}

// VersionPromote promotes a version into a lifecycle environment.
func (c *ContentViewCommands) VersionPromote(ctx context.Context, options map[string]string) error {
	return c.h.modify(ctx, []string{"content-view", "version", "promote"}, options)
}

// ProxyCommands covers `hammer proxy ...`.
type ProxyCommands struct {
	h *Hammer
}

// List returns the registered smart proxies.
func (c *ProxyCommands) List(ctx context.Context, options map[string]string) ([]Record, error) {
	return c.h.list(ctx, []string{"proxy", "list"}, options)
}
