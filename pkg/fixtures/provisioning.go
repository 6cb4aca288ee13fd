package fixtures

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/satelliteqe/satellite-tests/pkg/datafactory"
	"github.com/satelliteqe/satellite-tests/pkg/entities"
)

// Profile selects the provisioning flavour the graph is built for.
type Profile string

const (
	// LibvirtRHEL provisions a plain RHEL guest from a synced yum repository.
	LibvirtRHEL Profile = "libvirt-rhel"
	// Atomic provisions an Atomic host from the kickstart tree enabled out
	// of the subscription manifest.
	Atomic Profile = "atomic"
)

const (
	atomicProduct    = "Red Hat Enterprise Linux Atomic Host"
	atomicReposet    = "Red Hat Enterprise Linux Atomic Host (Trees)"
	atomicRepository = "Red Hat Enterprise Linux Atomic Host Trees"
	defaultArch      = "x86_64"
	defaultPTable    = "Kickstart default"
)

// ProvisioningOptions steers Provisioning. Zero values mean "create fresh"
// for taxonomy and "skip" for optional steps.
type ProvisioningOptions struct {
	Profile Profile

	// OrgName reuses the named organization instead of creating one.
	OrgName string
	// LocName reuses the named location instead of creating one.
	LocName string

	// RepositoryURL is the OS yum repository synced into the content view
	// for the LibvirtRHEL profile.
	RepositoryURL string
	// OSTitle restricts the operating system lookup, e.g. "RedHat 7.4".
	// Empty picks the newest RedHat family OS on the server.
	OSTitle string
}

// Provisioned is the assembled entity graph a provisioning test deploys
// hosts into.
type Provisioned struct {
	Org          *entities.Organization
	Loc          *entities.Location
	Proxy        *entities.SmartProxy
	Domain       *entities.Domain
	Subnet       *entities.Subnet
	Environment  *entities.Environment
	LCE          *entities.LifecycleEnvironment
	ContentView  *entities.ContentView
	Compute      *entities.ComputeResource
	OS           *entities.OperatingSystem
	Arch         *entities.Architecture
	Media        *entities.Media
	PTable       *entities.PartitionTable
	HostGroup    *entities.HostGroup
	RootPassword string
}

// Provisioning builds the full graph: taxonomy, networking, content and a
// host group wiring everything together. It blocks on repository sync and
// content view publish, so callers should budget the task timeout.
func (b *Builder) Provisioning(ctx context.Context, opts ProvisioningOptions) (*Provisioned, error) {
	p := &Provisioned{RootPassword: datafactory.GenString(datafactory.Alphanumeric, 10)}

	var err error
	if p.Org, err = b.EnsureOrganization(ctx, opts.OrgName); err != nil {
		return nil, err
	}
	if p.Loc, err = b.EnsureLocation(ctx, opts.LocName, p.Org.ID); err != nil {
		return nil, err
	}
	if p.Proxy, err = b.EnsureProxy(ctx, p.Org.ID, p.Loc.ID); err != nil {
		return nil, err
	}
	if p.Domain, err = b.EnsureDomain(ctx, p.Proxy, p.Org.ID, p.Loc.ID); err != nil {
		return nil, err
	}
	if p.Subnet, err = b.EnsureSubnet(ctx, p.Proxy, p.Domain, p.Org.ID, p.Loc.ID); err != nil {
		return nil, err
	}
	if p.Environment, err = b.EnsureEnvironment(ctx, p.Org.ID, p.Loc.ID); err != nil {
		return nil, err
	}
	if p.LCE, err = b.Client.LifecycleEnvironments.Create(ctx, entities.LifecycleEnvironmentSpec{
		Name:           datafactory.UniqueName("lce"),
		OrganizationID: p.Org.ID,
	}); err != nil {
		return nil, err
	}

	var repoID int
	switch opts.Profile {
	case Atomic:
		if repoID, err = b.enableAtomicRepository(ctx, p.Org.ID); err != nil {
			return nil, err
		}
	default:
		if opts.RepositoryURL == "" {
			return nil, errors.New("libvirt provisioning needs a repository url")
		}
		if repoID, err = b.syncCustomRepository(ctx, p.Org.ID, opts.RepositoryURL); err != nil {
			return nil, err
		}
	}

	if p.ContentView, err = b.publishContentView(ctx, p.Org.ID, repoID, p.LCE.ID); err != nil {
		return nil, err
	}
	if p.Compute, err = b.EnsureLibvirtResource(ctx, p.Org.ID, p.Loc.ID); err != nil {
		return nil, err
	}
	if err = b.resolveOS(ctx, p, opts); err != nil {
		return nil, err
	}

	group := entities.HostGroupSpec{
		Name:                   datafactory.UniqueName("hostgroup"),
		ArchitectureID:         p.Arch.ID,
		DomainID:               p.Domain.ID,
		SubnetID:               p.Subnet.ID,
		LifecycleEnvironmentID: p.LCE.ID,
		ContentViewID:          p.ContentView.ID,
		EnvironmentID:          p.Environment.ID,
		OperatingSystemID:      p.OS.ID,
		MediumID:               p.Media.ID,
		PartitionTableID:       p.PTable.ID,
		PuppetProxyID:          p.Proxy.ID,
		PuppetCAProxyID:        p.Proxy.ID,
		ContentSourceID:        p.Proxy.ID,
		OrganizationIDs:        []int{p.Org.ID},
		LocationIDs:            []int{p.Loc.ID},
	}
	if p.HostGroup, err = b.Client.HostGroups.Create(ctx, group); err != nil {
		return nil, err
	}
	b.log.Infof("provisioning graph ready: org=%s hostgroup=%s", p.Org.Name, p.HostGroup.Name)
	return p, nil
}

// syncCustomRepository creates a product with one yum repository and syncs
// it.
func (b *Builder) syncCustomRepository(ctx context.Context, orgID int, url string) (int, error) {
	product, err := b.Client.Products.Create(ctx, entities.ProductSpec{
		Name:           datafactory.UniqueName("product"),
		OrganizationID: orgID,
	})
	if err != nil {
		return 0, err
	}
	repo, err := b.Client.Repositories.Create(ctx, entities.RepositorySpec{
		Name:      datafactory.UniqueName("repo"),
		ProductID: product.ID,
		URL:       url,
	})
	if err != nil {
		return 0, err
	}
	b.log.Infof("syncing repository %s", repo.Name)
	if err := b.Client.Repositories.Sync(ctx, repo.ID); err != nil {
		return 0, errors.Wrapf(err, "syncing repository %d", repo.ID)
	}
	return repo.ID, nil
}

// enableAtomicRepository uploads the subscription manifest and enables the
// Atomic host tree repository out of it, then syncs.
func (b *Builder) enableAtomicRepository(ctx context.Context, orgID int) (int, error) {
	if b.Settings.Manifest == nil {
		return 0, errors.New("manifest settings missing")
	}
	f, err := os.Open(b.Settings.Manifest.Path)
	if err != nil {
		return 0, errors.Wrap(err, "opening manifest")
	}
	defer f.Close()
	if err := b.Client.Organizations.UploadManifest(ctx, orgID, f); err != nil {
		return 0, errors.Wrap(err, "uploading manifest")
	}
	repoID, err := b.Client.RepositorySets.Enable(ctx, orgID, atomicProduct, atomicReposet, atomicRepository, defaultArch, "")
	if err != nil {
		return 0, err
	}
	b.log.Infof("syncing atomic tree repository %d", repoID)
	if err := b.Client.Repositories.Sync(ctx, repoID); err != nil {
		return 0, err
	}
	return repoID, nil
}

// publishContentView creates a view over the repository, publishes it and
// promotes the new version into the lifecycle environment.
func (b *Builder) publishContentView(ctx context.Context, orgID, repoID, lceID int) (*entities.ContentView, error) {
	view, err := b.Client.ContentViews.Create(ctx, entities.ContentViewSpec{
		Name:           datafactory.UniqueName("cv"),
		OrganizationID: orgID,
	})
	if err != nil {
		return nil, err
	}
	if view, err = b.Client.ContentViews.Update(ctx, view.ID, entities.Fields{
		"repository_ids": []int{repoID},
	}); err != nil {
		return nil, err
	}
	b.log.Infof("publishing content view %s", view.Name)
	if view, err = b.Client.ContentViews.Publish(ctx, view.ID); err != nil {
		return nil, err
	}
	if len(view.Versions) == 0 {
		return nil, errors.Errorf("content view %d has no version after publish", view.ID)
	}
	latest := view.Versions[len(view.Versions)-1]
	if err = b.Client.ContentViewVersions.Promote(ctx, latest.ID, lceID); err != nil {
		return nil, errors.Wrapf(err, "promoting version %d", latest.ID)
	}
	return view, nil
}

// resolveOS fills the operating system, architecture, partition table and
// media slots and wires them into the OS record.
func (b *Builder) resolveOS(ctx context.Context, p *Provisioned, opts ProvisioningOptions) error {
	var err error
	if p.Arch, err = b.Client.Architectures.FindByName(ctx, defaultArch); err != nil {
		return err
	}
	if p.PTable, err = b.Client.PartitionTables.FindByName(ctx, defaultPTable); err != nil {
		return err
	}

	query := `family ~ Redhat`
	if opts.OSTitle != "" {
		query = fmt.Sprintf("title=%q", opts.OSTitle)
	}
	systems, err := b.Client.OperatingSystems.Search(ctx, query)
	if err != nil {
		return err
	}
	if len(systems) == 0 {
		return errors.Errorf("no operating system matches %q", query)
	}
	p.OS = &systems[len(systems)-1]

	mediaPath := ""
	family := p.OS.Family
	if opts.Profile == Atomic {
		if b.Settings.Ostree == nil {
			return errors.New("ostree settings missing")
		}
		mediaPath = b.Settings.Ostree.InstallerURL
	} else {
		mediaPath = opts.RepositoryURL
	}
	if p.Media, err = b.EnsureMedia(ctx, mediaPath, family, p.Org.ID, p.Loc.ID); err != nil {
		return err
	}

	_, err = b.Client.OperatingSystems.Update(ctx, p.OS.ID, entities.Fields{
		"architecture_ids": entities.AppendRefID(p.OS.Architectures, p.Arch.ID),
		"ptable_ids":       entities.AppendRefID(p.OS.PartitionTables, p.PTable.ID),
		"medium_ids":       entities.AppendRefID(p.OS.Media, p.Media.ID),
	})
	return err
}
