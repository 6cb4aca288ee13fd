package ui

import (
	"context"
	"fmt"
	"os"

	g "github.com/onsi/ginkgo"
	o "github.com/onsi/gomega"

	"github.com/satelliteqe/satellite-tests/pkg/datafactory"
	"github.com/satelliteqe/satellite-tests/pkg/entities"
	"github.com/satelliteqe/satellite-tests/pkg/skip"
	webui "github.com/satelliteqe/satellite-tests/pkg/ui"
	exutil "github.com/satelliteqe/satellite-tests/test/extended/util"
)

var _ = g.Describe("[ui] organization", func() {
	defer g.GinkgoRecover()

	var (
		session *webui.Session
		client  *entities.Client
		ctx     context.Context
	)

	g.BeforeEach(func() {
		var err error
		ctx = context.Background()
		client = exutil.NewAPIClient()
		session, err = exutil.NewUISession()
		o.Expect(err).NotTo(o.HaveOccurred())
	})

	g.AfterEach(func() {
		if session != nil {
			o.Expect(session.Close()).To(o.Succeed())
		}
	})

	g.It("creates organizations with representative valid names", func() {
		for _, name := range datafactory.ValidNames() {
			err := session.Organizations.Create(webui.OrgForm{Name: name})
			o.Expect(err).NotTo(o.HaveOccurred())
			row, err := session.Organizations.Search(name)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(row).NotTo(o.BeNil(), "organization %q should be listed", name)
		}
	})

	g.It("creates an organization with an explicit label", func() {
		name := exutil.RandName("org")
		label := datafactory.GenString(datafactory.Alphanumeric, 10)
		err := session.Organizations.Create(webui.OrgForm{Name: name, Label: label})
		o.Expect(err).NotTo(o.HaveOccurred())

		o.Expect(session.Organizations.Open(name)).To(o.Succeed())
		got, err := session.Organizations.FieldValue(webui.OrgLabel)
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(got).To(o.Equal(label))
	})

	g.It("creates an organization whose label matches its name", func() {
		name := datafactory.GenString(datafactory.Alphanumeric, 10)
		err := session.Organizations.Create(webui.OrgForm{Name: name, Label: name})
		o.Expect(err).NotTo(o.HaveOccurred())

		o.Expect(session.Organizations.Open(name)).To(o.Succeed())
		got, err := session.Organizations.FieldValue(webui.OrgLabel)
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(got).To(o.Equal(name))
	})

	g.It("auto-generates a label when none is given", func() {
		name := datafactory.GenString(datafactory.Alphanumeric, 10)
		err := session.Organizations.Create(webui.OrgForm{Name: name})
		o.Expect(err).NotTo(o.HaveOccurred())

		o.Expect(session.Organizations.Open(name)).To(o.Succeed())
		got, err := session.Organizations.FieldValue(webui.OrgLabel)
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(got).NotTo(o.BeEmpty())
	})

	g.It("creates an organization with a location attached", func() {
		loc, err := client.Locations.Create(ctx, entities.LocationSpec{Name: exutil.RandName("loc")})
		o.Expect(err).NotTo(o.HaveOccurred())

		name := exutil.RandName("org")
		err = session.Organizations.Create(webui.OrgForm{Name: name, Locations: []string{loc.Name}})
		o.Expect(err).NotTo(o.HaveOccurred())

		o.Expect(session.Organizations.Open(name)).To(o.Succeed())
		assigned := session.WaitUntilElement(webui.EntityAssigned.Fmt(loc.Name), webui.DefaultWait)
		o.Expect(assigned).NotTo(o.BeNil(), "location %q should be assigned", loc.Name)
	})

	g.It("rejects invalid names on create", func() {
		for _, name := range datafactory.InvalidValues() {
			err := session.Organizations.Create(webui.OrgForm{Name: name})
			o.Expect(err).NotTo(o.HaveOccurred())
			errEl := session.WaitUntilElement(webui.NameHasError, webui.DefaultWait)
			o.Expect(errEl).NotTo(o.BeNil(), "name %q should be rejected", name)
		}
	})

	g.It("rejects a duplicate name on create", func() {
		name := exutil.RandName("org")
		o.Expect(session.Organizations.Create(webui.OrgForm{Name: name})).To(o.Succeed())
		o.Expect(session.Organizations.Create(webui.OrgForm{Name: name})).To(o.Succeed())
		errEl := session.WaitUntilElement(webui.NameHasError, webui.DefaultWait)
		o.Expect(errEl).NotTo(o.BeNil(), "duplicate name should be rejected")
	})

	g.It("renames an organization through the representative valid set", func() {
		name := exutil.RandName("org")
		o.Expect(session.Organizations.Create(webui.OrgForm{Name: name})).To(o.Succeed())
		for _, newName := range datafactory.ValidNames() {
			err := session.Organizations.Update(name, webui.OrgUpdate{NewName: newName})
			o.Expect(err).NotTo(o.HaveOccurred())
			row, err := session.Organizations.Search(newName)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(row).NotTo(o.BeNil(), "organization should be listed as %q", newName)
			name = newName
		}
	})

	g.It("rejects invalid names on rename", func() {
		name := exutil.RandName("org")
		o.Expect(session.Organizations.Create(webui.OrgForm{Name: name})).To(o.Succeed())
		for _, bad := range datafactory.InvalidNames() {
			err := session.Organizations.Update(name, webui.OrgUpdate{NewName: bad})
			o.Expect(err).NotTo(o.HaveOccurred())
			errEl := session.WaitUntilElement(webui.NameHasError, webui.DefaultWait)
			o.Expect(errEl).NotTo(o.BeNil(), "rename to %q should be rejected", bad)
		}
	})

	g.It("renames an organization end to end", func() {
		o.Expect(session.Organizations.Create(webui.OrgForm{Name: "abc123"})).To(o.Succeed())
		o.Expect(session.Organizations.Update("abc123", webui.OrgUpdate{NewName: "xyz789"})).To(o.Succeed())
		row, err := session.Organizations.Search("xyz789")
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(row).NotTo(o.BeNil())
		o.Expect(session.Organizations.Remove("xyz789")).To(o.Succeed())
	})

	g.It("deletes an organization", func() {
		name := exutil.RandName("org")
		o.Expect(session.Organizations.Create(webui.OrgForm{Name: name})).To(o.Succeed())
		o.Expect(session.Organizations.Remove(name)).To(o.Succeed())
		row, err := session.Organizations.Search(name)
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(row).To(o.BeNil(), "organization %q should be gone", name)
	})

	g.It("deletes an organization holding a manifest and lifecycle environments", func() {
		skip.IfNotSet(exutil.TestSettings(), "manifest")

		org, err := client.Organizations.Create(ctx, entities.OrganizationSpec{Name: exutil.RandName("org")})
		o.Expect(err).NotTo(o.HaveOccurred())
		uploadManifest(ctx, client, org.ID)
		for i := 0; i < 2; i++ {
			_, err = client.LifecycleEnvironments.Create(ctx, entities.LifecycleEnvironmentSpec{
				Name:           exutil.RandName("lce"),
				OrganizationID: org.ID,
			})
			o.Expect(err).NotTo(o.HaveOccurred())
		}

		o.Expect(session.Organizations.Remove(org.Name)).To(o.Succeed())

		// removal cascades asynchronously, poll the listing
		gone := false
		for i := 0; i < 10 && !gone; i++ {
			row, err := session.Organizations.Search(org.Name)
			o.Expect(err).NotTo(o.HaveOccurred())
			gone = row == nil
		}
		o.Expect(gone).To(o.BeTrue(), "organization %q should be gone", org.Name)
	})

	g.It("adds and removes a domain", func() {
		domain, err := client.Domains.Create(ctx, entities.DomainSpec{Name: exutil.RandName("domain") + ".example.com"})
		o.Expect(err).NotTo(o.HaveOccurred())
		name := exutil.RandName("org")
		o.Expect(session.Organizations.Create(webui.OrgForm{Name: name})).To(o.Succeed())

		err = session.Organizations.Update(name, webui.OrgUpdate{AddDomains: []string{domain.Name}})
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(session.Organizations.Open(name)).To(o.Succeed())
		o.Expect(session.Click(webui.TabDomains)).To(o.Succeed())
		o.Expect(session.WaitUntilElement(webui.EntityAssigned.Fmt(domain.Name), webui.DefaultWait)).NotTo(o.BeNil())

		err = session.Organizations.Update(name, webui.OrgUpdate{RemoveDomains: []string{domain.Name}})
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(session.Organizations.Open(name)).To(o.Succeed())
		o.Expect(session.Click(webui.TabDomains)).To(o.Succeed())
		o.Expect(session.WaitUntilElement(webui.EntityUnassigned.Fmt(domain.Name), webui.DefaultWait)).NotTo(o.BeNil())
	})

	g.It("adds and removes a user", func() {
		login := datafactory.GenString(datafactory.Alpha, 8)
		_, err := client.Users.Create(ctx, entities.UserSpec{
			Login:    login,
			Password: datafactory.GenString(datafactory.Alphanumeric, 12),
		})
		o.Expect(err).NotTo(o.HaveOccurred())
		name := exutil.RandName("org")
		o.Expect(session.Organizations.Create(webui.OrgForm{Name: name})).To(o.Succeed())

		err = session.Organizations.Update(name, webui.OrgUpdate{AddUsers: []string{login}})
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(session.Organizations.Open(name)).To(o.Succeed())
		o.Expect(session.Click(webui.TabUsers)).To(o.Succeed())
		o.Expect(session.WaitUntilElement(webui.EntityAssigned.Fmt(login), webui.DefaultWait)).NotTo(o.BeNil())

		err = session.Organizations.Update(name, webui.OrgUpdate{RemoveUsers: []string{login}})
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(session.Organizations.Open(name)).To(o.Succeed())
		o.Expect(session.Click(webui.TabUsers)).To(o.Succeed())
		o.Expect(session.WaitUntilElement(webui.EntityUnassigned.Fmt(login), webui.DefaultWait)).NotTo(o.BeNil())
	})

	g.It("adds and removes a host group", func() {
		group, err := client.HostGroups.Create(ctx, entities.HostGroupSpec{Name: exutil.RandName("hostgroup")})
		o.Expect(err).NotTo(o.HaveOccurred())
		assertAddRemove(session, client, webui.TabHostGroups, group.Name,
			func(n string) webui.OrgUpdate { return webui.OrgUpdate{AddHostGroups: []string{n}} },
			func(n string) webui.OrgUpdate { return webui.OrgUpdate{RemoveHostGroups: []string{n}} })
	})

	g.It("adds and removes a subnet", func() {
		subnet, err := client.Subnets.Create(ctx, entities.SubnetSpec{
			Name:    exutil.RandName("subnet"),
			Network: datafactory.GenIPAddr(true),
			Mask:    "255.255.255.0",
		})
		o.Expect(err).NotTo(o.HaveOccurred())
		assertAddRemove(session, client, webui.TabSubnets, subnet.Name,
			func(n string) webui.OrgUpdate { return webui.OrgUpdate{AddSubnets: []string{n}} },
			func(n string) webui.OrgUpdate { return webui.OrgUpdate{RemoveSubnets: []string{n}} })
	})

	g.It("adds and removes an installation media", func() {
		media, err := client.Media.Create(ctx, entities.MediaSpec{
			Name: exutil.RandName("media"),
			Path: fmt.Sprintf("http://mirror.example.com/%s", exutil.RandName("path")),
		})
		o.Expect(err).NotTo(o.HaveOccurred())
		assertAddRemove(session, client, webui.TabMedia, media.Name,
			func(n string) webui.OrgUpdate { return webui.OrgUpdate{AddMedia: []string{n}} },
			func(n string) webui.OrgUpdate { return webui.OrgUpdate{RemoveMedia: []string{n}} })
	})

	g.It("adds and removes a provisioning template", func() {
		template, err := client.Templates.FindByName(ctx, "Kickstart default")
		o.Expect(err).NotTo(o.HaveOccurred())
		assertAddRemove(session, client, webui.TabTemplates, template.Name,
			func(n string) webui.OrgUpdate { return webui.OrgUpdate{AddTemplates: []string{n}} },
			func(n string) webui.OrgUpdate { return webui.OrgUpdate{RemoveTemplates: []string{n}} })
	})

	g.It("adds and removes a puppet environment", func() {
		env, err := client.Environments.Create(ctx, entities.EnvironmentSpec{
			Name: datafactory.GenString(datafactory.Alpha, 8),
		})
		o.Expect(err).NotTo(o.HaveOccurred())
		assertAddRemove(session, client, webui.TabEnvironments, env.Name,
			func(n string) webui.OrgUpdate { return webui.OrgUpdate{AddEnvironments: []string{n}} },
			func(n string) webui.OrgUpdate { return webui.OrgUpdate{RemoveEnvironments: []string{n}} })
	})

	g.It("adds and removes a compute resource", func() {
		skip.IfNotSet(exutil.TestSettings(), "compute_resources")
		resource, err := client.ComputeResources.Create(ctx, entities.ComputeResourceSpec{
			Name:     exutil.RandName("libvirt"),
			Provider: entities.ProviderLibvirt,
			URL:      exutil.TestSettings().LibvirtURL(),
		})
		o.Expect(err).NotTo(o.HaveOccurred())
		assertAddRemove(session, client, webui.TabComputeResources, resource.Name,
			func(n string) webui.OrgUpdate { return webui.OrgUpdate{AddComputeResources: []string{n}} },
			func(n string) webui.OrgUpdate { return webui.OrgUpdate{RemoveComputeResources: []string{n}} })
	})

	g.It("refreshes a manifest and downloads the debug certificate", func() {
		skip.IfNotSet(exutil.TestSettings(), "manifest")

		org, err := client.Organizations.Create(ctx, entities.OrganizationSpec{Name: exutil.RandName("org")})
		o.Expect(err).NotTo(o.HaveOccurred())
		uploadManifest(ctx, client, org.ID)

		for i := 0; i < 3; i++ {
			o.Expect(client.Subscriptions.Refresh(ctx, org.ID)).To(o.Succeed())
			cert, err := client.Organizations.DownloadDebugCertificate(ctx, org.ID)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(cert).NotTo(o.BeEmpty())
		}
		o.Expect(client.Subscriptions.DeleteManifest(ctx, org.ID)).To(o.Succeed())
	})

	g.It("finds an organization through scoped autocomplete", func() {
		name := exutil.RandName("org")
		o.Expect(session.Organizations.Create(webui.OrgForm{Name: name})).To(o.Succeed())
		row, err := session.Organizations.AutoCompleteSearch(name[:len(name)-3], name)
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(row).NotTo(o.BeNil())
	})
})

// assertAddRemove runs the shared add-then-remove association scenario
// against a fresh organization.
func assertAddRemove(session *webui.Session, client *entities.Client, tab webui.Locator, entity string,
	add, remove func(string) webui.OrgUpdate) {
	name := exutil.RandName("org")
	o.Expect(session.Organizations.Create(webui.OrgForm{Name: name})).To(o.Succeed())

	o.Expect(session.Organizations.Update(name, add(entity))).To(o.Succeed())
	o.Expect(session.Organizations.Open(name)).To(o.Succeed())
	o.Expect(session.Click(tab)).To(o.Succeed())
	o.Expect(session.WaitUntilElement(webui.EntityAssigned.Fmt(entity), webui.DefaultWait)).NotTo(o.BeNil())

	o.Expect(session.Organizations.Update(name, remove(entity))).To(o.Succeed())
	o.Expect(session.Organizations.Open(name)).To(o.Succeed())
	o.Expect(session.Click(tab)).To(o.Succeed())
	o.Expect(session.WaitUntilElement(webui.EntityUnassigned.Fmt(entity), webui.DefaultWait)).NotTo(o.BeNil())
}

// uploadManifest streams the configured manifest into the organization.
func uploadManifest(ctx context.Context, client *entities.Client, orgID int) {
	path := exutil.TestSettings().Manifest.Path
	f, err := os.Open(path)
	o.Expect(err).NotTo(o.HaveOccurred())
	defer f.Close()
	o.Expect(client.Organizations.UploadManifest(ctx, orgID, f)).To(o.Succeed())
}
