package ui

import (
	"context"
	"fmt"

	g "github.com/onsi/ginkgo"
	o "github.com/onsi/gomega"

	"github.com/satelliteqe/satellite-tests/pkg/cli"
	"github.com/satelliteqe/satellite-tests/pkg/datafactory"
	"github.com/satelliteqe/satellite-tests/pkg/entities"
	"github.com/satelliteqe/satellite-tests/pkg/skip"
	webui "github.com/satelliteqe/satellite-tests/pkg/ui"
	exutil "github.com/satelliteqe/satellite-tests/test/extended/util"
)

// hostDeps is the API-precreated entity set a host form needs.
type hostDeps struct {
	org    *entities.Organization
	loc    *entities.Location
	domain *entities.Domain
	env    *entities.Environment
	arch   *entities.Architecture
	os     *entities.OperatingSystem
	media  *entities.Media
	ptable *entities.PartitionTable
}

var _ = g.Describe("[ui] host", func() {
	defer g.GinkgoRecover()

	var (
		session  *webui.Session
		client   *entities.Client
		ctx      context.Context
		tornDown []string
	)

	g.BeforeEach(func() {
		var err error
		ctx = context.Background()
		client = exutil.NewAPIClient()
		session, err = exutil.NewUISession()
		o.Expect(err).NotTo(o.HaveOccurred())
		tornDown = nil
	})

	g.AfterEach(func() {
		for _, canonical := range tornDown {
			o.Expect(exutil.DeleteHostIfExists(ctx, client, canonical)).To(o.Succeed())
		}
		if session != nil {
			o.Expect(session.Close()).To(o.Succeed())
		}
	})

	g.It("creates a host through the form", func() {
		deps := createHostDeps(ctx, client)
		name := exutil.RandName("host")
		tornDown = append(tornDown, exutil.CanonicalHostName(name, deps.domain.Name))

		err := session.Hosts.Create(webui.HostForm{
			Name: name,
			Host: webui.HostSection{
				Organization:      deps.org.Name,
				Location:          deps.loc.Name,
				PuppetEnvironment: deps.env.Name,
			},
			OperatingSystem: webui.OperatingSystemSection{
				Architecture:    deps.arch.Name,
				OperatingSystem: deps.os.Title(),
				Media:           deps.media.Name,
				PartitionTable:  deps.ptable.Name,
				RootPassword:    datafactory.GenString(datafactory.Alphanumeric, 10),
			},
			Interface: webui.InterfaceSection{
				MAC:     datafactory.GenMAC(),
				Domain:  deps.domain.Name,
				Primary: true,
			},
		})
		o.Expect(err).NotTo(o.HaveOccurred())

		row, err := session.Hosts.Search(exutil.CanonicalHostName(name, deps.domain.Name))
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(row).NotTo(o.BeNil())
	})

	g.It("renames a host", func() {
		deps := createHostDeps(ctx, client)
		host := createAPIHost(ctx, client, deps, nil)
		newName := exutil.RandName("host")
		tornDown = append(tornDown, host.Canonical(), exutil.CanonicalHostName(newName, deps.domain.Name))

		o.Expect(session.Hosts.Update(host.Name, deps.domain.Name, newName)).To(o.Succeed())
		row, err := session.Hosts.Search(exutil.CanonicalHostName(newName, deps.domain.Name))
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(row).NotTo(o.BeNil())
	})

	g.It("renames a host to a new-prefixed name", func() {
		deps := createHostDeps(ctx, client)
		host := createAPIHost(ctx, client, deps, nil)
		newName := "new" + host.Name
		tornDown = append(tornDown, host.Canonical(), exutil.CanonicalHostName(newName, deps.domain.Name))

		o.Expect(session.Hosts.Update(host.Name, deps.domain.Name, newName)).To(o.Succeed())
		row, err := session.Hosts.Search(exutil.CanonicalHostName(newName, deps.domain.Name))
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(row).NotTo(o.BeNil())
	})

	g.It("deletes a host", func() {
		deps := createHostDeps(ctx, client)
		host := createAPIHost(ctx, client, deps, nil)

		o.Expect(session.Hosts.Delete(host.Canonical())).To(o.Succeed())
		row, err := session.Hosts.Search(host.Canonical())
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(row).To(o.BeNil())
	})

	g.It("refuses to delete the primary interface", func() {
		deps := createHostDeps(ctx, client)
		host := createAPIHost(ctx, client, deps, nil)
		tornDown = append(tornDown, host.Canonical())

		o.Expect(len(host.Interfaces)).To(o.BeNumerically(">", 0))
		identifier := host.Interfaces[0].Identifier

		o.Expect(session.Hosts.DeleteInterface(host.Name, deps.domain.Name, identifier)).To(o.Succeed())

		btn := session.Hosts.InterfaceDeleteButton(identifier)
		o.Expect(btn).NotTo(o.BeNil())
		enabled, err := btn.IsEnabled()
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(enabled).To(o.BeFalse(), "primary interface delete button must stay disabled")

		refreshed, err := client.Hosts.Get(ctx, host.ID)
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(refreshed.Interfaces).To(o.HaveLen(len(host.Interfaces)),
			"primary interface must survive the delete attempt")
	})

	g.It("isolates hosts by parameter queries", func() {
		deps := createHostDeps(ctx, client)
		key := datafactory.GenString(datafactory.Alpha, 8)
		value := datafactory.GenString(datafactory.Alpha, 8)
		withParam := createAPIHost(ctx, client, deps, []entities.HostParameter{{Name: key, Value: value}})
		otherValue := createAPIHost(ctx, client, deps, []entities.HostParameter{
			{Name: key, Value: datafactory.GenString(datafactory.Alphanumeric, 8)},
		})
		without := createAPIHost(ctx, client, deps, nil)
		tornDown = append(tornDown, withParam.Canonical(), otherValue.Canonical(), without.Canonical())

		row, err := session.Hosts.Search(withParam.Canonical(),
			webui.WithRawQuery(fmt.Sprintf("params.%s = %s", key, value)))
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(row).NotTo(o.BeNil())

		for _, other := range []*entities.Host{otherValue, without} {
			row, err = session.Hosts.Search(other.Canonical(),
				webui.WithRawQuery(fmt.Sprintf("params.%s = %s", key, value)))
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(row).To(o.BeNil(), "host %s must not match the exact value query", other.Canonical())
		}

		for _, query := range []string{
			fmt.Sprintf("not params.%s = %s", key, value),
			fmt.Sprintf("params.%s <> %s", key, value),
		} {
			row, err = session.Hosts.Search(without.Canonical(), webui.WithRawQuery(query))
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(row).NotTo(o.BeNil(), "query %q should match the host without the parameter", query)
		}
	})

	g.It("finds a host inside its organization and location context", func() {
		deps := createHostDeps(ctx, client)
		host := createAPIHost(ctx, client, deps, nil)
		tornDown = append(tornDown, host.Canonical())

		o.Expect(session.Nav.SetContext(deps.org.Name, deps.loc.Name)).To(o.Succeed())
		row, err := session.Hosts.Search(host.Canonical())
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(row).NotTo(o.BeNil())
	})

	g.It("inherits content settings from a host group created over the CLI", func() {
		hammer, runner, err := exutil.NewHammer()
		o.Expect(err).NotTo(o.HaveOccurred())
		defer runner.Close()
		factory := cli.NewFactory(hammer)

		deps := createHostDeps(ctx, client)
		orgID := fmt.Sprintf("%d", deps.org.ID)

		lce, err := factory.MakeLifecycleEnvironment(ctx, map[string]string{"organization-id": orgID})
		o.Expect(err).NotTo(o.HaveOccurred())
		view, err := factory.MakeContentView(ctx, map[string]string{"organization-id": orgID})
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(hammer.ContentView.Publish(ctx, map[string]string{
			"id": view.String("Id"), "organization-id": orgID,
		})).To(o.Succeed())
		versions, err := hammer.ContentView.VersionList(ctx, map[string]string{"content-view-id": view.String("Id")})
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(versions).NotTo(o.BeEmpty())
		o.Expect(hammer.ContentView.VersionPromote(ctx, map[string]string{
			"id":                       versions[0].String("Id"),
			"to-lifecycle-environment": lce.String("Name"),
			"organization-id":          orgID,
		})).To(o.Succeed())

		proxies, err := hammer.Proxy.List(ctx, map[string]string{
			"search": "name = " + exutil.TestSettings().Server.Hostname,
		})
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(proxies).NotTo(o.BeEmpty())

		group, err := factory.MakeHostGroup(ctx, map[string]string{
			"organization-ids":         orgID,
			"lifecycle-environment-id": lce.String("Id"),
			"content-view-id":          view.String("Id"),
			"content-source-id":        proxies[0].String("Id"),
			"query-organization-id":    orgID,
		})
		o.Expect(err).NotTo(o.HaveOccurred())

		name := exutil.RandName("host")
		tornDown = append(tornDown, exutil.CanonicalHostName(name, deps.domain.Name))
		err = session.Hosts.Create(webui.HostForm{
			Name: name,
			Host: webui.HostSection{
				Organization: deps.org.Name,
				Location:     deps.loc.Name,
				HostGroup:    group.String("Name"),
			},
			OperatingSystem: webui.OperatingSystemSection{
				Architecture:    deps.arch.Name,
				OperatingSystem: deps.os.Title(),
				Media:           deps.media.Name,
				PartitionTable:  deps.ptable.Name,
				RootPassword:    datafactory.GenString(datafactory.Alphanumeric, 10),
			},
			Interface: webui.InterfaceSection{
				MAC:     datafactory.GenMAC(),
				Domain:  deps.domain.Name,
				Primary: true,
			},
		})
		o.Expect(err).NotTo(o.HaveOccurred())

		detail, err := session.Hosts.FetchDetail(name, deps.domain.Name,
			[]string{"Content View", "Lifecycle Environment"})
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(detail["Content View"]).To(o.Equal(view.String("Name")))
		o.Expect(detail["Lifecycle Environment"]).To(o.Equal(lce.String("Name")))
	})

	g.It("bulk deletes eighteen hosts", func() {
		skip.IfOpenDefect(exutil.TestSettings().Defects, "SAT-18023")

		deps := createHostDeps(ctx, client)
		var names []string
		for i := 0; i < 18; i++ {
			host := createAPIHost(ctx, client, deps, nil)
			names = append(names, host.Canonical())
		}
		tornDown = append(tornDown, names...)

		o.Expect(session.Nav.SetContext(deps.org.Name, deps.loc.Name)).To(o.Succeed())
		notice, err := session.Hosts.BulkAction(names, "Delete Hosts", webui.DefaultWait*4)
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(notice).NotTo(o.BeNil(), "bulk delete completion notice expected")

		for _, canonical := range names {
			row, err := session.Hosts.Search(canonical)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(row).To(o.BeNil(), "host %s should be gone", canonical)
		}
	})
})

// createHostDeps assembles the entity set every host scenario needs. All
// lookups are against stock server content; only taxonomy and media are
// created fresh.
func createHostDeps(ctx context.Context, client *entities.Client) hostDeps {
	deps := hostDeps{}
	var err error

	deps.org, err = client.Organizations.Create(ctx, entities.OrganizationSpec{Name: exutil.RandName("org")})
	o.Expect(err).NotTo(o.HaveOccurred())
	deps.loc, err = client.Locations.Create(ctx, entities.LocationSpec{
		Name:            exutil.RandName("loc"),
		OrganizationIDs: []int{deps.org.ID},
	})
	o.Expect(err).NotTo(o.HaveOccurred())
	deps.domain, err = client.Domains.Create(ctx, entities.DomainSpec{
		Name:            exutil.RandName("domain") + ".example.com",
		OrganizationIDs: []int{deps.org.ID},
		LocationIDs:     []int{deps.loc.ID},
	})
	o.Expect(err).NotTo(o.HaveOccurred())
	deps.env, err = client.Environments.Create(ctx, entities.EnvironmentSpec{
		Name:            datafactory.GenString(datafactory.Alpha, 8),
		OrganizationIDs: []int{deps.org.ID},
		LocationIDs:     []int{deps.loc.ID},
	})
	o.Expect(err).NotTo(o.HaveOccurred())

	deps.arch, err = client.Architectures.FindByName(ctx, "x86_64")
	o.Expect(err).NotTo(o.HaveOccurred())
	deps.ptable, err = client.PartitionTables.FindByName(ctx, "Kickstart default")
	o.Expect(err).NotTo(o.HaveOccurred())

	systems, err := client.OperatingSystems.Search(ctx, "family ~ Redhat")
	o.Expect(err).NotTo(o.HaveOccurred())
	o.Expect(systems).NotTo(o.BeEmpty())
	deps.os = &systems[len(systems)-1]

	deps.media, err = client.Media.Create(ctx, entities.MediaSpec{
		Name:            exutil.RandName("media"),
		Path:            fmt.Sprintf("http://mirror.example.com/%s", exutil.RandName("tree")),
		OSFamily:        deps.os.Family,
		OrganizationIDs: []int{deps.org.ID},
		LocationIDs:     []int{deps.loc.ID},
	})
	o.Expect(err).NotTo(o.HaveOccurred())

	_, err = client.OperatingSystems.Update(ctx, deps.os.ID, entities.Fields{
		"architecture_ids": entities.AppendRefID(deps.os.Architectures, deps.arch.ID),
		"ptable_ids":       entities.AppendRefID(deps.os.PartitionTables, deps.ptable.ID),
		"medium_ids":       entities.AppendRefID(deps.os.Media, deps.media.ID),
	})
	o.Expect(err).NotTo(o.HaveOccurred())

	return deps
}

// createAPIHost makes an unmanaged host record over the API, optionally with
// global parameters attached.
func createAPIHost(ctx context.Context, client *entities.Client, deps hostDeps, params []entities.HostParameter) *entities.Host {
	host, err := client.Hosts.Create(ctx, entities.HostSpec{
		Name:              exutil.RandName("host"),
		OrganizationID:    deps.org.ID,
		LocationID:        deps.loc.ID,
		DomainID:          deps.domain.ID,
		EnvironmentID:     deps.env.ID,
		ArchitectureID:    deps.arch.ID,
		OperatingSystemID: deps.os.ID,
		MediumID:          deps.media.ID,
		PartitionTableID:  deps.ptable.ID,
		MAC:               datafactory.GenMAC(),
		RootPass:          datafactory.GenString(datafactory.Alphanumeric, 10),
		Managed:           false,
		InterfacesAttrs: []entities.HostInterface{{
			Type:       "interface",
			Identifier: "eth0",
			MAC:        datafactory.GenMAC(),
			Primary:    true,
			Provision:  true,
		}},
		HostParametersAttrs: params,
	})
	o.Expect(err).NotTo(o.HaveOccurred())
	return host
}
