package ui

import (
	"context"

	g "github.com/onsi/ginkgo"
	o "github.com/onsi/gomega"

	"github.com/satelliteqe/satellite-tests/pkg/datafactory"
	"github.com/satelliteqe/satellite-tests/pkg/fixtures"
	"github.com/satelliteqe/satellite-tests/pkg/skip"
	webui "github.com/satelliteqe/satellite-tests/pkg/ui"
	exutil "github.com/satelliteqe/satellite-tests/test/extended/util"
)

var _ = g.Describe("[ui] host deployment on libvirt", func() {
	defer g.GinkgoRecover()

	var (
		session   *webui.Session
		ctx       context.Context
		graph     *fixtures.Provisioned
		canonical string
	)

	g.BeforeEach(func() {
		settings := exutil.TestSettings()
		skip.IfNotSet(settings, "vlan_networking", "compute_resources", "provisioning")

		ctx = context.Background()
		builder := exutil.NewFixtures()
		var err error
		graph, err = builder.Provisioning(ctx, fixtures.ProvisioningOptions{
			Profile:       fixtures.LibvirtRHEL,
			RepositoryURL: settings.Provisioning.RHELRepo,
			OSTitle:       settings.Provisioning.OSTitle,
		})
		o.Expect(err).NotTo(o.HaveOccurred())

		session, err = exutil.NewUISession()
		o.Expect(err).NotTo(o.HaveOccurred())
		canonical = ""
	})

	g.AfterEach(func() {
		if canonical != "" {
			o.Expect(exutil.DeleteHostIfExists(ctx, exutil.NewAPIClient(), canonical)).To(o.Succeed())
		}
		if session != nil {
			o.Expect(session.Close()).To(o.Succeed())
		}
	})

	g.It("deploys a host onto the libvirt compute resource", func() {
		settings := exutil.TestSettings()
		name := exutil.RandName("host")
		canonical = exutil.CanonicalHostName(name, graph.Domain.Name)

		err := session.Hosts.Create(webui.HostForm{
			Name: name,
			Host: webui.HostSection{
				Organization:         graph.Org.Name,
				Location:             graph.Loc.Name,
				HostGroup:            graph.HostGroup.Name,
				DeployOn:             graph.Compute.Name + " (Libvirt)",
				LifecycleEnvironment: graph.LCE.Name,
				ContentView:          graph.ContentView.Name,
			},
			VirtualMachine: webui.VirtualMachineSection{
				Memory: "1 GB",
			},
			OperatingSystem: webui.OperatingSystemSection{
				OperatingSystem: graph.OS.Title(),
				Media:           graph.Media.Name,
				PartitionTable:  graph.PTable.Name,
				RootPassword:    graph.RootPassword,
			},
			Interface: webui.InterfaceSection{
				MAC:         datafactory.GenMAC(),
				Domain:      graph.Domain.Name,
				NetworkType: "Physical (Bridge)",
				Network:     settings.VLANNetworking.Bridge,
				Primary:     true,
			},
		})
		o.Expect(err).NotTo(o.HaveOccurred())

		row, err := session.Hosts.Search(canonical, webui.WithTimeout(webui.DefaultWait*4))
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(row).NotTo(o.BeNil())
	})
})
