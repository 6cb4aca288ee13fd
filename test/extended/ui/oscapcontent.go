package ui

import (
	"context"

	g "github.com/onsi/ginkgo"
	o "github.com/onsi/gomega"

	"github.com/satelliteqe/satellite-tests/pkg/datafactory"
	"github.com/satelliteqe/satellite-tests/pkg/entities"
	"github.com/satelliteqe/satellite-tests/pkg/skip"
	webui "github.com/satelliteqe/satellite-tests/pkg/ui"
	exutil "github.com/satelliteqe/satellite-tests/test/extended/util"
)

var _ = g.Describe("[ui] oscap content", func() {
	defer g.GinkgoRecover()

	var (
		session     *webui.Session
		client      *entities.Client
		ctx         context.Context
		org         *entities.Organization
		contentPath string
	)

	g.BeforeEach(func() {
		settings := exutil.TestSettings()
		skip.IfNotSet(settings, "oscap")
		contentPath = settings.OSCAP.ContentPath

		ctx = context.Background()
		client = exutil.NewAPIClient()
		var err error
		org, err = client.Organizations.Create(ctx, entities.OrganizationSpec{Name: exutil.RandName("org")})
		o.Expect(err).NotTo(o.HaveOccurred())

		session, err = exutil.NewUISession()
		o.Expect(err).NotTo(o.HaveOccurred())
	})

	g.AfterEach(func() {
		if session != nil {
			o.Expect(session.Close()).To(o.Succeed())
		}
	})

	g.It("creates scap contents with representative valid titles", func() {
		for _, title := range datafactory.ValidNames() {
			err := session.OSCAPContents.Create(title, contentPath, []string{org.Name})
			o.Expect(err).NotTo(o.HaveOccurred())
			row, err := session.OSCAPContents.Search(title)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(row).NotTo(o.BeNil(), "scap content %q should be listed", title)
			o.Expect(session.OSCAPContents.Delete(title)).To(o.Succeed())
		}
	})

	g.It("rejects invalid titles on create", func() {
		for _, title := range datafactory.InvalidNames() {
			err := session.OSCAPContents.Create(title, contentPath, nil)
			o.Expect(err).NotTo(o.HaveOccurred())
			errEl := session.WaitUntilElement(webui.FormHasError, webui.DefaultWait)
			o.Expect(errEl).NotTo(o.BeNil(), "title %q should be rejected", title)
		}
	})

	g.It("moves a scap content to another organization", func() {
		title := exutil.RandName("content")
		o.Expect(session.OSCAPContents.Create(title, contentPath, nil)).To(o.Succeed())

		o.Expect(session.OSCAPContents.AssignOrganization(title, org.Name)).To(o.Succeed())

		_, err := session.Nav.SelectOrg(org.Name)
		o.Expect(err).NotTo(o.HaveOccurred())
		row, err := session.OSCAPContents.Search(title)
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(row).NotTo(o.BeNil(), "scap content should be visible inside %q", org.Name)
	})

	g.It("updates a scap content title", func() {
		title := exutil.RandName("content")
		o.Expect(session.OSCAPContents.Create(title, contentPath, nil)).To(o.Succeed())

		newTitle := exutil.RandName("content")
		o.Expect(session.OSCAPContents.Update(title, newTitle)).To(o.Succeed())
		row, err := session.OSCAPContents.Search(newTitle)
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(row).NotTo(o.BeNil())
	})

	g.It("deletes a scap content", func() {
		title := exutil.RandName("content")
		o.Expect(session.OSCAPContents.Create(title, contentPath, nil)).To(o.Succeed())

		o.Expect(session.OSCAPContents.Delete(title)).To(o.Succeed())
		row, err := session.OSCAPContents.Search(title)
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(row).To(o.BeNil())
	})

	g.It("ships default scap contents", func() {
		// default contents are not installed out of the box on downstream
		// builds, see the installer's foreman_scap_client defaults
		g.Skip("default scap contents are not installed by default")
	})
})
