package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	g "github.com/onsi/ginkgo"
	o "github.com/onsi/gomega"
	"github.com/samber/lo"

	hammercli "github.com/satelliteqe/satellite-tests/pkg/cli"
	"github.com/satelliteqe/satellite-tests/pkg/datafactory"
	exutil "github.com/satelliteqe/satellite-tests/test/extended/util"
)

var _ = g.Describe("[cli] subnet", func() {
	defer g.GinkgoRecover()

	var (
		hammer  *hammercli.Hammer
		runner  *hammercli.SSHRunner
		factory *hammercli.Factory
		ctx     context.Context
	)

	g.BeforeEach(func() {
		var err error
		ctx = context.Background()
		hammer, runner, err = exutil.NewHammer()
		o.Expect(err).NotTo(o.HaveOccurred())
		factory = hammercli.NewFactory(hammer)
	})

	g.AfterEach(func() {
		o.Expect(runner.Close()).To(o.Succeed())
	})

	g.It("creates subnets with representative valid names", func() {
		for _, name := range datafactory.ValidNames() {
			subnet, err := factory.MakeSubnet(ctx, map[string]string{"name": name})
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(subnet.String("Name")).To(o.Equal(name))
			o.Expect(hammer.Subnet.Delete(ctx, map[string]string{"id": subnet.String("Id")})).To(o.Succeed())
		}
	})

	g.It("creates a subnet with an address pool", func() {
		network := datafactory.GenIPAddr(true)
		from, to := poolFor(network)
		subnet, err := factory.MakeSubnet(ctx, map[string]string{
			"network": network,
			"from":    from,
			"to":      to,
		})
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(subnet.String("Start of IP range")).To(o.Equal(from))
		o.Expect(subnet.String("End of IP range")).To(o.Equal(to))
	})

	g.It("creates a subnet attached to domains", func() {
		var domainIDs []string
		for i := 0; i < 2; i++ {
			domain, err := factory.MakeDomain(ctx, nil)
			o.Expect(err).NotTo(o.HaveOccurred())
			domainIDs = append(domainIDs, domain.String("Id"))
		}
		subnet, err := factory.MakeSubnet(ctx, map[string]string{
			"domain-ids": strings.Join(domainIDs, ","),
		})
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(subnet.String("Domains")).NotTo(o.BeEmpty())
	})

	g.It("creates a subnet with a gateway", func() {
		network := datafactory.GenIPAddr(true)
		gateway := offsetAddr(network, 1)
		subnet, err := factory.MakeSubnet(ctx, map[string]string{
			"network": network,
			"gateway": gateway,
		})
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(subnet.String("Gateway")).To(o.ContainSubstring(gateway))
	})

	g.It("creates subnets for every IPAM mode", func() {
		for _, ipam := range []string{"DHCP", "Internal DB", "None"} {
			subnet, err := factory.MakeSubnet(ctx, map[string]string{"ipam": ipam})
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(subnet.String("IPAM")).To(o.ContainSubstring(ipam))
		}
	})

	g.It("rejects invalid attributes on create", func() {
		for _, options := range []map[string]string{
			{"name": ""},
			{"network": "256.0.0.0"},
			{"mask": "299.0.0.0"},
		} {
			_, err := factory.MakeSubnet(ctx, options)
			o.Expect(err).To(o.HaveOccurred())
			o.Expect(err.Error()).To(o.ContainSubstring("Could not create the subnet:"))
		}
	})

	g.It("rejects an inverted address pool on create", func() {
		network := datafactory.GenIPAddr(true)
		from, to := poolFor(network)
		_, err := factory.MakeSubnet(ctx, map[string]string{
			"network": network,
			"from":    to,
			"to":      from,
		})
		o.Expect(err).To(o.HaveOccurred())
		o.Expect(err.Error()).To(o.ContainSubstring("Could not create the subnet:"))
	})

	g.It("lists a created subnet", func() {
		subnet, err := factory.MakeSubnet(ctx, nil)
		o.Expect(err).NotTo(o.HaveOccurred())

		records, err := hammer.Subnet.List(ctx, nil)
		o.Expect(err).NotTo(o.HaveOccurred())
		match := lo.ContainsBy(records, func(r hammercli.Record) bool {
			return r.String("Name") == subnet.String("Name")
		})
		o.Expect(match).To(o.BeTrue(), "subnet %q should be listed", subnet.String("Name"))
	})

	g.It("updates a subnet name", func() {
		subnet, err := factory.MakeSubnet(ctx, nil)
		o.Expect(err).NotTo(o.HaveOccurred())

		newName := datafactory.UniqueName("subnet")
		o.Expect(hammer.Subnet.Update(ctx, map[string]string{
			"id":       subnet.String("Id"),
			"new-name": newName,
		})).To(o.Succeed())

		updated, err := hammer.Subnet.Info(ctx, map[string]string{"id": subnet.String("Id")})
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(updated.String("Name")).To(o.Equal(newName))
	})

	g.It("updates network, mask and pool together", func() {
		subnet, err := factory.MakeSubnet(ctx, nil)
		o.Expect(err).NotTo(o.HaveOccurred())

		network := datafactory.GenIPAddr(true)
		from, to := poolFor(network)
		o.Expect(hammer.Subnet.Update(ctx, map[string]string{
			"id":      subnet.String("Id"),
			"network": network,
			"mask":    "255.255.255.0",
			"from":    from,
			"to":      to,
		})).To(o.Succeed())

		updated, err := hammer.Subnet.Info(ctx, map[string]string{"id": subnet.String("Id")})
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(updated.String("Network Addr")).To(o.Equal(network))
		o.Expect(updated.String("Start of IP range")).To(o.Equal(from))
		o.Expect(updated.String("End of IP range")).To(o.Equal(to))
	})

	g.It("leaves attributes unchanged after a rejected update", func() {
		subnet, err := factory.MakeSubnet(ctx, nil)
		o.Expect(err).NotTo(o.HaveOccurred())

		err = hammer.Subnet.Update(ctx, map[string]string{
			"id":      subnet.String("Id"),
			"network": "256.0.0.0",
		})
		o.Expect(err).To(o.HaveOccurred())

		unchanged, err := hammer.Subnet.Info(ctx, map[string]string{"id": subnet.String("Id")})
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(unchanged.String("Network Addr")).To(o.Equal(subnet.String("Network Addr")))
	})

	g.It("deletes a subnet", func() {
		subnet, err := factory.MakeSubnet(ctx, nil)
		o.Expect(err).NotTo(o.HaveOccurred())

		o.Expect(hammer.Subnet.Delete(ctx, map[string]string{"id": subnet.String("Id")})).To(o.Succeed())

		_, err = hammer.Subnet.Info(ctx, map[string]string{"id": subnet.String("Id")})
		var rc *hammercli.ReturnCodeError
		o.Expect(errors.As(err, &rc)).To(o.BeTrue(), "info on a deleted subnet must exit non-zero")
	})
})

// poolFor derives a small address pool inside the /24 network.
func poolFor(network string) (string, string) {
	return offsetAddr(network, 10), offsetAddr(network, 20)
}

// offsetAddr returns the network address with its last octet replaced.
func offsetAddr(network string, last int) string {
	ip := net.ParseIP(network).To4()
	return fmt.Sprintf("%d.%d.%d.%d", ip[0], ip[1], ip[2], last)
}
