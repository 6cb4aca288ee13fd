package cli

import (
	"testing"

	g "github.com/onsi/ginkgo"
	o "github.com/onsi/gomega"
)

func TestCLI(t *testing.T) {
	o.RegisterFailHandler(g.Fail)
	g.RunSpecs(t, "CLI suite")
}
