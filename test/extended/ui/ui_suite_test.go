package ui

import (
	"testing"

	g "github.com/onsi/ginkgo"
	o "github.com/onsi/gomega"
)

func TestUI(t *testing.T) {
	o.RegisterFailHandler(g.Fail)
	g.RunSpecs(t, "UI suite")
}
