// Package util wires the suites to one lazily loaded settings file and the
// clients built from it. Everything here is shared across suite packages;
// per-suite helpers live next to their specs.
package util

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/satelliteqe/satellite-tests/pkg/cli"
	"github.com/satelliteqe/satellite-tests/pkg/config"
	"github.com/satelliteqe/satellite-tests/pkg/datafactory"
	"github.com/satelliteqe/satellite-tests/pkg/entities"
	"github.com/satelliteqe/satellite-tests/pkg/fixtures"
	"github.com/satelliteqe/satellite-tests/pkg/ui"
)

var (
	settingsOnce sync.Once
	settings     *config.Settings
	settingsErr  error
)

// TestSettings loads the settings file once per process. A broken settings
// file fails the whole run immediately instead of failing every spec with
// the same message.
func TestSettings() *config.Settings {
	settingsOnce.Do(func() {
		settings, settingsErr = config.FromEnv()
		if settingsErr == nil {
			settingsErr = settings.Validate()
		}
	})
	if settingsErr != nil {
		logrus.Fatalf("loading settings: %v", settingsErr)
	}
	return settings
}

// NewAPIClient builds an entities client against the configured server.
func NewAPIClient() *entities.Client {
	s := TestSettings()
	client, err := entities.NewClient(entities.ClientConfig{
		BaseURL:   s.BaseURL(),
		Username:  s.Server.User,
		Password:  s.Server.Password,
		VerifySSL: s.Server.VerifySSL,
	})
	if err != nil {
		logrus.Fatalf("building api client: %v", err)
	}
	return client
}

// NewFixtures builds a fixture builder over a fresh API client.
func NewFixtures() *fixtures.Builder {
	return fixtures.NewBuilder(NewAPIClient(), TestSettings())
}

// NewUISession opens a logged-in browser session.
func NewUISession() (*ui.Session, error) {
	return ui.NewSession(TestSettings())
}

// NewHammer builds the CLI binding over SSH to the server.
func NewHammer() (*cli.Hammer, *cli.SSHRunner, error) {
	runner, err := cli.NewSSHRunner(TestSettings().Server)
	if err != nil {
		return nil, nil, err
	}
	return cli.NewHammer(runner), runner, nil
}

// RandName returns a unique entity name with the given prefix.
func RandName(prefix string) string {
	return datafactory.UniqueName(prefix)
}

// CanonicalHostName joins a host name with its domain the way listings
// render it.
func CanonicalHostName(name, domain string) string {
	return fmt.Sprintf("%s.%s", name, domain)
}

// DeleteHostIfExists removes the named host over the API, tolerating
// absence. Suites call it from AfterEach so UI failures do not leak hosts
// into later runs.
func DeleteHostIfExists(ctx context.Context, client *entities.Client, canonical string) error {
	host, err := client.Hosts.FindByName(ctx, canonical)
	if entities.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return client.Hosts.Delete(ctx, host.ID)
}
