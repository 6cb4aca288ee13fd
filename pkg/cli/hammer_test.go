package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor replays canned responses and records the commands it ran.
type fakeExecutor struct {
	commands  []string
	responses []fakeResponse
}

type fakeResponse struct {
	stdout string
	err    error
}

func (f *fakeExecutor) Execute(ctx context.Context, command string) (string, string, error) {
	f.commands = append(f.commands, command)
	if len(f.responses) == 0 {
		return "", "", nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp.stdout, "", resp.err
}

func (f *fakeExecutor) respond(stdout string, err error) {
	f.responses = append(f.responses, fakeResponse{stdout: stdout, err: err})
}

func TestListBuildsCommandAndParses(t *testing.T) {
	exec := &fakeExecutor{}
	exec.respond(`[{"Id": 3, "Name": "pool-a", "Network Addr": "10.1.2.0"}]`, nil)
	h := NewHammer(exec)

	records, err := h.Subnet.List(context.Background(), map[string]string{"search": `name = pool-a`})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].Int("Id"))
	assert.Equal(t, "pool-a", records[0].String("Name"))
	assert.Equal(t, "10.1.2.0", records[0].String("Network Addr"))

	require.Len(t, exec.commands, 1)
	assert.True(t, strings.HasPrefix(exec.commands[0], "hammer --output json subnet list"))
	assert.Contains(t, exec.commands[0], "--search 'name = pool-a'")
}

func TestProxyListBuildsCommand(t *testing.T) {
	exec := &fakeExecutor{}
	exec.respond(`[{"Id": 1, "Name": "sat.lab.example.com"}]`, nil)
	h := NewHammer(exec)

	proxies, err := h.Proxy.List(context.Background(), map[string]string{"search": "name = sat.lab.example.com"})
	require.NoError(t, err)
	require.Len(t, proxies, 1)
	assert.Equal(t, 1, proxies[0].Int("Id"))

	assert.True(t, strings.HasPrefix(exec.commands[0], "hammer --output json proxy list"))
	assert.Contains(t, exec.commands[0], "--search 'name = sat.lab.example.com'")
}

func TestOptionsAreOrderedAndQuoted(t *testing.T) {
	exec := &fakeExecutor{}
	exec.respond(`{}`, nil)
	h := NewHammer(exec)

	_, err := h.Subnet.Info(context.Background(), map[string]string{
		"name":            "my subnet",
		"organization-id": "7",
	})
	require.NoError(t, err)

	cmd := exec.commands[0]
	assert.Contains(t, cmd, "--name 'my subnet'")
	assert.Contains(t, cmd, "--organization-id 7")
	assert.Less(t, strings.Index(cmd, "--name"), strings.Index(cmd, "--organization-id"),
		"options are emitted in sorted order")
}

func TestInfoParsesSingleRecord(t *testing.T) {
	exec := &fakeExecutor{}
	exec.respond(`{"Id": "42", "Name": "pool-a", "IPAM": "DHCP"}`, nil)
	h := NewHammer(exec)

	record, err := h.Subnet.Info(context.Background(), map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, 42, record.Int("Id"))
	assert.Equal(t, "DHCP", record.String("IPAM"))
	assert.Equal(t, "", record.String("missing"))
	assert.Equal(t, 0, record.Int("missing"))
}

func TestReturnCodeErrorSurfaces(t *testing.T) {
	exec := &fakeExecutor{}
	rcErr := &ReturnCodeError{Command: "hammer subnet info", Code: 70, Stderr: "Error: subnet not found"}
	exec.respond("", rcErr)
	h := NewHammer(exec)

	_, err := h.Subnet.Info(context.Background(), map[string]string{"id": "9999"})
	require.Error(t, err)
	assert.True(t, IsReturnCode(err, 70))
	assert.False(t, IsReturnCode(err, 64))
	assert.Contains(t, err.Error(), "subnet not found")
}

func TestFactoryErrorNamesEntity(t *testing.T) {
	exec := &fakeExecutor{}
	exec.respond("", &ReturnCodeError{Code: 70, Stderr: "Error: invalid network"})
	f := NewFactory(NewHammer(exec))

	_, err := f.MakeSubnet(context.Background(), map[string]string{"network": "256.0.0.0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not create the subnet:")

	var fe *FactoryError
	require.True(t, errors.As(err, &fe))
	assert.True(t, IsReturnCode(fe, 70), "the cause stays reachable through the factory error")
}

func TestFactoryFillsDefaults(t *testing.T) {
	exec := &fakeExecutor{}
	exec.respond("", nil)                             // create
	exec.respond(`{"Id": 5, "Name": "custom"}`, nil)  // info
	f := NewFactory(NewHammer(exec))

	_, err := f.MakeSubnet(context.Background(), map[string]string{"name": "custom"})
	require.NoError(t, err)

	create := exec.commands[0]
	assert.Contains(t, create, "--name custom")
	assert.Contains(t, create, "--mask 255.255.255.0")
	assert.Contains(t, create, "--network")
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "plain", shellQuote("plain"))
	assert.Equal(t, "''", shellQuote(""))
	assert.Equal(t, "'two words'", shellQuote("two words"))
	assert.Equal(t, `'it'"'"'s'`, shellQuote("it's"))
}
