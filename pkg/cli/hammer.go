package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Hammer wraps an Executor and exposes the server's hammer CLI with JSON
// output parsing.
type Hammer struct {
	exec Executor

	Subnet      *SubnetCommands
	ContentView *ContentViewCommands
	Proxy       *ProxyCommands
}

// NewHammer binds the command groups to the executor.
func NewHammer(exec Executor) *Hammer {
	h := &Hammer{exec: exec}
	h.Subnet = &SubnetCommands{h}
	h.ContentView = &ContentViewCommands{h}
	h.Proxy = &ProxyCommands{h}
	return h
}

// Record is one parsed row of hammer JSON output. Hammer capitalizes keys
// ("Id", "Name", "Network Addr") so lookups go through the accessors.
type Record map[string]interface{}

// String returns the field as a string, empty when missing.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Int returns the field as an integer, zero when missing or not numeric.
func (r Record) Int(key string) int {
	switch t := r[key].(type) {
	case float64:
		return int(t)
	case string:
		n, _ := strconv.Atoi(t)
		return n
	default:
		return 0
	}
}

// FactoryError reports that a make-helper could not create its entity.
type FactoryError struct {
	Entity string
	Cause  error
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("Could not create the %s: %v", e.Entity, e.Cause)
}

func (e *FactoryError) Unwrap() error { return e.Cause }

// run executes `hammer --output json <args>` and returns raw stdout.
func (h *Hammer) run(ctx context.Context, args []string, options map[string]string) ([]byte, error) {
	parts := []string{"hammer", "--output", "json"}
	parts = append(parts, args...)

	keys := lo.Keys(options)
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, "--"+k, shellQuote(options[k]))
	}

	command := strings.Join(parts, " ")
	stdout, _, err := h.exec.Execute(ctx, command)
	if err != nil {
		return nil, err
	}
	return []byte(stdout), nil
}

// list runs the command and parses the JSON array output.
func (h *Hammer) list(ctx context.Context, args []string, options map[string]string) ([]Record, error) {
	out, err := h.run(ctx, args, options)
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(out, &records); err != nil {
		return nil, errors.Wrapf(err, "parsing %s output", strings.Join(args, " "))
	}
	return records, nil
}

// info runs the command and parses the single-object JSON output.
func (h *Hammer) info(ctx context.Context, args []string, options map[string]string) (Record, error) {
	out, err := h.run(ctx, args, options)
	if err != nil {
		return nil, err
	}
	var record Record
	if err := json.Unmarshal(out, &record); err != nil {
		return nil, errors.Wrapf(err, "parsing %s output", strings.Join(args, " "))
	}
	return record, nil
}

// modify runs a command whose success is signalled by the exit code alone.
func (h *Hammer) modify(ctx context.Context, args []string, options map[string]string) error {
	_, err := h.run(ctx, args, options)
	return err
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\"'$`\\!*?[]{}();<>|&~#") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
