package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"

	"github.com/satelliteqe/satellite-tests/pkg/config"
)

// Executor runs a shell command on the server and returns its output.
// The SSH implementation is the production path; tests substitute fakes.
type Executor interface {
	Execute(ctx context.Context, command string) (stdout, stderr string, err error)
}

// ReturnCodeError reports a command that ran but exited non-zero.
type ReturnCodeError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ReturnCodeError) Error() string {
	return fmt.Sprintf("command %q exited %d: %s", e.Command, e.Code, e.Stderr)
}

// IsReturnCode reports whether err is a non-zero exit with the given code.
func IsReturnCode(err error, code int) bool {
	var rc *ReturnCodeError
	return errors.As(err, &rc) && rc.Code == code
}

// SSHRunner executes commands on the server over SSH. A fresh session is
// opened per command; the underlying connection is reused until Close.
type SSHRunner struct {
	addr   string
	config *ssh.ClientConfig
	client *ssh.Client
	log    *logrus.Entry
}

// NewSSHRunner builds a runner from the server settings. Key file auth is
// preferred, falling back to the admin password.
func NewSSHRunner(server config.Server) (*SSHRunner, error) {
	auth, err := authMethods(server)
	if err != nil {
		return nil, err
	}
	port := server.SSHPort
	if port == 0 {
		port = 22
	}
	user := server.SSHUser
	if user == "" {
		user = "root"
	}
	return &SSHRunner{
		addr: fmt.Sprintf("%s:%d", server.Hostname, port),
		config: &ssh.ClientConfig{
			User:            user,
			Auth:            auth,
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
			Timeout:         30 * time.Second,
		},
		log: logrus.WithField("component", "cli"),
	}, nil
}

func authMethods(server config.Server) ([]ssh.AuthMethod, error) {
	if server.SSHKeyPath != "" {
		buf, err := os.ReadFile(server.SSHKeyPath)
		if err != nil {
			return nil, errors.Wrap(err, "reading ssh key")
		}
		key, err := ssh.ParsePrivateKey(buf)
		if err != nil {
			return nil, errors.Wrap(err, "parsing ssh key")
		}
		return []ssh.AuthMethod{ssh.PublicKeys(key)}, nil
	}
	if server.Password != "" {
		return []ssh.AuthMethod{ssh.Password(server.Password)}, nil
	}
	return nil, errors.New("server settings carry neither ssh_key_path nor admin_password")
}

func (r *SSHRunner) connect() (*ssh.Client, error) {
	if r.client != nil {
		return r.client, nil
	}
	client, err := ssh.Dial("tcp", r.addr, r.config)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", r.addr)
	}
	r.client = client
	return client, nil
}

// Execute runs the command in a new session. Context cancellation closes the
// session, which aborts the remote command.
func (r *SSHRunner) Execute(ctx context.Context, command string) (string, string, error) {
	client, err := r.connect()
	if err != nil {
		return "", "", err
	}
	session, err := client.NewSession()
	if err != nil {
		return "", "", errors.Wrap(err, "opening ssh session")
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	r.log.Debugf("running: %s", command)

	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()

	select {
	case <-ctx.Done():
		session.Close()
		<-done
		return stdout.String(), stderr.String(), ctx.Err()
	case err = <-done:
	}

	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), stderr.String(), &ReturnCodeError{
				Command: command,
				Code:    exitErr.ExitStatus(),
				Stderr:  stderr.String(),
			}
		}
		return stdout.String(), stderr.String(), errors.Wrapf(err, "running %q", command)
	}
	return stdout.String(), stderr.String(), nil
}

// Close tears down the SSH connection.
func (r *SSHRunner) Close() error {
	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}
