package remote

import (
	"bytes"
	"context"
	"net"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"

	"github.com/swoga/ddwrt-exporter/cache"
	"github.com/swoga/ddwrt-exporter/config"
)

// SSHDialer opens password-authenticated SSH connections. Host keys are not
// verified: every key is accepted, and a key that differs from the one last
// seen for the same address is logged.
type SSHDialer struct {
	log          zerolog.Logger
	fingerprints *cache.Cache
}

func NewSSHDialer(log zerolog.Logger) *SSHDialer {
	return &SSHDialer{
		log:          log,
		fingerprints: cache.New(),
	}
}

func (d *SSHDialer) Dial(ctx context.Context, target config.Target) (Shell, error) {
	address := target.HostPort()
	timeout := target.ConnectTimeout()
	log := d.log.With().Str("target", address).Logger()

	sshConfig := &ssh.ClientConfig{
		User: target.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(target.Password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = target.Password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: d.acceptHostKey(log),
		Timeout:         timeout,
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, &TransportError{Op: "dial", Address: address, Err: err}
	}

	// the handshake is bounded by the connect timeout too
	if timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(timeout))
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, sshConfig)
	if err != nil {
		conn.Close()
		return nil, &TransportError{Op: "handshake", Address: address, Err: err}
	}
	_ = conn.SetDeadline(time.Time{})

	log.Debug().Msg("ssh connection established")
	return &sshShell{
		log:     log,
		address: address,
		client:  ssh.NewClient(sshConn, chans, reqs),
	}, nil
}

func (d *SSHDialer) acceptHostKey(log zerolog.Logger) ssh.HostKeyCallback {
	return func(hostname string, _ net.Addr, key ssh.PublicKey) error {
		fingerprint := ssh.FingerprintSHA256(key)
		previous, loaded := d.fingerprints.Swap(hostname, fingerprint)
		switch {
		case !loaded:
			log.Info().Str("fingerprint", fingerprint).Str("key_type", key.Type()).Msg("accepting host key")
		case previous != fingerprint:
			log.Warn().Str("fingerprint", fingerprint).Str("previous", previous).Msg("host key changed")
		}
		return nil
	}
}

type sshShell struct {
	log     zerolog.Logger
	address string
	client  *ssh.Client
}

// Execute runs command in a new session on the shared connection and
// returns its stdout. A non-zero exit status is an error.
func (s *sshShell) Execute(ctx context.Context, command string) (string, error) {
	session, err := s.client.NewSession()
	if err != nil {
		return "", &TransportError{Op: "session", Address: s.address, Command: command, Err: err}
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() {
		done <- session.Run(command)
	}()

	select {
	case <-ctx.Done():
		session.Close()
		return "", &TransportError{Op: "exec", Address: s.address, Command: command, Err: ctx.Err()}
	case err = <-done:
	}

	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) && stderr.Len() > 0 {
			err = errors.Wrap(err, strings.TrimSpace(stderr.String()))
		}
		return "", &TransportError{Op: "exec", Address: s.address, Command: command, Err: err}
	}

	s.log.Debug().Str("command", command).Int("bytes", stdout.Len()).Msg("remote command finished")
	return stdout.String(), nil
}

func (s *sshShell) Close() error {
	return s.client.Close()
}
