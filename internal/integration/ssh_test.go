package integration_test

import (
	"bytes"
	"context"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/ssh"

	"pkt.systems/folio/sshserver"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func startSSH(t *testing.T) string {
	t.Helper()
	stack := newTestStack(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := &sshserver.Server{
		Addr:        ln.Addr().String(),
		Listener:    ln,
		HostKeyPath: filepath.Join(t.TempDir(), "ssh_host_key"),
		Service:     stack.service,
		EventBus:    stack.bus,
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.ListenAndServe(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("ssh server: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Errorf("ssh server did not stop")
		}
	})
	return ln.Addr().String()
}

func dialSSH(t *testing.T, addr string) *ssh.Client {
	t.Helper()
	client, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            "visitor",
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSSHDemosTabPlays(t *testing.T) {
	requireLong(t)
	client := dialSSH(t, startSSH(t))
	session, err := client.NewSession()
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	defer session.Close()

	var out lockedBuffer
	session.Stdout = &out
	stdin, err := session.StdinPipe()
	if err != nil {
		t.Fatalf("stdin: %v", err)
	}
	if err := session.RequestPty("xterm", 40, 100, ssh.TerminalModes{}); err != nil {
		t.Fatalf("pty: %v", err)
	}
	if err := session.Shell(); err != nil {
		t.Fatalf("shell: %v", err)
	}

	if _, err := stdin.Write([]byte("5")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := waitFor(10*time.Second, "first run", func() (bool, string) {
		s := out.String()
		return strings.Contains(s, "run 1"), tail(s)
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := stdin.Write([]byte("q")); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitErr := make(chan error, 1)
	go func() { waitErr <- session.Wait() }()
	select {
	case err := <-waitErr:
		if err != nil {
			t.Fatalf("expected clean exit, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("session did not exit after q")
	}
}

func TestSSHWithoutPTYIsRejected(t *testing.T) {
	requireLong(t)
	client := dialSSH(t, startSSH(t))
	session, err := client.NewSession()
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	defer session.Close()

	out, err := session.CombinedOutput("about")
	var exitErr *ssh.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitStatus() != 1 {
		t.Fatalf("expected exit status 1, got %v", err)
	}
	if !strings.Contains(string(out), "interactive terminal") {
		t.Fatalf("unexpected output %q", out)
	}
}

func tail(s string) string {
	if len(s) > 200 {
		return s[len(s)-200:]
	}
	return s
}
