package cmd

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"courseserv/util"
)

const catalogFile = `code;title;subject;instructor;prerequisites;seats;capacity;description
CS300;Data Structures;CS300 Core;Ada Lovelace;;2;30;Trees
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

// TestExecute_Version verifies --version prints a version string.
func TestExecute_Version(t *testing.T) {
	out, _, err := run(t, "--version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "courseserv "+version+"\n" {
		t.Errorf("output = %q", out)
	}
}

// TestExecute_Help verifies --help prints usage without error.
func TestExecute_Help(t *testing.T) {
	for _, arg := range []string{"--help", "-h"} {
		t.Run(arg, func(t *testing.T) {
			_, errOut, err := run(t, arg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(errOut, "Usage:") || !strings.Contains(errOut, "--max-conns") {
				t.Errorf("usage output = %q", errOut)
			}
		})
	}
}

// TestExecute_DryRun verifies --dry-run validates and exits cleanly.
func TestExecute_DryRun(t *testing.T) {
	out, _, err := run(t, "-f", writeTemp(t, "courses.db", catalogFile), "--max-conns", "4", "--dry-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, ":3490") || !strings.Contains(out, "max connections: 4") {
		t.Errorf("dry-run output = %q", out)
	}
}

// TestExecute_DryRunInvalid verifies --dry-run still catches bad configs.
func TestExecute_DryRunInvalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantSub string
	}{
		{"bad port", []string{"-p", "0"}, "--port"},
		{"bad log format", []string{"--log-format", "xml"}, "--log-format"},
		{"negative max conns", []string{"--max-conns=-2"}, "--max-conns"},
		{"missing catalog", []string{"-f", "/nonexistent/courses.db"}, "load catalog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, append(tt.args, "--dry-run")...)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantSub)
			}
		})
	}
}

// TestExecute_InvalidFlags verifies unknown flags produce an error.
func TestExecute_InvalidFlags(t *testing.T) {
	if _, _, err := run(t, "--nonexistent-flag"); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestExecute_UnexpectedArgument(t *testing.T) {
	_, _, err := run(t, "localhost")
	if err == nil || !strings.Contains(err.Error(), "unexpected argument") {
		t.Fatalf("expected positional argument error, got %v", err)
	}
}

// TestExecute_Precedence verifies flags beat the environment, which
// beats the YAML file, which beats defaults.
func TestExecute_Precedence(t *testing.T) {
	catalog := writeTemp(t, "courses.db", catalogFile)
	yamlFile := writeTemp(t, "courseserv.yaml", fmt.Sprintf("port: 4000\nmax_conns: 7\ncatalog: %s\n", catalog))

	out, _, err := run(t, "--config", yamlFile, "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, ":4000") || !strings.Contains(out, "max connections: 7") {
		t.Errorf("yaml layer: %q", out)
	}

	t.Setenv("COURSESERV_PORT", "5000")
	out, _, err = run(t, "--config", yamlFile, "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, ":5000") || !strings.Contains(out, "max connections: 7") {
		t.Errorf("env layer: %q", out)
	}

	out, _, err = run(t, "--config", yamlFile, "-p", "6000", "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, ":6000") {
		t.Errorf("flag layer: %q", out)
	}
}

func TestExecute_ConfigFromEnv(t *testing.T) {
	catalog := writeTemp(t, "courses.db", catalogFile)
	t.Setenv("COURSESERV_CONFIG", writeTemp(t, "c.yaml", "port: 4100\ncatalog: "+catalog+"\n"))

	out, _, err := run(t, "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, ":4100") {
		t.Errorf("output = %q", out)
	}
}

func TestExecute_EnvFile(t *testing.T) {
	catalog := writeTemp(t, "courses.db", catalogFile)
	envFile := writeTemp(t, "test.env", "COURSESERV_PORT=4200\nCOURSESERV_CATALOG="+catalog+"\n")
	// cleanups restore the unset state after godotenv fills them in
	t.Setenv("COURSESERV_PORT", "")
	t.Setenv("COURSESERV_CATALOG", "")
	os.Unsetenv("COURSESERV_PORT")    //nolint:errcheck
	os.Unsetenv("COURSESERV_CATALOG") //nolint:errcheck

	out, _, err := run(t, "--env-file", envFile, "--dry-run")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, ":4200") {
		t.Errorf("output = %q", out)
	}
}

// TestExecute_Serve starts the real server and talks to it.
func TestExecute_Serve(t *testing.T) {
	port, err := util.FindFreePort()
	if err != nil {
		t.Fatal(err)
	}
	catalog := writeTemp(t, "courses.db", catalogFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- execute(ctx, []string{
			"-H", "127.0.0.1", "-p", fmt.Sprint(port), "-f", catalog, "--log-format", "json",
		}, io.Discard, io.Discard)
	}()

	addr := util.FormatAddr("127.0.0.1", port)
	var conn net.Conn
	deadline := time.Now().Add(3 * time.Second)
	for {
		conn, err = net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(3 * time.Second)) //nolint:errcheck

	fmt.Fprint(conn, "IAM Alice\nCATALOG\nSHOW CS300 availability\nBYE\n")
	r := bufio.NewReader(conn)
	var lines []string
	for i := 0; i < 4; i++ {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		lines = append(lines, strings.TrimSuffix(line, "\n"))
	}
	want := []string{
		"200 Welcome Alice@127.0.0.1",
		"210 Switched to CATALOG mode",
		"250 Availability Open, Seats: 2",
		"200 Goodbye",
	}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("got %v, want %v", lines, want)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("execute: %v", err)
		}
	case <-time.After(8 * time.Second):
		t.Fatal("server did not shut down")
	}
}
