package util

import (
	"net"
	"testing"
)

func TestFormatAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"1.2.3.4", 3490, "1.2.3.4:3490"},
		{"::1", 443, "[::1]:443"},
		{"", 3490, ":3490"},
	}
	for _, tt := range tests {
		if got := FormatAddr(tt.host, tt.port); got != tt.want {
			t.Errorf("FormatAddr(%q,%d) = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestRemoteHost(t *testing.T) {
	tcp := &net.TCPAddr{IP: net.ParseIP("10.1.2.3"), Port: 5555}
	if got := RemoteHost(tcp); got != "10.1.2.3" {
		t.Errorf("tcp host = %q", got)
	}

	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	if got := RemoteHost(a.RemoteAddr()); got != "pipe" {
		t.Errorf("pipe host = %q", got)
	}

	if got := RemoteHost(nil); got != "unknown" {
		t.Errorf("nil host = %q", got)
	}
}

func TestFindFreePort(t *testing.T) {
	port, err := FindFreePort()
	if err != nil {
		t.Fatal(err)
	}
	if port < 1 || port > 65535 {
		t.Errorf("port %d out of range", port)
	}
}
