package ntptest

import (
	"net"
	"testing"
	"time"

	"github.com/AndrewLester/sntp/internal/ntp"
	beevik "github.com/beevik/ntp"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/nettest"
)

func newServer(t *testing.T, network string, handler Handler) *Server {
	t.Helper()
	srv, err := NewServer(network, handler)
	if err != nil {
		t.Fatalf("NewServer(%q) error = %v", network, err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv
}

func exchange(t *testing.T, srv *Server, request []byte) ([]byte, error) {
	t.Helper()
	conn, err := net.Dial("udp", srv.HostPort())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write(request); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	reply := make([]byte, 512)
	n, err := conn.Read(reply)
	return reply[:n], err
}

func TestTransmitSecondsAnswersIndependentClient(t *testing.T) {
	srv := newServer(t, "udp4", TransmitSeconds(3913056000))

	response, err := beevik.QueryWithOptions(srv.HostPort(), beevik.QueryOptions{Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("beevik/ntp query failed: %v", err)
	}

	if want := time.Unix(1704067200, 0); !response.Time.Equal(want) {
		t.Errorf("transmit time = %v, want %v", response.Time, want)
	}
	if response.Stratum != 1 {
		t.Errorf("stratum = %d, want 1", response.Stratum)
	}
	if response.Leap != beevik.LeapNoWarning {
		t.Errorf("leap = %v, want no warning", response.Leap)
	}
}

func TestTransmitSecondsReply(t *testing.T) {
	srv := newServer(t, "udp4", TransmitSeconds(3913056000))

	request := ntp.EncodePacket(ntp.Packet{
		Version: 4,
		Mode:    ntp.CLIENT,
		Xmt:     ntp.Timestamp{Seconds: 42, Fraction: 7},
	})
	reply, err := exchange(t, srv, request)
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}

	packet, err := ntp.DecodePacket(reply)
	if err != nil {
		t.Fatalf("DecodePacket() error = %v", err)
	}
	if packet.Mode != ntp.SERVER || packet.Version != 4 {
		t.Errorf("mode/version = %d/%d, want %d/4", packet.Mode, packet.Version, ntp.SERVER)
	}
	if want := (ntp.Timestamp{Seconds: 42, Fraction: 7}); packet.Org != want {
		t.Errorf("origin = %+v, want %+v", packet.Org, want)
	}
	if packet.Xmt.Seconds != 3913056000 {
		t.Errorf("transmit seconds = %d, want 3913056000", packet.Xmt.Seconds)
	}
}

func TestServerRecordsRequests(t *testing.T) {
	srv := newServer(t, "udp4", Raw([]byte("pong")))

	for _, msg := range []string{"one", "two"} {
		reply, err := exchange(t, srv, []byte(msg))
		if err != nil {
			t.Fatalf("exchange(%q): %v", msg, err)
		}
		if string(reply) != "pong" {
			t.Errorf("reply = %q, want %q", reply, "pong")
		}
	}

	want := [][]byte{[]byte("one"), []byte("two")}
	if diff := cmp.Diff(want, srv.Requests()); diff != "" {
		t.Errorf("Requests() mismatch (-want +got):\n%s", diff)
	}
}

func TestSilent(t *testing.T) {
	srv := newServer(t, "udp4", Silent())

	_, err := exchange(t, srv, ntp.BuildRequest())
	if netErr, ok := err.(net.Error); !ok || !netErr.Timeout() {
		t.Fatalf("exchange error = %v, want timeout", err)
	}
	if got := len(srv.Requests()); got != 1 {
		t.Errorf("len(Requests()) = %d, want 1", got)
	}
}

func TestServerIPv6(t *testing.T) {
	if !nettest.SupportsIPv6() {
		t.Skip("ipv6 is not supported")
	}
	srv := newServer(t, "udp6", TransmitSeconds(3913056000))

	if srv.Addr().IP.To4() != nil {
		t.Fatalf("listener %s is not ipv6", srv.Addr())
	}
	reply, err := exchange(t, srv, ntp.BuildRequest())
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if len(reply) != ntp.PacketSize {
		t.Errorf("len(reply) = %d, want %d", len(reply), ntp.PacketSize)
	}
}

func TestCloseStopsServing(t *testing.T) {
	srv, err := NewServer("udp4", Silent())
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
