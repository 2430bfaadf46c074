package sntp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/AndrewLester/sntp/internal/ntp"
	"github.com/AndrewLester/sntp/internal/transport"
	"k8s.io/klog/v2"
)

const DefaultTimeout = 20 * time.Second

var (
	ErrInvalidAddress    = errors.New("invalid address")
	ErrNoResponse        = errors.New("server did not respond")
	ErrMalformedResponse = errors.New("malformed response")
)

// Transport sends one request datagram and returns one reply datagram.
type Transport interface {
	Exchange(ctx context.Context, address string, request []byte) ([]byte, error)
}

type Client struct {
	Port      int
	Timeout   time.Duration
	Transport Transport
}

type Result struct {
	Time      time.Time /* transmit time, whole seconds, UTC */
	Fraction  uint32    /* transmit fraction, not rendered */
	Formatted string
	Stratum   byte
	Leap      byte
}

func NewClient() *Client {
	return &Client{
		Port:      ntp.Port,
		Timeout:   DefaultTimeout,
		Transport: transport.UDP{},
	}
}

// Query sends a single client request to address and decodes the server
// transmit time from its reply.
//
// Errors wrap ErrInvalidAddress before any network use, ErrNoResponse when
// no reply of at least ntp.PacketSize bytes arrived, and ErrMalformedResponse
// when such a reply could not be decoded.
func (c *Client) Query(ctx context.Context, address string) (*Result, error) {
	if !IsValidAddress(address) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}

	port := c.Port
	if port == 0 {
		port = ntp.Port
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	tr := c.Transport
	if tr == nil {
		tr = transport.UDP{}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	hostPort := net.JoinHostPort(address, strconv.Itoa(port))
	klog.V(1).Infof("Querying %s (timeout %s)", hostPort, timeout)

	reply, err := tr.Exchange(ctx, hostPort, ntp.BuildRequest())
	if err != nil {
		logTransportError(hostPort, err)
		return nil, fmt.Errorf("%w: %w", ErrNoResponse, err)
	}

	packet, err := ntp.DecodePacket(reply)
	if err != nil {
		klog.V(1).Infof("Reply from %s is %d bytes, want %d", hostPort, len(reply), ntp.PacketSize)
		return nil, fmt.Errorf("%w: %w", ErrNoResponse, err)
	}
	klog.V(2).Infof("Reply from %s: leap %d, version %d, mode %d, stratum %d, transmit %d s + %d ns",
		hostPort, packet.Leap, packet.Version, packet.Mode, packet.Stratum, packet.Xmt.Seconds, packet.Xmt.Nanoseconds())

	t, err := packet.Xmt.Time()
	if err != nil {
		klog.V(1).Infof("Could not decode reply from %s: %v", hostPort, err)
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return &Result{
		Time:      t,
		Fraction:  packet.Xmt.Fraction,
		Formatted: ntp.Format(t),
		Stratum:   packet.Stratum,
		Leap:      packet.Leap,
	}, nil
}

func logTransportError(hostPort string, err error) {
	var opErr *transport.OpError
	switch {
	case errors.As(err, &opErr) && opErr.Timeout():
		klog.V(1).Infof("No reply from %s before the deadline", hostPort)
	case errors.As(err, &opErr) && opErr.Refused():
		klog.V(1).Infof("%s refused the request", hostPort)
	default:
		klog.V(1).Infof("Exchange with %s failed: %v", hostPort, err)
	}
}
