package transport

import (
	"context"
	"errors"
	"net"
	"os"
	"time"

	"k8s.io/klog/v2"
)

// MTU is the size of the reply buffer; longer datagrams are truncated.
const MTU = 1300

// UDP sends one datagram and waits for one reply on a connected socket.
// The zero value is ready to use.
type UDP struct {
	// LocalAddr optionally binds the socket, e.g. "0.0.0.0:0".
	LocalAddr string
}

// OpError reports which step of an exchange failed and against which address.
type OpError struct {
	Op   string /* dial, write or read */
	Addr string
	Err  error
}

func (e *OpError) Error() string {
	return e.Op + " " + e.Addr + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error { return e.Err }

func (e *OpError) Timeout() bool {
	return errors.Is(e.Err, os.ErrDeadlineExceeded) || errors.Is(e.Err, context.DeadlineExceeded)
}

// Refused reports whether the peer answered with ICMP port unreachable.
func (e *OpError) Refused() bool {
	return isRefused(e.Err)
}

// Exchange writes request to address and returns the first datagram read
// back. The read is bounded by ctx; the socket is closed before returning.
func (u UDP) Exchange(ctx context.Context, address string, request []byte) ([]byte, error) {
	var dialer net.Dialer
	if u.LocalAddr != "" {
		local, err := net.ResolveUDPAddr("udp", u.LocalAddr)
		if err != nil {
			return nil, &OpError{Op: "dial", Addr: address, Err: err}
		}
		dialer.LocalAddr = local
	}

	conn, err := dialer.DialContext(ctx, "udp", address)
	if err != nil {
		return nil, &OpError{Op: "dial", Addr: address, Err: err}
	}
	defer conn.Close()

	stop, err := bindDeadline(ctx, conn)
	if err != nil {
		return nil, &OpError{Op: "dial", Addr: address, Err: err}
	}
	defer stop()

	klog.V(2).Infof("Sending %d bytes to %s from %s", len(request), address, conn.LocalAddr())
	if _, err := conn.Write(request); err != nil {
		return nil, &OpError{Op: "write", Addr: address, Err: contextCause(ctx, err)}
	}

	reply := make([]byte, MTU)
	n, err := conn.Read(reply)
	if err != nil {
		return nil, &OpError{Op: "read", Addr: address, Err: contextCause(ctx, err)}
	}
	klog.V(2).Infof("Received %d bytes from %s", n, address)

	return reply[:n], nil
}

// bindDeadline copies the ctx deadline onto conn and expires conn when ctx
// is canceled. The returned func detaches conn from ctx.
func bindDeadline(ctx context.Context, conn net.Conn) (stop func() bool, err error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, err
		}
	}
	stop = context.AfterFunc(ctx, func() {
		if err := conn.SetDeadline(time.Unix(1, 0)); err != nil {
			klog.V(1).Infof("Could not interrupt exchange with %s: %v", conn.RemoteAddr(), err)
		}
	})
	return stop, nil
}

// contextCause reports the context error in place of the deadline error it caused.
func contextCause(ctx context.Context, err error) error {
	if !errors.Is(err, os.ErrDeadlineExceeded) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return context.DeadlineExceeded
	}
	return err
}
