// Package ntptest runs a loopback UDP responder for exercising NTP clients.
package ntptest

import (
	"errors"
	"net"
	"strconv"
	"sync"

	"github.com/AndrewLester/sntp/internal/ntp"
	"golang.org/x/net/nettest"
	"k8s.io/klog/v2"
)

// Handler returns the reply datagram for a request, or nil to stay silent.
type Handler func(request []byte) []byte

type Server struct {
	conn    net.PacketConn
	handler Handler

	lock     sync.Mutex
	requests [][]byte

	wg sync.WaitGroup
}

// NewServer listens on a loopback address of network ("udp", "udp4" or
// "udp6") and serves until Close.
func NewServer(network string, handler Handler) (*Server, error) {
	conn, err := nettest.NewLocalPacketListener(network)
	if err != nil {
		return nil, err
	}

	s := &Server{conn: conn, handler: handler}
	s.wg.Add(1)
	go s.handleUDP()
	return s, nil
}

func (s *Server) handleUDP() {
	defer s.wg.Done()

	packet := make([]byte, ntp.PacketSize*4)

	for {
		n, addr, err := s.conn.ReadFrom(packet)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			klog.Warningf("error reading on %s/udp: %s", s.conn.LocalAddr(), err)
			continue
		}

		request := append([]byte(nil), packet[:n]...)
		s.lock.Lock()
		s.requests = append(s.requests, request)
		s.lock.Unlock()

		reply := s.handler(request)
		if reply == nil {
			klog.V(2).Infof("Dropping request from %s", addr)
			continue
		}
		if _, err := s.conn.WriteTo(reply, addr); err != nil {
			klog.Warningf("error writing to %s: %s", addr, err)
		}
	}
}

func (s *Server) Addr() *net.UDPAddr {
	return s.conn.LocalAddr().(*net.UDPAddr)
}

// Host is the listener IP as a literal without brackets or zone.
func (s *Server) Host() string {
	return s.Addr().IP.String()
}

func (s *Server) Port() int {
	return s.Addr().Port
}

func (s *Server) HostPort() string {
	return net.JoinHostPort(s.Host(), strconv.Itoa(s.Port()))
}

// Requests returns copies of every datagram received so far.
func (s *Server) Requests() [][]byte {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([][]byte(nil), s.requests...)
}

func (s *Server) Close() error {
	err := s.conn.Close()
	s.wg.Wait()
	return err
}
