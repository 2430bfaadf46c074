package ntptest

import (
	"time"

	"github.com/AndrewLester/sntp/internal/ntp"
)

const refidLOCL = 0x4C4F434C // "LOCL"

// TransmitSeconds answers like a stratum 1 server whose clock reads seconds
// (NTP era 0) with a zero fraction.
func TransmitSeconds(seconds uint32) Handler {
	return Clock(ntp.Timestamp{Seconds: seconds})
}

// At answers like a stratum 1 server whose clock reads t.
func At(t time.Time) Handler {
	return Clock(ntp.TimeToTimestamp(t))
}

// Clock answers like a stratum 1 server whose clock reads now. The request's
// transmit timestamp is echoed as the origin timestamp, so replies also
// satisfy strict clients.
func Clock(now ntp.Timestamp) Handler {
	return func(request []byte) []byte {
		req, err := ntp.DecodePacket(request)
		if err != nil {
			return nil
		}

		version := req.Version
		if version == 0 {
			version = ntp.VERSION
		}

		return ntp.EncodePacket(ntp.Packet{
			Leap:      ntp.NOWARNING,
			Version:   version,
			Mode:      ntp.SERVER,
			Stratum:   1,
			Poll:      req.Poll,
			Precision: -20,
			Refid:     refidLOCL,
			Reftime:   ntp.Timestamp{Seconds: now.Seconds - 1},
			Org:       req.Xmt,
			Rec:       now,
			Xmt:       now,
		})
	}
}

// Raw answers every request with a copy of reply. An empty reply is sent as
// an empty datagram.
func Raw(reply []byte) Handler {
	return func([]byte) []byte {
		out := make([]byte, len(reply))
		copy(out, reply)
		return out
	}
}

// Silent never answers.
func Silent() Handler {
	return func([]byte) []byte { return nil }
}
