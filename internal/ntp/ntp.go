package ntp

type Mode byte

const (
	RESERVED Mode = iota
	SYMMETRIC_ACTIVE
	SYMMETRIC_PASSIVE
	CLIENT
	SERVER
	BROADCAST_SERVER
	BROADCAST_CLIENT
	RESERVED_PRIVATE_USE
)

const (
	NOWARNING byte = 0x0 /* no leap second pending */
	NOSYNC    byte = 0x3 /* leap unsync */
)

const (
	Port       = 123 // NTP port number
	VERSION    = 3   // version sent in requests
	PacketSize = 48  // header size, no extension fields
)

// Byte offsets of the header fields.
const (
	offsetFlags       = 0
	offsetStratum     = 1
	offsetPoll        = 2
	offsetPrecision   = 3
	offsetRootDelay   = 4
	offsetRootDisp    = 8
	offsetRefID       = 12
	offsetRefTime     = 16
	offsetOrgTime     = 24
	offsetRecTime     = 32
	offsetXmtTime     = 40
	offsetXmtSeconds  = offsetXmtTime
	offsetXmtFraction = offsetXmtTime + 4
)

type Packet struct {
	Leap      byte      /* leap indicator */
	Version   byte      /* version number */
	Mode      Mode      /* mode */
	Stratum   byte      /* stratum */
	Poll      int8      /* poll interval */
	Precision int8      /* precision */
	Rootdelay uint32    /* root delay */
	Rootdisp  uint32    /* root dispersion */
	Refid     uint32    /* reference ID */
	Reftime   Timestamp /* reference time */
	Org       Timestamp /* origin timestamp */
	Rec       Timestamp /* receive timestamp */
	Xmt       Timestamp /* transmit timestamp */
}

func (p Packet) flags() byte {
	return (p.Leap&0b11)<<6 | (p.Version&0b111)<<3 | byte(p.Mode)&0b111
}

// NewRequest returns the client request: LI=0, VN=3, mode 3, all other fields zero.
// The transmit timestamp is left zero.
func NewRequest() Packet {
	return Packet{
		Leap:    NOWARNING,
		Version: VERSION,
		Mode:    CLIENT,
	}
}

// BuildRequest encodes NewRequest. The result is always PacketSize bytes and
// starts with 0x1B.
func BuildRequest() []byte {
	return EncodePacket(NewRequest())
}
