package ntp

import (
	"encoding/binary"
	"errors"
)

var ErrShortPacket = errors.New("packet shorter than 48 bytes")

// EncodePacket writes every header field at its offset, big-endian.
func EncodePacket(packet Packet) []byte {
	encoded := make([]byte, PacketSize)

	encoded[offsetFlags] = packet.flags()
	encoded[offsetStratum] = packet.Stratum
	encoded[offsetPoll] = byte(packet.Poll)
	encoded[offsetPrecision] = byte(packet.Precision)

	binary.BigEndian.PutUint32(encoded[offsetRootDelay:], packet.Rootdelay)
	binary.BigEndian.PutUint32(encoded[offsetRootDisp:], packet.Rootdisp)
	binary.BigEndian.PutUint32(encoded[offsetRefID:], packet.Refid)

	putTimestamp(encoded[offsetRefTime:], packet.Reftime)
	putTimestamp(encoded[offsetOrgTime:], packet.Org)
	putTimestamp(encoded[offsetRecTime:], packet.Rec)
	putTimestamp(encoded[offsetXmtTime:], packet.Xmt)

	return encoded
}

// DecodePacket parses the first PacketSize bytes of encoded. Anything after
// the header is ignored.
func DecodePacket(encoded []byte) (Packet, error) {
	if len(encoded) < PacketSize {
		return Packet{}, ErrShortPacket
	}

	firstByte := encoded[offsetFlags]

	return Packet{
		Leap:      firstByte >> 6,
		Version:   (firstByte >> 3) & 0b111,
		Mode:      Mode(firstByte & 0b111),
		Stratum:   encoded[offsetStratum],
		Poll:      int8(encoded[offsetPoll]),
		Precision: int8(encoded[offsetPrecision]),
		Rootdelay: binary.BigEndian.Uint32(encoded[offsetRootDelay:]),
		Rootdisp:  binary.BigEndian.Uint32(encoded[offsetRootDisp:]),
		Refid:     binary.BigEndian.Uint32(encoded[offsetRefID:]),
		Reftime:   readTimestamp(encoded[offsetRefTime:]),
		Org:       readTimestamp(encoded[offsetOrgTime:]),
		Rec:       readTimestamp(encoded[offsetRecTime:]),
		Xmt:       readTimestamp(encoded[offsetXmtTime:]),
	}, nil
}

// TransmitTimestamp reads only the transmit timestamp field.
func TransmitTimestamp(encoded []byte) (Timestamp, error) {
	if len(encoded) < PacketSize {
		return Timestamp{}, ErrShortPacket
	}
	return Timestamp{
		Seconds:  binary.BigEndian.Uint32(encoded[offsetXmtSeconds:]),
		Fraction: binary.BigEndian.Uint32(encoded[offsetXmtFraction:]),
	}, nil
}

func putTimestamp(b []byte, ts Timestamp) {
	binary.BigEndian.PutUint32(b[0:4], ts.Seconds)
	binary.BigEndian.PutUint32(b[4:8], ts.Fraction)
}

func readTimestamp(b []byte) Timestamp {
	return Timestamp{
		Seconds:  binary.BigEndian.Uint32(b[0:4]),
		Fraction: binary.BigEndian.Uint32(b[4:8]),
	}
}
