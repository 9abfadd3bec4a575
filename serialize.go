package itc

// Binary wire format. All multi-byte integers are big-endian. A
// serialised stamp starts with the library major version, then a
// header byte carrying the width of the two length fields, then the
// length-prefixed identity and event payloads:
//
//	byte 0          library major version
//	byte 1          (id_len_len << 4) | event_len_len, each 1..4
//	bytes 2..       id payload length, id payload
//	bytes ..        event payload length, event payload
//
// Identity nodes encode as one header byte: 0x00 non-owner leaf,
// 0x01 owner leaf, 0x02 interior node followed by both children.
// Event nodes encode as one header byte (bit 7 set for interior
// nodes, bits 6-4 reserved zero, bits 3-0 the counter byte count)
// followed by the counter bytes and, for interior nodes, both
// children. The format carries no checksum.

// libMajorVersion is the version tag emitted in front of every
// serialised stamp. Payloads tagged with a greater version are
// rejected as incompatible.
const libMajorVersion = 1

const (
	idLeafFree  = 0x00
	idLeafOwner = 0x01
	idInterior  = 0x02

	eventParentBit   = 0x80
	eventReservedBit = 0x70
	eventCounterMask = 0x0f
)

// MarshalBinary serialises s into the binary wire format. It
// implements encoding.BinaryMarshaler.
func (s *Stamp) MarshalBinary() ([]byte, error) {
	return s.AppendBinary(nil)
}

// AppendBinary appends the serialised form of s to buf and returns
// the extended slice. It implements encoding.BinaryAppender.
func (s *Stamp) AppendBinary(buf []byte) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	idPayload := appendID(nil, s.id)
	evPayload := appendEvent(nil, s.event)
	a := lengthWidth(len(idPayload))
	b := lengthWidth(len(evPayload))
	buf = append(buf, libMajorVersion, byte(a<<4|b))
	buf = appendBigEndian(buf, uint64(len(idPayload)), a)
	buf = append(buf, idPayload...)
	buf = appendBigEndian(buf, uint64(len(evPayload)), b)
	buf = append(buf, evPayload...)
	return buf, nil
}

// EncodeTo serialises s into dst and returns the number of bytes
// written. Returns ErrInsufficientResources when dst cannot hold the
// payload; dst is untouched in that case.
func (s *Stamp) EncodeTo(dst []byte) (int, error) {
	buf, err := s.MarshalBinary()
	if err != nil {
		return 0, err
	}
	if len(dst) < len(buf) {
		return 0, ErrInsufficientResources
	}
	return copy(dst, buf), nil
}

// UnmarshalBinary replaces s with the stamp deserialised from data.
// It implements encoding.BinaryUnmarshaler. The decoder is strict:
// framing must account for every byte, reserved header bits must be
// zero, counters must be minimally encoded, and the decoded trees
// must already be in normal form.
func (s *Stamp) UnmarshalBinary(data []byte) error {
	if s == nil {
		return ErrInvalidParameter
	}
	if len(data) < 2 {
		return ErrInvalidParameter
	}
	if data[0] > libMajorVersion {
		return ErrIncompatibleVersion
	}
	a := int(data[1] >> 4)
	b := int(data[1] & 0x0f)
	if a < 1 || a > 4 || b < 1 || b > 4 {
		return ErrInvalidParameter
	}
	off := 2
	idLen, off, ok := readBigEndian(data, off, a)
	if !ok {
		return ErrInvalidParameter
	}
	if uint64(len(data)-off) < idLen {
		return ErrInvalidParameter
	}
	idPayload := data[off : off+int(idLen)]
	off += int(idLen)
	evLen, off, ok := readBigEndian(data, off, b)
	if !ok {
		return ErrInvalidParameter
	}
	if uint64(len(data)-off) != evLen {
		return ErrInvalidParameter
	}
	evPayload := data[off:]

	id, err := decodeID(idPayload)
	if err != nil {
		return err
	}
	event, err := decodeEvent(evPayload)
	if err != nil {
		return err
	}
	if err := id.validate(); err != nil {
		return err
	}
	if err := event.validate(); err != nil {
		return err
	}
	s.id = id
	s.event = event
	return nil
}

// ParseStamp deserialises data into a fresh stamp.
func ParseStamp(data []byte) (*Stamp, error) {
	s := &Stamp{}
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return s, nil
}

// appendID appends the identity sub-payload for i. Pre-order, one
// header byte per node.
func appendID(buf []byte, i *ID) []byte {
	if i.isLeaf() {
		if i.owned {
			return append(buf, idLeafOwner)
		}
		return append(buf, idLeafFree)
	}
	buf = append(buf, idInterior)
	buf = appendID(buf, i.left)
	return appendID(buf, i.right)
}

// appendEvent appends the event sub-payload for e. Counters are
// emitted in their minimal big-endian form; a zero counter emits no
// bytes at all.
func appendEvent(buf []byte, e *Event) []byte {
	cb := counterWidth(e.count)
	header := byte(cb)
	if !e.isLeaf() {
		header |= eventParentBit
	}
	buf = append(buf, header)
	buf = appendBigEndian(buf, uint64(e.count), cb)
	if !e.isLeaf() {
		buf = appendEvent(buf, e.left)
		buf = appendEvent(buf, e.right)
	}
	return buf
}

// decodeID parses an identity sub-payload, consuming it exactly. The
// walk keeps its pending interior nodes on an explicit stack so that
// adversarially deep payloads cannot exhaust the call stack.
func decodeID(payload []byte) (*ID, error) {
	var stack []*ID
	off := 0
	for {
		if off >= len(payload) {
			return nil, ErrCorruptID
		}
		header := payload[off]
		off++
		var done *ID
		switch header {
		case idLeafFree, idLeafOwner:
			done = newIDLeaf(header == idLeafOwner)
		case idInterior:
			stack = append(stack, &ID{})
			continue
		default:
			return nil, ErrCorruptID
		}
		for len(stack) > 0 {
			parent := stack[len(stack)-1]
			if parent.left == nil {
				parent.left = done
				done = nil
				break
			}
			parent.right = done
			stack = stack[:len(stack)-1]
			done = parent
		}
		if done != nil {
			if off != len(payload) {
				return nil, ErrCorruptID
			}
			return done, nil
		}
	}
}

// decodeEvent parses an event sub-payload, consuming it exactly.
// Reserved header bits must be zero and counters must be minimally
// encoded. Like decodeID it walks iteratively.
func decodeEvent(payload []byte) (*Event, error) {
	var stack []*Event
	off := 0
	for {
		if off >= len(payload) {
			return nil, ErrCorruptEvent
		}
		header := payload[off]
		off++
		if header&eventReservedBit != 0 {
			return nil, ErrCorruptEvent
		}
		cb := int(header & eventCounterMask)
		if cb > counterBytes {
			return nil, ErrUnsupportedCounterSize
		}
		count, next, ok := readBigEndian(payload, off, cb)
		if !ok {
			return nil, ErrCorruptEvent
		}
		if cb > 0 && payload[off] == 0 {
			// A counter with a leading zero byte is not the minimal
			// encoding; the canonical form is unique.
			return nil, ErrCorruptEvent
		}
		off = next
		node := newEventLeaf(Counter(count))
		if header&eventParentBit != 0 {
			stack = append(stack, node)
			continue
		}
		done := node
		for len(stack) > 0 {
			parent := stack[len(stack)-1]
			if parent.left == nil {
				parent.left = done
				done = nil
				break
			}
			parent.right = done
			stack = stack[:len(stack)-1]
			done = parent
		}
		if done != nil {
			if off != len(payload) {
				return nil, ErrCorruptEvent
			}
			return done, nil
		}
	}
}

// counterWidth returns the minimal number of bytes needed to encode n.
func counterWidth(n Counter) int {
	w := 0
	for n > 0 {
		w++
		n >>= 8
	}
	return w
}

// lengthWidth returns the minimal number of bytes needed to encode a
// payload length. Lengths always fit the four-byte maximum the
// framing allows: a payload that large cannot be built in memory
// first.
func lengthWidth(n int) int {
	w := 1
	for v := uint64(n); v > 0xff; v >>= 8 {
		w++
	}
	return w
}

// appendBigEndian appends the low `width` bytes of v, most
// significant first.
func appendBigEndian(buf []byte, v uint64, width int) []byte {
	for i := width - 1; i >= 0; i-- {
		buf = append(buf, byte(v>>(8*i)))
	}
	return buf
}

// readBigEndian reads `width` big-endian bytes at off, returning the
// value and the new offset. ok is false when the buffer is too short.
func readBigEndian(data []byte, off, width int) (uint64, int, bool) {
	if len(data)-off < width {
		return 0, off, false
	}
	var v uint64
	for i := 0; i < width; i++ {
		v = v<<8 | uint64(data[off+i])
	}
	return v, off + width, true
}
