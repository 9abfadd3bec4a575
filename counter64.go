//go:build itc64

package itc

// Counter is the event counter type. This build uses 64-bit counters.
type Counter uint64

const (
	// counterMax is the largest representable counter value.
	counterMax = ^Counter(0)

	// counterBytes is the number of bytes needed to serialise a
	// maximal counter. It bounds the counter_byte_count field of the
	// event wire header.
	counterBytes = 8
)
