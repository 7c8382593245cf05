package procctx

import "fmt"

// Wire format: a concatenation of Resource.attributes entries (field 1, wire
// type LEN). Each entry is a KeyValue with key (field 1, LEN) and value
// (field 2, LEN) holding an AnyValue whose string_value (field 1, LEN)
// carries the bytes. Only the LEN wire type is ever emitted, and varints are
// restricted to 1 or 2 bytes (values 0-16383), which key/value lengths
// capped at 4096 bytes guarantee for every field this package writes.
const varint14Max = 16383

// varintSize returns the number of bytes writeVarint uses to encode v.
// Callers are responsible for ensuring v fits in 14 bits.
func varintSize(v int) int {
	if v >= 128 {
		return 2
	}
	return 1
}

// recordSize returns the size, in bytes, of a complete LEN-wire-type field
// (1-byte tag + varint length + payload) whose payload is length bytes long.
func recordSize(length int) int {
	return 1 + varintSize(length) + length
}

// stringSize returns the size of a LEN field carrying s as its payload.
func stringSize(s string) int {
	return recordSize(len(s))
}

// kvPayloadSize returns the size, excluding its own outer Resource.attributes
// tag+varint, of the KeyValue{key, value} record described above.
func kvPayloadSize(key, value string) int {
	keyField := stringSize(key)                 // KeyValue.key, a LEN field
	valueField := recordSize(stringSize(value)) // KeyValue.value wraps AnyValue{string_value}
	return keyField + valueField
}

// entrySize returns the total number of bytes writeAttribute emits for
// (key, value), including the leading Resource.attributes tag and length
// varint.
func entrySize(key, value string) int {
	return recordSize(kvPayloadSize(key, value))
}

func writeTag(buf []byte, off int, field byte) int {
	buf[off] = (field << 3) | 2 // wire type 2 (LEN) unconditionally
	return off + 1
}

func writeVarint(buf []byte, off int, v int) int {
	if v < 128 {
		buf[off] = byte(v)
		return off + 1
	}
	buf[off] = byte(v&0x7F) | 0x80
	buf[off+1] = byte(v >> 7)
	return off + 2
}

func writeString(buf []byte, off int, s string) int {
	off = writeVarint(buf, off, len(s))
	off += copy(buf[off:], s)
	return off
}

// writeAttribute emits one Resource.attributes entry at buf[off:] and
// returns the offset immediately after it.
func writeAttribute(buf []byte, off int, key, value string) int {
	kvSize := kvPayloadSize(key, value)
	off = writeTag(buf, off, 1) // Resource.attributes
	off = writeVarint(buf, off, kvSize)

	off = writeTag(buf, off, 1) // KeyValue.key
	off = writeString(buf, off, key)

	off = writeTag(buf, off, 2) // KeyValue.value
	off = writeVarint(buf, off, stringSize(value))

	off = writeTag(buf, off, 1) // AnyValue.string_value
	off = writeString(buf, off, value)

	return off
}

// encodePayload builds the wire-format payload bytes for a, validating every
// field's length along the way. The required identity fields are encoded
// first, in the fixed order requiredPairs returns, followed by the optional
// resource pairs in their given order.
func encodePayload(a *Attributes) ([]byte, error) {
	required := a.requiredPairs()
	if err := validatePairs(required); err != nil {
		return nil, err
	}

	resources, err := a.resourcePairs()
	if err != nil {
		return nil, err
	}
	if err := validatePairs(resources); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range required {
		if sz := kvPayloadSize(p.key, p.value); sz > varint14Max {
			return nil, fmt.Errorf("%w: key %q encodes to %d bytes", ErrFieldTooLong, truncateForError(p.key), sz)
		}
		total += entrySize(p.key, p.value)
	}
	for _, p := range resources {
		if sz := kvPayloadSize(p.key, p.value); sz > varint14Max {
			return nil, fmt.Errorf("%w: key %q encodes to %d bytes", ErrFieldTooLong, truncateForError(p.key), sz)
		}
		total += entrySize(p.key, p.value)
	}

	buf := make([]byte, total)
	off := 0
	for _, p := range required {
		off = writeAttribute(buf, off, p.key, p.value)
	}
	for _, p := range resources {
		off = writeAttribute(buf, off, p.key, p.value)
	}

	return buf, nil
}
