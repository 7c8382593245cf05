//go:build !procctx_noread

package procctx

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

// maxDecodedResourcePairs bounds how many non-identity resource pairs
// decodePayload will accept from a single payload. It exists so a corrupt or
// hostile mapping cannot make the self-reader allocate without bound.
const maxDecodedResourcePairs = 100

func readTag(buf []byte, off int) (field byte, next int, ok bool) {
	if off >= len(buf) {
		return 0, off, false
	}
	tag := buf[off]
	if tag&0x07 != 2 { // only the LEN wire type is ever written
		return 0, off, false
	}
	return tag >> 3, off + 1, true
}

func readVarint(buf []byte, off int) (value int, next int, ok bool) {
	if off >= len(buf) {
		return 0, off, false
	}
	first := int(buf[off])
	off++
	if first < 128 {
		return first, off, true
	}
	if off >= len(buf) {
		return 0, off, false
	}
	second := int(buf[off])
	off++
	v := (first & 0x7F) | (second << 7)
	if v > varint14Max {
		return 0, off, false
	}
	return v, off, true
}

func readString(buf []byte, off int) (s string, next int, ok bool) {
	length, off, ok := readVarint(buf, off)
	if !ok || length > fieldLimit || off+length > len(buf) {
		return "", off, false
	}
	return string(buf[off : off+length]), off + length, true
}

// decodePayload parses payload bytes written by encodePayload back into
// Attributes. It rejects any tag whose wire type is not LEN, a top-level
// field other than 1, a KeyValue field other than 1 or 2, lengths beyond the
// bounds the encoder enforces, and a KeyValue without both a key and a
// string value. An AnyValue field other than 1 is not itself rejected; it
// sets no value, and the AnyValue length prefix is consumed but not checked.
func decodePayload(payload []byte) (Attributes, error) {
	var a Attributes
	var resources []attribute.KeyValue

	have := map[string]bool{}
	off := 0

	for off < len(payload) {
		field, next, ok := readTag(payload, off)
		if !ok || field != 1 {
			return Attributes{}, fmt.Errorf("%w: bad Resource.attributes tag at offset %d", ErrDecodeFailed, off)
		}
		off = next

		kvLen, next, ok := readVarint(payload, off)
		if !ok {
			return Attributes{}, fmt.Errorf("%w: bad KeyValue length at offset %d", ErrDecodeFailed, off)
		}
		off = next
		kvEnd := off + kvLen
		if kvEnd > len(payload) {
			return Attributes{}, fmt.Errorf("%w: KeyValue length runs past payload end", ErrDecodeFailed)
		}

		var key, value string
		var keyFound, valueFound bool

		for off < kvEnd {
			kvField, next, ok := readTag(payload, off)
			if !ok {
				return Attributes{}, fmt.Errorf("%w: bad KeyValue field tag at offset %d", ErrDecodeFailed, off)
			}
			off = next

			switch kvField {
			case 1: // KeyValue.key
				key, off, ok = readString(payload, off)
				if !ok {
					return Attributes{}, fmt.Errorf("%w: bad key string at offset %d", ErrDecodeFailed, off)
				}
				keyFound = true
			case 2: // KeyValue.value (AnyValue)
				_, next, ok := readVarint(payload, off) // AnyValue message length, unused but must be consumed
				if !ok {
					return Attributes{}, fmt.Errorf("%w: bad AnyValue length at offset %d", ErrDecodeFailed, off)
				}
				off = next
				anyField, next, ok := readTag(payload, off)
				if !ok {
					return Attributes{}, fmt.Errorf("%w: bad AnyValue tag at offset %d", ErrDecodeFailed, off)
				}
				off = next
				if anyField == 1 { // AnyValue.string_value
					value, off, ok = readString(payload, off)
					if !ok {
						return Attributes{}, fmt.Errorf("%w: bad value string at offset %d", ErrDecodeFailed, off)
					}
					valueFound = true
				}
			default:
				return Attributes{}, fmt.Errorf("%w: unexpected KeyValue field %d", ErrDecodeFailed, kvField)
			}
		}

		if !keyFound || !valueFound {
			return Attributes{}, fmt.Errorf("%w: KeyValue missing key or value", ErrDecodeFailed)
		}

		switch key {
		case "deployment.environment.name":
			a.DeploymentEnvironmentName, have[key] = value, true
		case "service.instance.id":
			a.ServiceInstanceID, have[key] = value, true
		case "service.name":
			a.ServiceName, have[key] = value, true
		case "service.version":
			a.ServiceVersion, have[key] = value, true
		case "telemetry.sdk.language":
			a.TelemetrySDKLanguage, have[key] = value, true
		case "telemetry.sdk.version":
			a.TelemetrySDKVersion, have[key] = value, true
		case "telemetry.sdk.name":
			a.TelemetrySDKName, have[key] = value, true
		default:
			if len(resources) >= maxDecodedResourcePairs {
				return Attributes{}, fmt.Errorf("%w: more than %d resource pairs", ErrDecodeFailed, maxDecodedResourcePairs)
			}
			resources = append(resources, attribute.String(key, value))
		}
	}

	for _, key := range []string{
		"deployment.environment.name", "service.instance.id", "service.name",
		"service.version", "telemetry.sdk.language", "telemetry.sdk.version",
		"telemetry.sdk.name",
	} {
		if !have[key] {
			return Attributes{}, fmt.Errorf("%w: missing required field %q", ErrDecodeFailed, key)
		}
	}

	a.Resources = resources
	return a, nil
}
