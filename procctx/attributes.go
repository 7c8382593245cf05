package procctx

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

// fieldLimit is the maximum length, in bytes, of any single key or value.
// Keeping every field within this bound guarantees the encoded size of a
// single KeyValue record always fits the 14-bit varint the wire format
// restricts itself to (see encode.go).
const fieldLimit = 4096

// Attributes is the value object published into the shared memory region.
// It has no identity: Publish copies every string field it needs before
// returning, so a caller's Attributes may be freely reused or discarded
// afterward.
type Attributes struct {
	// DeploymentEnvironmentName is the deployment.environment.name resource
	// attribute. Required.
	DeploymentEnvironmentName string
	// ServiceInstanceID is the service.instance.id resource attribute.
	// Required.
	ServiceInstanceID string
	// ServiceName is the service.name resource attribute. Required.
	ServiceName string
	// ServiceVersion is the service.version resource attribute. Required.
	ServiceVersion string
	// TelemetrySDKLanguage is the telemetry.sdk.language resource attribute.
	// Required.
	TelemetrySDKLanguage string
	// TelemetrySDKVersion is the telemetry.sdk.version resource attribute.
	// Required.
	TelemetrySDKVersion string
	// TelemetrySDKName is the telemetry.sdk.name resource attribute.
	// Required.
	TelemetrySDKName string

	// Resources is an optional, ordered sequence of additional resource
	// key/value pairs. Every Value must have attribute.STRING type; this
	// package's wire format has no representation for anything else.
	Resources []attribute.KeyValue
}

// pair is an ordered key/value string, the internal unit the codec encodes
// and decodes. It exists so the codec never has to know about
// attribute.KeyValue or the identity field names.
type pair struct {
	key   string
	value string
}

// requiredPairs returns the seven identity fields in the fixed order the
// wire format requires.
func (a *Attributes) requiredPairs() []pair {
	return []pair{
		{"deployment.environment.name", a.DeploymentEnvironmentName},
		{"service.instance.id", a.ServiceInstanceID},
		{"service.name", a.ServiceName},
		{"service.version", a.ServiceVersion},
		{"telemetry.sdk.language", a.TelemetrySDKLanguage},
		{"telemetry.sdk.version", a.TelemetrySDKVersion},
		{"telemetry.sdk.name", a.TelemetrySDKName},
	}
}

// resourcePairs converts Resources into ordered string pairs, rejecting any
// attribute whose value is not a string.
func (a *Attributes) resourcePairs() ([]pair, error) {
	if len(a.Resources) == 0 {
		return nil, nil
	}
	pairs := make([]pair, 0, len(a.Resources))
	for _, kv := range a.Resources {
		if kv.Value.Type() != attribute.STRING {
			return nil, fmt.Errorf("%w: key %q has type %s", ErrNonStringValue, kv.Key, kv.Value.Type())
		}
		pairs = append(pairs, pair{key: string(kv.Key), value: kv.Value.AsString()})
	}
	return pairs, nil
}

// validatePairs checks that every key and value in pairs is within
// fieldLimit bytes.
func validatePairs(pairs []pair) error {
	for _, p := range pairs {
		if len(p.key) > fieldLimit {
			return fmt.Errorf("%w: key %q is %d bytes", ErrFieldTooLong, truncateForError(p.key), len(p.key))
		}
		if len(p.value) > fieldLimit {
			return fmt.Errorf("%w: value for key %q is %d bytes", ErrFieldTooLong, truncateForError(p.key), len(p.value))
		}
	}
	return nil
}

// truncateForError shortens s for inclusion in an error message so a
// pathologically long key does not blow up log lines.
func truncateForError(s string) string {
	const max = 64
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
