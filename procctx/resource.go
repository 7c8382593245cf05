package procctx

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// FromResource builds Attributes from an OpenTelemetry SDK Resource,
// pulling the seven semantic-convention identity keys into their named
// fields and leaving every other attribute, in the Resource's iteration
// order, as a resource pair.
//
// This lets a process that already builds a Resource for its trace or
// metric exporters (via resource.New or a detector chain) publish the same
// identity here with no extra bookkeeping.
func FromResource(res *resource.Resource) (Attributes, error) {
	var a Attributes
	var extra []attribute.KeyValue

	for _, kv := range res.Attributes() {
		switch kv.Key {
		case semconv.DeploymentEnvironmentNameKey:
			a.DeploymentEnvironmentName = kv.Value.AsString()
		case semconv.ServiceInstanceIDKey:
			a.ServiceInstanceID = kv.Value.AsString()
		case semconv.ServiceNameKey:
			a.ServiceName = kv.Value.AsString()
		case semconv.ServiceVersionKey:
			a.ServiceVersion = kv.Value.AsString()
		case semconv.TelemetrySDKLanguageKey:
			a.TelemetrySDKLanguage = kv.Value.AsString()
		case semconv.TelemetrySDKVersionKey:
			a.TelemetrySDKVersion = kv.Value.AsString()
		case semconv.TelemetrySDKNameKey:
			a.TelemetrySDKName = kv.Value.AsString()
		default:
			extra = append(extra, kv)
		}
	}

	a.Resources = extra
	return a, nil
}
