package telemetry

// Config controls OpenTelemetry tracing.
type Config struct {
	// Enabled turns tracing on. When false Init installs a no-op tracer.
	Enabled bool

	// ServiceName and ServiceVersion identify this process in the backend.
	ServiceName    string
	ServiceVersion string

	// Endpoint is the OTLP gRPC endpoint, host:port.
	Endpoint string

	// Insecure disables TLS on the exporter connection.
	Insecure bool

	// SampleRate is the fraction of traces to sample, 0.0 through 1.0.
	SampleRate float64
}

// DefaultConfig returns the disabled-by-default local configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    "docrep",
		ServiceVersion: "dev",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
	}
}
