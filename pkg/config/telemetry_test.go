package config

import "testing"

func TestTelemetryShutdown_NilReceiver(t *testing.T) {
	// deferred before setup succeeded, must be a no-op
	var telemetry *Telemetry
	telemetry.Shutdown()
}

func TestTelemetryShutdown_EmptyProviders(t *testing.T) {
	telemetry := &Telemetry{}
	telemetry.Shutdown()
}
