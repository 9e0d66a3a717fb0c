// Package health defines the liveness probe payload shared by the
// server's /healthz handler and the status command that polls it.
package health

// Info carries the uptime details of a running server.
type Info struct {
	Service   string `json:"service"`
	StartedAt string `json:"started_at"`
	Uptime    string `json:"uptime"`
	UptimeSec int64  `json:"uptime_sec"`
}

// Response is the /healthz body. Status is "ok" on a healthy server.
type Response struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Data      Info   `json:"data"`
	Error     string `json:"error,omitempty"`
}
