// Package metrics defines the Prometheus collectors for the portal's
// authentication flows.
package metrics
