// Package metrics exports build and module outcomes as Prometheus metrics.
package metrics
