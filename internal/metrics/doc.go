// Package metrics counts reload-cycle outcomes and renders them in the
// Prometheus text exposition format. It exposes no listener of its own;
// the embedding application decides where the output goes.
package metrics
