/*
Package observability provides the Prometheus instruments for monitoring the
snapshot pipeline: save/load outcomes, render modes, and HTTP latency.
*/
package observability
