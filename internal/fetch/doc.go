// Package fetch provides the resilient page fetcher.
//
// The fetcher performs plain HTTP GETs with a bounded retry budget and
// exponential backoff. The budget exists for one reason: the development
// server is started moments before the first fetch, so early requests land
// while it is still binding its socket. Only transport-level failures are
// retried; an HTTP error status is an answer from the application, not a
// sign the server is still booting, and is returned as-is.
package fetch
