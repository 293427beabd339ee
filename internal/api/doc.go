// Package api is the client for the remote commit-message service.
//
// Three endpoints are covered: message generation, the template catalog and
// saving the link of a pushed commit. Every request carries the operator's
// token in a Basic Authorization header. Rate-limited requests are retried
// with exponential back-off; authentication failures are never retried.
//
// [Client.Templates] satisfies config.TemplateSource, so a Client can be
// handed directly to the settings resolver.
package api
