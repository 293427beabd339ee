// Package redact removes secrets from a staged diff before it leaves the
// machine.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS keys, authorization header values, connection
// strings with credentials, and provider-specific tokens. Files whose paths
// match a sensitive pattern (.env files, key material) keep their headers
// but have their hunks withheld.
package redact
