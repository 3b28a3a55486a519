// Package audit provides a local audit trail for secret operations.
//
// Every operation that touches a note, a local file, or a Fly.io app
// (pull, push, create, fly import, fly edit) is recorded in a
// user-level audit log. Only key counts are recorded, never values.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) under
// the user data directory:
//
//	$XDG_DATA_HOME/1password-secrets/audit.jsonl
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error. Operations should never
// fail just because audit logging failed.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display. Malformed entries
// are silently skipped to handle partial writes.
package audit
