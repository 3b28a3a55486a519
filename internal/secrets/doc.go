// Package secrets implements the note-resolution and field-reconciliation
// core of 1password-secrets.
//
// A secure note stores one field per secret key plus a small set of reserved
// metadata fields (the local file name and bookkeeping timestamps). The
// package converts between a note's field list and an ordered key-value set
// (the codec), uniquely resolves the note for a sync target (the resolver),
// computes add/update/remove deltas between two sets (the reconciler), and
// orchestrates the pull, push, create, and fly flows (the engine).
//
// The engine talks to 1Password and Fly.io exclusively through the NoteStore
// and PlatformStore interfaces, so all flows are testable without either CLI
// installed. Every flow computes its full plan before the first write.
package secrets
