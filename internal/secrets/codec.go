package secrets

import (
	"fmt"

	apperrors "github.com/significa/1password-secrets/internal/errors"
	"github.com/significa/1password-secrets/internal/onepassword"
)

// Reserved metadata labels. These fields govern how a note syncs rather than
// being part of the secret data, and reconciliation never removes them.
const (
	// FileNameLabel holds the local file path the note syncs with.
	FileNameLabel = "file_name"

	// LastEditedLabel records when the note's secrets were last pushed.
	LastEditedLabel = "last edited at"

	// LastImportedLabel records when the note was last imported to fly.
	LastImportedLabel = "last imported at"
)

// DateFormat is the layout for the bookkeeping timestamp fields.
const DateFormat = "2006/01/02 15:04:05"

// IsMetadataLabel reports whether label is reserved for sync metadata.
// Labels are case-sensitive.
func IsMetadataLabel(label string) bool {
	switch label {
	case FileNameLabel, LastEditedLabel, LastImportedLabel:
		return true
	}
	return false
}

// Metadata carries a note's non-secret fields in their original order.
type Metadata struct {
	fields []onepassword.Field
}

// FileName returns the file_name metadata value, or "" when unset.
func (m *Metadata) FileName() string {
	for _, f := range m.fields {
		if f.Label == FileNameLabel {
			return f.Value
		}
	}
	return ""
}

// Set upserts a metadata field. Existing fields keep their position; new
// ones are appended. Metadata fields are never concealed.
func (m *Metadata) Set(label, value string) {
	for i, f := range m.fields {
		if f.Label == label {
			m.fields[i].Value = value
			return
		}
	}
	m.fields = append(m.fields, onepassword.Field{Label: label, Value: value})
}

// Fields returns the metadata fields in order. The slice is a copy.
func (m *Metadata) Fields() []onepassword.Field {
	fields := make([]onepassword.Field, len(m.fields))
	copy(fields, m.fields)
	return fields
}

// DecodeFields splits a note's field list into the secret set and the
// metadata. Duplicate labels outside the metadata set are a data error, not
// something to merge silently.
func DecodeFields(fields []onepassword.Field) (*SecretSet, *Metadata, error) {
	set := NewSecretSet()
	meta := &Metadata{}

	for _, f := range fields {
		if IsMetadataLabel(f.Label) {
			meta.fields = append(meta.fields, f)
			continue
		}
		if set.Has(f.Label) {
			return nil, nil, fmt.Errorf("%w: label %q appears more than once", apperrors.ErrMalformedNote, f.Label)
		}
		set.Set(f.Label, f.Value)
	}

	return set, meta, nil
}

// EncodeFields builds the full field list for a note from the desired secret
// set and the metadata. Keys that already exist in prev keep their relative
// order and concealment flag; new keys are appended in set order, concealed
// by default. Metadata fields come last. Reserved labels inside the secret
// set are skipped so a stray file_name line in an env file cannot shadow the
// note's metadata.
func EncodeFields(secrets *SecretSet, meta *Metadata, prev []onepassword.Field) []onepassword.Field {
	prevConcealed := make(map[string]bool)
	var order []string
	seen := make(map[string]bool)

	for _, f := range prev {
		if IsMetadataLabel(f.Label) {
			continue
		}
		prevConcealed[f.Label] = f.Concealed
		if secrets.Has(f.Label) && !seen[f.Label] {
			order = append(order, f.Label)
			seen[f.Label] = true
		}
	}
	for _, key := range secrets.Keys() {
		if IsMetadataLabel(key) || seen[key] {
			continue
		}
		order = append(order, key)
		seen[key] = true
	}

	fields := make([]onepassword.Field, 0, len(order)+len(meta.fields))
	for _, key := range order {
		value, _ := secrets.Get(key)
		concealed := true
		if c, ok := prevConcealed[key]; ok {
			concealed = c
		}
		fields = append(fields, onepassword.Field{Label: key, Value: value, Concealed: concealed})
	}
	return append(fields, meta.Fields()...)
}
