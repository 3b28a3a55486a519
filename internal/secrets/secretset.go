package secrets

// SecretSet is an ordered mapping of secret keys to values. Insertion order
// is preserved so that file and note round-trips do not reorder unrelated
// entries.
type SecretSet struct {
	keys   []string
	values map[string]string
}

// NewSecretSet returns an empty secret set.
func NewSecretSet() *SecretSet {
	return &SecretSet{values: make(map[string]string)}
}

// Set adds or overwrites a key. A new key is appended to the order; updating
// an existing key keeps its position.
func (s *SecretSet) Set(key, value string) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Get returns the value for key and whether it is present.
func (s *SecretSet) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key is present.
func (s *SecretSet) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns the keys in insertion order. The slice is a copy.
func (s *SecretSet) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Len returns the number of keys.
func (s *SecretSet) Len() int {
	return len(s.keys)
}
