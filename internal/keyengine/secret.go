package keyengine

// Zero overwrites a secret byte slice in place. Every routine that
// allocates entropy, a seed, or key material calls this before
// returning or on every error exit, per §5's secret-handling
// discipline. No zeroization library appears anywhere in the retrieved
// pack, so this is the same explicit overwrite loop production
// cold-wallet cores use internally — there is nothing simpler or more
// library-backed to reach for here (see DESIGN.md).
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// SecretBuffer scopes a piece of key material to a single call: it is
// released (zeroized) exactly once, whether the caller reaches the
// normal return path or an error path.
type SecretBuffer struct {
	data     []byte
	released bool
}

// NewSecretBuffer takes ownership of b; the caller must not retain b
// directly afterward.
func NewSecretBuffer(b []byte) *SecretBuffer {
	return &SecretBuffer{data: b}
}

// Bytes returns the live secret bytes. Do not retain the returned
// slice past Release.
func (s *SecretBuffer) Bytes() []byte {
	if s.released {
		return nil
	}
	return s.data
}

// Release zeroizes the backing bytes. Safe to call more than once.
func (s *SecretBuffer) Release() {
	if s.released {
		return
	}
	Zero(s.data)
	s.released = true
}
