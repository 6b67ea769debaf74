package service

import "crypto/subtle"

// Gate validates the shared access code. It keeps no state: every protected
// request resubmits the code.
type Gate struct {
	code string
}

func NewGate(code string) *Gate {
	return &Gate{code: code}
}

// Required reports whether a code is configured. Without one the gate runs in
// open-access mode and accepts any submission, including the empty string.
func (g *Gate) Required() bool {
	return g.code != ""
}

// Authenticate checks a submitted code. The comparison is constant-time so
// response timing does not leak the configured code.
func (g *Gate) Authenticate(submitted string) bool {
	if !g.Required() {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(g.code), []byte(submitted)) == 1
}
