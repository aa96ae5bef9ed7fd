package quiz

import "sync/atomic"

// Token identifies one request issued through a Fence.
type Token uint64

// Fence hands out increasing tokens so that late responses from superseded requests
// can be recognized and dropped.
type Fence struct {
	latest atomic.Uint64
}

// Begin issues a new token, superseding all earlier ones.
func (f *Fence) Begin() Token {
	return Token(f.latest.Add(1))
}

// Current reports whether token is the most recently issued one.
func (f *Fence) Current(token Token) bool {
	return uint64(token) == f.latest.Load()
}
