package globe

import "sync/atomic"

// Ident uniquely identifies a scene object: a drawable, texture,
// generator, sub-texture, or anything else registered with a Scene.
// Identities are process-unique and never reused.
type Ident uint64

// EmptyIdent is the reserved "no identity" value. No object ever
// receives it; callers use it to mean absent or unset.
const EmptyIdent Ident = 0

// identCounter hands out identities. Starts above EmptyIdent.
var identCounter atomic.Uint64

// NewIdent returns a fresh process-unique identity.
// Safe for concurrent use.
func NewIdent() Ident {
	return Ident(identCounter.Add(1))
}
