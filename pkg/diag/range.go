package diag

// Ranger wraps the Range method.
type Ranger interface {
	// Range returns the byte range of the value in its source.
	Range() Ranging
}

// Ranging is a half-open byte range [From, To) in a source. Tokens, AST nodes
// and compiled instructions embed it to satisfy [Ranger].
type Ranging struct {
	From int
	To   int
}

// Range returns the Ranging itself.
func (r Ranging) Range() Ranging { return r }

// PointRanging returns a zero-width Ranging at p, as used for errors at the
// end of a source.
func PointRanging(p int) Ranging { return Ranging{p, p} }

// MixedRanging returns a Ranging spanning from the start of a to the end of b.
func MixedRanging(a, b Ranger) Ranging {
	return Ranging{a.Range().From, b.Range().To}
}
