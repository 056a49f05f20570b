package registration

// ResizeChildren returns a list of length n where existing entries keep
// their position and new slots are blank. Entries past the new count are
// dropped; the UI owns warning about that, not this transform.
func ResizeChildren(children []Child, n int) []Child {
	if n < 0 {
		n = 0
	}
	out := make([]Child, n)
	copy(out, children)
	return out
}
