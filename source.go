package devars

// Source resolves placeholder text into concrete values. Implementations
// live under source/ (environment, map and file backends); anything
// satisfying this interface can back the expansion proxy.
//
// Typed expansions (ExpandBool through ExpandFloat) are called when the
// application named the target shape; the text is the literal document leaf,
// placeholder syntax included. ExpandString and ExpandBytes must return
// their input unchanged when it contains no placeholder, which is what keeps
// placeholder-free decoding copy-free. ExpandAny serves self-describing
// decodes and picks the result shape itself: when the resolved text is
// ambiguous the priority is bool, unsigned, signed, float, string, bytes.
//
// A Source is borrowed for the duration of one decode call tree and must not
// be used concurrently with it.
type Source interface {
	ExpandBool(text string) (bool, error)

	// ExpandInt parses the resolved variable at the given width
	// (bits is 8, 16, 32 or 64).
	ExpandInt(text string, bits int) (int64, error)
	ExpandUint(text string, bits int) (uint64, error)
	ExpandFloat(text string, bits int) (float64, error)

	ExpandString(text string) (string, error)
	ExpandBytes(b []byte) ([]byte, error)

	ExpandAny(text string) (Value, error)
}
