package vm

// String is an immutable byte sequence.
type String struct {
	bytes []byte
}

// NewString constructs a String from a Go string's bytes.
func NewString(s string) *String {
	return &String{bytes: []byte(s)}
}

// NewStringFromBytes constructs a String taking ownership of b.
func NewStringFromBytes(b []byte) *String {
	return &String{bytes: b}
}

// Len returns the byte length.
func (s *String) Len() int { return len(s.bytes) }

// ByteAt returns the byte at index i. Callers must bounds-check first
// Out-of-range access is the interpreter's job to reject as IndexOOB.
func (s *String) ByteAt(i int) byte { return s.bytes[i] }

// GoString returns the Go-native string form, for diagnostics and for
// interop with host collaborators (parseFile/import/hash keys).
func (s *String) GoString() string { return string(s.bytes) }

// Concat returns a new String that is the byte concatenation of a then b.
func Concat(a, b *String) *String {
	out := make([]byte, 0, a.Len()+b.Len())
	out = append(out, a.bytes...)
	out = append(out, b.bytes...)
	return &String{bytes: out}
}

// Equal reports byte-for-byte equality.
func (s *String) Equal(other *String) bool {
	if s == other {
		return true
	}
	if len(s.bytes) != len(other.bytes) {
		return false
	}
	for i := range s.bytes {
		if s.bytes[i] != other.bytes[i] {
			return false
		}
	}
	return true
}

// charCache is the process-wide single-character string cache: byte
// value b maps to the canonical one-character string for b, populated
// lazily on first use.
var charCache [256]*String

// CanonicalChar returns the canonical one-byte String for b, allocating it
// on first use.
func CanonicalChar(b byte) *String {
	if s := charCache[b]; s != nil {
		return s
	}
	s := &String{bytes: []byte{b}}
	charCache[b] = s
	return s
}
