package common

// WipeByteArray overwrites b with zeros. Secrets read from the terminal are
// wiped once they have been handed to the client. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
