package fix

// SyntaxError reports bytes that violate the FIX grammar or fail a
// framing check (bad BodyLength, bad checksum, non-digit tag). It is
// unrecoverable for the message in hand — the caller should drop it.
type SyntaxError struct {
	msg string
}

func (e *SyntaxError) Error() string { return "fix: syntax: " + e.msg }

func newSyntaxError(msg string) error { return &SyntaxError{msg: msg} }

// IncompleteError reports an input that ends mid-token. More bytes could
// complete the message; a framing layer reading off a stream can wait and
// retry once more data has arrived.
type IncompleteError struct {
	msg string
}

func (e *IncompleteError) Error() string { return "fix: incomplete: " + e.msg }

func newIncompleteError(msg string) error { return &IncompleteError{msg: msg} }
