package fix

// Parser tokenizes a single FIX message out of a byte slice it borrows but
// does not own. The returned tag/value pairs are sub-slices of that same
// buffer and must not outlive it.
type Parser struct {
	buf []byte
	next int

	// checksum is the rolling accumulator NextTag keeps in sync with every
	// byte it consumes. Construction-time checksum validation is computed
	// independently (see parseChecksum) rather than consulting this field,
	// matching "independently compute" in the framing contract; nothing
	// else reads it.
	checksum uint32

	version    Version
	bodyLength uint32
}

// NewParser validates the framing of buf (BeginString, BodyLength,
// CheckSum) and returns a Parser ready to yield the body's tags via
// NextTag.
func NewParser(buf []byte) (*Parser, error) {
	if len(buf) == 0 {
		return nil, newSyntaxError("empty FIX message")
	}

	p := &Parser{buf: buf}
	if err := p.beginString(); err != nil {
		return nil, err
	}
	if err := p.parseBodyLength(); err != nil {
		return nil, err
	}
	if err := p.parseChecksum(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) beginString() error {
	tag, value, ok, err := p.NextTag()
	if err != nil {
		return err
	}
	if !ok {
		return newSyntaxError("expected BeginString")
	}
	if tag != BeginString {
		return newSyntaxError("tag not BeginString")
	}
	p.version = versionFromString(ParseString(value))
	return nil
}

func (p *Parser) parseBodyLength() error {
	tag, value, ok, err := p.NextTag()
	if err != nil {
		return err
	}
	if !ok {
		return newSyntaxError("expected BodyLength")
	}
	if tag != BodyLength {
		return newSyntaxError("expected BodyLength")
	}
	p.bodyLength = ParseUnsigned[uint32](value)

	computedEnd := p.next + int(p.bodyLength) + 4 + widthCheckSum
	if computedEnd != len(p.buf) {
		return newSyntaxError("incorrect BodyLength")
	}
	return nil
}

func (p *Parser) parseChecksum() error {
	checksumStart := p.next + int(p.bodyLength)
	declared := ParseUnsigned[uint32](p.buf[checksumStart+3 : checksumStart+3+widthCheckSum])

	var computed uint32
	for _, b := range p.buf[:checksumStart] {
		computed += uint32(b)
	}
	computed %= 256

	if computed != declared {
		return newSyntaxError("invalid checksum")
	}
	return nil
}

// Version returns the BeginString mapping determined at construction.
func (p *Parser) Version() Version { return p.version }

// BodyLength returns the declared BodyLength value.
func (p *Parser) BodyLength() uint32 { return p.bodyLength }

// NextTag advances the cursor past one tag=value SOH field and returns it.
// ok is false with a nil error at end of input. Failure modes: a non-digit
// byte in the tag specification is a SyntaxError; a tag or value that runs
// off the end of the buffer without its terminator is an IncompleteError.
func (p *Parser) NextTag() (tag Tag, value []byte, ok bool, err error) {
	if p.next == len(p.buf) {
		return 0, nil, false, nil
	}

	var t uint32
	for p.next < len(p.buf) && p.buf[p.next] != '=' {
		c := p.buf[p.next]
		if c < '0' || c > '9' {
			return 0, nil, false, newSyntaxError("non-digit in tag specification")
		}
		p.checksum += uint32(c)
		t = t*10 + uint32(c-'0')
		p.next++
	}
	if p.next == len(p.buf) {
		return 0, nil, false, newIncompleteError("missing '='")
	}

	p.checksum += uint32('=')
	p.next++

	valueStart := p.next
	for p.next < len(p.buf) && p.buf[p.next] != SOH {
		p.checksum += uint32(p.buf[p.next])
		p.next++
	}
	if p.next == len(p.buf) {
		return 0, nil, false, newIncompleteError("missing SOH")
	}
	p.checksum += uint32(SOH)

	value = p.buf[valueStart:p.next]
	p.next++
	return Tag(t), value, true, nil
}
