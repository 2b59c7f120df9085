package fix

import "time"

// Encoder constructs a FIX message top-to-bottom into a caller-provided
// buffer. Callers must not read Size until Finalize has run: BodyLength
// and CheckSum are not valid before then.
type Encoder struct {
	buf  []byte
	next int

	checksum uint32 // rolling accumulator, every byte except the CheckSum field itself

	bodyLengthField            int
	bodyLengthFieldEnd         int
	msgSeqNumField             int
	sendingTimeField           int
	lastMsgSeqNumProcessedField int
}

// NewEncoder writes the fixed prefix — BeginString, a placeholder
// BodyLength, MsgType, and placeholders for MsgSeqNum/SendingTime/
// LastMsgSeqNumProcessed — into buf, starting at offset 0.
func NewEncoder(msgType MsgType, version Version, buf []byte) *Encoder {
	e := &Encoder{buf: buf}

	e.AppendString(BeginString, version.String())
	e.bodyLengthField = e.reserve(BodyLength, widthBodyLength)
	e.bodyLengthFieldEnd = e.next

	e.beginTag(MsgType)
	e.appendByte(byte(msgType))
	e.endTag()

	e.msgSeqNumField = e.reserve(MsgSeqNum, widthMsgSeqNum)
	e.sendingTimeField = e.reserve(SendingTime, widthSendingTime)
	e.lastMsgSeqNumProcessedField = e.reserve(LastMsgSeqNumProcessed, widthLastMsgSeqNumProcessed)

	return e
}

// Size returns the number of bytes written so far.
func (e *Encoder) Size() int { return e.next }

// Capacity returns the size of the underlying buffer.
func (e *Encoder) Capacity() int { return len(e.buf) }

func (e *Encoder) appendByte(b Byte) {
	e.buf[e.next] = b
	e.next++
	e.checksum += uint32(b)
}

func (e *Encoder) beginTag(tag Tag) {
	e.appendUnsignedDigits(uint64(tag))
	e.appendByte('=')
}

func (e *Encoder) endTag() {
	e.appendByte(SOH)
}

func (e *Encoder) appendUnsignedDigits(value uint64) {
	start := e.next
	for {
		e.appendByte(byte(value%10) + '0')
		value /= 10
		if value == 0 {
			break
		}
	}
	for l, r := start, e.next-1; l < r; l, r = l+1, r-1 {
		e.buf[l], e.buf[r] = e.buf[r], e.buf[l]
	}
}

// reserve writes a tag header and skips a fixed-width placeholder region
// (its bytes are left as they were in buf), returning the offset of the placeholder's first byte.
// The reserved bytes do not contribute to the checksum until they are
// back-filled.
func (e *Encoder) reserve(tag Tag, width int) int {
	e.beginTag(tag)
	start := e.next
	e.next += width
	e.endTag()
	return start
}

// overwriteDigits zero-pads value into buf[offset:offset+width] and adds
// every written byte to the rolling checksum.
func (e *Encoder) overwriteDigits(offset, width int, value uint64) {
	for i := width - 1; i >= 0; i-- {
		e.buf[offset+i] = byte(value%10) + '0'
		value /= 10
	}
	for i := 0; i < width; i++ {
		e.checksum += uint32(e.buf[offset+i])
	}
}

// AppendString writes tag=value SOH, copying value byte for byte.
func (e *Encoder) AppendString(tag Tag, value string) {
	e.beginTag(tag)
	for i := 0; i < len(value); i++ {
		e.appendByte(value[i])
	}
	e.endTag()
}

// AppendUint writes an unsigned integer, base-10, unpadded.
func (e *Encoder) AppendUint(tag Tag, value uint64) {
	e.beginTag(tag)
	e.appendUnsignedDigits(value)
	e.endTag()
}

// AppendUintWidth writes an unsigned integer, left-zero-padded to width.
func (e *Encoder) AppendUintWidth(tag Tag, value uint64, width int) {
	e.beginTag(tag)
	start := e.next
	e.next += width
	for i := start; i < e.next; i++ {
		e.buf[i] = '0'
	}
	for i := e.next - 1; i >= start; i-- {
		e.buf[i] = byte(value%10) + '0'
		value /= 10
		if value == 0 {
			break
		}
	}
	for i := start; i < e.next; i++ {
		e.checksum += uint32(e.buf[i])
	}
	e.endTag()
}

// AppendInt writes a signed integer: a leading '-' for negatives, then the
// unsigned-formatted absolute value.
func (e *Encoder) AppendInt(tag Tag, value int64) {
	e.beginTag(tag)
	if value < 0 {
		e.appendByte('-')
		value = -value
	}
	e.appendUnsignedDigits(uint64(value))
	e.endTag()
}

// AppendFloat writes a double with the default 6 fractional digits.
func (e *Encoder) AppendFloat(tag Tag, value float64) {
	e.AppendFloatDigits(tag, value, 6)
}

// AppendFloatDigits writes a double split into integer and fractional
// parts. The fractional part is scaled by 10^digits with a +0.9 bias
// before truncation — an intentional round-half-up-ish rounding.
func (e *Encoder) AppendFloatDigits(tag Tag, value float64, digits int) {
	e.beginTag(tag)

	negative := value < 0
	if negative {
		e.appendByte('-')
		value = -value
	}

	scale := 1.0
	for i := 0; i < digits; i++ {
		scale *= 10
	}

	whole := float64(int64(value))
	fraction := uint64((value-whole)*scale + 0.9)

	e.appendUnsignedDigits(uint64(whole))
	e.appendByte('.')
	start := e.next
	e.next += digits
	e.overwriteDigits(start, digits, fraction)

	e.endTag()
}

// AppendTime writes a UTC timestamp as YYYYMMDD-HH:MM:SS.mmm (21 bytes,
// matching the SendingTime field width).
func (e *Encoder) AppendTime(tag Tag, t time.Time) {
	e.beginTag(tag)
	e.writeTimestamp(t)
	e.endTag()
}

func (e *Encoder) writeTimestamp(t time.Time) {
	t = t.UTC()
	e.appendUnsignedDigits(uint64(t.Year()))
	e.pad2(int(t.Month()))
	e.pad2(t.Day())
	e.appendByte('-')
	e.pad2(t.Hour())
	e.appendByte(':')
	e.pad2(t.Minute())
	e.appendByte(':')
	e.pad2(t.Second())
	e.appendByte('.')
	e.pad3(t.Nanosecond() / 1_000_000)
}

func (e *Encoder) pad2(v int) {
	e.appendByte(byte(v/10) + '0')
	e.appendByte(byte(v%10) + '0')
}

func (e *Encoder) pad3(v int) {
	e.appendByte(byte(v/100) + '0')
	e.appendByte(byte((v/10)%10) + '0')
	e.appendByte(byte(v%10) + '0')
}

// Finalize back-fills BodyLength, MsgSeqNum, LastMsgSeqNumProcessed and
// SendingTime, then appends the CheckSum trailer. After Finalize, Size
// equals the number of bytes written and buf[0:Size] is a syntactically
// valid, self-consistent FIX message.
func (e *Encoder) Finalize(seqNumber, lastSeqNumber uint32) {
	length := e.next - e.bodyLengthFieldEnd
	e.overwriteDigits(e.bodyLengthField, widthBodyLength, uint64(length))

	e.overwriteDigits(e.msgSeqNumField, widthMsgSeqNum, uint64(seqNumber))
	e.overwriteDigits(e.lastMsgSeqNumProcessedField, widthLastMsgSeqNumProcessed, uint64(lastSeqNumber))

	e.overwriteTimestamp(e.sendingTimeField, time.Now())

	e.buf[e.next] = '1'
	e.buf[e.next+1] = '0'
	e.buf[e.next+2] = '='
	e.next += 3

	checksum := e.checksum % 256
	e.overwriteDigits(e.next, widthCheckSum, uint64(checksum))
	e.next += widthCheckSum

	e.buf[e.next] = SOH
	e.next++
}

// overwriteTimestamp back-fills a previously reserved SendingTime region
// and folds every written byte into the checksum, matching overwriteDigits.
func (e *Encoder) overwriteTimestamp(offset int, t time.Time) {
	save := e.next
	e.next = offset
	e.writeTimestamp(t)
	e.next = save
}
