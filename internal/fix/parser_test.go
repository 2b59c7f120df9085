package fix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir-exch/internal/fix"
)

func validMessage(t *testing.T) []byte {
	t.Helper()
	buf := make([]byte, 256)
	enc := fix.NewEncoder(fix.Heartbeat, fix.Version44, buf)
	enc.Finalize(1, 0)
	return append([]byte(nil), buf[:enc.Size()]...)
}

func TestParser_RejectsEmptyMessage(t *testing.T) {
	_, err := fix.NewParser(nil)
	assert.Error(t, err)
}

func TestParser_RejectsCorruptedChecksum(t *testing.T) {
	msg := validMessage(t)
	// Flip the last checksum digit (just before the trailing SOH).
	msg[len(msg)-2] ^= 0x1

	_, err := fix.NewParser(msg)
	require.Error(t, err)
	assert.IsType(t, &fix.SyntaxError{}, err)
}

func TestParser_RejectsWrongBodyLength(t *testing.T) {
	msg := validMessage(t)
	// Corrupt a BodyLength digit; the construction-time cross-check on
	// total length must fail before checksum is ever inspected.
	for i, b := range msg {
		if b == '9' && i+1 < len(msg) && msg[i+1] == '=' {
			msg[i+2]++
			break
		}
	}

	_, err := fix.NewParser(msg)
	assert.Error(t, err)
}

func TestParser_NextTag_EndOfMessage(t *testing.T) {
	msg := validMessage(t)
	p, err := fix.NewParser(msg)
	require.NoError(t, err)

	var count int
	for {
		_, _, ok, err := p.NextTag()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	assert.Greater(t, count, 0)
}

func TestParser_IncompleteMessage(t *testing.T) {
	_, err := fix.NewParser([]byte("8=FIX.4.4"))
	require.Error(t, err)
}

func TestParser_UnknownVersionDoesNotFailConstruction(t *testing.T) {
	buf := make([]byte, 256)
	enc := fix.NewEncoder(fix.Heartbeat, fix.Version44, buf)
	enc.Finalize(1, 0)
	msg := append([]byte(nil), buf[:enc.Size()]...)

	// Overwrite the BeginString value bytes ("FIX.4.4") with an unknown
	// version string of the same width, so BodyLength still lines up, then
	// recompute the trailing checksum to match the corrupted bytes.
	for i := 0; i+1 < len(msg); i++ {
		if msg[i] == '8' && msg[i+1] == '=' {
			copy(msg[i+2:], "FIX.9.9")
			break
		}
	}
	checksumStart := len(msg) - 7 // "10=" + 3 digits + SOH
	var sum uint32
	for _, b := range msg[:checksumStart] {
		sum += uint32(b)
	}
	sum %= 256
	digits := []byte{byte(sum/100) + '0', byte((sum/10)%10) + '0', byte(sum%10) + '0'}
	copy(msg[checksumStart+3:checksumStart+6], digits)

	p, err := fix.NewParser(msg)
	require.NoError(t, err, "an unknown BeginString must not fail construction")
	assert.Equal(t, fix.VersionUnknown, p.Version())
}
