// Package fix implements a byte-level parser and encoder for FIX 4.2/4.4
// message framing: BeginString/BodyLength/CheckSum wrapping, tag=value
// tokenization, and the numeric/time formatting FIX fields require. It
// does not implement session-level behavior (logon/logout sequencing,
// resend requests, gap fill) — only per-message encode/decode.
package fix

// Byte is the wire representation FIX is framed in: 7-bit ASCII.
type Byte = byte

// SOH is the FIX field separator.
const SOH Byte = 1

// Tag identifies a field within a FIX message.
type Tag uint32

const (
	Account                 Tag = 1
	AvgPx                    Tag = 6
	BeginString              Tag = 8
	BodyLength               Tag = 9
	CheckSum                 Tag = 10
	ClOrdID                  Tag = 11
	CumQty                   Tag = 14
	EncryptMethod            Tag = 98
	ExecID                   Tag = 17
	ExecInst                 Tag = 18
	ExecTransType            Tag = 20
	ExecType                 Tag = 150
	HandlInst                Tag = 21
	HeartBtInt               Tag = 108
	LastMsgSeqNumProcessed   Tag = 369
	LastPx                   Tag = 31
	LastShares               Tag = 32
	LeavesQty                Tag = 151
	MsgSeqNum                Tag = 34
	MsgType                  Tag = 35
	OrderID                  Tag = 37
	OrderQty                 Tag = 38
	OrdRejReason             Tag = 103
	OrdStatus                Tag = 39
	OrdType                  Tag = 40
	OrigClOrdID              Tag = 41
	PossDupFlag              Tag = 43
	Price                    Tag = 44
	RefSeqNum                Tag = 45
	ResetSeqNumFlag          Tag = 141
	SecurityID               Tag = 48
	SenderCompID             Tag = 49
	SendingTime              Tag = 52
	Side                     Tag = 54
	Symbol                   Tag = 55
	TargetCompID             Tag = 56
	TestReqID                Tag = 112
	Text                     Tag = 58
	TimeInForce              Tag = 59
	TransactTime             Tag = 60
)

// Fixed widths for placeholder fields the encoder back-fills and the
// parser uses to locate the checksum trailer.
const (
	widthBodyLength            = 6
	widthMsgSeqNum             = 9
	widthLastMsgSeqNumProcessed = 9
	widthSendingTime           = 21
	widthCheckSum              = 3
)

// Version identifies the FIX protocol revision a message declares.
type Version int

const (
	VersionUnknown Version = iota
	Version42
	Version44
)

func (v Version) String() string {
	switch v {
	case Version42:
		return "FIX.4.2"
	case Version44:
		return "FIX.4.4"
	default:
		return "UNKNOWN"
	}
}

// versionFromString maps a BeginString value to a Version. Unknown strings
// map to VersionUnknown without failing parse construction.
func versionFromString(s string) Version {
	switch s {
	case "FIX.4.2":
		return Version42
	case "FIX.4.4":
		return Version44
	default:
		return VersionUnknown
	}
}

// MsgType identifies a FIX message's business purpose, carried in tag 35
// as a single byte.
type MsgType Byte

const (
	Logon                MsgType = 'A'
	Heartbeat            MsgType = '0'
	TestRequest          MsgType = '1'
	ResendRequest        MsgType = '2'
	SessionLevelReject   MsgType = '3'
	BusinessLevelReject  MsgType = 'j'
	SequenceReset        MsgType = '4'
	Logout               MsgType = '5'
	OrderCancelReject    MsgType = '9'
	ExecutionReport      MsgType = '8'
	NewOrder             MsgType = 'D'
	CancelOrder          MsgType = 'F'
	ReviseOrder          MsgType = 'G'
)
