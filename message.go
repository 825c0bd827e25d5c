package mosaic

import (
	"bytes"
	"encoding/binary"
)

// MessageType tags the first byte of every frame on the wire.
type MessageType uint8

const (
	MessageTypeHello            MessageType = 0x01
	MessageTypeHelloAck         MessageType = 0x02
	MessageTypeSubmission       MessageType = 0x03
	MessageTypeSubmissionResult MessageType = 0x04
	MessageTypeGet              MessageType = 0x05
	MessageTypeRecord           MessageType = 0x06
	MessageTypeQueryClosed      MessageType = 0x07
	MessageTypeQuery            MessageType = 0x08
	MessageTypeSubscribe        MessageType = 0x09
	MessageTypeUnsubscribe      MessageType = 0x0a
	MessageTypeClosing          MessageType = 0x0b
	MessageTypeUnrecognized     MessageType = 0xff
)

// headerLen is the fixed 8-byte frame header: type, major version (or
// reserved), two reserved bytes, and a big-endian total length covering
// the header itself.
const headerLen = 8

// QueryID identifies a single GET exchange so the response can be
// correlated with the request that produced it.
type QueryID uint32

// ResultCode reports the disposition of a protocol operation back to
// the peer.
type ResultCode uint8

const (
	ResultCodeSuccess      ResultCode = 0
	ResultCodeAccepted     ResultCode = 1
	ResultCodeDuplicate    ResultCode = 2
	ResultCodeInvalid      ResultCode = 3
	ResultCodeNotFound     ResultCode = 4
	ResultCodeTooLarge     ResultCode = 5
	ResultCodeGeneralError ResultCode = 6
)

// Message is a decoded frame: its type plus the raw bytes of the whole
// frame (header included), mirroring the original crate's
// message.as_bytes()[8..] body-slicing convention.
type Message struct {
	Type MessageType
	raw  []byte
}

// Type byte offsets within the header.
const (
	offsetType          = 0
	offsetMajorVersion  = 1
	offsetTotalLen      = 4
)

// DecodeMessage parses the 8-byte header of a frame and returns a
// Message whose body is accessible via Body().
func DecodeMessage(data []byte) (*Message, error) {
	if len(data) < headerLen {
		return nil, Newf("frame shorter than header: %d bytes", len(data))
	}
	totalLen := binary.BigEndian.Uint32(data[offsetTotalLen : offsetTotalLen+4])
	if int(totalLen) != len(data) {
		return nil, Newf("frame length field %d does not match %d received bytes", totalLen, len(data))
	}
	return &Message{Type: MessageType(data[offsetType]), raw: data}, nil
}

// AsBytes returns the full frame, header included.
func (m *Message) AsBytes() []byte { return m.raw }

// Body returns the frame bytes following the 8-byte header.
func (m *Message) Body() []byte {
	if len(m.raw) <= headerLen {
		return nil
	}
	return m.raw[headerLen:]
}

// MajorVersion returns the version byte carried in a Hello frame's
// header, which sits alongside the type tag rather than in the body.
func (m *Message) MajorVersion() uint8 {
	if len(m.raw) <= offsetMajorVersion {
		return 0
	}
	return m.raw[offsetMajorVersion]
}

func newFrame(typ MessageType, majorVersion uint8, body []byte) []byte {
	total := headerLen + len(body)
	buf := make([]byte, total)
	buf[offsetType] = byte(typ)
	buf[offsetMajorVersion] = majorVersion
	binary.BigEndian.PutUint32(buf[offsetTotalLen:], uint32(total))
	copy(buf[headerLen:], body)
	return buf
}

// NewHello builds a HELLO frame advertising majorVersion and the given
// application ids.
func NewHello(majorVersion uint8, applications []uint32) *Message {
	var body bytes.Buffer
	for _, app := range applications {
		binary.Write(&body, binary.BigEndian, app)
	}
	return &Message{Type: MessageTypeHello, raw: newFrame(MessageTypeHello, majorVersion, body.Bytes())}
}

// DecodeHelloApplications parses the flat []uint32 application-id list
// out of a HELLO frame's body. It returns an error for any body whose
// length isn't a multiple of 4, per the protocol's length invariant.
func DecodeHelloApplications(body []byte) ([]uint32, error) {
	if len(body)%4 != 0 {
		return nil, Newf("hello body length %d not a multiple of 4", len(body))
	}
	apps := make([]uint32, 0, len(body)/4)
	r := bytes.NewReader(body)
	for r.Len() > 0 {
		var app uint32
		if err := binary.Read(r, binary.BigEndian, &app); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// NewHelloAck builds the server's response to a HELLO.
func NewHelloAck(code ResultCode, majorVersion uint8, acceptedApps []uint32) *Message {
	var body bytes.Buffer
	body.WriteByte(byte(code))
	for _, app := range acceptedApps {
		binary.Write(&body, binary.BigEndian, app)
	}
	return &Message{Type: MessageTypeHelloAck, raw: newFrame(MessageTypeHelloAck, majorVersion, body.Bytes())}
}

// NewSubmission wraps a record's bytes in a SUBMISSION frame.
func NewSubmission(record []byte) *Message {
	return &Message{Type: MessageTypeSubmission, raw: newFrame(MessageTypeSubmission, 0, record)}
}

// NewSubmissionResult builds the server's response to a SUBMISSION.
func NewSubmissionResult(id ID, code ResultCode) *Message {
	body := make([]byte, 0, len(id)+1)
	body = append(body, id[:]...)
	body = append(body, byte(code))
	return &Message{Type: MessageTypeSubmissionResult, raw: newFrame(MessageTypeSubmissionResult, 0, body)}
}

// DecodeSubmissionResult is the client-side counterpart of
// NewSubmissionResult, used by cmd/mosaic-client.
func DecodeSubmissionResult(m *Message) (ID, ResultCode, error) {
	body := m.Body()
	if len(body) != IDLen+1 {
		return ID{}, 0, Newf("submission result body has %d bytes, want %d", len(body), IDLen+1)
	}
	var id ID
	copy(id[:], body[:IDLen])
	return id, ResultCode(body[IDLen]), nil
}

// NewGet builds a GET frame requesting the given references under
// queryID.
func NewGet(queryID QueryID, refs []Reference) *Message {
	var body bytes.Buffer
	binary.Write(&body, binary.BigEndian, uint32(queryID))
	for _, ref := range refs {
		body.Write(ref[:])
	}
	return &Message{Type: MessageTypeGet, raw: newFrame(MessageTypeGet, 0, body.Bytes())}
}

// DecodeGet parses a GET frame's query id and requested references.
func DecodeGet(m *Message) (QueryID, []Reference, error) {
	body := m.Body()
	if len(body) < 4 {
		return 0, nil, Newf("get frame missing query id")
	}
	queryID := QueryID(binary.BigEndian.Uint32(body[:4]))
	rest := body[4:]
	if len(rest)%ReferenceLen != 0 {
		return queryID, nil, Newf("get frame reference block length %d not a multiple of %d", len(rest), ReferenceLen)
	}
	refs := make([]Reference, 0, len(rest)/ReferenceLen)
	for off := 0; off < len(rest); off += ReferenceLen {
		var ref Reference
		copy(ref[:], rest[off:off+ReferenceLen])
		refs = append(refs, ref)
	}
	return queryID, refs, nil
}

// NewRecordMessage wraps a stored record's bytes as a response to a GET,
// tagged with the query it answers.
func NewRecordMessage(queryID QueryID, record []byte) *Message {
	var body bytes.Buffer
	binary.Write(&body, binary.BigEndian, uint32(queryID))
	body.Write(record)
	return &Message{Type: MessageTypeRecord, raw: newFrame(MessageTypeRecord, 0, body.Bytes())}
}

// NewQueryClosed marks a GET's results as complete.
func NewQueryClosed(queryID QueryID, code ResultCode) *Message {
	body := make([]byte, 5)
	binary.BigEndian.PutUint32(body, uint32(queryID))
	body[4] = byte(code)
	return &Message{Type: MessageTypeQueryClosed, raw: newFrame(MessageTypeQueryClosed, 0, body)}
}

// DecodeQueryClosed is the client-side counterpart of NewQueryClosed.
func DecodeQueryClosed(m *Message) (QueryID, ResultCode, error) {
	body := m.Body()
	if len(body) != 5 {
		return 0, 0, Newf("query-closed body has %d bytes, want 5", len(body))
	}
	return QueryID(binary.BigEndian.Uint32(body[:4])), ResultCode(body[4]), nil
}

// NewClosing builds a frame that tells the peer the connection is about
// to be torn down, carrying the reason as a ResultCode.
func NewClosing(code ResultCode) *Message {
	return &Message{Type: MessageTypeClosing, raw: newFrame(MessageTypeClosing, 0, []byte{byte(code)})}
}

// NewUnrecognized echoes back an unrecognized frame type so a peer can
// tell the difference between "ignored" and "silently dropped".
func NewUnrecognized() *Message {
	return &Message{Type: MessageTypeUnrecognized, raw: newFrame(MessageTypeUnrecognized, 0, nil)}
}

// ExtractRecordID parses a record out of a raw SUBMISSION frame without
// going through the validator, so the handler can still reply with the
// record's id even when validation itself failed partway through.
func ExtractRecordID(raw []byte) (ID, bool) {
	m, err := DecodeMessage(raw)
	if err != nil || m.Type != MessageTypeSubmission {
		return ID{}, false
	}
	rec, err := RecordFromBytes(m.Body())
	if err != nil {
		return ID{}, false
	}
	return rec.ID(), true
}
