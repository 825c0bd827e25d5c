package mosaic

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
	"io"

	"crypto/sha256"
)

// MaxRecordBytes bounds the encoded size of a single Record. A Record
// larger than this is rejected before signature verification is even
// attempted, mapping to ResultCodeTooLarge.
const MaxRecordBytes = 64 * 1024

// IDLen and ReferenceLen are both 48 bytes: the Id is a SHA3-384 digest
// (a hash function whose native output is 48 bytes, so no truncation is
// needed), and the Reference is expanded to the same width so callers
// can treat either as an opaque 48-byte lookup key.
const (
	IDLen        = 48
	ReferenceLen = 48
)

// ID is the canonical content address of a Record: SHA3-384 of its full
// encoded bytes, including the signature.
type ID [IDLen]byte

// Reference is an alternative 48-byte lookup key, deterministically
// derived from a Record's Id via HKDF expansion. It carries the same
// addressing power as the Id but is a distinct byte string from it.
type Reference [ReferenceLen]byte

const referenceInfo = "mosaic-reference-v1"

// DeriveReference expands an Id into its corresponding Reference.
func DeriveReference(id ID) (Reference, error) {
	var ref Reference
	r := hkdf.New(sha256.New, id[:], nil, []byte(referenceInfo))
	if _, err := io.ReadFull(r, ref[:]); err != nil {
		return Reference{}, NewError(KindGeneral, err)
	}
	return ref, nil
}

// RecordParts is the unsigned content of a Record, supplied by a caller
// that holds the signing key.
type RecordParts struct {
	Kind        uint16
	AddressData [32]byte
	Timestamp   int64 // microseconds since Unix epoch
	Flags       uint16
	Tags        [][]byte
	Payload     []byte
}

// Record is a signed, content-addressed unit of data: the atomic object
// the store persists and GET retrieves.
type Record struct {
	PublicKey   ed25519.PublicKey
	Kind        uint16
	AddressData [32]byte
	Timestamp   int64
	Flags       uint16
	Tags        [][]byte
	Payload     []byte
	Signature   []byte // 64 bytes
}

// ErrRecordTooLong is returned by RecordFromBytes when the encoded record
// exceeds MaxRecordBytes, and distinguishes a TooLarge result from a
// generic Invalid one in the validator.
var ErrRecordTooLong = fmt.Errorf("record exceeds %d bytes", MaxRecordBytes)

// NewRecord signs parts with priv and returns the resulting Record.
func NewRecord(priv ed25519.PrivateKey, parts RecordParts) (*Record, error) {
	r := &Record{
		PublicKey:   priv.Public().(ed25519.PublicKey),
		Kind:        parts.Kind,
		AddressData: parts.AddressData,
		Timestamp:   parts.Timestamp,
		Flags:       parts.Flags,
		Tags:        parts.Tags,
		Payload:     parts.Payload,
	}
	signed := r.signingBytes()
	r.Signature = ed25519.Sign(priv, signed)
	return r, nil
}

// signingBytes is the encoding covered by the signature: everything the
// wire format carries except the signature itself.
func (r *Record) signingBytes() []byte {
	var buf bytes.Buffer
	buf.Write(r.PublicKey)
	binary.Write(&buf, binary.BigEndian, r.Kind)
	buf.Write(r.AddressData[:])
	binary.Write(&buf, binary.BigEndian, r.Timestamp)
	binary.Write(&buf, binary.BigEndian, r.Flags)
	binary.Write(&buf, binary.BigEndian, uint16(len(r.Tags)))
	for _, tag := range r.Tags {
		binary.Write(&buf, binary.BigEndian, uint32(len(tag)))
		buf.Write(tag)
	}
	binary.Write(&buf, binary.BigEndian, uint32(len(r.Payload)))
	buf.Write(r.Payload)
	return buf.Bytes()
}

// Bytes returns the full canonical encoding of the record, signature
// included. This is the byte slice hashed to produce the record's Id.
func (r *Record) Bytes() []byte {
	signed := r.signingBytes()
	out := make([]byte, 0, len(signed)+len(r.Signature))
	out = append(out, signed...)
	out = append(out, r.Signature...)
	return out
}

// RecordFromBytes decodes and verifies a record from its canonical wire
// encoding. It rejects oversized input before touching the signature.
func RecordFromBytes(data []byte) (*Record, error) {
	if len(data) > MaxRecordBytes {
		return nil, ErrRecordTooLong
	}
	const fixedPrefix = 32 + 2 + 32 + 8 + 2 + 2
	if len(data) < fixedPrefix {
		return nil, fmt.Errorf("record truncated before fixed header")
	}
	r := &Record{}
	buf := bytes.NewReader(data)

	r.PublicKey = make(ed25519.PublicKey, ed25519.PublicKeySize)
	if _, err := io.ReadFull(buf, r.PublicKey); err != nil {
		return nil, fmt.Errorf("record public key: %w", err)
	}
	if err := binary.Read(buf, binary.BigEndian, &r.Kind); err != nil {
		return nil, fmt.Errorf("record kind: %w", err)
	}
	if _, err := io.ReadFull(buf, r.AddressData[:]); err != nil {
		return nil, fmt.Errorf("record address data: %w", err)
	}
	if err := binary.Read(buf, binary.BigEndian, &r.Timestamp); err != nil {
		return nil, fmt.Errorf("record timestamp: %w", err)
	}
	if err := binary.Read(buf, binary.BigEndian, &r.Flags); err != nil {
		return nil, fmt.Errorf("record flags: %w", err)
	}
	var tagCount uint16
	if err := binary.Read(buf, binary.BigEndian, &tagCount); err != nil {
		return nil, fmt.Errorf("record tag count: %w", err)
	}
	r.Tags = make([][]byte, 0, tagCount)
	for i := uint16(0); i < tagCount; i++ {
		var tagLen uint32
		if err := binary.Read(buf, binary.BigEndian, &tagLen); err != nil {
			return nil, fmt.Errorf("record tag length: %w", err)
		}
		tag := make([]byte, tagLen)
		if _, err := io.ReadFull(buf, tag); err != nil {
			return nil, fmt.Errorf("record tag: %w", err)
		}
		r.Tags = append(r.Tags, tag)
	}
	var payloadLen uint32
	if err := binary.Read(buf, binary.BigEndian, &payloadLen); err != nil {
		return nil, fmt.Errorf("record payload length: %w", err)
	}
	r.Payload = make([]byte, payloadLen)
	if _, err := io.ReadFull(buf, r.Payload); err != nil {
		return nil, fmt.Errorf("record payload: %w", err)
	}
	r.Signature = make([]byte, ed25519.SignatureSize)
	if _, err := io.ReadFull(buf, r.Signature); err != nil {
		return nil, fmt.Errorf("record signature: %w", err)
	}
	if buf.Len() != 0 {
		return nil, fmt.Errorf("record has %d trailing bytes", buf.Len())
	}
	if !ed25519.Verify(r.PublicKey, r.signingBytes(), r.Signature) {
		return nil, fmt.Errorf("record signature verification failed")
	}
	return r, nil
}

// ID returns the record's canonical content address.
func (r *Record) ID() ID {
	sum := sha3.Sum384(r.Bytes())
	return ID(sum)
}

// Reference returns the record's derived lookup key.
func (r *Record) Reference() (Reference, error) {
	return DeriveReference(r.ID())
}
