package codec

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/holiman/uint256"

	"github.com/wippyai/syscall-bridge/errors"
)

// Record is a fixed-layout little-endian wire value.
//
// Encode writes exactly EncodedLen bytes into dst; Decode consumes exactly
// EncodedLen bytes from src. Both fail on a length mismatch so a truncated or
// oversized buffer never half-populates a record.
type Record interface {
	EncodedLen() int
	Encode(dst []byte) error
	Decode(src []byte) error
}

// ErrorCoded is implemented by length-prefixed records used as fallible
// syscall results. SetError turns the record into its error form: the length
// field carries the packed code and all payload fields are zeroed.
type ErrorCoded interface {
	Record
	SetError(code uint32)
}

// Marshal encodes rec into a fresh buffer.
func Marshal(rec Record) ([]byte, error) {
	buf := make([]byte, rec.EncodedLen())
	if err := rec.Encode(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Unmarshal decodes src into rec, rejecting trailing bytes.
func Unmarshal(rec Record, src []byte) error {
	return rec.Decode(src)
}

const (
	// HashLen is the byte width of every identity on the wire.
	HashLen = 32

	// ValueLen is the byte width of a 128-bit message value.
	ValueLen = 16
)

// Hash is a 32-byte identity: actors, messages, codes and reservations all
// use this width.
type Hash [HashLen]byte

func (h *Hash) EncodedLen() int { return HashLen }

func (h *Hash) Encode(dst []byte) error {
	if len(dst) != HashLen {
		return errors.SizeMismatch(errors.PhaseEncode, HashLen, len(dst))
	}
	copy(dst, h[:])
	return nil
}

func (h *Hash) Decode(src []byte) error {
	if len(src) != HashLen {
		return errors.SizeMismatch(errors.PhaseDecode, HashLen, len(src))
	}
	copy(h[:], src)
	return nil
}

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// IsZero reports whether the hash is all zeroes.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// PutValue128 encodes v as 16 little-endian bytes. Values above 128 bits do
// not exist on the wire, so encoding one is an overflow error, never a silent
// truncation.
func PutValue128(dst []byte, v *uint256.Int) error {
	if len(dst) != ValueLen {
		return errors.SizeMismatch(errors.PhaseEncode, ValueLen, len(dst))
	}
	if v[2] != 0 || v[3] != 0 {
		return errors.New(errors.PhaseEncode, errors.KindOverflow).
			Detail("value %s exceeds 128 bits", v.Hex()).
			Build()
	}
	binary.LittleEndian.PutUint64(dst[0:8], v[0])
	binary.LittleEndian.PutUint64(dst[8:16], v[1])
	return nil
}

// GetValue128 decodes 16 little-endian bytes into v.
func GetValue128(v *uint256.Int, src []byte) error {
	if len(src) != ValueLen {
		return errors.SizeMismatch(errors.PhaseDecode, ValueLen, len(src))
	}
	v.Clear()
	v[0] = binary.LittleEndian.Uint64(src[0:8])
	v[1] = binary.LittleEndian.Uint64(src[8:16])
	return nil
}
