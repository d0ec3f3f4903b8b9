package codec

import (
	"encoding/binary"

	"github.com/holiman/uint256"

	"github.com/wippyai/syscall-bridge/errors"
)

// HashWithValue packs a destination identity with a 128-bit value.
// Wire layout: hash (32) | value (16) = 48 bytes.
type HashWithValue struct {
	Hash  Hash
	Value uint256.Int
}

func (r *HashWithValue) EncodedLen() int { return HashLen + ValueLen }

func (r *HashWithValue) Encode(dst []byte) error {
	if len(dst) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseEncode, r.EncodedLen(), len(dst))
	}
	copy(dst[0:32], r.Hash[:])
	return PutValue128(dst[32:48], &r.Value)
}

func (r *HashWithValue) Decode(src []byte) error {
	if len(src) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseDecode, r.EncodedLen(), len(src))
	}
	copy(r.Hash[:], src[0:32])
	return GetValue128(&r.Value, src[32:48])
}

// TwoHashes packs two identities.
// Wire layout: hash1 (32) | hash2 (32) = 64 bytes.
type TwoHashes struct {
	Hash1 Hash
	Hash2 Hash
}

func (r *TwoHashes) EncodedLen() int { return 2 * HashLen }

func (r *TwoHashes) Encode(dst []byte) error {
	if len(dst) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseEncode, r.EncodedLen(), len(dst))
	}
	copy(dst[0:32], r.Hash1[:])
	copy(dst[32:64], r.Hash2[:])
	return nil
}

func (r *TwoHashes) Decode(src []byte) error {
	if len(src) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseDecode, r.EncodedLen(), len(src))
	}
	copy(r.Hash1[:], src[0:32])
	copy(r.Hash2[:], src[32:64])
	return nil
}

// TwoHashesWithValue packs two identities with a 128-bit value.
// Wire layout: hash1 (32) | hash2 (32) | value (16) = 80 bytes.
type TwoHashesWithValue struct {
	Hash1 Hash
	Hash2 Hash
	Value uint256.Int
}

func (r *TwoHashesWithValue) EncodedLen() int { return 2*HashLen + ValueLen }

func (r *TwoHashesWithValue) Encode(dst []byte) error {
	if len(dst) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseEncode, r.EncodedLen(), len(dst))
	}
	copy(dst[0:32], r.Hash1[:])
	copy(dst[32:64], r.Hash2[:])
	return PutValue128(dst[64:80], &r.Value)
}

func (r *TwoHashesWithValue) Decode(src []byte) error {
	if len(src) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseDecode, r.EncodedLen(), len(src))
	}
	copy(r.Hash1[:], src[0:32])
	copy(r.Hash2[:], src[32:64])
	return GetValue128(&r.Value, src[64:80])
}

// LengthWithHash is the fallible result carrying an identity.
// Wire layout: length (4) | hash (32) = 36 bytes.
type LengthWithHash struct {
	Length uint32
	Hash   Hash
}

func (r *LengthWithHash) EncodedLen() int { return 4 + HashLen }

func (r *LengthWithHash) Encode(dst []byte) error {
	if len(dst) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseEncode, r.EncodedLen(), len(dst))
	}
	binary.LittleEndian.PutUint32(dst[0:4], r.Length)
	copy(dst[4:36], r.Hash[:])
	return nil
}

func (r *LengthWithHash) Decode(src []byte) error {
	if len(src) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseDecode, r.EncodedLen(), len(src))
	}
	r.Length = binary.LittleEndian.Uint32(src[0:4])
	copy(r.Hash[:], src[4:36])
	return nil
}

func (r *LengthWithHash) SetError(code uint32) {
	r.Length = code
	r.Hash = Hash{}
}

// LengthWithTwoHashes is the fallible result carrying two identities.
// Wire layout: length (4) | hash1 (32) | hash2 (32) = 68 bytes.
type LengthWithTwoHashes struct {
	Length uint32
	Hash1  Hash
	Hash2  Hash
}

func (r *LengthWithTwoHashes) EncodedLen() int { return 4 + 2*HashLen }

func (r *LengthWithTwoHashes) Encode(dst []byte) error {
	if len(dst) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseEncode, r.EncodedLen(), len(dst))
	}
	binary.LittleEndian.PutUint32(dst[0:4], r.Length)
	copy(dst[4:36], r.Hash1[:])
	copy(dst[36:68], r.Hash2[:])
	return nil
}

func (r *LengthWithTwoHashes) Decode(src []byte) error {
	if len(src) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseDecode, r.EncodedLen(), len(src))
	}
	r.Length = binary.LittleEndian.Uint32(src[0:4])
	copy(r.Hash1[:], src[4:36])
	copy(r.Hash2[:], src[36:68])
	return nil
}

func (r *LengthWithTwoHashes) SetError(code uint32) {
	r.Length = code
	r.Hash1 = Hash{}
	r.Hash2 = Hash{}
}

// LengthWithHandle is the fallible result carrying a message handle.
// Wire layout: length (4) | handle (4) = 8 bytes.
type LengthWithHandle struct {
	Length uint32
	Handle uint32
}

func (r *LengthWithHandle) EncodedLen() int { return 8 }

func (r *LengthWithHandle) Encode(dst []byte) error {
	if len(dst) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseEncode, r.EncodedLen(), len(dst))
	}
	binary.LittleEndian.PutUint32(dst[0:4], r.Length)
	binary.LittleEndian.PutUint32(dst[4:8], r.Handle)
	return nil
}

func (r *LengthWithHandle) Decode(src []byte) error {
	if len(src) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseDecode, r.EncodedLen(), len(src))
	}
	r.Length = binary.LittleEndian.Uint32(src[0:4])
	r.Handle = binary.LittleEndian.Uint32(src[4:8])
	return nil
}

func (r *LengthWithHandle) SetError(code uint32) {
	r.Length = code
	r.Handle = 0
}

// LengthWithGas is the fallible result carrying a gas amount.
// Wire layout: length (4) | gas (8) = 12 bytes.
type LengthWithGas struct {
	Length uint32
	Gas    uint64
}

func (r *LengthWithGas) EncodedLen() int { return 12 }

func (r *LengthWithGas) Encode(dst []byte) error {
	if len(dst) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseEncode, r.EncodedLen(), len(dst))
	}
	binary.LittleEndian.PutUint32(dst[0:4], r.Length)
	binary.LittleEndian.PutUint64(dst[4:12], r.Gas)
	return nil
}

func (r *LengthWithGas) Decode(src []byte) error {
	if len(src) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseDecode, r.EncodedLen(), len(src))
	}
	r.Length = binary.LittleEndian.Uint32(src[0:4])
	r.Gas = binary.LittleEndian.Uint64(src[4:12])
	return nil
}

func (r *LengthWithGas) SetError(code uint32) {
	r.Length = code
	r.Gas = 0
}

// LengthWithCode is the fallible result carrying a reply status code.
// Wire layout: length (4) | code (4) = 8 bytes.
type LengthWithCode struct {
	Length uint32
	Code   int32
}

func (r *LengthWithCode) EncodedLen() int { return 8 }

func (r *LengthWithCode) Encode(dst []byte) error {
	if len(dst) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseEncode, r.EncodedLen(), len(dst))
	}
	binary.LittleEndian.PutUint32(dst[0:4], r.Length)
	binary.LittleEndian.PutUint32(dst[4:8], uint32(r.Code))
	return nil
}

func (r *LengthWithCode) Decode(src []byte) error {
	if len(src) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseDecode, r.EncodedLen(), len(src))
	}
	r.Length = binary.LittleEndian.Uint32(src[0:4])
	r.Code = int32(binary.LittleEndian.Uint32(src[4:8]))
	return nil
}

func (r *LengthWithCode) SetError(code uint32) {
	r.Length = code
	r.Code = 0
}

// LengthBytes is the smallest fallible result: just the packed error length.
// Zero means success. Wire layout: length (4) = 4 bytes.
type LengthBytes struct {
	Length uint32
}

func (r *LengthBytes) EncodedLen() int { return 4 }

func (r *LengthBytes) Encode(dst []byte) error {
	if len(dst) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseEncode, r.EncodedLen(), len(dst))
	}
	binary.LittleEndian.PutUint32(dst[0:4], r.Length)
	return nil
}

func (r *LengthBytes) Decode(src []byte) error {
	if len(src) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseDecode, r.EncodedLen(), len(src))
	}
	r.Length = binary.LittleEndian.Uint32(src[0:4])
	return nil
}

func (r *LengthBytes) SetError(code uint32) {
	r.Length = code
}

// BlockNumberWithHash is the random syscall's output: the block the
// randomness becomes observable at, plus the subject-derived hash.
// Wire layout: block number (4) | hash (32) = 36 bytes.
type BlockNumberWithHash struct {
	BlockNumber uint32
	Hash        Hash
}

func (r *BlockNumberWithHash) EncodedLen() int { return 4 + HashLen }

func (r *BlockNumberWithHash) Encode(dst []byte) error {
	if len(dst) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseEncode, r.EncodedLen(), len(dst))
	}
	binary.LittleEndian.PutUint32(dst[0:4], r.BlockNumber)
	copy(dst[4:36], r.Hash[:])
	return nil
}

func (r *BlockNumberWithHash) Decode(src []byte) error {
	if len(src) != r.EncodedLen() {
		return errors.SizeMismatch(errors.PhaseDecode, r.EncodedLen(), len(src))
	}
	r.BlockNumber = binary.LittleEndian.Uint32(src[0:4])
	copy(r.Hash[:], src[4:36])
	return nil
}
