package commitment

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	_ "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	gnark_hash "github.com/consensys/gnark-crypto/hash"
)

// MiMCScheme commits with token = MiMC_BN254(turn, slot, moveID, salt)
// where each input occupies one 32-byte field-element block. The salt is
// the opening; without it the token reveals nothing about the move.
type MiMCScheme struct{}

// NewMiMCScheme returns the hiding commitment scheme.
func NewMiMCScheme() *MiMCScheme { return &MiMCScheme{} }

func (*MiMCScheme) Name() string { return "mimc" }

func (*MiMCScheme) Commit(_ context.Context, payload Payload) (string, string, error) {
	salt, err := crand.Int(crand.Reader, fr.Modulus())
	if err != nil {
		return "", "", fmt.Errorf("commitment: salt generation: %w", err)
	}
	sum := MiMCSum(PayloadBlocks(payload, salt)...)
	return hex.EncodeToString(sum), hex.EncodeToString(pad32(salt.Bytes())), nil
}

func (s *MiMCScheme) Verify(token string, payload Payload, opening string) error {
	want, err := hex.DecodeString(token)
	if err != nil || len(want) != fr.Bytes {
		return ErrBadToken
	}
	saltBytes, err := hex.DecodeString(opening)
	if err != nil || len(saltBytes) != fr.Bytes {
		return ErrBadOpening
	}
	salt := new(big.Int).SetBytes(saltBytes)
	got := MiMCSum(PayloadBlocks(payload, salt)...)
	if !bytes.Equal(got, want) {
		return ErrMismatch
	}
	return nil
}

// PayloadBlocks lays the payload and salt out as 32-byte blocks, one
// field element each. The circuit in internal/zk hashes the same
// sequence in-circuit, so the layout here is part of the protocol.
func PayloadBlocks(payload Payload, salt *big.Int) [][]byte {
	return [][]byte{
		pad32(big.NewInt(int64(payload.Turn)).Bytes()),
		pad32(big.NewInt(int64(payload.Slot)).Bytes()),
		pad32(MoveIDBytes(payload.MoveID)),
		pad32(salt.Bytes()),
	}
}

// MoveIDBytes maps a move id onto a field element by interpreting its
// bytes as a big-endian integer. Move ids are short, so the value is
// always far below the BN254 scalar modulus.
func MoveIDBytes(moveID string) []byte {
	return new(big.Int).SetBytes([]byte(moveID)).Bytes()
}

// MiMCSum hashes 32-byte blocks with MiMC over BN254, canonicalizing
// each block into the scalar field first.
func MiMCSum(blocks ...[]byte) []byte {
	hasher := gnark_hash.MIMC_BN254.New()
	for _, block := range blocks {
		var elem fr.Element
		elem.SetBytes(block)
		canonical := elem.Marshal()
		if _, err := hasher.Write(canonical); err != nil {
			panic(err)
		}
	}
	return hasher.Sum(nil)
}

func pad32(b []byte) []byte {
	if len(b) >= fr.Bytes {
		return b[len(b)-fr.Bytes:]
	}
	out := make([]byte, fr.Bytes)
	copy(out[fr.Bytes-len(b):], b)
	return out
}
