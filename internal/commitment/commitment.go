// Package commitment models the move-commitment capability as a
// polymorphic scheme. The plaintext scheme reproduces the reversible
// encoding of the original demo; the MiMC scheme is a genuinely hiding
// hash commitment with a salt opening.
package commitment

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrBadToken    = errors.New("commitment: malformed token")
	ErrBadPayload  = errors.New("commitment: malformed payload")
	ErrMismatch    = errors.New("commitment: token does not open to payload")
	ErrBadOpening  = errors.New("commitment: malformed opening")
	ErrWrongScheme = errors.New("commitment: token was produced by a different scheme")
)

// Payload is the committed move choice: which move the monster in the
// given slot plays on the given turn.
type Payload struct {
	Turn   int
	Slot   int
	MoveID string
}

// Encode renders the payload in its canonical wire form, "turn|slot|moveID".
func (p Payload) Encode() string {
	return strconv.Itoa(p.Turn) + "|" + strconv.Itoa(p.Slot) + "|" + p.MoveID
}

// DecodePayload parses the canonical wire form.
func DecodePayload(s string) (Payload, error) {
	parts := strings.SplitN(s, "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Payload{}, ErrBadPayload
	}
	turn, err := strconv.Atoi(parts[0])
	if err != nil || turn < 0 {
		return Payload{}, ErrBadPayload
	}
	slot, err := strconv.Atoi(parts[1])
	if err != nil || slot < 0 {
		return Payload{}, ErrBadPayload
	}
	return Payload{Turn: turn, Slot: slot, MoveID: parts[2]}, nil
}

// Scheme turns a payload into an opaque token and later checks that a
// token opens to a claimed payload. Commit takes a context because a
// scheme may call out to an external service.
type Scheme interface {
	Name() string
	Commit(ctx context.Context, payload Payload) (token, opening string, err error)
	Verify(token string, payload Payload, opening string) error
}

// PlaintextScheme is the stub variant: the token is a reversible
// base64 encoding of the payload and hides nothing. It exists so the
// engine can run without any cryptographic dependency configured.
type PlaintextScheme struct{}

// NewPlaintextScheme returns the stub scheme.
func NewPlaintextScheme() *PlaintextScheme { return &PlaintextScheme{} }

func (*PlaintextScheme) Name() string { return "plaintext" }

func (*PlaintextScheme) Commit(_ context.Context, payload Payload) (string, string, error) {
	return base64.RawURLEncoding.EncodeToString([]byte(payload.Encode())), "", nil
}

func (*PlaintextScheme) Verify(token string, payload Payload, _ string) error {
	decoded, err := Decode(token)
	if err != nil {
		return err
	}
	if decoded != payload {
		return ErrMismatch
	}
	return nil
}

// Decode recovers the payload from a plaintext token. Only the stub
// scheme supports this; hiding schemes require the opening instead.
func Decode(token string) (Payload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	return DecodePayload(string(raw))
}
