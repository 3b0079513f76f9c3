package zk

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"

	"github.com/veilmon/veilmon-server/internal/commitment"
)

// StubProofService reproduces the original demo behavior: proofs are
// random hex strings and verification always succeeds. It pairs with
// the plaintext commitment scheme for runs without cryptography.
type StubProofService struct{}

// NewStubProofService returns the always-valid stub.
func NewStubProofService() *StubProofService { return &StubProofService{} }

func (*StubProofService) Prove(_ context.Context, _ commitment.Payload, _, _ string) (string, error) {
	b := make([]byte, 32)
	if _, err := crand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (*StubProofService) Verify(_ context.Context, _ string, _ []string) (bool, error) {
	return true, nil
}
