package zk

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/veilmon/veilmon-server/internal/commitment"
	"github.com/veilmon/veilmon-server/internal/dedupe"
)

// ProofService is the external proof collaborator consumed by the
// battle store. publicInputs is [commitment token, turn, slot].
// Verify returns (false, nil) for a well-formed proof that does not
// check out; errors are reserved for malformed inputs.
type ProofService interface {
	Prove(ctx context.Context, payload commitment.Payload, opening, token string) (proof string, err error)
	Verify(ctx context.Context, proof string, publicInputs []string) (bool, error)
}

var ErrBadPublicInputs = errors.New("zk: public inputs must be [commitment, turn, slot]")

const circuitKey = "move-commit"

// Groth16Service proves and verifies move-commitment openings with
// groth16 over BN254. Circuit compilation and key setup run lazily on
// first use and are deduplicated across callers.
type Groth16Service struct {
	mu    sync.Mutex
	setup setupResult
	ready bool
}

type setupResult struct {
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
	vk  groth16.VerifyingKey
}

// NewGroth16Service returns a service with no keys compiled yet.
func NewGroth16Service() *Groth16Service { return &Groth16Service{} }

func (s *Groth16Service) ensureSetup() (setupResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return s.setup, nil
	}
	v, err, _ := dedupe.SetupGroup.Do(circuitKey, func() (interface{}, error) {
		ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &MoveCommitCircuit{})
		if err != nil {
			return nil, fmt.Errorf("zk: circuit compile: %w", err)
		}
		pk, vk, err := groth16.Setup(ccs)
		if err != nil {
			return nil, fmt.Errorf("zk: groth16 setup: %w", err)
		}
		return setupResult{ccs: ccs, pk: pk, vk: vk}, nil
	})
	if err != nil {
		return setupResult{}, err
	}
	s.setup = v.(setupResult)
	s.ready = true
	return s.setup, nil
}

// Prove generates a groth16 proof that (payload.MoveID, opening) open
// the given commitment token.
func (s *Groth16Service) Prove(ctx context.Context, payload commitment.Payload, opening, token string) (string, error) {
	setup, err := s.ensureSetup()
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	commit, err := hexToBig(token)
	if err != nil {
		return "", fmt.Errorf("zk: bad commitment token: %w", err)
	}
	salt, err := hexToBig(opening)
	if err != nil {
		return "", fmt.Errorf("zk: bad opening: %w", err)
	}

	assignment := &MoveCommitCircuit{
		Commitment: commit,
		Turn:       payload.Turn,
		Slot:       payload.Slot,
		MoveID:     new(big.Int).SetBytes(commitment.MoveIDBytes(payload.MoveID)),
		Salt:       salt,
	}
	wtn, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return "", err
	}
	proof, err := groth16.Prove(setup.ccs, setup.pk, wtn)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

// Verify checks a proof against the public inputs. Identical concurrent
// verifications are collapsed into one groth16 run.
func (s *Groth16Service) Verify(ctx context.Context, proofHex string, publicInputs []string) (bool, error) {
	setup, err := s.ensureSetup()
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(publicInputs) != 3 {
		return false, ErrBadPublicInputs
	}
	commit, err := hexToBig(publicInputs[0])
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBadPublicInputs, err)
	}
	turn, err := strconv.Atoi(publicInputs[1])
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBadPublicInputs, err)
	}
	slot, err := strconv.Atoi(publicInputs[2])
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBadPublicInputs, err)
	}

	key := proofHex + "|" + strings.Join(publicInputs, "|")
	v, err, _ := dedupe.VerifyGroup.Do(key, func() (interface{}, error) {
		raw, err := hex.DecodeString(proofHex)
		if err != nil {
			return nil, fmt.Errorf("zk: bad proof encoding: %w", err)
		}
		proof := groth16.NewProof(ecc.BN254)
		if _, err := proof.ReadFrom(bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("zk: bad proof: %w", err)
		}
		assignment := &MoveCommitCircuit{
			Commitment: commit,
			Turn:       turn,
			Slot:       slot,
		}
		pubWtn, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
		if err != nil {
			return nil, err
		}
		if err := groth16.Verify(proof, setup.vk, pubWtn); err != nil {
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func hexToBig(s string) (*big.Int, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}
