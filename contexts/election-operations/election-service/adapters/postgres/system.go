package postgresadapter

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"voteguard/contexts/election-operations/election-service/domain/entities"
	"voteguard/contexts/election-operations/election-service/ports"

	"github.com/google/uuid"
)

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// RandomCodeIssuer mints election codes and center passcodes from
// crypto/rand. Election codes avoid ambiguous characters (0/O, 1/I).
type RandomCodeIssuer struct{}

const electionCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func (RandomCodeIssuer) NewElectionCode(_ context.Context) (string, error) {
	code := make([]byte, entities.ElectionCodeLength)
	for i := range code {
		index, err := rand.Int(rand.Reader, big.NewInt(int64(len(electionCodeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generate election code: %w", err)
		}
		code[i] = electionCodeAlphabet[index.Int64()]
	}
	return string(code), nil
}

func (RandomCodeIssuer) NewCenterOTP(_ context.Context) (string, error) {
	value, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate center otp: %w", err)
	}
	return fmt.Sprintf("%06d", value.Int64()), nil
}

var _ ports.Clock = SystemClock{}
var _ ports.IDGenerator = UUIDGenerator{}
var _ ports.CodeIssuer = RandomCodeIssuer{}
