package postgresadapter

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

const batchSuffixLength = 9

// BatchIDGenerator issues ids shaped batch_<unix millis>_<9 base36 chars>.
// The suffix comes from a random UUID.
type BatchIDGenerator struct{}

func (BatchIDGenerator) NewBatchID(_ context.Context, at time.Time) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	suffix := new(big.Int).SetBytes(id[:]).Text(36)
	if len(suffix) < batchSuffixLength {
		suffix = strings.Repeat("0", batchSuffixLength-len(suffix)) + suffix
	}
	return fmt.Sprintf("batch_%d_%s", at.UnixMilli(), suffix[len(suffix)-batchSuffixLength:]), nil
}
