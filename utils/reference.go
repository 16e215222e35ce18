package utils

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var mu sync.Mutex
var seededRand *rand.Rand

func init() {
	seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))
}

// GenerateReference produces the externally visible transaction reference.
// It must be unique per order: payment and fulfilment callbacks use it as
// their idempotency key.
func GenerateReference() string {
	mu.Lock()
	defer mu.Unlock()

	nowNano := time.Now().UnixNano()
	nanoPart := nowNano % 1000000000

	randPart := seededRand.Intn(9000) + 1000

	return fmt.Sprintf("SDS-%09d%04d", nanoPart, randPart)
}

// GenerateWithdrawalReference produces a reference for agent withdrawal requests.
func GenerateWithdrawalReference(agentID uint) string {
	mu.Lock()
	defer mu.Unlock()

	nowNano := time.Now().UnixNano()
	nanoPart := nowNano % 1000000

	randPart := seededRand.Intn(900) + 100

	return fmt.Sprintf("SDS-WD-%06d%03d%d", nanoPart, randPart, agentID)
}
