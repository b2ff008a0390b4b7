package ml

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// TrainTestSplit shuffles the indices [0, n) with a PCG source seeded by seed
// and returns the train and test partitions. The test partition holds
// ceil(testSize*n) indices. The same n, testSize and seed always produce the
// same partitions.
func TrainTestSplit(n int, testSize float64, seed uint64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be in (0, 1), got %v", testSize)
	}

	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest == 0 || nTrain <= 0 {
		return nil, nil, fmt.Errorf("cannot split %d rows with test size %v into two non-empty partitions", n, testSize)
	}

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}
