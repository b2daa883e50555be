package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandwich-gate/complexity/pkg/types"
)

func TestHiddenDepsTotal(t *testing.T) {
	h := types.HiddenDeps{EnvAccess: 2, FileIO: 1, NetworkIO: 3}
	require.Equal(t, 6, h.Total())
}

func TestConvergenceProofSatisfiedRequiresAllThreeConditions(t *testing.T) {
	cases := []struct {
		name string
		proof types.ConvergenceProof
		want bool
	}{
		{"all satisfied", types.ConvergenceProof{DeltaPhi: 0.01, Epsilon: 0.05, Iterations: 3, EvidenceComplete: true}, true},
		{"delta too large", types.ConvergenceProof{DeltaPhi: 0.1, Epsilon: 0.05, Iterations: 3, EvidenceComplete: true}, false},
		{"negative delta within epsilon", types.ConvergenceProof{DeltaPhi: -0.01, Epsilon: 0.05, Iterations: 3, EvidenceComplete: true}, true},
		{"too few iterations", types.ConvergenceProof{DeltaPhi: 0.01, Epsilon: 0.05, Iterations: 2, EvidenceComplete: true}, false},
		{"evidence incomplete", types.ConvergenceProof{DeltaPhi: 0.01, Epsilon: 0.05, Iterations: 5, EvidenceComplete: false}, false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.proof.Satisfied(), c.name)
	}
}
