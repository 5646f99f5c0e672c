package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dinorun/x/arcade/session"
	"dinorun/x/arcade/types"
)

func TestShouldSubmit(t *testing.T) {
	pb := &types.PersonalBest{Best: 50, Second: 30, Third: 10}

	testCases := []struct {
		name      string
		connected bool
		score     uint64
		pb        *types.PersonalBest
		expSubmit bool
		expHigh   bool
	}{
		{name: "equal to third place", connected: true, score: 10, pb: pb},
		{name: "beats third place", connected: true, score: 11, pb: pb, expSubmit: true},
		{name: "ties best", connected: true, score: 50, pb: pb, expSubmit: true},
		{name: "new best", connected: true, score: 51, pb: pb, expSubmit: true, expHigh: true},
		{name: "zero score", connected: true, score: 0, pb: nil},
		{name: "zero score empty best", connected: true, score: 0, pb: &types.PersonalBest{}},
		{name: "zero score with best", connected: true, score: 0, pb: pb},
		{name: "never read", connected: true, score: 1, pb: nil, expSubmit: true, expHigh: true},
		{name: "not connected", connected: false, score: 500, pb: pb, expHigh: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expSubmit, session.ShouldSubmit(tc.connected, tc.score, tc.pb))
			require.Equal(t, tc.expHigh, session.IsNewHighScore(tc.score, tc.pb))
		})
	}
}
