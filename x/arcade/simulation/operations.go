package simulation

import (
	"encoding/hex"
	"fmt"
	"math/rand"

	"dinorun/x/arcade/keeper"
	"dinorun/x/arcade/types"
)

// OperationMsg reports one simulated call.
type OperationMsg struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Comment string `json:"comment,omitempty"`
}

// NoOpMsg reports a call that was skipped.
func NoOpMsg(name, comment string) OperationMsg {
	return OperationMsg{Name: name, Comment: comment}
}

// Operation runs one random call against the ledger.
type Operation func(r *rand.Rand, ms keeper.MsgServer, accs []types.Address) (OperationMsg, error)

// WeightedOperation is an Operation with its selection weight.
type WeightedOperation struct {
	Weight int
	Op     Operation
}

const (
	DefaultWeightMsgPayToPlay    = 100
	DefaultWeightMsgSubmitScore  = 80
	DefaultWeightMsgRegisterName = 10
)

// WeightedOperations returns all arcade operations with their default weights.
func WeightedOperations() []WeightedOperation {
	return []WeightedOperation{
		{Weight: DefaultWeightMsgPayToPlay, Op: SimulateMsgPayToPlay()},
		{Weight: DefaultWeightMsgSubmitScore, Op: SimulateMsgSubmitScore()},
		{Weight: DefaultWeightMsgRegisterName, Op: SimulateMsgRegisterName()},
	}
}

// RandomAccounts returns n random addresses.
func RandomAccounts(r *rand.Rand, n int) []types.Address {
	accs := make([]types.Address, n)
	for i := range accs {
		bz := make([]byte, types.AddressLength)
		r.Read(bz)
		accs[i] = types.Address("0x" + hex.EncodeToString(bz))
	}
	return accs
}

// RandomAcc picks one account.
func RandomAcc(r *rand.Rand, accs []types.Address) types.Address {
	return accs[r.Intn(len(accs))]
}

// SimulateMsgPayToPlay pays the exact fee for a random account.
func SimulateMsgPayToPlay() Operation {
	return func(r *rand.Rand, ms keeper.MsgServer, accs []types.Address) (OperationMsg, error) {
		const name = "pay_to_play"
		params, err := ms.GetParams()
		if err != nil {
			return NoOpMsg(name, "unable to load params"), err
		}
		msg := types.MsgPayToPlay{
			Creator: RandomAcc(r, accs),
			Value:   params.Fee.Amount,
			Data:    append(types.PayToPlayCalldata(), types.AttributionSuffix(params.BuilderCodes...)...),
		}
		if _, err := ms.PayToPlay(msg); err != nil {
			return NoOpMsg(name, err.Error()), err
		}
		return OperationMsg{Name: name, OK: true}, nil
	}
}

// SimulateMsgSubmitScore submits a random score for an account holding a
// paid round.
func SimulateMsgSubmitScore() Operation {
	return func(r *rand.Rand, ms keeper.MsgServer, accs []types.Address) (OperationMsg, error) {
		const name = "submit_score"
		player := RandomAcc(r, accs)
		credits, err := ms.GetPlayerCredits(player)
		if err != nil {
			return NoOpMsg(name, "unable to load credits"), err
		}
		if credits == 0 {
			return NoOpMsg(name, "no paid round"), nil
		}

		score := uint64(r.Intn(5000) + 1)
		msg := types.MsgSubmitScore{Creator: player, Data: types.SubmitScoreCalldata(score)}
		if _, err := ms.SubmitScore(msg); err != nil {
			return NoOpMsg(name, err.Error()), err
		}
		return OperationMsg{Name: name, OK: true, Comment: fmt.Sprintf("score %d", score)}, nil
	}
}

// SimulateMsgRegisterName registers a random reverse name.
func SimulateMsgRegisterName() Operation {
	return func(r *rand.Rand, ms keeper.MsgServer, accs []types.Address) (OperationMsg, error) {
		const name = "register_name"
		msg := types.MsgRegisterName{
			Creator: RandomAcc(r, accs),
			Name:    fmt.Sprintf("dino%d.base.eth", r.Intn(10000)),
		}
		if _, err := ms.RegisterName(msg); err != nil {
			return NoOpMsg(name, err.Error()), err
		}
		return OperationMsg{Name: name, OK: true}, nil
	}
}

// Simulate runs n operations picked by weight and stops at the first error.
func Simulate(r *rand.Rand, ms keeper.MsgServer, accs []types.Address, ops []WeightedOperation, n int) ([]OperationMsg, error) {
	if len(accs) == 0 {
		return nil, fmt.Errorf("no accounts to simulate with")
	}
	total := 0
	for _, op := range ops {
		total += op.Weight
	}
	if total <= 0 {
		return nil, fmt.Errorf("no weighted operations")
	}

	msgs := make([]OperationMsg, 0, n)
	for i := 0; i < n; i++ {
		pick := r.Intn(total)
		for _, op := range ops {
			if pick < op.Weight {
				msg, err := op.Op(r, ms, accs)
				msgs = append(msgs, msg)
				if err != nil {
					return msgs, err
				}
				break
			}
			pick -= op.Weight
		}
	}
	return msgs, nil
}
