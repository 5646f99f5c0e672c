// Package devnet runs a session against an in-process ledger: a smart wallet
// emulation bound to the devnet keeper and a terminal runner engine.
package devnet

import (
	"bytes"
	"context"
	"sync"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/google/uuid"

	"dinorun/x/arcade/keeper"
	"dinorun/x/arcade/types"
)

// DefaultConfirmations is the number of status checks a bundle stays pending.
const DefaultConfirmations = 2

// WalletConfig configures a devnet wallet.
type WalletConfig struct {
	Address types.Address `mapstructure:"address"`
	// ChainID is the network the wallet starts on.
	ChainID uint64 `mapstructure:"chain-id"`
	// Confirmations is how many status checks a bundle reports pending.
	Confirmations uint32 `mapstructure:"confirmations"`
	// AutoConnect connects the wallet on creation.
	AutoConnect bool `mapstructure:"auto-connect"`
}

// Wallet is a smart wallet emulation. Calls execute against the keeper as
// soon as they are sent; confirmation is reported after a number of checks.
type Wallet struct {
	keeper keeper.Keeper
	ms     keeper.MsgServer
	logger log.Logger

	mu            sync.Mutex
	account       types.Account
	confirmations uint32
}

var (
	_ types.Wallet      = (*Wallet)(nil)
	_ types.Ledger      = (*Wallet)(nil)
	_ types.NameService = (*Wallet)(nil)
)

func NewWallet(k keeper.Keeper, cfg WalletConfig, logger log.Logger) *Wallet {
	return &Wallet{
		keeper: k,
		ms:     keeper.NewMsgServerImpl(k),
		logger: logger.With("module", "x/"+types.ModuleName+"/devnet"),
		account: types.Account{
			Connected: cfg.AutoConnect,
			Address:   cfg.Address,
			ChainID:   cfg.ChainID,
		},
		confirmations: cfg.Confirmations,
	}
}

func (w *Wallet) Account(context.Context) (types.Account, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	acct := w.account
	if !acct.Connected {
		return types.Account{}, nil
	}
	return acct, nil
}

func (w *Wallet) Connect(context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.account.Address.Validate(); err != nil {
		return err
	}
	w.account.Connected = true
	return nil
}

func (w *Wallet) Disconnect(context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.account.Connected = false
	return nil
}

func (w *Wallet) SwitchChain(_ context.Context, chainID uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.account.Connected {
		return types.ErrNotConnected
	}
	w.account.ChainID = chainID
	w.logger.Info(types.EventNetworkSwitch, types.AttrChainID, chainID)
	return nil
}

// SendCalls executes calls in order and records the bundle. A failing call
// fails the bundle; calls before it are not rolled back.
func (w *Wallet) SendCalls(_ context.Context, calls []types.Call, caps types.Capabilities) (string, error) {
	w.mu.Lock()
	acct := w.account
	confirmations := w.confirmations
	w.mu.Unlock()

	if !acct.Connected {
		return "", types.ErrNotConnected
	}
	if len(calls) == 0 {
		return "", errorsmod.Wrap(types.ErrInvalidRequest, "empty bundle")
	}
	params, err := w.keeper.GetParams()
	if err != nil {
		return "", err
	}
	if acct.ChainID != params.ChainID {
		return "", errorsmod.Wrapf(types.ErrWrongNetwork, "wallet on chain %d, ledger on %d", acct.ChainID, params.ChainID)
	}

	record := types.BundleRecord{
		ID:            uuid.NewString(),
		Sender:        acct.Address,
		Outcome:       types.BundleSuccess,
		Confirmations: confirmations,
	}
	for _, call := range calls {
		if err := w.execute(acct.Address, params, call, caps); err != nil {
			record.Outcome = types.BundleFailure
			record.Error = err.Error()
			w.logger.Info("call reverted", types.AttrBundleID, record.ID, "err", err)
			break
		}
	}
	if err := w.keeper.SetBundle(record); err != nil {
		return "", err
	}
	return record.ID, nil
}

func (w *Wallet) execute(sender types.Address, params types.Params, call types.Call, caps types.Capabilities) error {
	if !call.To.Equal(params.Contract) {
		return errorsmod.Wrapf(types.ErrInvalidRequest, "no contract at %s", call.To)
	}
	data := call.Data
	if caps.DataSuffix != nil {
		data = append(bytes.Clone(data), caps.DataSuffix.Value...)
	}

	switch {
	case bytes.HasPrefix(data, types.Selector(types.MethodPayToPlay)):
		value := call.Value
		if value.IsNil() {
			value = math.ZeroInt()
		}
		_, err := w.ms.PayToPlay(types.MsgPayToPlay{Creator: sender, Value: value, Data: data})
		return err
	case bytes.HasPrefix(data, types.Selector(types.MethodSubmitScore)):
		if !call.Value.IsNil() && !call.Value.IsZero() {
			return errorsmod.Wrap(types.ErrInvalidRequest, "submitScore is not payable")
		}
		_, err := w.ms.SubmitScore(types.MsgSubmitScore{Creator: sender, Data: data})
		return err
	default:
		return errorsmod.Wrap(types.ErrInvalidRequest, "unknown function selector")
	}
}

// CallsStatus reports the bundle status and counts the check.
func (w *Wallet) CallsStatus(_ context.Context, bundleID string) (types.BundleStatus, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	record, err := w.keeper.GetBundle(bundleID)
	if err != nil {
		return types.BundlePending, err
	}
	record.Checks++
	if err := w.keeper.SetBundle(record); err != nil {
		return types.BundlePending, err
	}
	return record.Status(), nil
}

func (w *Wallet) PersonalBest(_ context.Context, player types.Address) (types.PersonalBest, error) {
	return w.keeper.PersonalBest(player)
}

func (w *Wallet) GlobalTop10(context.Context) ([]types.ScoreEntry, error) {
	return w.keeper.GlobalTop10()
}

// SubmitScore writes score through a single call bundle.
func (w *Wallet) SubmitScore(ctx context.Context, score uint64) error {
	params, err := w.keeper.GetParams()
	if err != nil {
		return err
	}
	id, err := w.SendCalls(ctx, []types.Call{{To: params.Contract, Data: types.SubmitScoreCalldata(score)}}, types.Capabilities{})
	if err != nil {
		return err
	}
	record, err := w.keeper.GetBundle(id)
	if err != nil {
		return err
	}
	if record.Outcome == types.BundleFailure {
		return errorsmod.Wrapf(types.ErrSubmissionRejected, "bundle %s: %s", id, record.Error)
	}
	return nil
}

func (w *Wallet) ReverseName(_ context.Context, addr types.Address) (string, error) {
	return w.keeper.ReverseName(addr)
}
