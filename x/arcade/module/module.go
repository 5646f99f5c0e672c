package arcade

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"dinorun/x/arcade/keeper"
	"dinorun/x/arcade/simulation"
	"dinorun/x/arcade/types"
)

// AppModule binds the devnet ledger keeper to the application: genesis
// handling, CLI commands and simulation.
type AppModule struct {
	keeper keeper.Keeper
}

func NewAppModule(k keeper.Keeper) AppModule {
	return AppModule{keeper: k}
}

// Name returns the module's name.
func (AppModule) Name() string { return types.ModuleName }

// DefaultGenesis returns a default GenesisState for the module, marshalled to json.RawMessage.
func (AppModule) DefaultGenesis() json.RawMessage {
	bz, err := json.Marshal(types.DefaultGenesis())
	if err != nil {
		panic(err)
	}
	return bz
}

// ValidateGenesis used to validate the GenesisState, given in its json.RawMessage form.
func (AppModule) ValidateGenesis(bz json.RawMessage) error {
	var genState types.GenesisState
	if err := json.Unmarshal(bz, &genState); err != nil {
		return fmt.Errorf("failed to unmarshal %s genesis state: %w", types.ModuleName, err)
	}
	return genState.Validate()
}

// InitGenesis performs the module's genesis initialization.
func (am AppModule) InitGenesis(bz json.RawMessage) error {
	var genState types.GenesisState
	if err := json.Unmarshal(bz, &genState); err != nil {
		return fmt.Errorf("failed to unmarshal %s genesis state: %w", types.ModuleName, err)
	}
	return am.keeper.InitGenesis(genState)
}

// ExportGenesis returns the module's exported genesis state as raw JSON bytes.
func (am AppModule) ExportGenesis() (json.RawMessage, error) {
	genState, err := am.keeper.ExportGenesis()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(genState, "", "  ")
}

// GenerateGenesisState creates a randomized GenState of the module.
func (am AppModule) GenerateGenesisState(r *rand.Rand, players int) (json.RawMessage, error) {
	params, err := am.keeper.GetParams()
	if err != nil {
		return nil, err
	}
	genState := simulation.RandomizedGenState(r, simulation.RandomAccounts(r, players), params)
	return json.Marshal(genState)
}

// WeightedOperations returns all the arcade operations with their respective weights.
func (AppModule) WeightedOperations() []simulation.WeightedOperation {
	return simulation.WeightedOperations()
}

// Simulate runs n weighted random operations against the ledger.
func (am AppModule) Simulate(r *rand.Rand, accs []types.Address, n int) ([]simulation.OperationMsg, error) {
	return simulation.Simulate(r, keeper.NewMsgServerImpl(am.keeper), accs, am.WeightedOperations(), n)
}
