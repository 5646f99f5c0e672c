package types

const (
	// ModuleName defines the module name
	ModuleName = "arcade"

	// StoreKey defines the devnet ledger store name
	StoreKey = ModuleName

	// GameName is the display name of the arcade title
	GameName = "Dino Run"
)

var (
	// ParamsKey holds the JSON encoded Params of a devnet ledger.
	ParamsKey = KeyPrefix("params")
	// PlayerCreditsKeyPrefix stores paid rounds not yet redeemed by a score.
	PlayerCreditsKeyPrefix = KeyPrefix("credits/")
	// PersonalBestKeyPrefix stores the top-3 scores per player.
	PersonalBestKeyPrefix = KeyPrefix("personal_best/")
	// GlobalTopKey stores the raw global top-10 table.
	GlobalTopKey = KeyPrefix("global_top10")
	// NameKeyPrefix stores reverse name records.
	NameKeyPrefix = KeyPrefix("name/")
	// BundleKeyPrefix stores wallet call bundles.
	BundleKeyPrefix = KeyPrefix("bundle/")
)

// KeyPrefix returns a key prefix from a string
func KeyPrefix(p string) []byte { return []byte(p) }

// PlayerKey builds a store key scoped by a case-folded player address.
func PlayerKey(prefix []byte, player Address) []byte {
	return append(append([]byte{}, prefix...), player.Key()...)
}
