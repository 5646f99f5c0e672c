package types

// Event names used for structured logs and metrics labels.
const (
	EventPaymentInitiated = "arcade.payment_initiated"
	EventPaymentConfirmed = "arcade.payment_confirmed"
	EventPaymentFailed    = "arcade.payment_failed"
	EventNetworkSwitch    = "arcade.network_switch_requested"
	EventGameStarted      = "arcade.game_started"
	EventGameOver         = "arcade.game_over"
	EventHighScore        = "arcade.high_score"
	EventScoreSubmitted   = "arcade.score_submitted"
	EventLedgerRefreshed  = "arcade.ledger_refreshed"
	EventCreditsInserted  = "arcade.credits_inserted"
	EventNameResolved     = "arcade.name_resolved"
)

const (
	AttrBundleID = "bundle_id"
	AttrPlayer   = "player"
	AttrScore    = "score"
	AttrRound    = "round"
	AttrChainID  = "chain_id"
	AttrPhase    = "phase"
	AttrFee      = "fee"
	AttrSource   = "source"
	AttrCredits  = "credits"
)
