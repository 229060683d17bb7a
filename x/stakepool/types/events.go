package types

const (
	EventTypeStake    = "stakepool_stake"
	EventTypeWithdraw = "stakepool_withdraw"
	EventTypeClaim    = "stakepool_claim"

	AttributeKeyParticipant  = "participant"
	AttributeKeyAmount       = "amount"
	AttributeKeySettled      = "settled"
	AttributeKeyTotalLocked  = "total_locked"
	AttributeKeyExchangeRate = "global_exchange_rate"
)
