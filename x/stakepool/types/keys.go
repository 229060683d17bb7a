package types

const (
	// ModuleName is the staking pool module namespace. It doubles as the
	// module account that pays out claimed rewards.
	ModuleName = "stakepool"

	// StoreKey is the module KV store key.
	StoreKey = ModuleName

	// RouterKey is the message routing key.
	RouterKey = ModuleName
)

var (
	// PoolStateKey stores the single pool accounting record.
	PoolStateKey = []byte{0x01}

	// ParamsKey stores the reward budget and emission period.
	ParamsKey = []byte{0x02}

	// ParticipantKeyPrefix stores one ledger entry per canonical participant address.
	ParticipantKeyPrefix = []byte{0x03}
)
