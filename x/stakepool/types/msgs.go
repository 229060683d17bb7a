package types

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgStake locks Amount into the pool on behalf of Participant.
type MsgStake struct {
	Participant string   `json:"participant"`
	Amount      sdk.Coin `json:"amount"`
}

// MsgWithdraw releases Amount of the participant's stake.
type MsgWithdraw struct {
	Participant string   `json:"participant"`
	Amount      sdk.Coin `json:"amount"`
}

// MsgClaim pays out the participant's settled rewards.
type MsgClaim struct {
	Participant string `json:"participant"`
}

func (m MsgStake) ValidateBasic() error {
	if _, err := CanonicalAddress(m.Participant); err != nil {
		return err
	}
	return validatePositiveCoin(m.Amount)
}

func (m MsgWithdraw) ValidateBasic() error {
	if _, err := CanonicalAddress(m.Participant); err != nil {
		return err
	}
	return validatePositiveCoin(m.Amount)
}

func (m MsgClaim) ValidateBasic() error {
	_, err := CanonicalAddress(m.Participant)
	return err
}

func validatePositiveCoin(coin sdk.Coin) error {
	if coin.Amount.IsNil() {
		return errorsmod.Wrap(ErrInvalidAmount, "amount is required")
	}
	if err := coin.Validate(); err != nil {
		return errorsmod.Wrap(ErrInvalidAmount, err.Error())
	}
	if !coin.IsPositive() {
		return errorsmod.Wrapf(ErrInvalidAmount, "amount must be positive, got %s", coin)
	}
	return nil
}

// CanonicalAddress turns a raw bech32 account address into the canonical
// key under which the participant's ledger entry is stored.
func CanonicalAddress(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errorsmod.Wrap(ErrInvalidAddress, "participant address cannot be empty")
	}
	addr, err := sdk.AccAddressFromBech32(raw)
	if err != nil {
		return "", errorsmod.Wrapf(ErrInvalidAddress, "%s: %s", raw, err)
	}
	return addr.String(), nil
}
