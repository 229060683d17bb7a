package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zukitata03/staking-contract/x/stakepool/types"
)

// GetTxCmd returns the mutating commands of the module.
func GetTxCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "tx",
		Short:                      fmt.Sprintf("%s transactions subcommands", types.ModuleName),
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(CmdStake(open))
	cmd.AddCommand(CmdWithdraw(open))
	cmd.AddCommand(CmdClaim(open))

	return cmd
}

// CmdStake creates a CLI command that locks stake for a participant.
func CmdStake(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stake [participant] [amount]",
		Short: "Stake an amount of the pool denom for a participant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := ParseAmount(args[1])
			if err != nil {
				return err
			}
			msg := types.MsgStake{Participant: args[0], Amount: amount}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return withSession(cmd, open, true, func(s Session) (any, error) {
				return s.Keeper().Stake(s.Context(), msg)
			})
		},
	}

	addTimeFlag(cmd)

	return cmd
}

// CmdWithdraw creates a CLI command that releases part of a participant's stake.
func CmdWithdraw(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [participant] [amount]",
		Short: "Withdraw staked funds for a participant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := ParseAmount(args[1])
			if err != nil {
				return err
			}
			msg := types.MsgWithdraw{Participant: args[0], Amount: amount}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return withSession(cmd, open, true, func(s Session) (any, error) {
				return s.Keeper().Withdraw(s.Context(), msg)
			})
		},
	}

	addTimeFlag(cmd)

	return cmd
}

// CmdClaim creates a CLI command that pays out a participant's rewards.
func CmdClaim(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claim [participant]",
		Short: "Claim all settled rewards of a participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := types.MsgClaim{Participant: args[0]}
			if err := msg.ValidateBasic(); err != nil {
				return err
			}
			return withSession(cmd, open, true, func(s Session) (any, error) {
				return s.Keeper().Claim(s.Context(), msg)
			})
		},
	}

	addTimeFlag(cmd)

	return cmd
}
