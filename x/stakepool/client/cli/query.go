package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zukitata03/staking-contract/x/stakepool/keeper"
	"github.com/Zukitata03/staking-contract/x/stakepool/types"
)

// GetQueryCmd returns the read-only commands of the module.
func GetQueryCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      fmt.Sprintf("Querying commands for the %s module", types.ModuleName),
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(CmdQueryPool(open))
	cmd.AddCommand(CmdQueryParticipant(open))
	cmd.AddCommand(CmdQueryInvariants(open))

	return cmd
}

// CmdQueryPool creates a CLI query for the pool summary.
func CmdQueryPool(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Show pool totals, emission rate and the projected exchange rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, open, false, func(s Session) (any, error) {
				return s.Keeper().QueryPool(s.Context())
			})
		},
	}

	addTimeFlag(cmd)

	return cmd
}

// CmdQueryParticipant creates a CLI query for one participant.
func CmdQueryParticipant(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "participant [address]",
		Short: "Show a participant's stake, snapshot and claimable rewards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, open, false, func(s Session) (any, error) {
				return s.Keeper().QueryParticipant(s.Context(), args[0])
			})
		},
	}

	addTimeFlag(cmd)

	return cmd
}

type invariantReport struct {
	Broken  bool   `json:"broken"`
	Message string `json:"message,omitempty"`
}

// CmdQueryInvariants creates a CLI command that checks every ledger invariant.
func CmdQueryInvariants(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invariants",
		Short: "Check the total-locked sum and balance invariants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, open, false, func(s Session) (any, error) {
				msg, broken := keeper.AllInvariants(s.Keeper())(s.Context())
				if broken {
					return invariantReport{Broken: true, Message: msg}, fmt.Errorf("invariant broken: %s", msg)
				}
				return invariantReport{}, nil
			})
		},
	}

	addTimeFlag(cmd)

	return cmd
}
