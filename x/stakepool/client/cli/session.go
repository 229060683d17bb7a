package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/Zukitata03/staking-contract/x/stakepool/keeper"
)

const (
	// FlagTime sets the block time of the operation (unix seconds or RFC3339).
	FlagTime = "time"
)

// Session is one opened view of the pool store at a fixed block time.
type Session interface {
	Context() sdk.Context
	Keeper() keeper.Keeper
	// Close releases the store, committing writes when commit is true.
	Close(commit bool) error
}

// Opener opens a Session for a command. A zero blockTime means "now".
type Opener func(cmd *cobra.Command, blockTime time.Time) (Session, error)

// ParseBlockTime accepts unix seconds or any layout spf13/cast understands.
func ParseBlockTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	t, err := cast.ToTimeE(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: %w", FlagTime, raw, err)
	}
	return t.UTC(), nil
}

// ParseAmount parses a single coin such as 100uorai.
func ParseAmount(raw string) (sdk.Coin, error) {
	coin, err := sdk.ParseCoinNormalized(strings.TrimSpace(raw))
	if err != nil {
		return sdk.Coin{}, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return coin, nil
}

func addTimeFlag(cmd *cobra.Command) {
	cmd.Flags().String(FlagTime, "", "Block time of the operation (unix seconds or RFC3339, default now)")
}

func blockTimeFromFlags(cmd *cobra.Command) (time.Time, error) {
	raw, err := cmd.Flags().GetString(FlagTime)
	if err != nil {
		return time.Time{}, err
	}
	return ParseBlockTime(raw)
}

// withSession runs fn inside a session and commits only when fn succeeds.
func withSession(cmd *cobra.Command, open Opener, commit bool, fn func(s Session) (any, error)) error {
	at, err := blockTimeFromFlags(cmd)
	if err != nil {
		return err
	}
	s, err := open(cmd, at)
	if err != nil {
		return err
	}

	out, runErr := fn(s)
	if closeErr := s.Close(commit && runErr == nil); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	if runErr != nil {
		return runErr
	}
	return printJSON(cmd, out)
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}
