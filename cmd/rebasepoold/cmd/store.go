package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"cosmossdk.io/log"
	storemetrics "cosmossdk.io/store/metrics"
	"cosmossdk.io/store/rootmulti"
	storetypes "cosmossdk.io/store/types"
	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	"github.com/spf13/cobra"

	crisiskeeper "github.com/Zukitata03/staking-contract/x/crisis/keeper"
	crisistypes "github.com/Zukitata03/staking-contract/x/crisis/types"
	"github.com/Zukitata03/staking-contract/x/stakepool"
	"github.com/Zukitata03/staking-contract/x/stakepool/client/cli"
	"github.com/Zukitata03/staking-contract/x/stakepool/keeper"
	"github.com/Zukitata03/staking-contract/x/stakepool/types"
)

const dbName = "stakepool"

// PayoutLedger is the bank collaborator used by the standalone daemon. It
// does not move funds itself: every authorized payout is logged as a
// transfer instruction for the operator and kept for the result output.
type PayoutLedger struct {
	logger log.Logger

	mu      sync.Mutex
	payouts []Payout
}

// Payout is one authorized reward transfer.
type Payout struct {
	Recipient string    `json:"recipient"`
	Amount    sdk.Coins `json:"amount"`
}

// NewPayoutLedger returns an empty ledger writing to logger.
func NewPayoutLedger(logger log.Logger) *PayoutLedger {
	return &PayoutLedger{logger: logger}
}

// SendCoinsFromModuleToAccount records the transfer instruction.
func (l *PayoutLedger) SendCoinsFromModuleToAccount(_ context.Context, senderModule string, recipient sdk.AccAddress, amt sdk.Coins) error {
	if !amt.IsValid() || amt.IsZero() {
		return fmt.Errorf("invalid payout amount %q", amt.String())
	}
	l.mu.Lock()
	l.payouts = append(l.payouts, Payout{Recipient: recipient.String(), Amount: amt})
	l.mu.Unlock()

	l.logger.Info("reward payout authorized",
		"from_module", senderModule,
		"recipient", recipient.String(),
		"amount", amt.String(),
	)
	return nil
}

// Payouts returns the transfers recorded so far.
func (l *PayoutLedger) Payouts() []Payout {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Payout, len(l.payouts))
	copy(out, l.payouts)
	return out
}

// storeSession is a cli.Session backed by a rootmulti store over cosmos-db.
// Each committed session becomes one store version, like one block.
type storeSession struct {
	db        dbm.DB
	cms       *rootmulti.Store
	ctx       sdk.Context
	keeper    keeper.Keeper
	crisis    crisiskeeper.Keeper
	authority string
	logger    log.Logger
}

var _ cli.Session = (*storeSession)(nil)

func (s *storeSession) Context() sdk.Context  { return s.ctx }
func (s *storeSession) Keeper() keeper.Keeper { return s.keeper }

func (s *storeSession) Close(commit bool) error {
	var commitErr error
	if commit {
		commitErr = s.commit()
	}
	if err := s.db.Close(); err != nil && commitErr == nil {
		commitErr = fmt.Errorf("close database: %w", err)
	}
	return commitErr
}

func (s *storeSession) commit() (err error) {
	// rootmulti panics on backend write failures.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: commit: %v", types.ErrStorageFailure, r)
		}
	}()
	id := s.cms.Commit()
	s.logger.Debug("committed pool state", "version", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return nil
}

// openSession opens the pool database of cfg at blockTime. A zero blockTime
// means the wall clock.
func openSession(cfg AppConfig, logger log.Logger, blockTime time.Time) (*storeSession, error) {
	if blockTime.IsZero() {
		blockTime = time.Now().UTC()
	}

	if cfg.DBBackend != string(dbm.MemDBBackend) {
		if err := os.MkdirAll(cfg.DataDir(), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := dbm.NewDB(dbName, dbm.BackendType(cfg.DBBackend), cfg.DataDir())
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %s", types.ErrStorageFailure, err)
	}

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	crisisKey := storetypes.NewKVStoreKey(crisistypes.StoreKey)
	cms := rootmulti.NewStore(db, logger, storemetrics.NoOpMetrics{})
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	cms.MountStoreWithDB(crisisKey, storetypes.StoreTypeIAVL, nil)
	if err := cms.LoadLatestVersion(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: load store: %s", types.ErrStorageFailure, err)
	}

	header := tmproto.Header{
		ChainID: cfg.ChainID,
		Height:  cms.LastCommitID().Version + 1,
		Time:    blockTime,
	}
	ctx := sdk.NewContext(cms, header, false, logger)

	reg := codectypes.NewInterfaceRegistry()
	std.RegisterInterfaces(reg)
	cdc := codec.NewProtoCodec(reg)

	authority := sdk.AccAddress(address.Module(types.ModuleName)).String()
	k := keeper.NewKeeper(
		cdc,
		runtime.NewKVStoreService(storeKey),
		NewPayoutLedger(logger),
		authority,
	)
	crisis := crisiskeeper.NewKeeper(runtime.NewKVStoreService(crisisKey), authority)
	stakepool.NewAppModule(k).RegisterInvariants(crisis)
	k.SetCircuitBreaker(crisis)

	return &storeSession{
		db:        db,
		cms:       cms,
		ctx:       ctx,
		keeper:    k,
		crisis:    crisis,
		authority: authority,
		logger:    logger,
	}, nil
}

// openCmdSession loads the command's config and opens its store.
func openCmdSession(cmd *cobra.Command, blockTime time.Time) (*storeSession, error) {
	cfg, err := loadAppConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	return openSession(cfg, logger, blockTime)
}

// sessionOpener adapts openCmdSession to the module's cli.Opener.
func sessionOpener() cli.Opener {
	return func(cmd *cobra.Command, blockTime time.Time) (cli.Session, error) {
		return openCmdSession(cmd, blockTime)
	}
}
