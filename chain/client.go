package chain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/prometheus/client_golang/prometheus"

	swap "github.com/taoline/taocli-go/pallets/swap"
)

// RpcNamespace is the namespace under which the node serves swap pallet views.
const RpcNamespace = "swap"

var (
	ErrPoolNotFound = errors.New("no pool for subnet")
)

// Config holds the configuration for the client.
type Config struct {
	URL      string
	Logger   Logger
	Registry prometheus.Registerer
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.URL == "" {
		return errors.New("config: URL is required")
	}
	if c.Logger == nil {
		return errors.New("config: Logger is required")
	}
	if c.Registry == nil {
		return errors.New("config: Registry is required")
	}
	return nil
}

// Client is a JSON-RPC client for the node's swap namespace. It performs
// one-shot queries only; the Watcher layers a subscription on top of it.
type Client struct {
	rpc     *rpc.Client
	logger  Logger
	metrics *Metrics
}

// Dial connects to the node. The connection is reused across queries and
// must be released with Close.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rpcClient, err := rpc.DialContext(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial node at %s: %w", cfg.URL, err)
	}

	return &Client{
		rpc:     rpcClient,
		logger:  cfg.Logger,
		metrics: NewMetrics(cfg.Registry),
	}, nil
}

func (c *Client) Close() {
	c.rpc.Close()
}

// PoolState fetches the current pool view for one subnet.
func (c *Client) PoolState(ctx context.Context, netuid uint16) (swap.PoolState, error) {
	var pool *swap.PoolState
	if err := c.rpc.CallContext(ctx, &pool, RpcNamespace+"_poolState", netuid); err != nil {
		return swap.PoolState{}, fmt.Errorf("swap_poolState(%d): %w", netuid, err)
	}
	if pool == nil {
		return swap.PoolState{}, fmt.Errorf("%w: %d", ErrPoolNotFound, netuid)
	}
	return *pool, nil
}

// Positions fetches the caller's position records on one subnet. The coldkey
// is the chain's SS58 account string; ownership filtering happens node-side.
func (c *Client) Positions(ctx context.Context, netuid uint16, coldkey string) ([]swap.PositionRecord, error) {
	var positions []swap.PositionRecord
	if err := c.rpc.CallContext(ctx, &positions, RpcNamespace+"_positions", netuid, coldkey); err != nil {
		return nil, fmt.Errorf("swap_positions(%d, %s): %w", netuid, coldkey, err)
	}
	return positions, nil
}

// TickRecords fetches the fee bookkeeping for a set of tick indices.
func (c *Client) TickRecords(ctx context.Context, netuid uint16, indices []int64) (map[int64]swap.TickRecord, error) {
	var records []swap.TickRecord
	if err := c.rpc.CallContext(ctx, &records, RpcNamespace+"_tickRecords", netuid, indices); err != nil {
		return nil, fmt.Errorf("swap_tickRecords(%d): %w", netuid, err)
	}

	out := make(map[int64]swap.TickRecord, len(records))
	for _, r := range records {
		out[r.Index] = r
	}
	return out, nil
}

// Snapshot fetches everything needed to evaluate the caller's positions on
// one subnet at a single point in time. Pool state and positions are
// independent queries and run concurrently; the tick records depend on which
// boundaries the positions use and follow in a second round.
func (c *Client) Snapshot(ctx context.Context, netuid uint16, coldkey string) (*PoolSnapshot, error) {
	timer := prometheus.NewTimer(c.metrics.snapshotDuration.WithLabelValues())
	defer timer.ObserveDuration()

	var (
		wg sync.WaitGroup

		pool      swap.PoolState
		positions []swap.PositionRecord
		poolErr   error
		posErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		pool, poolErr = c.PoolState(ctx, netuid)
	}()
	go func() {
		defer wg.Done()
		positions, posErr = c.Positions(ctx, netuid, coldkey)
	}()
	wg.Wait()

	if poolErr != nil {
		c.metrics.snapshotErrors.Inc()
		return nil, poolErr
	}
	if posErr != nil {
		c.metrics.snapshotErrors.Inc()
		return nil, posErr
	}

	ticks := map[int64]swap.TickRecord{}
	if indices := boundaryTicks(positions); len(indices) > 0 {
		var err error
		ticks, err = c.TickRecords(ctx, netuid, indices)
		if err != nil {
			c.metrics.snapshotErrors.Inc()
			return nil, err
		}
	}

	c.metrics.snapshotsTotal.Inc()
	c.logger.Debug("Pool snapshot fetched",
		"netuid", netuid,
		"positions", len(positions),
		"ticks", len(ticks),
	)

	return &PoolSnapshot{
		Netuid:          netuid,
		Pool:            pool,
		Ticks:           ticks,
		Positions:       positions,
		FetchedAtUnixNs: uint64(time.Now().UnixNano()),
	}, nil
}

// boundaryTicks collects the sorted distinct tick indices used as range
// boundaries by a set of positions.
func boundaryTicks(positions []swap.PositionRecord) []int64 {
	seen := make(map[int64]struct{}, 2*len(positions))
	for _, p := range positions {
		seen[p.TickLow] = struct{}{}
		seen[p.TickHigh] = struct{}{}
	}

	out := make([]int64, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
