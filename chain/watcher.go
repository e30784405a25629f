package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/prometheus/client_golang/prometheus"
)

// Constants for reconnection logic.
const (
	initialReconnectDelay = 1 * time.Second
	maxReconnectDelay     = 30 * time.Second

	// HeadsNamespace is the namespace of the node's new-head subscription.
	HeadsNamespace          = "chain"
	HeadsSubscriptionMethod = "subscribeNewHeads"
)

// WatcherConfig holds the configuration for a Watcher.
type WatcherConfig struct {
	URL        string
	Netuid     uint16
	Coldkey    string
	Logger     Logger
	Registry   prometheus.Registerer
	BufferSize uint
}

func (c *WatcherConfig) validate() error {
	if c.URL == "" {
		return errors.New("config: URL is required")
	}
	if c.BufferSize < 1 {
		return errors.New("config: BufferSize must be greater than 0")
	}
	if c.Logger == nil {
		return errors.New("config: Logger is required")
	}
	if c.Registry == nil {
		return errors.New("config: Registry is required")
	}
	return nil
}

// Watcher subscribes to new heads and re-fetches the pool snapshot once per
// block, pushing results on State. Delivery is best-effort: if the consumer
// is slow, snapshots are dropped rather than buffered without bound.
type Watcher struct {
	cfg     WatcherConfig
	stateCh chan *PoolSnapshot
	errCh   chan error
	logger  Logger
	metrics *Metrics
}

// NewWatcher starts a watcher bound to the given context. It remains active,
// reconnecting with exponential backoff, until the context is cancelled.
func NewWatcher(ctx context.Context, cfg WatcherConfig) (*Watcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	w := &Watcher{
		cfg:     cfg,
		stateCh: make(chan *PoolSnapshot, cfg.BufferSize),
		errCh:   make(chan error, 1),
		logger:  cfg.Logger,
		metrics: NewMetrics(cfg.Registry),
	}

	go w.run(ctx)
	return w, nil
}

// State returns a read-only channel of per-block pool snapshots.
func (w *Watcher) State() <-chan *PoolSnapshot {
	return w.stateCh
}

// Err returns a read-only channel for fatal (unrecoverable) errors.
func (w *Watcher) Err() <-chan error {
	return w.errCh
}

// run handles the connection lifecycle: dial, subscribe, process, reconnect.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.errCh)
	defer close(w.stateCh)
	reconnectDelay := initialReconnectDelay

	for {
		if ctx.Err() != nil {
			w.logger.Info("Watcher context canceled, shutting down.")
			return
		}

		w.logger.Info("Connecting to node", "url", w.cfg.URL)
		rpcClient, err := rpc.DialContext(ctx, w.cfg.URL)
		if err != nil {
			w.logger.Error("Failed to connect, will retry...", "error", err, "delay", reconnectDelay)
			sleepCtx(ctx, reconnectDelay)
			reconnectDelay = min(reconnectDelay*2, maxReconnectDelay)
			continue
		}

		w.logger.Info("Connected to node.")
		reconnectDelay = initialReconnectDelay

		err = w.subscribeAndProcess(ctx, rpcClient)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				w.logger.Info("Context canceled, shutting down.")
				return
			}
			w.logger.Error("Subscription failed, will reconnect...", "error", err, "delay", reconnectDelay)
			sleepCtx(ctx, reconnectDelay)
			reconnectDelay = min(reconnectDelay*2, maxReconnectDelay)
		}
	}
}

func (w *Watcher) subscribeAndProcess(ctx context.Context, rpcClient *rpc.Client) error {
	defer rpcClient.Close()

	client := &Client{
		rpc:     rpcClient,
		logger:  w.logger,
		metrics: w.metrics,
	}

	headCh := make(chan BlockHeader)
	sub, err := rpcClient.Subscribe(ctx, HeadsNamespace, headCh, HeadsSubscriptionMethod)
	if err != nil {
		return fmt.Errorf("failed to subscribe to new heads: %w", err)
	}
	defer sub.Unsubscribe()

	w.logger.Info("Subscribed to new heads. Waiting for blocks...")
	for {
		select {
		case head := <-headCh:
			snapshot, err := client.Snapshot(ctx, w.cfg.Netuid, w.cfg.Coldkey)
			if err != nil {
				w.logger.Error("Failed to fetch snapshot", "block", head.Number, "error", err)
				continue
			}

			select {
			case w.stateCh <- snapshot:
			case <-ctx.Done():
				return ctx.Err()
			default:
				w.metrics.droppedSnapshots.Inc()
				w.logger.Warn("Snapshot buffer full, discarding...", "block", head.Number)
			}

		case err := <-sub.Err():
			return err

		case <-ctx.Done():
			w.logger.Info("Context cancelled, stopping subscription.")
			return ctx.Err()
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
