package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taoline/taocli-go/chain"
)

func newPriceCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "price",
		Short: "Show the current pool price of a subnet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := chain.Dial(ctx, chain.Config{
				URL:      a.cfg.Endpoint,
				Logger:   a.logger,
				Registry: a.registry,
			})
			if err != nil {
				return err
			}
			defer client.Close()

			pool, err := client.PoolState(ctx, a.cfg.Netuid)
			if err != nil {
				return err
			}

			header(fmt.Sprintf("Subnet %d pool", pool.Netuid))
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Price\t%.9f TAO / alpha\n", pool.CurrentPrice())
			fmt.Fprintf(w, "Sqrt price\t%s\n", pool.SqrtPrice.String())
			fmt.Fprintf(w, "Current tick\t%d\n", pool.CurrentTick)
			fmt.Fprintf(w, "Liquidity\t%s\n", pool.Liquidity.String())
			fmt.Fprintf(w, "Fee global TAO\t%s\n", pool.FeeGlobalTao.String())
			fmt.Fprintf(w, "Fee global alpha\t%s\n", pool.FeeGlobalAlpha.String())
			return w.Flush()
		},
	}
}

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream per-block pool snapshots until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			watcher, err := chain.NewWatcher(ctx, chain.WatcherConfig{
				URL:        a.cfg.Endpoint,
				Netuid:     a.cfg.Netuid,
				Coldkey:    a.cfg.Coldkey,
				Logger:     a.logger,
				Registry:   a.registry,
				BufferSize: 16,
			})
			if err != nil {
				return err
			}

			header(fmt.Sprintf("Watching subnet %d", a.cfg.Netuid))
			for {
				select {
				case snapshot, ok := <-watcher.State():
					if !ok {
						return nil
					}
					fmt.Printf("%stick %6d%s  price %.9f  positions %d\n",
						Gray, snapshot.Pool.CurrentTick, Reset,
						snapshot.Pool.CurrentPrice(), len(snapshot.Positions))

				case err := <-watcher.Err():
					if err != nil {
						return err
					}
					return nil

				case <-ctx.Done():
					return nil
				}
			}
		},
	}
}
