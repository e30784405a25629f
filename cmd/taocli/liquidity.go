package main

import (
	"fmt"
	"math"
	"math/big"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taoline/taocli-go/chain"
	swap "github.com/taoline/taocli-go/pallets/swap"
	"github.com/taoline/taocli-go/pallets/swap/calculator/liquiditymath"
	"github.com/taoline/taocli-go/pallets/swap/calculator/tickmath"
	"github.com/taoline/taocli-go/pallets/swap/indexer"
	"github.com/taoline/taocli-go/wallet"
)

func newLiquidityCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liquidity",
		Short: "Inspect and plan concentrated-liquidity positions",
	}
	cmd.AddCommand(
		newLiquidityListCommand(a),
		newLiquidityFeesCommand(a),
		newLiquidityAddCommand(a),
	)
	return cmd
}

func newLiquidityListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your positions with current token split and pending fees",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := fetchSnapshot(a, cmd)
			if err != nil {
				return err
			}

			header(fmt.Sprintf("Positions on subnet %d", snapshot.Netuid))
			currentPrice := snapshot.Pool.CurrentPrice()
			fmt.Printf("%sCurrent price: %.9f TAO / alpha (tick %d)%s\n\n",
				Gray, currentPrice, snapshot.Pool.CurrentTick, Reset)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tRANGE\tSTATUS\tLIQUIDITY\tTAO\tALPHA\tFEES TAO\tFEES ALPHA")

			for _, record := range snapshot.Positions {
				pos, err := swap.NewPosition(record)
				if err != nil {
					a.logger.Warn("Skipping malformed position", "id", record.ID, "error", err)
					continue
				}

				alphaRao, taoRao, err := pos.TokenAmounts(currentPrice)
				if err != nil {
					return fmt.Errorf("position %d: %w", record.ID, err)
				}

				fees, err := accruedFees(snapshot, pos)
				if err != nil {
					return err
				}
				if fees.TaoUnderflow || fees.AlphaUnderflow {
					a.logger.Warn("Fee counter underflow clamped to zero", "id", record.ID)
				}

				fmt.Fprintf(w, "%d\t%.6f – %.6f\t%s\t%s\t%s\t%s\t%s\t%s\n",
					record.ID,
					pos.PriceLow(), pos.PriceHigh(),
					rangeStatus(currentPrice, pos),
					record.Liquidity.String(),
					swap.TaoFromRao(taoRao).StringFixed(9),
					swap.TaoFromRao(alphaRao).StringFixed(9),
					swap.TaoFromRao(fees.Tao).StringFixed(9),
					swap.TaoFromRao(fees.Alpha).StringFixed(9),
				)
			}
			return w.Flush()
		},
	}
}

func newLiquidityFeesCommand(a *app) *cobra.Command {
	var positionID uint64

	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Show the pending fees of a single position",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := fetchSnapshot(a, cmd)
			if err != nil {
				return err
			}

			record, ok := indexer.NewIndexedPositions(snapshot.Positions).GetByID(positionID)
			if !ok {
				return fmt.Errorf("position %d not found on subnet %d", positionID, snapshot.Netuid)
			}

			pos, err := swap.NewPosition(record)
			if err != nil {
				return err
			}
			fees, err := accruedFees(snapshot, pos)
			if err != nil {
				return err
			}

			header(fmt.Sprintf("Pending fees for position %d", positionID))
			fmt.Printf("  TAO:   %s%s%s\n", Green, swap.TaoFromRao(fees.Tao).StringFixed(9), Reset)
			fmt.Printf("  alpha: %s%s%s\n", Green, swap.TaoFromRao(fees.Alpha).StringFixed(9), Reset)
			if fees.TaoUnderflow || fees.AlphaUnderflow {
				fmt.Println(Yellow + "  warning: a fee counter underflowed and was clamped to zero" + Reset)
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&positionID, "id", 0, "Position ID.")
	cmd.MarkFlagRequired("id")
	return cmd
}

func newLiquidityAddCommand(a *app) *cobra.Command {
	var (
		priceLow  float64
		priceHigh float64
		taoIn     float64
		alphaIn   float64
		hotkey    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Plan a liquidity deposit over a price range (dry run)",
		Long: "Snaps the requested range to ticks, derives the largest liquidity the\n" +
			"given balances can fund at the current price, and prints the extrinsic\n" +
			"parameters it would submit. Submission requires an external signer.",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := fetchSnapshot(a, cmd)
			if err != nil {
				return err
			}
			currentPrice := snapshot.Pool.CurrentPrice()

			tickLow, err := tickmath.PriceToTick(priceLow)
			if err != nil {
				return fmt.Errorf("price-low %v: %w", priceLow, err)
			}
			tickHigh, err := tickmath.PriceToTick(priceHigh)
			if err != nil {
				return fmt.Errorf("price-high %v: %w", priceHigh, err)
			}
			snappedLow, _ := tickmath.TickToPrice(tickLow)
			snappedHigh, _ := tickmath.TickToPrice(tickHigh)

			taoRao := taoIn * swap.RaoPerTao
			alphaRao := alphaIn * swap.RaoPerTao

			var (
				liquidity float64
				taoReq    float64
				alphaReq  float64
			)
			switch {
			case currentPrice <= snappedLow:
				liquidity, err = liquiditymath.ForAlpha(alphaRao, snappedLow, snappedHigh, currentPrice)
				if err != nil {
					return err
				}
				alphaReq = alphaRao
			case currentPrice >= snappedHigh:
				liquidity, err = liquiditymath.ForTao(taoRao, snappedLow, snappedHigh, currentPrice)
				if err != nil {
					return err
				}
				taoReq = taoRao
			default:
				result, err := liquiditymath.MaxLiquidity(taoRao, alphaRao, snappedLow, snappedHigh, currentPrice)
				if err != nil {
					return err
				}
				liquidity = result.Liquidity
				taoReq = result.TaoRequired
				alphaReq = result.AlphaRequired
			}

			params := wallet.AddLiquidityParams{
				Netuid:   snapshot.Netuid,
				Hotkey:   hotkey,
				TickLow:  tickLow,
				TickHigh: tickHigh,
				TaoMax:   big.NewInt(int64(math.Ceil(taoReq))),
				AlphaMax: big.NewInt(int64(math.Ceil(alphaReq))),
			}

			header("Deposit plan")
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Range\t%.6f – %.6f (ticks %d – %d)\n", snappedLow, snappedHigh, tickLow, tickHigh)
			fmt.Fprintf(w, "Current price\t%.9f\n", currentPrice)
			fmt.Fprintf(w, "Liquidity\t%.0f\n", liquidity)
			fmt.Fprintf(w, "TAO required\t%s\n", swap.TaoFromRao(params.TaoMax).StringFixed(9))
			fmt.Fprintf(w, "Alpha required\t%s\n", swap.TaoFromRao(params.AlphaMax).StringFixed(9))
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Println(Gray + "\nDry run only: pass these parameters to your wallet's submitter to mint." + Reset)
			return nil
		},
	}

	cmd.Flags().Float64Var(&priceLow, "price-low", 0, "Lower bound of the range, in TAO per alpha.")
	cmd.Flags().Float64Var(&priceHigh, "price-high", 0, "Upper bound of the range, in TAO per alpha.")
	cmd.Flags().Float64Var(&taoIn, "tao", 0, "TAO balance available for the deposit.")
	cmd.Flags().Float64Var(&alphaIn, "alpha", 0, "Alpha balance available for the deposit.")
	cmd.Flags().StringVar(&hotkey, "hotkey", "", "Hotkey the position is attributed to.")
	cmd.MarkFlagRequired("price-low")
	cmd.MarkFlagRequired("price-high")
	return cmd
}

// fetchSnapshot dials the node and fetches one pool snapshot for the
// configured subnet and coldkey.
func fetchSnapshot(a *app, cmd *cobra.Command) (*chain.PoolSnapshot, error) {
	ctx := cmd.Context()

	client, err := chain.Dial(ctx, chain.Config{
		URL:      a.cfg.Endpoint,
		Logger:   a.logger,
		Registry: a.registry,
	})
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return client.Snapshot(ctx, a.cfg.Netuid, a.cfg.Coldkey)
}

// accruedFees resolves a position's boundary tick records from the snapshot
// and computes its pending fees.
func accruedFees(snapshot *chain.PoolSnapshot, pos *swap.Position) (swap.Fees, error) {
	record := pos.Record()

	low, ok := snapshot.TickAt(record.TickLow)
	if !ok {
		return swap.Fees{}, fmt.Errorf("snapshot missing tick record %d", record.TickLow)
	}
	high, ok := snapshot.TickAt(record.TickHigh)
	if !ok {
		return swap.Fees{}, fmt.Errorf("snapshot missing tick record %d", record.TickHigh)
	}

	return pos.AccruedFees(
		snapshot.Pool.CurrentTick,
		low, high,
		snapshot.Pool.FeeGlobalTao, snapshot.Pool.FeeGlobalAlpha,
	)
}

// rangeStatus labels where the current price sits relative to a position.
func rangeStatus(currentPrice float64, pos *swap.Position) string {
	switch {
	case currentPrice < pos.PriceLow():
		return Yellow + "below" + Reset
	case currentPrice > pos.PriceHigh():
		return Yellow + "above" + Reset
	default:
		return Green + "in range" + Reset
	}
}
