package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	auctionengine "github.com/rivalapexmediation/auctionengine"
	"github.com/rivalapexmediation/auctionengine/internal/config"
	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/mechanisms"
	"github.com/rivalapexmediation/auctionengine/internal/telemetry"
)

type runFlags struct {
	mechanism     string
	reservePrice  string
	maxWinners    int
	startingPrice string
	increment     string
	decrement     string
	floorPrice    string
	tickDuration  time.Duration
	minActive     int
	bidCost       string
	inactiveFor   time.Duration
	bids          []string
	finalizeWait  time.Duration
}

func runAuctionCmd() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create one auction, submit a batch of bids, and finalize it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuction(f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.mechanism, "mechanism", "", "mechanism tag (first_price, second_price, dutch, english, japanese, candle, penny, all_pay, double, combinatorial)")
	flags.StringVar(&f.reservePrice, "reserve-price", "0", "reserve price")
	flags.IntVar(&f.maxWinners, "max-winners", 1, "max winners (first_price, second_price, candle)")
	flags.StringVar(&f.startingPrice, "starting-price", "0", "starting price (dutch, english, japanese, penny)")
	flags.StringVar(&f.increment, "increment", "0", "price increment (english, japanese, penny)")
	flags.StringVar(&f.decrement, "decrement", "0", "price decrement (dutch)")
	flags.StringVar(&f.floorPrice, "floor-price", "0", "floor price (dutch)")
	flags.DurationVar(&f.tickDuration, "tick-duration", time.Second, "tick duration (dutch, japanese)")
	flags.IntVar(&f.minActive, "min-active-bidders", 1, "minimum active bidders (japanese)")
	flags.StringVar(&f.bidCost, "bid-cost", "0", "bid cost (penny)")
	flags.DurationVar(&f.inactiveFor, "inactive-duration", time.Second, "inactivity timeout (english, penny)")
	flags.StringArrayVar(&f.bids, "bid", nil, "amount[:quantity] bid, repeatable; each bid comes from a distinct synthetic bidder")
	flags.DurationVar(&f.finalizeWait, "finalize-timeout", 10*time.Second, "finalize_auction poll deadline")

	return cmd
}

func runAuction(f *runFlags) error {
	telemetry.ConfigureLogging()
	telemetry.InstallTracer()

	opts, err := buildOptions(f)
	if err != nil {
		return validationErrorf("%v", err)
	}

	e := auctionengine.New(1, time.Minute, 600)
	defer e.Shutdown()

	created := e.CreateAuction(opts, nil)
	if !created.Success {
		return validationErrorf("create_auction: %s", created.Error)
	}

	for _, spec := range f.bids {
		bidderID, amount, quantity, err := parseBidSpec(spec)
		if err != nil {
			return validationErrorf("%v", err)
		}
		result := e.SubmitBid(created.AuctionID, bidderID, amount, quantity, nil)
		if !result.Success {
			return runtimeErrorf("submit_bid: %s", result.Message)
		}
	}

	result := e.FinalizeAuction(created.AuctionID, f.finalizeWait)
	if !result.Success {
		if strings.Contains(result.Error, "timeout") {
			return timeoutErrorf("finalize_auction: %s", result.Error)
		}
		return runtimeErrorf("finalize_auction: %s", result.Error)
	}

	return printResult(created.AuctionID, result)
}

func buildOptions(f *runFlags) (config.Options, error) {
	tag := mechanisms.Tag(f.mechanism)
	reserve, err := decimal.NewFromString(f.reservePrice)
	if err != nil {
		return config.Options{}, fmt.Errorf("invalid reserve-price: %w", err)
	}
	startingPrice, err := decimal.NewFromString(f.startingPrice)
	if err != nil {
		return config.Options{}, fmt.Errorf("invalid starting-price: %w", err)
	}
	increment, err := decimal.NewFromString(f.increment)
	if err != nil {
		return config.Options{}, fmt.Errorf("invalid increment: %w", err)
	}
	decrement, err := decimal.NewFromString(f.decrement)
	if err != nil {
		return config.Options{}, fmt.Errorf("invalid decrement: %w", err)
	}
	floorPrice, err := decimal.NewFromString(f.floorPrice)
	if err != nil {
		return config.Options{}, fmt.Errorf("invalid floor-price: %w", err)
	}
	bidCost, err := decimal.NewFromString(f.bidCost)
	if err != nil {
		return config.Options{}, fmt.Errorf("invalid bid-cost: %w", err)
	}

	return config.Options{
		Tag:              tag,
		ReservePrice:     reserve,
		MaxWinners:       f.maxWinners,
		StartingPrice:    startingPrice,
		Increment:        increment,
		Decrement:        decrement,
		FloorPrice:       floorPrice,
		TickDuration:     f.tickDuration,
		MinActiveBidders: f.minActive,
		BidCost:          bidCost,
		BidIncrement:     increment,
		InactiveDuration: f.inactiveFor,
	}, nil
}

func parseBidSpec(spec string) (ids.Identifier, decimal.Decimal, int, error) {
	parts := strings.SplitN(spec, ":", 2)
	amount, err := decimal.NewFromString(parts[0])
	if err != nil {
		return ids.Nil, decimal.Zero, 0, fmt.Errorf("invalid bid amount %q: %w", parts[0], err)
	}
	quantity := 1
	if len(parts) == 2 {
		quantity, err = strconv.Atoi(parts[1])
		if err != nil {
			return ids.Nil, decimal.Zero, 0, fmt.Errorf("invalid bid quantity %q: %w", parts[1], err)
		}
	}
	return ids.New(), amount, quantity, nil
}

func printResult(auctionID ids.Identifier, result auctionengine.FinalizeAuctionResult) error {
	payments := make(map[string]string, len(result.Payments))
	for bidder, amount := range result.Payments {
		payments[bidder.String()] = amount.String()
	}
	winners := make([]string, len(result.Winners))
	for i, w := range result.Winners {
		winners[i] = w.String()
	}

	out, err := json.MarshalIndent(map[string]any{
		"success":        result.Success,
		"auction_id":     auctionID.String(),
		"clearing_price": result.ClearingPrice.String(),
		"winners":        winners,
		"payments":       payments,
	}, "", "  ")
	if err != nil {
		return runtimeErrorf("encode result: %v", err)
	}
	fmt.Println(string(out))
	return nil
}
