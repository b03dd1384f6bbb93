// Package config is the unified configuration facade (C6): one tagged
// Options value per mechanism, dispatched to a concrete
// mechanisms.Mechanism implementation.
package config

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rivalapexmediation/auctionengine/internal/mechanisms"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// Options is the tagged-variant mechanism configuration. Only the
// per-mechanism fields of the mechanism selected by Tag are read.
type Options struct {
	Tag mechanisms.Tag

	ReservePrice decimal.Decimal
	TieBreaking  types.TieBreakingPolicy
	MaxQuantity  int
	StartTime    types.Timestamp
	EndTime      types.Timestamp

	MaxWinners int // first_price, second_price, candle

	RefundRate decimal.Decimal // all_pay

	PriceRule mechanisms.PriceRule // double

	StartingPrice    decimal.Decimal // dutch, english, japanese, penny
	Decrement        decimal.Decimal // dutch
	FloorPrice       decimal.Decimal // dutch
	TickDuration     time.Duration   // dutch, japanese
	Increment        decimal.Decimal // english, japanese
	InactiveDuration time.Duration   // english, penny
	MinActiveBidders int             // japanese

	MinDuration time.Duration // candle
	MaxDuration time.Duration // candle

	BidIncrement decimal.Decimal // penny
	BidCost      decimal.Decimal // penny

	Items       []string                    // combinatorial
	PaymentRule mechanisms.PaymentRule      // combinatorial
	Solver      mechanisms.SetPackingSolver // combinatorial
}

// Core extracts the shared CoreConfig fields from Options, for callers
// (e.g. the controller) that need the mechanism's core config alongside
// the built Mechanism.
func (o Options) Core() mechanisms.CoreConfig { return o.core() }

func (o Options) core() mechanisms.CoreConfig {
	return mechanisms.CoreConfig{
		ReservePrice: o.ReservePrice,
		TieBreaking:  o.TieBreaking,
		MaxQuantity:  o.MaxQuantity,
		StartTime:    o.StartTime,
		EndTime:      o.EndTime,
	}
}

// Build dispatches Options to the mechanisms.Mechanism implementation
// selected by Options.Tag.
func Build(o Options) (mechanisms.Mechanism, error) {
	switch o.Tag {
	case mechanisms.TagFirstPrice:
		return mechanisms.NewFirstPrice(mechanisms.FirstPriceConfig{Core: o.core(), MaxWinners: o.MaxWinners}), nil
	case mechanisms.TagSecondPrice:
		return mechanisms.NewSecondPrice(mechanisms.SecondPriceConfig{Core: o.core(), MaxWinners: o.MaxWinners}), nil
	case mechanisms.TagAllPay:
		return mechanisms.NewAllPay(mechanisms.AllPayConfig{Core: o.core(), RefundRate: o.RefundRate}), nil
	case mechanisms.TagDouble:
		return mechanisms.NewDouble(mechanisms.DoubleConfig{Core: o.core(), PriceRule: o.PriceRule}), nil
	case mechanisms.TagCombinatorial:
		return mechanisms.NewCombinatorial(mechanisms.CombinatorialConfig{
			Core: o.core(), Items: o.Items, PaymentRule: o.PaymentRule, Solver: o.Solver,
		}), nil
	case mechanisms.TagDutch:
		return mechanisms.NewDutch(mechanisms.DutchConfig{
			Core: o.core(), StartingPrice: o.StartingPrice, Decrement: o.Decrement,
			FloorPrice: o.FloorPrice, TickDuration: o.TickDuration,
		}), nil
	case mechanisms.TagEnglish:
		return mechanisms.NewEnglish(mechanisms.EnglishConfig{
			Core: o.core(), StartingPrice: o.StartingPrice, Increment: o.Increment,
			InactiveDuration: o.InactiveDuration,
		}), nil
	case mechanisms.TagJapanese:
		return mechanisms.NewJapanese(mechanisms.JapaneseConfig{
			Core: o.core(), StartingPrice: o.StartingPrice, Increment: o.Increment,
			TickDuration: o.TickDuration, MinActiveBidders: o.MinActiveBidders,
		}), nil
	case mechanisms.TagCandle:
		return mechanisms.NewCandle(mechanisms.CandleConfig{
			Core: o.core(), MinDuration: o.MinDuration, MaxDuration: o.MaxDuration, MaxWinners: o.MaxWinners,
		}), nil
	case mechanisms.TagPenny:
		return mechanisms.NewPenny(mechanisms.PennyConfig{
			Core: o.core(), StartingPrice: o.StartingPrice, BidIncrement: o.BidIncrement,
			BidCost: o.BidCost, InactiveDuration: o.InactiveDuration,
		}), nil
	default:
		return nil, types.ErrUnknownMechanism
	}
}
