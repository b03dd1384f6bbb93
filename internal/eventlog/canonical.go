package eventlog

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

// canonicalWriter builds a deterministic, byte-stable encoding: every
// variable-length field is length-prefixed so two different field
// sequences can never collide on the same byte stream.
type canonicalWriter struct {
	buf bytes.Buffer
}

func (w *canonicalWriter) str(s string) {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(s)))
	w.buf.Write(lenBuf[:])
	w.buf.WriteString(s)
}

func (w *canonicalWriter) i64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
}

func (w *canonicalWriter) id(id ids.Identifier) { w.str(id.String()) }
func (w *canonicalWriter) ts(t types.Timestamp) { w.i64(t.Time().UnixNano()) }

func (w *canonicalWriter) metadata(m types.Metadata) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w.i64(int64(len(keys)))
	for _, k := range keys {
		w.str(k)
		w.str(fmt.Sprintf("%v", m[k]))
	}
}

func (w *canonicalWriter) bid(b types.Bid) {
	w.id(b.ID)
	w.id(b.BidderID)
	w.str(b.Amount.String())
	w.i64(int64(b.Quantity))
	w.ts(b.Timestamp)
	w.metadata(b.Metadata)
}

func (w *canonicalWriter) result(r types.AuctionResult) {
	w.id(r.AuctionID)
	w.str(r.ClearingPrice.String())
	w.i64(int64(len(r.Winners)))
	for _, winner := range r.Winners {
		w.id(winner)
	}
	allocKeys := make([]ids.Identifier, 0, len(r.Allocations))
	for k := range r.Allocations {
		allocKeys = append(allocKeys, k)
	}
	sort.Slice(allocKeys, func(i, j int) bool { return allocKeys[i].String() < allocKeys[j].String() })
	w.i64(int64(len(allocKeys)))
	for _, k := range allocKeys {
		w.id(k)
		w.str(r.Allocations[k].Quantity.String())
	}
	payKeys := make([]ids.Identifier, 0, len(r.Payments))
	for k := range r.Payments {
		payKeys = append(payKeys, k)
	}
	sort.Slice(payKeys, func(i, j int) bool { return payKeys[i].String() < payKeys[j].String() })
	w.i64(int64(len(payKeys)))
	for _, k := range payKeys {
		w.id(k)
		w.str(r.Payments[k].String())
	}
	w.ts(r.Timestamp)
	w.metadata(r.Metadata)
}

// canonicalBytes encodes auction_id || timestamp || event in a fixed
// field order, per §4.1's canonical serialization contract. It fails
// only if the event is of an unrecognized concrete type (an internal
// invariant violation — every constructor in package types produces a
// recognized case).
func canonicalBytes(auctionID ids.Identifier, ts types.Timestamp, event types.Event) ([]byte, error) {
	w := &canonicalWriter{}
	w.id(auctionID)
	w.ts(ts)
	w.str(string(event.Kind()))

	switch e := event.(type) {
	case types.BidSubmittedEvent:
		w.bid(e.Bid)
	case types.BidRejectedEvent:
		w.id(e.BidderID)
		w.str(e.Amount.String())
		w.str(e.Reason)
	case types.AuctionStartedEvent:
		w.str(e.TypeTag)
	case types.AuctionFinalizedEvent:
		w.result(e.Result)
	case types.AuctionCancelledEvent:
		w.str(e.Reason)
	default:
		return nil, types.ErrSerialization
	}

	return w.buf.Bytes(), nil
}
