package main

import (
	"context"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/pfp/ledger"
	"github.com/MixinNetwork/pfp/nft"
)

// ReceiptWorker logs every committed transaction and the events it emitted.
type ReceiptWorker struct{}

func (rw *ReceiptWorker) ProcessReceipt(ctx context.Context, r *ledger.Receipt) {
	logger.Verbosef("block %d tx %s from %s trace %s\n", r.BlockNumber, r.TxHash.Hex(), r.From.Hex(), r.TraceId)
	for _, l := range r.Logs {
		switch l.Event {
		case nft.EventTransfer:
			e, err := nft.ParseTransfer(l)
			if err == nil {
				logger.Printf("%s Transfer %s => %s #%d\n", l.Address.Hex(), e.From.Hex(), e.To.Hex(), e.TokenId)
			}
		case nft.EventWithdraw:
			e, err := nft.ParseWithdraw(l)
			if err == nil {
				logger.Printf("%s Withdraw %s wei to %s\n", l.Address.Hex(), e.Amount, e.To.Hex())
			}
		case nft.EventCollectionCreated:
			e, err := nft.ParseCollectionCreated(l)
			if err == nil {
				logger.Printf("%s PFPCollectionCreated %s %s (%s) owner %s\n", l.Address.Hex(), e.Collection.Hex(), e.Name, e.Symbol, e.Owner.Hex())
			}
		default:
			logger.Verbosef("%s %s\n", l.Address.Hex(), l.Event)
		}
	}
}
