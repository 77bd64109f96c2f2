package nft

import (
	"fmt"

	"github.com/MixinNetwork/pfp/ledger"
	"github.com/ethereum/go-ethereum/common"
)

const (
	EventTransfer             = "Transfer"
	EventWithdraw             = "Withdraw"
	EventCollectionCreated    = "PFPCollectionCreated"
	EventOwnershipTransferred = "OwnershipTransferred"
)

type TransferEvent struct {
	From    common.Address
	To      common.Address
	TokenId uint64
}

type WithdrawEvent struct {
	To     common.Address
	Amount string
}

type CollectionCreatedEvent struct {
	Collection common.Address
	Owner      common.Address
	Name       string
	Symbol     string
}

type OwnershipTransferredEvent struct {
	PreviousOwner common.Address
	NewOwner      common.Address
}

func ParseTransfer(l *ledger.Log) (*TransferEvent, error) {
	var e TransferEvent
	return &e, parseEvent(l, EventTransfer, &e)
}

func ParseWithdraw(l *ledger.Log) (*WithdrawEvent, error) {
	var e WithdrawEvent
	return &e, parseEvent(l, EventWithdraw, &e)
}

func ParseCollectionCreated(l *ledger.Log) (*CollectionCreatedEvent, error) {
	var e CollectionCreatedEvent
	return &e, parseEvent(l, EventCollectionCreated, &e)
}

func ParseOwnershipTransferred(l *ledger.Log) (*OwnershipTransferredEvent, error) {
	var e OwnershipTransferredEvent
	return &e, parseEvent(l, EventOwnershipTransferred, &e)
}

func parseEvent(l *ledger.Log, name string, v interface{}) error {
	if l.Event != name {
		return fmt.Errorf("event signature mismatch %s %s", l.Event, name)
	}
	return l.Decode(v)
}

// FindEvent returns the first log of the receipt emitted by address with
// the given event name.
func FindEvent(r *ledger.Receipt, address common.Address, name string) *ledger.Log {
	for _, l := range r.Logs {
		if l.Address == address && l.Event == name {
			return l
		}
	}
	return nil
}
