package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/mixin/logger"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fox-one/mixin-sdk-go"
	"github.com/gofrs/uuid"
)

const (
	prefixReceiptPayload = "LEDGER:RECEIPT:PAYLOAD:"
	prefixReceiptTrace   = "LEDGER:RECEIPT:TRACE:"
)

type TransactOpts struct {
	From    ethcommon.Address
	Value   *big.Int
	TraceId string
}

type CallOpts struct {
	From ethcommon.Address
}

type Receipt struct {
	TxHash          ethcommon.Hash
	TraceId         string
	BlockNumber     uint64
	BlockHash       ethcommon.Hash
	From            ethcommon.Address
	To              ethcommon.Address
	ContractAddress ethcommon.Address
	Nonce           uint64
	Value           string
	Logs            []*Log
}

// Transact executes fn against the contract at to, moving opts.Value from
// the sender first. Nothing is persisted unless fn returns nil.
func (c *Chain) Transact(ctx context.Context, opts *TransactOpts, to ethcommon.Address, fn func(*Env) error) (*Receipt, error) {
	return c.execute(ctx, opts, &to, "", fn)
}

// Deploy creates a contract account with the given code kind at the
// address derived from the sender and its nonce, then runs fn as the
// constructor.
func (c *Chain) Deploy(ctx context.Context, opts *TransactOpts, code string, fn func(*Env) error) (ethcommon.Address, *Receipt, error) {
	if code == "" {
		return ethcommon.Address{}, nil, fmt.Errorf("empty contract code")
	}
	r, err := c.execute(ctx, opts, nil, code, fn)
	if err != nil {
		return ethcommon.Address{}, nil, err
	}
	return r.ContractAddress, r, nil
}

// Call runs fn against the latest state without persisting anything,
// any attempt to write fails with ErrWriteProtection.
func (c *Chain) Call(ctx context.Context, opts *CallOpts, to ethcommon.Address, fn func(*Env) error) error {
	if opts == nil {
		opts = &CallOpts{}
	}
	return c.store.View(func(txn Txn) error {
		latest, err := readLatestBlock(txn)
		if err != nil {
			return err
		}
		env := &Env{
			Sender: opts.From,
			Origin: opts.From,
			Self:   to,
			Value:  new(big.Int),
			Block: &Block{
				Number:     latest.Number + 1,
				ParentHash: latest.Hash,
				Timestamp:  latest.Timestamp,
			},
			txn:      txn,
			logs:     new([]*Log),
			readonly: true,
		}
		return fn(env)
	})
}

func (c *Chain) execute(ctx context.Context, opts *TransactOpts, to *ethcommon.Address, code string, fn func(*Env) error) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value := new(big.Int)
	if opts.Value != nil {
		value.Set(opts.Value)
	}
	if value.Sign() < 0 {
		return nil, fmt.Errorf("invalid value %s", value)
	}

	c.mutex.Lock()
	ts := c.clock.Now()
	var receipt *Receipt
	var replayed bool
	err := c.store.Update(func(txn Txn) error {
		sender, err := readAccount(txn, opts.From)
		if err != nil {
			return err
		}
		traceId := opts.TraceId
		if traceId == "" {
			traceId = mixin.UniqueConversationID(opts.From.Hex(), fmt.Sprint(sender.Nonce))
		}
		if id, _ := uuid.FromString(traceId); id == uuid.Nil {
			return fmt.Errorf("invalid trace id %s", traceId)
		}
		old, err := readReceiptByTrace(txn, traceId)
		if err != nil {
			return err
		} else if old != nil {
			if !old.matches(opts.From, to, value) {
				return fmt.Errorf("%w: %s already used by %s", ErrTraceIdConflict, traceId, old.From.Hex())
			}
			receipt, replayed = old, true
			return nil
		}

		parent, err := readLatestBlock(txn)
		if err != nil {
			return err
		}
		block := &Block{
			Number:     parent.Number + 1,
			ParentHash: parent.Hash,
			Timestamp:  ts,
		}

		var target, created ethcommon.Address
		if to == nil {
			target = crypto.CreateAddress(opts.From, sender.Nonce)
			created = target
			err = createAccount(txn, target, code)
			if err != nil {
				return err
			}
		} else {
			target = *to
		}

		err = transfer(txn, opts.From, target, value)
		if err != nil {
			return err
		}
		logs := make([]*Log, 0)
		if fn != nil {
			env := &Env{
				Sender: opts.From,
				Origin: opts.From,
				Self:   target,
				Value:  new(big.Int).Set(value),
				Block:  block,
				txn:    txn,
				logs:   &logs,
			}
			err = fn(env)
			if err != nil {
				return err
			}
		}

		sender, err = readAccount(txn, opts.From)
		if err != nil {
			return err
		}
		nonce := sender.Nonce
		sender.Nonce += 1
		err = writeAccount(txn, opts.From, sender)
		if err != nil {
			return err
		}

		block.TxHash = crypto.Keccak256Hash(opts.From[:], uint64Bytes(nonce), target[:], value.Bytes(), []byte(traceId))
		block.Hash = block.computeHash()
		err = writeBlock(txn, block)
		if err != nil {
			return err
		}

		for i, l := range logs {
			l.BlockNumber = block.Number
			l.TxHash = block.TxHash
			l.Index = uint(i)
			err = writeLog(txn, l)
			if err != nil {
				return err
			}
		}

		receipt = &Receipt{
			TxHash:          block.TxHash,
			TraceId:         traceId,
			BlockNumber:     block.Number,
			BlockHash:       block.Hash,
			From:            opts.From,
			ContractAddress: created,
			Nonce:           nonce,
			Value:           value.String(),
			Logs:            logs,
		}
		if to != nil {
			receipt.To = *to
		}
		return writeReceipt(txn, receipt)
	})
	workers := c.workers
	c.mutex.Unlock()
	if err != nil {
		logger.Verbosef("ledger.execute(%s) => %v\n", opts.From.Hex(), err)
		return nil, err
	}

	if !replayed {
		c.notifyWorkers(ctx, workers, receipt)
	}
	return receipt, nil
}

// matches reports whether a new submission under the same trace id is
// the transaction this receipt records, only then it may be replayed.
func (r *Receipt) matches(from ethcommon.Address, to *ethcommon.Address, value *big.Int) bool {
	if r.From != from || r.Value != value.String() {
		return false
	}
	if to == nil {
		return r.ContractAddress != (ethcommon.Address{})
	}
	return r.ContractAddress == (ethcommon.Address{}) && r.To == *to
}

func readReceipt(txn Txn, hash ethcommon.Hash) (*Receipt, error) {
	val, err := txn.Get(append([]byte(prefixReceiptPayload), hash[:]...))
	if err != nil || val == nil {
		return nil, err
	}
	var r Receipt
	err = common.MsgpackUnmarshal(val, &r)
	return &r, err
}

func readReceiptByTrace(txn Txn, traceId string) (*Receipt, error) {
	val, err := txn.Get([]byte(prefixReceiptTrace + traceId))
	if err != nil || val == nil {
		return nil, err
	}
	return readReceipt(txn, ethcommon.BytesToHash(val))
}

func writeReceipt(txn Txn, r *Receipt) error {
	key := append([]byte(prefixReceiptPayload), r.TxHash[:]...)
	err := txn.Set(key, common.MsgpackMarshalPanic(r))
	if err != nil {
		return err
	}
	return txn.Set([]byte(prefixReceiptTrace+r.TraceId), r.TxHash[:])
}
