package ledger

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/MixinNetwork/mixin/logger"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

type Chain struct {
	store   Store
	clock   *Clock
	workers []Worker
	mutex   sync.Mutex
	chainId int64
}

func BuildChain(ctx context.Context, store Store, conf *Configuration) (*Chain, error) {
	if conf.ChainId <= 0 {
		return nil, fmt.Errorf("invalid chain id %d", conf.ChainId)
	}
	clock, err := NewClock(store)
	if err != nil {
		return nil, err
	}
	chain := &Chain{
		store:   store,
		clock:   clock,
		chainId: conf.ChainId,
	}

	ts := clock.Now()
	err = store.Update(func(txn Txn) error {
		latest, err := readLatestBlock(txn)
		if err != nil || latest != nil {
			return err
		}
		genesis := genesisBlock(conf.ChainId, ts)
		for _, ga := range conf.Accounts {
			amount, err := ParseEther(ga.Balance)
			if err != nil {
				return fmt.Errorf("invalid genesis balance %s: %w", ga.Balance, err)
			}
			acc, err := readAccount(txn, ga.Address)
			if err != nil {
				return err
			}
			b := acc.balance()
			acc.setBalance(b.Add(b, amount))
			err = writeAccount(txn, ga.Address, acc)
			if err != nil {
				return err
			}
		}
		logger.Printf("ledger genesis %d %s with %d accounts\n", conf.ChainId, genesis.Hash.Hex(), len(conf.Accounts))
		return writeBlock(txn, genesis)
	})
	if err != nil {
		return nil, err
	}
	return chain, nil
}

func (c *Chain) ChainId() int64 {
	return c.chainId
}

func (c *Chain) AddWorker(wkr Worker) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.workers = append(c.workers, wkr)
}

func (c *Chain) BalanceAt(ctx context.Context, addr ethcommon.Address) (*big.Int, error) {
	var balance *big.Int
	err := c.store.View(func(txn Txn) error {
		acc, err := readAccount(txn, addr)
		if err != nil {
			return err
		}
		balance = acc.balance()
		return nil
	})
	return balance, err
}

func (c *Chain) NonceAt(ctx context.Context, addr ethcommon.Address) (uint64, error) {
	var nonce uint64
	err := c.store.View(func(txn Txn) error {
		acc, err := readAccount(txn, addr)
		if err != nil {
			return err
		}
		nonce = acc.Nonce
		return nil
	})
	return nonce, err
}

func (c *Chain) CodeAt(ctx context.Context, addr ethcommon.Address) (string, error) {
	var code string
	err := c.store.View(func(txn Txn) error {
		acc, err := readAccount(txn, addr)
		if err != nil {
			return err
		}
		code = acc.Code
		return nil
	})
	return code, err
}

func (c *Chain) LatestBlock(ctx context.Context) (*Block, error) {
	var b *Block
	err := c.store.View(func(txn Txn) error {
		var err error
		b, err = readLatestBlock(txn)
		return err
	})
	return b, err
}

func (c *Chain) ReadBlock(ctx context.Context, number uint64) (*Block, error) {
	var b *Block
	err := c.store.View(func(txn Txn) error {
		var err error
		b, err = readBlock(txn, number)
		return err
	})
	return b, err
}

func (c *Chain) ReadReceipt(ctx context.Context, hash ethcommon.Hash) (*Receipt, error) {
	var r *Receipt
	err := c.store.View(func(txn Txn) error {
		var err error
		r, err = readReceipt(txn, hash)
		return err
	})
	return r, err
}

func (c *Chain) ReadReceiptByTrace(ctx context.Context, traceId string) (*Receipt, error) {
	var r *Receipt
	err := c.store.View(func(txn Txn) error {
		var err error
		r, err = readReceiptByTrace(txn, traceId)
		return err
	})
	return r, err
}

func (c *Chain) notifyWorkers(ctx context.Context, workers []Worker, r *Receipt) {
	for _, wkr := range workers {
		wkr.ProcessReceipt(ctx, r)
	}
}
