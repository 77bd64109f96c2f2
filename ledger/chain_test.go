package ledger_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/MixinNetwork/pfp/ledger"
	"github.com/MixinNetwork/pfp/store"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testWorker struct {
	receipts []*ledger.Receipt
}

func (tw *testWorker) ProcessReceipt(ctx context.Context, r *ledger.Receipt) {
	tw.receipts = append(tw.receipts, r)
}

func testAccounts(t *testing.T, n int) []common.Address {
	var addrs []common.Address
	for i := 0; i < n; i++ {
		key, err := crypto.GenerateKey()
		require.Nil(t, err)
		addrs = append(addrs, crypto.PubkeyToAddress(key.PublicKey))
	}
	return addrs
}

func setupChain(t *testing.T, accounts ...common.Address) (*ledger.Chain, *store.BadgerStore) {
	ctx := context.Background()
	bs, err := store.OpenBadger(ctx, "")
	require.Nil(t, err)
	t.Cleanup(func() { bs.Close() })

	conf := &ledger.Configuration{ChainId: 31337}
	for _, a := range accounts {
		conf.Accounts = append(conf.Accounts, ledger.GenesisAccount{Address: a, Balance: "100"})
	}
	chain, err := ledger.BuildChain(ctx, bs, conf)
	require.Nil(t, err)
	return chain, bs
}

func ether(t *testing.T, s string) *big.Int {
	v, err := ledger.ParseEther(s)
	require.Nil(t, err)
	return v
}

func TestBuildChainGenesis(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	accounts := testAccounts(t, 2)
	chain, bs := setupChain(t, accounts...)

	for _, a := range accounts {
		balance, err := chain.BalanceAt(ctx, a)
		require.Nil(err)
		require.Equal(ether(t, "100"), balance)
	}
	require.Equal(int64(31337), chain.ChainId())
	genesis, err := chain.LatestBlock(ctx)
	require.Nil(err)
	require.Equal(uint64(0), genesis.Number)

	_, err = ledger.BuildChain(ctx, bs, &ledger.Configuration{
		ChainId:  31337,
		Accounts: []ledger.GenesisAccount{{Address: accounts[0], Balance: "100"}},
	})
	require.Nil(err)
	balance, err := chain.BalanceAt(ctx, accounts[0])
	require.Nil(err)
	require.Equal(ether(t, "100"), balance)

	_, err = ledger.BuildChain(ctx, bs, &ledger.Configuration{})
	require.NotNil(err)
}

func TestTransactMovesValue(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	accounts := testAccounts(t, 2)
	chain, _ := setupChain(t, accounts...)

	opts := &ledger.TransactOpts{From: accounts[0], Value: ether(t, "1.5")}
	r, err := chain.Transact(ctx, opts, accounts[1], nil)
	require.Nil(err)
	require.Equal(uint64(1), r.BlockNumber)
	require.Equal(uint64(0), r.Nonce)
	require.NotEmpty(r.TraceId)

	balance, err := chain.BalanceAt(ctx, accounts[0])
	require.Nil(err)
	require.Equal(ether(t, "98.5"), balance)
	balance, err = chain.BalanceAt(ctx, accounts[1])
	require.Nil(err)
	require.Equal(ether(t, "101.5"), balance)

	nonce, err := chain.NonceAt(ctx, accounts[0])
	require.Nil(err)
	require.Equal(uint64(1), nonce)

	stored, err := chain.ReadReceipt(ctx, r.TxHash)
	require.Nil(err)
	require.Equal(r.TraceId, stored.TraceId)
	stored, err = chain.ReadReceiptByTrace(ctx, r.TraceId)
	require.Nil(err)
	require.Equal(r.TxHash, stored.TxHash)

	block, err := chain.ReadBlock(ctx, 1)
	require.Nil(err)
	require.Equal(r.BlockHash, block.Hash)
	genesis, err := chain.ReadBlock(ctx, 0)
	require.Nil(err)
	require.Equal(genesis.Hash, block.ParentHash)
	require.True(block.Timestamp.After(genesis.Timestamp))
}

func TestTransactInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	accounts := testAccounts(t, 2)
	chain, _ := setupChain(t, accounts[0])

	opts := &ledger.TransactOpts{From: accounts[1], Value: ether(t, "1")}
	_, err := chain.Transact(ctx, opts, accounts[0], nil)
	assert.True(t, errors.Is(err, ledger.ErrInsufficientFunds))

	opts = &ledger.TransactOpts{From: accounts[0], Value: big.NewInt(-1)}
	_, err = chain.Transact(ctx, opts, accounts[1], nil)
	assert.NotNil(t, err)
}

func TestRevertDiscardsEverything(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	accounts := testAccounts(t, 1)
	chain, _ := setupChain(t, accounts...)
	worker := &testWorker{}
	chain.AddWorker(worker)

	addr, _, err := chain.Deploy(ctx, &ledger.TransactOpts{From: accounts[0]}, "Vault", nil)
	require.Nil(err)
	require.Len(worker.receipts, 1)

	opts := &ledger.TransactOpts{From: accounts[0], Value: ether(t, "3")}
	_, err = chain.Transact(ctx, opts, addr, func(env *ledger.Env) error {
		require.Nil(env.Storage().Set([]byte("k"), []byte("v")))
		require.Nil(env.Emit("Touched", "k"))
		balance, err := env.Balance(addr)
		require.Nil(err)
		require.Equal(ether(t, "3"), balance)
		return ledger.Revert("vault is closed")
	})
	reason, ok := ledger.RevertReason(err)
	require.True(ok)
	require.Equal("vault is closed", reason)
	require.Equal("execution reverted: vault is closed", err.Error())
	require.Len(worker.receipts, 1)

	balance, err := chain.BalanceAt(ctx, addr)
	require.Nil(err)
	require.Equal(0, balance.Sign())
	balance, err = chain.BalanceAt(ctx, accounts[0])
	require.Nil(err)
	require.Equal(ether(t, "100"), balance)
	nonce, err := chain.NonceAt(ctx, accounts[0])
	require.Nil(err)
	require.Equal(uint64(1), nonce)
	latest, err := chain.LatestBlock(ctx)
	require.Nil(err)
	require.Equal(uint64(1), latest.Number)

	err = chain.Call(ctx, nil, addr, func(env *ledger.Env) error {
		val, err := env.Storage().Get([]byte("k"))
		require.Nil(val)
		return err
	})
	require.Nil(err)
	logs, err := chain.FilterLogs(ctx, addr, "", 0)
	require.Nil(err)
	require.Len(logs, 0)
}

func TestDeployAndCall(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	accounts := testAccounts(t, 1)
	chain, _ := setupChain(t, accounts...)

	opts := &ledger.TransactOpts{From: accounts[0]}
	addr, r, err := chain.Deploy(ctx, opts, "Counter", func(env *ledger.Env) error {
		require.Equal(accounts[0], env.Sender)
		return env.Storage().Write([]byte("count"), uint64(7))
	})
	require.Nil(err)
	require.Equal(crypto.CreateAddress(accounts[0], 0), addr)
	require.Equal(addr, r.ContractAddress)

	code, err := chain.CodeAt(ctx, addr)
	require.Nil(err)
	require.Equal("Counter", code)

	var count uint64
	err = chain.Call(ctx, &ledger.CallOpts{From: accounts[0]}, addr, func(env *ledger.Env) error {
		found, err := env.Storage().Read([]byte("count"), &count)
		require.True(found)
		return err
	})
	require.Nil(err)
	require.Equal(uint64(7), count)

	err = chain.Call(ctx, nil, addr, func(env *ledger.Env) error {
		return env.Storage().Write([]byte("count"), uint64(8))
	})
	require.True(errors.Is(err, ledger.ErrWriteProtection))
	err = chain.Call(ctx, nil, addr, func(env *ledger.Env) error {
		return env.Emit("Counted", count)
	})
	require.True(errors.Is(err, ledger.ErrWriteProtection))

	second, _, err := chain.Deploy(ctx, opts, "Counter", nil)
	require.Nil(err)
	require.Equal(crypto.CreateAddress(accounts[0], 1), second)
}

func TestEnvCreate(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	accounts := testAccounts(t, 1)
	chain, _ := setupChain(t, accounts...)

	opts := &ledger.TransactOpts{From: accounts[0]}
	factory, _, err := chain.Deploy(ctx, opts, "Factory", nil)
	require.Nil(err)

	var children []common.Address
	for i := 0; i < 2; i++ {
		_, err = chain.Transact(ctx, opts, factory, func(env *ledger.Env) error {
			child, err := env.Create("Child", func(c *ledger.Env) error {
				require.Equal(factory, c.Sender)
				require.Equal(accounts[0], c.Origin)
				return c.Emit("Born", c.Self)
			})
			children = append(children, child)
			return err
		})
		require.Nil(err)
	}
	require.Equal(crypto.CreateAddress(factory, 1), children[0])
	require.Equal(crypto.CreateAddress(factory, 2), children[1])

	code, err := chain.CodeAt(ctx, children[1])
	require.Nil(err)
	require.Equal("Child", code)
	logs, err := chain.FilterLogs(ctx, children[0], "Born", 0)
	require.Nil(err)
	require.Len(logs, 1)
	var self common.Address
	require.Nil(logs[0].Decode(&self))
	require.Equal(children[0], self)
}

func TestTraceIdReplay(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	accounts := testAccounts(t, 2)
	chain, _ := setupChain(t, accounts...)
	worker := &testWorker{}
	chain.AddWorker(worker)

	opts := &ledger.TransactOpts{
		From:    accounts[0],
		Value:   ether(t, "1"),
		TraceId: "0a4e8d6a-4b4f-4e4c-9a52-4d5bd1b6c1f0",
	}
	first, err := chain.Transact(ctx, opts, accounts[1], nil)
	require.Nil(err)
	second, err := chain.Transact(ctx, opts, accounts[1], nil)
	require.Nil(err)
	require.Equal(first.TxHash, second.TxHash)
	require.Len(worker.receipts, 1)

	balance, err := chain.BalanceAt(ctx, accounts[1])
	require.Nil(err)
	require.Equal(ether(t, "101"), balance)

	other := &ledger.TransactOpts{From: accounts[1], Value: ether(t, "1"), TraceId: opts.TraceId}
	_, err = chain.Transact(ctx, other, accounts[0], nil)
	require.True(errors.Is(err, ledger.ErrTraceIdConflict))
	other = &ledger.TransactOpts{From: accounts[0], Value: ether(t, "2"), TraceId: opts.TraceId}
	_, err = chain.Transact(ctx, other, accounts[1], nil)
	require.True(errors.Is(err, ledger.ErrTraceIdConflict))
	other = &ledger.TransactOpts{From: accounts[0], Value: ether(t, "1"), TraceId: opts.TraceId}
	_, err = chain.Transact(ctx, other, accounts[0], nil)
	require.True(errors.Is(err, ledger.ErrTraceIdConflict))
	_, _, err = chain.Deploy(ctx, other, "Emitter", nil)
	require.True(errors.Is(err, ledger.ErrTraceIdConflict))
	require.Len(worker.receipts, 1)

	balance, err = chain.BalanceAt(ctx, accounts[0])
	require.Nil(err)
	require.Equal(ether(t, "99"), balance)

	opts.TraceId = "not-a-uuid"
	_, err = chain.Transact(ctx, opts, accounts[1], nil)
	require.NotNil(err)
}

func TestFilterLogs(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	accounts := testAccounts(t, 1)
	chain, _ := setupChain(t, accounts...)

	opts := &ledger.TransactOpts{From: accounts[0]}
	addr, _, err := chain.Deploy(ctx, opts, "Emitter", nil)
	require.Nil(err)
	for i := 0; i < 3; i++ {
		r, err := chain.Transact(ctx, opts, addr, func(env *ledger.Env) error {
			err := env.Emit("Ping", uint64(i))
			if err != nil {
				return err
			}
			return env.Emit("Pong", uint64(i))
		})
		require.Nil(err)
		require.Len(r.Logs, 2)
		require.Equal(uint(1), r.Logs[1].Index)
	}

	logs, err := chain.FilterLogs(ctx, addr, "Ping", 0)
	require.Nil(err)
	require.Len(logs, 3)
	for i, l := range logs {
		var n uint64
		require.Nil(l.Decode(&n))
		require.Equal(uint64(i), n)
	}

	logs, err = chain.FilterLogs(ctx, addr, "", 3)
	require.Nil(err)
	require.Len(logs, 4)
	require.Equal("Ping", logs[0].Event)
	require.Equal("Pong", logs[1].Event)
}

func TestTransferFromContract(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	accounts := testAccounts(t, 2)
	chain, _ := setupChain(t, accounts...)

	opts := &ledger.TransactOpts{From: accounts[0], Value: ether(t, "2")}
	addr, _, err := chain.Deploy(ctx, opts, "Vault", nil)
	require.Nil(err)

	_, err = chain.Transact(ctx, &ledger.TransactOpts{From: accounts[1]}, addr, func(env *ledger.Env) error {
		return env.Transfer(env.Sender, ether(t, "3"))
	})
	require.True(errors.Is(err, ledger.ErrInsufficientFunds))

	_, err = chain.Transact(ctx, &ledger.TransactOpts{From: accounts[1]}, addr, func(env *ledger.Env) error {
		return env.Transfer(env.Sender, ether(t, "0.5"))
	})
	require.Nil(err)
	balance, err := chain.BalanceAt(ctx, accounts[1])
	require.Nil(err)
	require.Equal(ether(t, "100.5"), balance)
	balance, err = chain.BalanceAt(ctx, addr)
	require.Nil(err)
	require.Equal(ether(t, "1.5"), balance)
}

func TestClockMonotonic(t *testing.T) {
	bs, err := store.OpenBadger(context.Background(), "")
	require.Nil(t, err)
	defer bs.Close()

	clock, err := ledger.NewClock(bs)
	require.Nil(t, err)
	prev := clock.Now()
	for i := 0; i < 100; i++ {
		now := clock.Now()
		require.True(t, now.After(prev))
		prev = now
	}

	reopened, err := ledger.NewClock(bs)
	require.Nil(t, err)
	require.True(t, reopened.Now().After(prev))
}
