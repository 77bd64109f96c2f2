package ledger

import (
	"fmt"
	"math/big"

	"github.com/MixinNetwork/mixin/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

const prefixAccountPayload = "LEDGER:ACCOUNT:"

type Account struct {
	Nonce   uint64
	Balance string
	Code    string
}

func (a *Account) balance() *big.Int {
	b, ok := new(big.Int).SetString(a.Balance, 10)
	if !ok {
		return new(big.Int)
	}
	return b
}

func (a *Account) setBalance(b *big.Int) {
	if b.Sign() < 0 {
		panic(b.String())
	}
	a.Balance = b.String()
}

func readAccount(txn Txn, addr ethcommon.Address) (*Account, error) {
	val, err := txn.Get(append([]byte(prefixAccountPayload), addr[:]...))
	if err != nil {
		return nil, err
	}
	if val == nil {
		return &Account{Balance: "0"}, nil
	}
	var acc Account
	err = common.MsgpackUnmarshal(val, &acc)
	return &acc, err
}

func writeAccount(txn Txn, addr ethcommon.Address, acc *Account) error {
	key := append([]byte(prefixAccountPayload), addr[:]...)
	return txn.Set(key, common.MsgpackMarshalPanic(acc))
}

func transfer(txn Txn, from, to ethcommon.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return fmt.Errorf("invalid transfer amount %s", amount)
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}
	src, err := readAccount(txn, from)
	if err != nil {
		return err
	}
	sb := src.balance()
	if sb.Cmp(amount) < 0 {
		return fmt.Errorf("%w: address %s have %s want %s", ErrInsufficientFunds, from.Hex(), sb, amount)
	}
	src.setBalance(sb.Sub(sb, amount))
	err = writeAccount(txn, from, src)
	if err != nil {
		return err
	}

	dst, err := readAccount(txn, to)
	if err != nil {
		return err
	}
	db := dst.balance()
	dst.setBalance(db.Add(db, amount))
	return writeAccount(txn, to, dst)
}
