package ledger

import (
	"math/big"

	"github.com/MixinNetwork/mixin/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const prefixContractStorage = "CONTRACT:STORAGE:"

// Env is the execution environment handed to contract code, it is only
// valid for the duration of a single Transact, Deploy or Call.
type Env struct {
	Sender ethcommon.Address
	Origin ethcommon.Address
	Self   ethcommon.Address
	Value  *big.Int
	Block  *Block

	txn      Txn
	logs     *[]*Log
	readonly bool
}

func (env *Env) Storage() *Storage {
	prefix := append([]byte(prefixContractStorage), env.Self[:]...)
	return &Storage{txn: env.txn, prefix: prefix, readonly: env.readonly}
}

func (env *Env) Code(addr ethcommon.Address) (string, error) {
	acc, err := readAccount(env.txn, addr)
	if err != nil {
		return "", err
	}
	return acc.Code, nil
}

func (env *Env) Balance(addr ethcommon.Address) (*big.Int, error) {
	acc, err := readAccount(env.txn, addr)
	if err != nil {
		return nil, err
	}
	return acc.balance(), nil
}

// Transfer moves native value held by the executing contract.
func (env *Env) Transfer(to ethcommon.Address, amount *big.Int) error {
	if env.readonly {
		return ErrWriteProtection
	}
	return transfer(env.txn, env.Self, to, amount)
}

func (env *Env) Emit(event string, payload interface{}) error {
	if env.readonly {
		return ErrWriteProtection
	}
	*env.logs = append(*env.logs, &Log{
		Address: env.Self,
		Event:   event,
		Data:    common.MsgpackMarshalPanic(payload),
	})
	return nil
}

// Create deploys a contract from the executing contract, the new address
// is derived from the creator address and its nonce.
func (env *Env) Create(code string, fn func(*Env) error) (ethcommon.Address, error) {
	if env.readonly {
		return ethcommon.Address{}, ErrWriteProtection
	}
	self, err := readAccount(env.txn, env.Self)
	if err != nil {
		return ethcommon.Address{}, err
	}
	addr := crypto.CreateAddress(env.Self, self.Nonce)
	self.Nonce += 1
	err = writeAccount(env.txn, env.Self, self)
	if err != nil {
		return ethcommon.Address{}, err
	}
	err = createAccount(env.txn, addr, code)
	if err != nil {
		return ethcommon.Address{}, err
	}

	child := &Env{
		Sender: env.Self,
		Origin: env.Origin,
		Self:   addr,
		Value:  new(big.Int),
		Block:  env.Block,
		txn:    env.txn,
		logs:   env.logs,
	}
	return addr, fn(child)
}

func createAccount(txn Txn, addr ethcommon.Address, code string) error {
	acc, err := readAccount(txn, addr)
	if err != nil {
		return err
	}
	if acc.Code != "" || acc.Nonce != 0 {
		return ErrContractCollision
	}
	acc.Code = code
	acc.Nonce = 1
	return writeAccount(txn, addr, acc)
}

// Storage is the key value space private to one contract address.
type Storage struct {
	txn      Txn
	prefix   []byte
	readonly bool
}

func (s *Storage) key(k []byte) []byte {
	key := make([]byte, 0, len(s.prefix)+len(k))
	key = append(key, s.prefix...)
	return append(key, k...)
}

func (s *Storage) Get(key []byte) ([]byte, error) {
	return s.txn.Get(s.key(key))
}

func (s *Storage) Set(key, val []byte) error {
	if s.readonly {
		return ErrWriteProtection
	}
	return s.txn.Set(s.key(key), val)
}

// Read decodes the msgpack value under key into v and reports whether
// the key was present.
func (s *Storage) Read(key []byte, v interface{}) (bool, error) {
	val, err := s.Get(key)
	if err != nil || val == nil {
		return false, err
	}
	return true, common.MsgpackUnmarshal(val, v)
}

func (s *Storage) Write(key []byte, v interface{}) error {
	return s.Set(key, common.MsgpackMarshalPanic(v))
}
