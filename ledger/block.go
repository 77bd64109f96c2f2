package ledger

import (
	"encoding/binary"
	"time"

	"github.com/MixinNetwork/mixin/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	prefixBlockPayload = "LEDGER:BLOCK:"
	keyLatestBlock     = "LEDGER:LATEST"
)

// Block holds exactly one transaction, every transaction is mined as
// soon as it is accepted.
type Block struct {
	Number     uint64
	Hash       ethcommon.Hash
	ParentHash ethcommon.Hash
	Timestamp  time.Time
	TxHash     ethcommon.Hash
}

func (b *Block) computeHash() ethcommon.Hash {
	return crypto.Keccak256Hash(
		b.ParentHash[:],
		uint64Bytes(b.Number),
		uint64Bytes(uint64(b.Timestamp.UnixNano())),
		b.TxHash[:],
	)
}

func genesisBlock(chainId int64, ts time.Time) *Block {
	b := &Block{
		Number:    0,
		Timestamp: ts,
		TxHash:    crypto.Keccak256Hash([]byte("genesis"), uint64Bytes(uint64(chainId))),
	}
	b.Hash = b.computeHash()
	return b
}

func readBlock(txn Txn, number uint64) (*Block, error) {
	val, err := txn.Get(append([]byte(prefixBlockPayload), uint64Bytes(number)...))
	if err != nil || val == nil {
		return nil, err
	}
	var b Block
	err = common.MsgpackUnmarshal(val, &b)
	return &b, err
}

func readLatestBlock(txn Txn) (*Block, error) {
	val, err := txn.Get([]byte(keyLatestBlock))
	if err != nil || val == nil {
		return nil, err
	}
	return readBlock(txn, binary.BigEndian.Uint64(val))
}

func writeBlock(txn Txn, b *Block) error {
	key := append([]byte(prefixBlockPayload), uint64Bytes(b.Number)...)
	err := txn.Set(key, common.MsgpackMarshalPanic(b))
	if err != nil {
		return err
	}
	return txn.Set([]byte(keyLatestBlock), uint64Bytes(b.Number))
}

func uint64Bytes(n uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n)
	return buf
}
