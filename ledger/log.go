package ledger

import (
	"context"
	"encoding/binary"

	"github.com/MixinNetwork/mixin/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

const prefixLogPayload = "LEDGER:LOG:"

// Log is an event emitted by contract code, Data is the msgpack
// encoding of the event payload.
type Log struct {
	Address     ethcommon.Address
	Event       string
	Data        []byte
	BlockNumber uint64
	TxHash      ethcommon.Hash
	Index       uint
}

func (l *Log) Decode(v interface{}) error {
	return common.MsgpackUnmarshal(l.Data, v)
}

func (c *Chain) FilterLogs(ctx context.Context, address ethcommon.Address, event string, fromBlock uint64) ([]*Log, error) {
	var logs []*Log
	err := c.store.View(func(txn Txn) error {
		prefix := append([]byte(prefixLogPayload), address[:]...)
		return txn.Iterate(prefix, 0, func(key, val []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			number := binary.BigEndian.Uint64(key[len(prefix):])
			if number < fromBlock {
				return nil
			}
			var l Log
			err := common.MsgpackUnmarshal(val, &l)
			if err != nil {
				return err
			}
			if event == "" || l.Event == event {
				logs = append(logs, &l)
			}
			return nil
		})
	})
	return logs, err
}

func writeLog(txn Txn, l *Log) error {
	key := append([]byte(prefixLogPayload), l.Address[:]...)
	key = append(key, uint64Bytes(l.BlockNumber)...)
	idx := make([]byte, 4)
	binary.BigEndian.PutUint32(idx, uint32(l.Index))
	key = append(key, idx...)
	return txn.Set(key, common.MsgpackMarshalPanic(l))
}
