package ledger

import (
	"encoding/binary"
	"sync"
	"time"
)

const clockStorePropertyKey = "LEDGER:CLOCK:MONOTONIC"

// Clock hands out strictly increasing block timestamps, and the last one
// survives restarts so a reopened chain never goes back in time.
type Clock struct {
	sync.Mutex
	store Store
	now   time.Time
}

func NewClock(store Store) (*Clock, error) {
	bs, err := store.ReadProperty([]byte(clockStorePropertyKey))
	if err != nil {
		return nil, err
	}
	clock := &Clock{store: store}
	if len(bs) == 8 {
		clock.now = time.Unix(0, int64(binary.BigEndian.Uint64(bs)))
	}
	return clock, nil
}

func (c *Clock) Now() time.Time {
	c.Lock()
	defer c.Unlock()

	now := time.Now()
	if !now.After(c.now) {
		now = c.now.Add(time.Nanosecond)
	}
	c.now = now

	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, uint64(c.now.UnixNano()))
	for {
		err := c.store.WriteProperty([]byte(clockStorePropertyKey), val)
		if err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	return c.now
}
