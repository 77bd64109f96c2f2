package ledger

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

const etherDecimals = 18

// ParseEther converts a decimal ether amount like "1.1" into wei.
func ParseEther(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	if d.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %s", s)
	}
	wei := d.Shift(etherDecimals)
	bi := wei.BigInt()
	if !decimal.NewFromBigInt(bi, 0).Equal(wei) {
		return nil, fmt.Errorf("amount %s exceeds %d decimals", s, etherDecimals)
	}
	return bi, nil
}

func FormatEther(wei *big.Int) string {
	return decimal.NewFromBigInt(wei, -etherDecimals).String()
}
