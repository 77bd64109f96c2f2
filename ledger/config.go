package ledger

import "github.com/ethereum/go-ethereum/common"

type GenesisAccount struct {
	Address common.Address
	Balance string
}

type Configuration struct {
	ChainId  int64
	Accounts []GenesisAccount
}
