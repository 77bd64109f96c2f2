package nft

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	CodeCreator = "Creator"
	CodePFP     = "PFP"
)

// Collection is the persisted state of a PFP contract, layer payloads are
// stored under their own keys and only counted here.
type Collection struct {
	Name        string
	Symbol      string
	Owner       common.Address
	Price       string
	TotalSupply uint64
	Backgrounds uint64
	Bodies      uint64
	Heads       uint64
	Palettes    map[uint8]uint64
}

func (c *Collection) price() *big.Int {
	p, ok := new(big.Int).SetString(c.Price, 10)
	if !ok {
		return new(big.Int)
	}
	return p
}

type Seed struct {
	Background uint64
	Body       uint64
	Head       uint64
}

type Token struct {
	Id    uint64
	Owner common.Address
	Seed  Seed
}

const (
	ReasonInvalidSignature   = "Invalid signature"
	ReasonNotEnoughETH       = "Not enough ETH to mint, check price"
	ReasonNotOwner           = "Ownable: caller is not the owner"
	ReasonNewOwnerZero       = "Ownable: new owner is the zero address"
	ReasonWithdrawalTooHigh  = "withdrawal amount cannot be higher than balance"
	ReasonInvalidAmount      = "withdrawal amount cannot be negative"
	ReasonNoLayers           = "PFP: no layers registered"
	ReasonInvalidImage       = "PFP: invalid image data"
	ReasonInvalidColor       = "PFP: invalid palette color"
	ReasonInvalidToken       = "ERC721: invalid token ID"
	ReasonNotTokenOwner      = "ERC721: caller is not token owner"
	ReasonTransferFromWrong  = "ERC721: transfer from incorrect owner"
	ReasonTransferToZero     = "ERC721: transfer to the zero address"
	ReasonInvalidOwnerLookup = "ERC721: address zero is not a valid owner"
)
