package nft

import (
	"math/big"

	"github.com/MixinNetwork/pfp/ledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const uint48Mask = 1<<48 - 1

// generateSeed derives the layer indices of a token from the previous block
// hash and the token id, each index is a 48 bit slice of the hash reduced
// modulo the number of registered layers.
func generateSeed(parent common.Hash, tokenId uint64, backgrounds, bodies, heads uint64) (Seed, error) {
	if bodies == 0 || heads == 0 {
		return Seed{}, ledger.Revert(ReasonNoLayers)
	}
	id := common.LeftPadBytes(new(big.Int).SetUint64(tokenId).Bytes(), 32)
	r := new(big.Int).SetBytes(crypto.Keccak256(parent[:], id))
	slice := func(shift uint) uint64 {
		v := new(big.Int).Rsh(r, shift)
		return v.Uint64() & uint48Mask
	}

	var seed Seed
	if backgrounds > 0 {
		seed.Background = slice(0) % backgrounds
	}
	seed.Body = slice(48) % bodies
	seed.Head = slice(144) % heads
	return seed, nil
}
