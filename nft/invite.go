package nft

import (
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var errInvalidSignature = errors.New("invalid signature")

// InviteHash is keccak256 over the packed invite code string.
func InviteHash(code string) common.Hash {
	return crypto.Keccak256Hash([]byte(code))
}

// SignInvite produces the personal message signature of the invite hash,
// the recovery id is returned as 27 or 28.
func SignInvite(key *ecdsa.PrivateKey, code string) ([]byte, error) {
	h := InviteHash(code)
	sig, err := crypto.Sign(accounts.TextHash(h[:]), key)
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

func RecoverInviteSigner(code string, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, errInvalidSignature
	}
	sig := make([]byte, len(signature))
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(sig[crypto.RecoveryIDOffset], r, s, true) {
		return common.Address{}, errInvalidSignature
	}

	h := InviteHash(code)
	pub, err := crypto.SigToPub(accounts.TextHash(h[:]), sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}
