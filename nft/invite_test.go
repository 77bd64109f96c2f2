package nft

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteSignature(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.Nil(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	sig, err := SignInvite(key, "invite-code")
	require.Nil(t, err)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	recovered, err := RecoverInviteSigner("invite-code", sig)
	require.Nil(t, err)
	assert.Equal(t, signer, recovered)

	recovered, err = RecoverInviteSigner("another-code", sig)
	require.Nil(t, err)
	assert.NotEqual(t, signer, recovered)

	raw := make([]byte, len(sig))
	copy(raw, sig)
	raw[64] -= 27
	recovered, err = RecoverInviteSigner("invite-code", raw)
	require.Nil(t, err)
	assert.Equal(t, signer, recovered)
}

func TestInviteSignatureMalformed(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.Nil(t, err)
	sig, err := SignInvite(key, "invite-code")
	require.Nil(t, err)

	_, err = RecoverInviteSigner("invite-code", sig[:64])
	assert.NotNil(t, err)

	bad := make([]byte, len(sig))
	copy(bad, sig)
	bad[64] = 31
	_, err = RecoverInviteSigner("invite-code", bad)
	assert.NotNil(t, err)

	// the same signature with s flipped to the upper half of the curve order
	malleable := make([]byte, len(sig))
	copy(malleable, sig)
	s := new(big.Int).SetBytes(sig[32:64])
	s.Sub(crypto.S256().Params().N, s)
	copy(malleable[32:64], make([]byte, 32))
	sb := s.Bytes()
	copy(malleable[64-len(sb):64], sb)
	malleable[64] = 55 - sig[64]
	_, err = RecoverInviteSigner("invite-code", malleable)
	assert.NotNil(t, err)
}

func TestInviteHash(t *testing.T) {
	assert.Equal(t, crypto.Keccak256Hash([]byte("invite-code")), InviteHash("invite-code"))
}
