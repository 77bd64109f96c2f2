package nft

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/MixinNetwork/pfp/ledger"
	"github.com/ethereum/go-ethereum/common"
)

const (
	keyCollection    = "COLLECTION"
	prefixBackground = "BACKGROUND:"
	prefixPalette    = "PALETTE:"
	prefixBody       = "BODY:"
	prefixHead       = "HEAD:"
	prefixToken      = "TOKEN:"
	prefixBalance    = "BALANCE:"
)

// pfpContract is the PFP collection logic bound to one execution
// environment, every exported binding method loads it afresh.
type pfpContract struct {
	env  *ledger.Env
	st   *ledger.Storage
	meta *Collection
}

func constructPFP(env *ledger.Env, name, symbol string, owner common.Address, price *big.Int) (*pfpContract, error) {
	if owner == (common.Address{}) {
		owner = env.Sender
	}
	p := new(big.Int)
	if price != nil {
		p.Set(price)
	}
	if p.Sign() < 0 {
		return nil, fmt.Errorf("invalid price %s", p)
	}
	c := &pfpContract{
		env: env,
		st:  env.Storage(),
		meta: &Collection{
			Name:     name,
			Symbol:   symbol,
			Owner:    owner,
			Price:    p.String(),
			Palettes: make(map[uint8]uint64),
		},
	}
	err := env.Emit(EventOwnershipTransferred, &OwnershipTransferredEvent{NewOwner: owner})
	if err != nil {
		return nil, err
	}
	return c, c.save()
}

func loadPFP(env *ledger.Env) (*pfpContract, error) {
	code, err := env.Code(env.Self)
	if err != nil {
		return nil, err
	}
	if code != CodePFP {
		return nil, ledger.ErrNoCode
	}
	c := &pfpContract{env: env, st: env.Storage()}
	var meta Collection
	found, err := c.st.Read([]byte(keyCollection), &meta)
	if err != nil {
		return nil, err
	} else if !found {
		return nil, ledger.ErrNoCode
	}
	if meta.Palettes == nil {
		meta.Palettes = make(map[uint8]uint64)
	}
	c.meta = &meta
	return c, nil
}

func (c *pfpContract) save() error {
	return c.st.Write([]byte(keyCollection), c.meta)
}

func (c *pfpContract) onlyOwner() error {
	if c.env.Sender != c.meta.Owner {
		return ledger.Revert(ReasonNotOwner)
	}
	return nil
}

func (c *pfpContract) transferOwnership(newOwner common.Address) error {
	if newOwner == (common.Address{}) {
		return ledger.Revert(ReasonNewOwnerZero)
	}
	prev := c.meta.Owner
	c.meta.Owner = newOwner
	err := c.save()
	if err != nil {
		return err
	}
	return c.env.Emit(EventOwnershipTransferred, &OwnershipTransferredEvent{
		PreviousOwner: prev,
		NewOwner:      newOwner,
	})
}

func (c *pfpContract) addBackgrounds(colors []string) error {
	for _, color := range colors {
		color, err := normalizeColor(color)
		if err != nil {
			return err
		}
		key := indexKey(prefixBackground, c.meta.Backgrounds)
		err = c.st.Set(key, []byte(color))
		if err != nil {
			return err
		}
		c.meta.Backgrounds += 1
	}
	return c.save()
}

func (c *pfpContract) addColorsToPalette(paletteIndex uint8, colors []string) error {
	prefix := fmt.Sprintf("%s%d:", prefixPalette, paletteIndex)
	for _, color := range colors {
		color, err := normalizeColor(color)
		if err != nil {
			return err
		}
		key := indexKey(prefix, c.meta.Palettes[paletteIndex])
		err = c.st.Set(key, []byte(color))
		if err != nil {
			return err
		}
		c.meta.Palettes[paletteIndex] += 1
	}
	return c.save()
}

func (c *pfpContract) addBodies(images [][]byte) error {
	for _, img := range images {
		err := c.addLayer(prefixBody, c.meta.Bodies, img)
		if err != nil {
			return err
		}
		c.meta.Bodies += 1
	}
	return c.save()
}

func (c *pfpContract) addHeads(images [][]byte) error {
	for _, img := range images {
		err := c.addLayer(prefixHead, c.meta.Heads, img)
		if err != nil {
			return err
		}
		c.meta.Heads += 1
	}
	return c.save()
}

func (c *pfpContract) addLayer(prefix string, index uint64, img []byte) error {
	_, err := decodeRLEImage(img)
	if err != nil {
		return err
	}
	return c.st.Set(indexKey(prefix, index), img)
}

func (c *pfpContract) safeMint(inviteCode string, signature []byte) (uint64, error) {
	signer, err := RecoverInviteSigner(inviteCode, signature)
	if err != nil || signer != c.meta.Owner {
		return 0, ledger.Revert(ReasonInvalidSignature)
	}
	price := c.meta.price()
	if price.Sign() > 0 && c.env.Value.Cmp(price) < 0 {
		return 0, ledger.Revert(ReasonNotEnoughETH)
	}

	id := c.meta.TotalSupply
	seed, err := generateSeed(c.env.Block.ParentHash, id, c.meta.Backgrounds, c.meta.Bodies, c.meta.Heads)
	if err != nil {
		return 0, err
	}
	token := &Token{Id: id, Owner: c.env.Sender, Seed: seed}
	err = c.st.Write(indexKey(prefixToken, id), token)
	if err != nil {
		return 0, err
	}
	err = c.addBalance(token.Owner, 1)
	if err != nil {
		return 0, err
	}
	c.meta.TotalSupply += 1
	err = c.save()
	if err != nil {
		return 0, err
	}
	return id, c.env.Emit(EventTransfer, &TransferEvent{To: token.Owner, TokenId: id})
}

func (c *pfpContract) transferFrom(from, to common.Address, id uint64) error {
	token, err := c.readToken(id)
	if err != nil {
		return err
	}
	if token.Owner != c.env.Sender {
		return ledger.Revert(ReasonNotTokenOwner)
	}
	if token.Owner != from {
		return ledger.Revert(ReasonTransferFromWrong)
	}
	if to == (common.Address{}) {
		return ledger.Revert(ReasonTransferToZero)
	}
	token.Owner = to
	err = c.st.Write(indexKey(prefixToken, id), token)
	if err != nil {
		return err
	}
	err = c.addBalance(from, -1)
	if err != nil {
		return err
	}
	err = c.addBalance(to, 1)
	if err != nil {
		return err
	}
	return c.env.Emit(EventTransfer, &TransferEvent{From: from, To: to, TokenId: id})
}

func (c *pfpContract) withdraw(amount *big.Int) error {
	err := c.onlyOwner()
	if err != nil {
		return err
	}
	if amount == nil {
		amount = new(big.Int)
	}
	if amount.Sign() < 0 {
		return ledger.Revert(ReasonInvalidAmount)
	}
	balance, err := c.env.Balance(c.env.Self)
	if err != nil {
		return err
	}
	if amount.Cmp(balance) > 0 {
		return ledger.Revert(ReasonWithdrawalTooHigh)
	}
	err = c.env.Transfer(c.meta.Owner, amount)
	if err != nil {
		return err
	}
	return c.env.Emit(EventWithdraw, &WithdrawEvent{To: c.meta.Owner, Amount: amount.String()})
}

func (c *pfpContract) readToken(id uint64) (*Token, error) {
	var token Token
	found, err := c.st.Read(indexKey(prefixToken, id), &token)
	if err != nil {
		return nil, err
	} else if !found {
		return nil, ledger.Revert(ReasonInvalidToken)
	}
	return &token, nil
}

func (c *pfpContract) balanceOf(owner common.Address) (uint64, error) {
	if owner == (common.Address{}) {
		return 0, ledger.Revert(ReasonInvalidOwnerLookup)
	}
	val, err := c.st.Get(append([]byte(prefixBalance), owner[:]...))
	if err != nil || len(val) != 8 {
		return 0, err
	}
	return binary.BigEndian.Uint64(val), nil
}

func (c *pfpContract) addBalance(owner common.Address, delta int64) error {
	n, err := c.balanceOf(owner)
	if err != nil {
		return err
	}
	n = uint64(int64(n) + delta)
	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, n)
	return c.st.Set(append([]byte(prefixBalance), owner[:]...), val)
}

func (c *pfpContract) generateSVG(seed Seed) (string, error) {
	if seed.Body >= c.meta.Bodies || seed.Head >= c.meta.Heads {
		return "", ledger.Revert(ReasonNoLayers)
	}
	var background string
	if seed.Background < c.meta.Backgrounds {
		bg, err := c.st.Get(indexKey(prefixBackground, seed.Background))
		if err != nil {
			return "", err
		}
		background = string(bg)
	}
	body, err := c.st.Get(indexKey(prefixBody, seed.Body))
	if err != nil {
		return "", err
	}
	head, err := c.st.Get(indexKey(prefixHead, seed.Head))
	if err != nil {
		return "", err
	}
	return renderSVG(background, [][]byte{body, head}, c.paletteColor)
}

func (c *pfpContract) paletteColor(paletteIndex, colorIndex uint8) (string, error) {
	if uint64(colorIndex) >= c.meta.Palettes[paletteIndex] {
		return "", ledger.Revert(ReasonInvalidColor)
	}
	prefix := fmt.Sprintf("%s%d:", prefixPalette, paletteIndex)
	color, err := c.st.Get(indexKey(prefix, uint64(colorIndex)))
	return string(color), err
}

func (c *pfpContract) tokenURI(id uint64) (string, error) {
	token, err := c.readToken(id)
	if err != nil {
		return "", err
	}
	svg, err := c.generateSVG(token.Seed)
	if err != nil {
		return "", err
	}
	return buildTokenURI(c.meta.Name, id, token.Seed, svg)
}

func indexKey(prefix string, index uint64) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], index)
	return key
}

// normalizeColor accepts an empty color or six hex digits with an
// optional leading '#'.
func normalizeColor(color string) (string, error) {
	color = strings.TrimPrefix(strings.ToLower(color), "#")
	if color == "" {
		return color, nil
	}
	if len(color) != 6 {
		return "", ledger.Revert(ReasonInvalidColor)
	}
	if _, err := hex.DecodeString(color); err != nil {
		return "", ledger.Revert(ReasonInvalidColor)
	}
	return color, nil
}
