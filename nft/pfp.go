package nft

import (
	"context"
	"math/big"

	"github.com/MixinNetwork/pfp/ledger"
	"github.com/ethereum/go-ethereum/common"
)

// PFP is a binding to a deployed PFP collection contract.
type PFP struct {
	address common.Address
	chain   *ledger.Chain
}

func NewPFP(address common.Address, chain *ledger.Chain) *PFP {
	return &PFP{address: address, chain: chain}
}

// DeployPFP deploys a collection owned by owner, or by the deployer when
// owner is the zero address. A nil price makes minting free.
func DeployPFP(ctx context.Context, chain *ledger.Chain, opts *ledger.TransactOpts, name, symbol string, owner common.Address, price *big.Int) (common.Address, *ledger.Receipt, *PFP, error) {
	addr, r, err := chain.Deploy(ctx, opts, CodePFP, func(env *ledger.Env) error {
		_, err := constructPFP(env, name, symbol, owner, price)
		return err
	})
	if err != nil {
		return common.Address{}, nil, nil, err
	}
	return addr, r, NewPFP(addr, chain), nil
}

func (p *PFP) Address() common.Address {
	return p.address
}

func (p *PFP) transact(ctx context.Context, opts *ledger.TransactOpts, fn func(*pfpContract) error) (*ledger.Receipt, error) {
	return p.chain.Transact(ctx, opts, p.address, func(env *ledger.Env) error {
		c, err := loadPFP(env)
		if err != nil {
			return err
		}
		return fn(c)
	})
}

func (p *PFP) call(ctx context.Context, fn func(*pfpContract) error) error {
	return p.chain.Call(ctx, nil, p.address, func(env *ledger.Env) error {
		c, err := loadPFP(env)
		if err != nil {
			return err
		}
		return fn(c)
	})
}

func (p *PFP) AddManyBackgrounds(ctx context.Context, opts *ledger.TransactOpts, colors []string) (*ledger.Receipt, error) {
	return p.transact(ctx, opts, func(c *pfpContract) error {
		err := c.onlyOwner()
		if err != nil {
			return err
		}
		return c.addBackgrounds(colors)
	})
}

func (p *PFP) AddManyColorsToPalette(ctx context.Context, opts *ledger.TransactOpts, paletteIndex uint8, colors []string) (*ledger.Receipt, error) {
	return p.transact(ctx, opts, func(c *pfpContract) error {
		err := c.onlyOwner()
		if err != nil {
			return err
		}
		return c.addColorsToPalette(paletteIndex, colors)
	})
}

func (p *PFP) AddManyBodies(ctx context.Context, opts *ledger.TransactOpts, bodies [][]byte) (*ledger.Receipt, error) {
	return p.transact(ctx, opts, func(c *pfpContract) error {
		err := c.onlyOwner()
		if err != nil {
			return err
		}
		return c.addBodies(bodies)
	})
}

func (p *PFP) AddManyHeads(ctx context.Context, opts *ledger.TransactOpts, heads [][]byte) (*ledger.Receipt, error) {
	return p.transact(ctx, opts, func(c *pfpContract) error {
		err := c.onlyOwner()
		if err != nil {
			return err
		}
		return c.addHeads(heads)
	})
}

// SafeMint mints the next token to opts.From, the signature must be the
// owner's personal signature of the invite code hash.
func (p *PFP) SafeMint(ctx context.Context, opts *ledger.TransactOpts, inviteCode string, signature []byte) (*ledger.Receipt, error) {
	return p.transact(ctx, opts, func(c *pfpContract) error {
		_, err := c.safeMint(inviteCode, signature)
		return err
	})
}

func (p *PFP) TransferFrom(ctx context.Context, opts *ledger.TransactOpts, from, to common.Address, tokenId uint64) (*ledger.Receipt, error) {
	return p.transact(ctx, opts, func(c *pfpContract) error {
		return c.transferFrom(from, to, tokenId)
	})
}

func (p *PFP) TransferOwnership(ctx context.Context, opts *ledger.TransactOpts, newOwner common.Address) (*ledger.Receipt, error) {
	return p.transact(ctx, opts, func(c *pfpContract) error {
		err := c.onlyOwner()
		if err != nil {
			return err
		}
		return c.transferOwnership(newOwner)
	})
}

func (p *PFP) Withdraw(ctx context.Context, opts *ledger.TransactOpts, amount *big.Int) (*ledger.Receipt, error) {
	return p.transact(ctx, opts, func(c *pfpContract) error {
		return c.withdraw(amount)
	})
}

func (p *PFP) Collection(ctx context.Context) (*Collection, error) {
	var meta *Collection
	err := p.call(ctx, func(c *pfpContract) error {
		meta = c.meta
		return nil
	})
	return meta, err
}

func (p *PFP) Name(ctx context.Context) (string, error) {
	meta, err := p.Collection(ctx)
	if err != nil {
		return "", err
	}
	return meta.Name, nil
}

func (p *PFP) Symbol(ctx context.Context) (string, error) {
	meta, err := p.Collection(ctx)
	if err != nil {
		return "", err
	}
	return meta.Symbol, nil
}

func (p *PFP) Owner(ctx context.Context) (common.Address, error) {
	meta, err := p.Collection(ctx)
	if err != nil {
		return common.Address{}, err
	}
	return meta.Owner, nil
}

func (p *PFP) Price(ctx context.Context) (*big.Int, error) {
	meta, err := p.Collection(ctx)
	if err != nil {
		return nil, err
	}
	return meta.price(), nil
}

func (p *PFP) TotalSupply(ctx context.Context) (uint64, error) {
	meta, err := p.Collection(ctx)
	if err != nil {
		return 0, err
	}
	return meta.TotalSupply, nil
}

func (p *PFP) OwnerOf(ctx context.Context, tokenId uint64) (common.Address, error) {
	var owner common.Address
	err := p.call(ctx, func(c *pfpContract) error {
		token, err := c.readToken(tokenId)
		if err != nil {
			return err
		}
		owner = token.Owner
		return nil
	})
	return owner, err
}

func (p *PFP) BalanceOf(ctx context.Context, owner common.Address) (uint64, error) {
	var n uint64
	err := p.call(ctx, func(c *pfpContract) error {
		var err error
		n, err = c.balanceOf(owner)
		return err
	})
	return n, err
}

func (p *PFP) TokenSeed(ctx context.Context, tokenId uint64) (Seed, error) {
	var seed Seed
	err := p.call(ctx, func(c *pfpContract) error {
		token, err := c.readToken(tokenId)
		if err != nil {
			return err
		}
		seed = token.Seed
		return nil
	})
	return seed, err
}

func (p *PFP) TokenURI(ctx context.Context, tokenId uint64) (string, error) {
	var uri string
	err := p.call(ctx, func(c *pfpContract) error {
		var err error
		uri, err = c.tokenURI(tokenId)
		return err
	})
	return uri, err
}

func (p *PFP) GenerateSVGImage(ctx context.Context, seed Seed) (string, error) {
	var svg string
	err := p.call(ctx, func(c *pfpContract) error {
		var err error
		svg, err = c.generateSVG(seed)
		return err
	})
	return svg, err
}
