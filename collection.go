package main

import (
	"context"
	"fmt"

	"github.com/MixinNetwork/pfp/ledger"
	"github.com/MixinNetwork/pfp/nft"
	"github.com/ethereum/go-ethereum/common"
)

func (cmd *Command) deployCreator(ctx context.Context, args []string) error {
	opts, err := cmd.opts("")
	if err != nil {
		return err
	}
	addr, r, _, err := nft.DeployCreator(ctx, cmd.chain, opts)
	if err != nil {
		return err
	}
	fmt.Printf("Creator %s block %d\n", addr.Hex(), r.BlockNumber)
	return nil
}

// create <creator> <name> <symbol> <price> <images>
func (cmd *Command) create(ctx context.Context, args []string) error {
	creator, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	price, err := ledger.ParseEther(args[3])
	if err != nil {
		return err
	}
	data, err := nft.LoadImageData(args[4])
	if err != nil {
		return err
	}
	params, err := data.Params(args[1], args[2], price)
	if err != nil {
		return err
	}
	opts, err := cmd.opts("")
	if err != nil {
		return err
	}
	r, err := nft.NewCreator(creator, cmd.chain).CreatePFPCollection(ctx, opts, params)
	if err != nil {
		return err
	}
	l := nft.FindEvent(r, creator, nft.EventCollectionCreated)
	if l == nil {
		return fmt.Errorf("no collection created in %s", r.TxHash.Hex())
	}
	e, err := nft.ParseCollectionCreated(l)
	if err != nil {
		return err
	}
	fmt.Printf("PFP %s owner %s\n", e.Collection.Hex(), e.Owner.Hex())
	return nil
}

func (cmd *Command) collections(ctx context.Context, args []string) error {
	creator, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	addrs, err := nft.NewCreator(creator, cmd.chain).GetPFPCollections(ctx)
	if err != nil {
		return err
	}
	for _, a := range addrs {
		p := nft.NewPFP(a, cmd.chain)
		meta, err := p.Collection(ctx)
		if err != nil {
			return err
		}
		price, err := p.Price(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s (%s) supply %d price %s\n", a.Hex(), meta.Name, meta.Symbol, meta.TotalSupply, ledger.FormatEther(price))
	}
	return nil
}

// deploy <name> <symbol> <price> <images>
func (cmd *Command) deploy(ctx context.Context, args []string) error {
	price, err := ledger.ParseEther(args[2])
	if err != nil {
		return err
	}
	data, err := nft.LoadImageData(args[3])
	if err != nil {
		return err
	}
	opts, err := cmd.opts("")
	if err != nil {
		return err
	}
	addr, _, p, err := nft.DeployPFP(ctx, cmd.chain, opts, args[0], args[1], common.Address{}, price)
	if err != nil {
		return err
	}
	err = p.RegisterImageData(ctx, opts.From, data)
	if err != nil {
		return err
	}
	fmt.Printf("PFP %s owner %s\n", addr.Hex(), opts.From.Hex())
	return nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %s", s)
	}
	return common.HexToAddress(s), nil
}
