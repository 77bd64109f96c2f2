package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/MixinNetwork/pfp/nft"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

func (cmd *Command) sign(ctx context.Context, args []string) error {
	sig, err := nft.SignInvite(cmd.key, args[0])
	if err != nil {
		return err
	}
	fmt.Println(hexutil.Encode(sig))
	return nil
}

// mint <collection> <invite-code> <signature> [value]
func (cmd *Command) mint(ctx context.Context, args []string) error {
	collection, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	sig, err := hexutil.Decode(args[2])
	if err != nil {
		return fmt.Errorf("invalid signature %s: %w", args[2], err)
	}
	var value string
	if len(args) > 3 {
		value = args[3]
	}
	opts, err := cmd.opts(value)
	if err != nil {
		return err
	}
	r, err := nft.NewPFP(collection, cmd.chain).SafeMint(ctx, opts, args[1], sig)
	if err != nil {
		return err
	}
	l := nft.FindEvent(r, collection, nft.EventTransfer)
	if l == nil {
		return fmt.Errorf("no token minted in %s", r.TxHash.Hex())
	}
	e, err := nft.ParseTransfer(l)
	if err != nil {
		return err
	}
	fmt.Printf("token %d minted to %s in block %d\n", e.TokenId, e.To.Hex(), r.BlockNumber)
	return nil
}

func (cmd *Command) seed(ctx context.Context, args []string) error {
	collection, id, err := parseToken(args)
	if err != nil {
		return err
	}
	seed, err := nft.NewPFP(collection, cmd.chain).TokenSeed(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("background %d body %d head %d\n", seed.Background, seed.Body, seed.Head)
	return nil
}

func (cmd *Command) uri(ctx context.Context, args []string) error {
	collection, id, err := parseToken(args)
	if err != nil {
		return err
	}
	uri, err := nft.NewPFP(collection, cmd.chain).TokenURI(ctx, id)
	if err != nil {
		return err
	}
	fmt.Println(uri)
	return nil
}

func parseToken(args []string) (common.Address, uint64, error) {
	collection, err := parseAddress(args[0])
	if err != nil {
		return collection, 0, err
	}
	id, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return collection, 0, fmt.Errorf("invalid token id %s", args[1])
	}
	return collection, id, nil
}
