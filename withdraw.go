package main

import (
	"context"
	"fmt"

	"github.com/MixinNetwork/pfp/ledger"
	"github.com/MixinNetwork/pfp/nft"
	"github.com/ethereum/go-ethereum/crypto"
)

func (cmd *Command) accounts(ctx context.Context, args []string) error {
	fmt.Printf("chain %d\n", cmd.chain.ChainId())
	for i, k := range cmd.keys {
		addr := crypto.PubkeyToAddress(k.PublicKey)
		balance, err := cmd.chain.BalanceAt(ctx, addr)
		if err != nil {
			return err
		}
		fmt.Printf("#%d %s %s ETH\n", i, addr.Hex(), ledger.FormatEther(balance))
	}
	return nil
}

func (cmd *Command) balance(ctx context.Context, args []string) error {
	addr, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	balance, err := cmd.chain.BalanceAt(ctx, addr)
	if err != nil {
		return err
	}
	fmt.Printf("%s ETH\n", ledger.FormatEther(balance))
	return nil
}

// withdraw <collection> <amount>
func (cmd *Command) withdraw(ctx context.Context, args []string) error {
	collection, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	amount, err := ledger.ParseEther(args[1])
	if err != nil {
		return err
	}
	opts, err := cmd.opts("")
	if err != nil {
		return err
	}
	r, err := nft.NewPFP(collection, cmd.chain).Withdraw(ctx, opts, amount)
	if err != nil {
		return err
	}
	fmt.Printf("withdrawn %s ETH in block %d\n", args[1], r.BlockNumber)
	return nil
}
