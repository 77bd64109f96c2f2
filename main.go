package main

import (
	"context"
	"crypto/ecdsa"
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/MixinNetwork/pfp/config"
	"github.com/MixinNetwork/pfp/ledger"
	"github.com/MixinNetwork/pfp/store"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pelletier/go-toml"
)

const usage = `usage: pfp [-c config] [-d datadir] [-a account] <command> [args]

commands:
  env                                                 print the resolved configuration
  accounts                                            list the funded accounts
  balance <address>                                   native balance of an address
  deploy-creator                                      deploy a collection factory
  create <creator> <name> <symbol> <price> <images>   create a collection through a factory
  collections <creator>                               list collections of a factory
  deploy <name> <symbol> <price> <images>             deploy a collection directly
  sign <invite-code>                                  sign an invite code
  mint <collection> <invite-code> <signature> [value] mint a token
  seed <collection> <token>                           print the seed of a token
  uri <collection> <token>                            print the token URI
  withdraw <collection> <amount>                      withdraw collection funds
`

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bp := flag.String("d", "~/.mixin/pfp/data", "database directory path")
	cp := flag.String("c", "~/.mixin/pfp/config.toml", "configuration file path")
	ai := flag.Int("a", 0, "index of the account sending transactions")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	conf, err := config.Setup(expandHome(*cp))
	if err != nil {
		panic(err)
	}
	if flag.Arg(0) == "env" {
		out, err := toml.Marshal(conf.Redacted())
		if err != nil {
			panic(err)
		}
		fmt.Print(string(out))
		return
	}

	keys, err := conf.Keys()
	if err != nil {
		panic(err)
	}
	if *ai < 0 || *ai >= len(keys) {
		panic(fmt.Errorf("account index %d out of %d", *ai, len(keys)))
	}
	genesis, err := conf.Genesis()
	if err != nil {
		panic(err)
	}

	db, err := store.OpenBadger(ctx, expandHome(*bp))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	chain, err := ledger.BuildChain(ctx, db, genesis)
	if err != nil {
		panic(err)
	}
	chain.AddWorker(&ReceiptWorker{})

	cmd := &Command{
		chain: chain,
		keys:  keys,
		key:   keys[*ai],
	}
	err = cmd.Run(ctx, flag.Arg(0), flag.Args()[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		db.Close()
		os.Exit(1)
	}
}

type Command struct {
	chain *ledger.Chain
	keys  []*ecdsa.PrivateKey
	key   *ecdsa.PrivateKey
}

func (cmd *Command) Run(ctx context.Context, name string, args []string) error {
	handlers := map[string]struct {
		args int
		fn   func(context.Context, []string) error
	}{
		"accounts":       {0, cmd.accounts},
		"balance":        {1, cmd.balance},
		"deploy-creator": {0, cmd.deployCreator},
		"create":         {5, cmd.create},
		"collections":    {1, cmd.collections},
		"deploy":         {4, cmd.deploy},
		"sign":           {1, cmd.sign},
		"mint":           {3, cmd.mint},
		"seed":           {2, cmd.seed},
		"uri":            {2, cmd.uri},
		"withdraw":       {2, cmd.withdraw},
	}
	h, found := handlers[name]
	if !found {
		return fmt.Errorf("unknown command %s\n%s", name, usage)
	}
	if len(args) < h.args {
		return fmt.Errorf("%s expects %d arguments\n%s", name, h.args, usage)
	}
	return h.fn(ctx, args)
}

func (cmd *Command) opts(value string) (*ledger.TransactOpts, error) {
	opts := &ledger.TransactOpts{From: crypto.PubkeyToAddress(cmd.key.PublicKey)}
	if value == "" {
		return opts, nil
	}
	v, err := ledger.ParseEther(value)
	if err != nil {
		return nil, err
	}
	opts.Value = v
	return opts, nil
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		usr, _ := user.Current()
		return filepath.Join(usr.HomeDir, p[2:])
	}
	return p
}
