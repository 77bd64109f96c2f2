package nft

import (
	"context"
	"math/big"

	"github.com/MixinNetwork/pfp/ledger"
	"github.com/ethereum/go-ethereum/common"
)

const (
	keyCreatorCount     = "COLLECTIONS"
	prefixCreatorRecord = "COLLECTION:"
)

type CollectionParams struct {
	Name        string
	Symbol      string
	Price       *big.Int
	Backgrounds []string
	Palette     []string
	Bodies      [][]byte
	Heads       [][]byte
}

// Creator is a binding to the factory contract deploying PFP collections.
type Creator struct {
	address common.Address
	chain   *ledger.Chain
}

func NewCreator(address common.Address, chain *ledger.Chain) *Creator {
	return &Creator{address: address, chain: chain}
}

func DeployCreator(ctx context.Context, chain *ledger.Chain, opts *ledger.TransactOpts) (common.Address, *ledger.Receipt, *Creator, error) {
	addr, r, err := chain.Deploy(ctx, opts, CodeCreator, nil)
	if err != nil {
		return common.Address{}, nil, nil, err
	}
	return addr, r, NewCreator(addr, chain), nil
}

func (cr *Creator) Address() common.Address {
	return cr.address
}

// CreatePFPCollection deploys a collection owned by opts.From with every
// layer of params registered, the palette goes to palette index 0.
func (cr *Creator) CreatePFPCollection(ctx context.Context, opts *ledger.TransactOpts, params *CollectionParams) (*ledger.Receipt, error) {
	return cr.chain.Transact(ctx, opts, cr.address, func(env *ledger.Env) error {
		err := checkCreatorCode(env)
		if err != nil {
			return err
		}
		owner := env.Sender
		addr, err := env.Create(CodePFP, func(child *ledger.Env) error {
			c, err := constructPFP(child, params.Name, params.Symbol, owner, params.Price)
			if err != nil {
				return err
			}
			err = c.addBackgrounds(params.Backgrounds)
			if err != nil {
				return err
			}
			err = c.addColorsToPalette(0, params.Palette)
			if err != nil {
				return err
			}
			err = c.addBodies(params.Bodies)
			if err != nil {
				return err
			}
			return c.addHeads(params.Heads)
		})
		if err != nil {
			return err
		}

		st := env.Storage()
		var count uint64
		_, err = st.Read([]byte(keyCreatorCount), &count)
		if err != nil {
			return err
		}
		err = st.Set(indexKey(prefixCreatorRecord, count), addr[:])
		if err != nil {
			return err
		}
		err = st.Write([]byte(keyCreatorCount), count+1)
		if err != nil {
			return err
		}
		return env.Emit(EventCollectionCreated, &CollectionCreatedEvent{
			Collection: addr,
			Owner:      owner,
			Name:       params.Name,
			Symbol:     params.Symbol,
		})
	})
}

func (cr *Creator) GetPFPCollections(ctx context.Context) ([]common.Address, error) {
	var collections []common.Address
	err := cr.chain.Call(ctx, nil, cr.address, func(env *ledger.Env) error {
		err := checkCreatorCode(env)
		if err != nil {
			return err
		}
		st := env.Storage()
		var count uint64
		_, err = st.Read([]byte(keyCreatorCount), &count)
		if err != nil {
			return err
		}
		for i := uint64(0); i < count; i++ {
			val, err := st.Get(indexKey(prefixCreatorRecord, i))
			if err != nil {
				return err
			}
			collections = append(collections, common.BytesToAddress(val))
		}
		return nil
	})
	return collections, err
}

func checkCreatorCode(env *ledger.Env) error {
	code, err := env.Code(env.Self)
	if err != nil {
		return err
	}
	if code != CodeCreator {
		return ledger.ErrNoCode
	}
	return nil
}
