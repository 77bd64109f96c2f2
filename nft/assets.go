package nft

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/MixinNetwork/pfp/ledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type ImagePart struct {
	Filename string `json:"filename"`
	Data     string `json:"data"`
}

// ImageData is the layer set of a collection as exported by the art
// tooling, layer data are hex encoded RLE images.
type ImageData struct {
	Backgrounds []string `json:"bgcolors"`
	Palette     []string `json:"palette"`
	Images      struct {
		Bodies []ImagePart `json:"bodies"`
		Heads  []ImagePart `json:"heads"`
	} `json:"images"`
}

func LoadImageData(path string) (*ImageData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d ImageData
	err = json.Unmarshal(data, &d)
	if err != nil {
		return nil, fmt.Errorf("image data %s: %w", path, err)
	}
	return &d, nil
}

func (d *ImageData) Bodies() ([][]byte, error) {
	return decodeParts(d.Images.Bodies)
}

func (d *ImageData) Heads() ([][]byte, error) {
	return decodeParts(d.Images.Heads)
}

func (d *ImageData) Params(name, symbol string, price *big.Int) (*CollectionParams, error) {
	bodies, err := d.Bodies()
	if err != nil {
		return nil, err
	}
	heads, err := d.Heads()
	if err != nil {
		return nil, err
	}
	return &CollectionParams{
		Name:        name,
		Symbol:      symbol,
		Price:       price,
		Backgrounds: d.Backgrounds,
		Palette:     d.Palette,
		Bodies:      bodies,
		Heads:       heads,
	}, nil
}

func decodeParts(parts []ImagePart) ([][]byte, error) {
	images := make([][]byte, len(parts))
	for i, p := range parts {
		b, err := hexutil.Decode(p.Data)
		if err != nil {
			return nil, fmt.Errorf("image part %s: %w", p.Filename, err)
		}
		images[i] = b
	}
	return images, nil
}

// RegisterImageData adds every layer of d to the collection, one
// transaction per layer kind sent from the given account.
func (p *PFP) RegisterImageData(ctx context.Context, from common.Address, d *ImageData) error {
	opts := &ledger.TransactOpts{From: from}
	bodies, err := d.Bodies()
	if err != nil {
		return err
	}
	heads, err := d.Heads()
	if err != nil {
		return err
	}
	_, err = p.AddManyBackgrounds(ctx, opts, d.Backgrounds)
	if err != nil {
		return err
	}
	_, err = p.AddManyColorsToPalette(ctx, opts, 0, d.Palette)
	if err != nil {
		return err
	}
	_, err = p.AddManyBodies(ctx, opts, bodies)
	if err != nil {
		return err
	}
	_, err = p.AddManyHeads(ctx, opts, heads)
	return err
}
