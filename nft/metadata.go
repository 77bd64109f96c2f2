package nft

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const (
	jsonDataURIPrefix = "data:application/json;base64,"
	svgDataURIPrefix  = "data:image/svg+xml;base64,"
)

type tokenAttribute struct {
	TraitType string `json:"trait_type"`
	Value     uint64 `json:"value"`
}

type tokenMetadata struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	Attributes  []tokenAttribute `json:"attributes"`
}

func buildTokenURI(collection string, tokenId uint64, seed Seed, svg string) (string, error) {
	name := fmt.Sprintf("%s #%d", collection, tokenId)
	meta := tokenMetadata{
		Name:        name,
		Description: fmt.Sprintf("%s is a member of the %s collection", name, collection),
		Image:       svgDataURIPrefix + base64.StdEncoding.EncodeToString([]byte(svg)),
		Attributes: []tokenAttribute{
			{TraitType: "background", Value: seed.Background},
			{TraitType: "body", Value: seed.Body},
			{TraitType: "head", Value: seed.Head},
		},
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	return jsonDataURIPrefix + base64.StdEncoding.EncodeToString(data), nil
}
