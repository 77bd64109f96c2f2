package nft

import (
	"fmt"
	"testing"

	"github.com/MixinNetwork/pfp/ledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPalette = []string{"", "ffffff", "000000", "ff0000", "00ff00", "0000ff"}

func testPaletteFunc(paletteIndex, colorIndex uint8) (string, error) {
	if paletteIndex != 0 || int(colorIndex) >= len(testPalette) {
		return "", fmt.Errorf("color %d:%d", paletteIndex, colorIndex)
	}
	return testPalette[colorIndex], nil
}

func TestDecodeRLEImage(t *testing.T) {
	img, err := decodeRLEImage(hexutil.MustDecode("0x00141716090e0107020703"))
	require.Nil(t, err)
	assert.Equal(t, uint8(0), img.paletteIndex)
	assert.Equal(t, uint8(20), img.top)
	assert.Equal(t, uint8(23), img.right)
	assert.Equal(t, uint8(22), img.bottom)
	assert.Equal(t, uint8(9), img.left)
	assert.Equal(t, []rleRect{{14, 1}, {7, 2}, {7, 3}}, img.rects)

	for _, data := range []string{"0x", "0x00141716", "0x00141716090e", "0x0014091609"} {
		_, err = decodeRLEImage(hexutil.MustDecode(data))
		reason, ok := ledger.RevertReason(err)
		assert.True(t, ok, data)
		assert.Equal(t, ReasonInvalidImage, reason)
	}
}

func TestRenderSVG(t *testing.T) {
	body := hexutil.MustDecode("0x00141716090e0107020703")
	head := hexutil.MustDecode("0x0008120a0e040102020203")

	svg, err := renderSVG("d5d7e1", [][]byte{body, head}, testPaletteFunc)
	require.Nil(t, err)
	expected := `<svg width="320" height="320" viewBox="0 0 320 320" xmlns="http://www.w3.org/2000/svg" shape-rendering="crispEdges">` +
		`<rect width="100%" height="100%" fill="#d5d7e1" />` +
		`<rect width="140" height="10" x="90" y="200" fill="#ffffff" />` +
		`<rect width="70" height="10" x="90" y="210" fill="#000000" />` +
		`<rect width="70" height="10" x="160" y="210" fill="#ff0000" />` +
		`<rect width="40" height="10" x="140" y="80" fill="#ffffff" />` +
		`<rect width="20" height="10" x="140" y="90" fill="#000000" />` +
		`<rect width="20" height="10" x="160" y="90" fill="#ff0000" />` +
		`</svg>`
	assert.Equal(t, expected, svg)
}

func TestRenderSVGTransparency(t *testing.T) {
	body := hexutil.MustDecode("0x00141716090e0007030700")

	svg, err := renderSVG("", [][]byte{body}, testPaletteFunc)
	require.Nil(t, err)
	expected := `<svg width="320" height="320" viewBox="0 0 320 320" xmlns="http://www.w3.org/2000/svg" shape-rendering="crispEdges">` +
		`<rect width="70" height="10" x="90" y="210" fill="#ff0000" />` +
		`</svg>`
	assert.Equal(t, expected, svg)

	_, err = renderSVG("", [][]byte{hexutil.MustDecode("0x00141716090e09")}, testPaletteFunc)
	assert.NotNil(t, err)
}

func TestGenerateSeed(t *testing.T) {
	parent := common.HexToHash("0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060")

	for id := uint64(0); id < 64; id++ {
		seed, err := generateSeed(parent, id, 4, 4, 4)
		require.Nil(t, err)
		assert.Less(t, seed.Background, uint64(4))
		assert.Less(t, seed.Body, uint64(4))
		assert.Less(t, seed.Head, uint64(4))

		again, err := generateSeed(parent, id, 4, 4, 4)
		require.Nil(t, err)
		assert.Equal(t, seed, again)
	}

	seed, err := generateSeed(parent, 1, 0, 1, 1)
	require.Nil(t, err)
	assert.Equal(t, Seed{}, seed)

	_, err = generateSeed(parent, 1, 4, 0, 4)
	reason, _ := ledger.RevertReason(err)
	assert.Equal(t, ReasonNoLayers, reason)
	_, err = generateSeed(parent, 1, 4, 4, 0)
	reason, _ = ledger.RevertReason(err)
	assert.Equal(t, ReasonNoLayers, reason)
}
