package nft

import (
	"fmt"
	"strings"

	"github.com/MixinNetwork/pfp/ledger"
)

const (
	imageSize  = 320
	pixelScale = 10
)

type rleRect struct {
	length     uint8
	colorIndex uint8
}

// rleImage is a run length encoded layer: one byte palette index, four
// bytes of bounds (top, right, bottom, left) and then (length, color)
// pairs filling rows from left to right.
type rleImage struct {
	paletteIndex uint8
	top          uint8
	right        uint8
	bottom       uint8
	left         uint8
	rects        []rleRect
}

func decodeRLEImage(data []byte) (*rleImage, error) {
	if len(data) < 5 || (len(data)-5)%2 != 0 {
		return nil, ledger.Revert(ReasonInvalidImage)
	}
	img := &rleImage{
		paletteIndex: data[0],
		top:          data[1],
		right:        data[2],
		bottom:       data[3],
		left:         data[4],
	}
	if img.left >= img.right {
		return nil, ledger.Revert(ReasonInvalidImage)
	}
	for i := 5; i < len(data); i += 2 {
		img.rects = append(img.rects, rleRect{length: data[i], colorIndex: data[i+1]})
	}
	return img, nil
}

// paletteFunc resolves a color of a palette, color index 0 is reserved for
// transparency and never looked up.
type paletteFunc func(paletteIndex, colorIndex uint8) (string, error)

func renderSVG(background string, parts [][]byte, palette paletteFunc) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg" shape-rendering="crispEdges">`, imageSize, imageSize, imageSize, imageSize)
	if background != "" {
		fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="#%s" />`, background)
	}
	for _, part := range parts {
		img, err := decodeRLEImage(part)
		if err != nil {
			return "", err
		}
		err = writeRects(&b, img, palette)
		if err != nil {
			return "", err
		}
	}
	b.WriteString("</svg>")
	return b.String(), nil
}

func writeRects(b *strings.Builder, img *rleImage, palette paletteFunc) error {
	cursor, y := int(img.left), int(img.top)
	for _, r := range img.rects {
		if r.colorIndex != 0 {
			color, err := palette(img.paletteIndex, r.colorIndex)
			if err != nil {
				return err
			}
			fmt.Fprintf(b, `<rect width="%d" height="%d" x="%d" y="%d" fill="#%s" />`,
				int(r.length)*pixelScale, pixelScale, cursor*pixelScale, y*pixelScale, color)
		}
		cursor += int(r.length)
		if cursor >= int(img.right) {
			cursor = int(img.left)
			y += 1
		}
	}
	return nil
}
