package credential

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	qrgen "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

var ErrNoQRCodeFound = errors.New("no QR code found in image")

const (
	qrImageSize = 512
	// Below this shorter-side size the upscale strategy kicks in.
	minDecodeDimension = 500
)

// EncodeImage renders a packed credential payload as a QR PNG.
func EncodeImage(payload []byte) ([]byte, error) {
	return qrgen.Encode(string(payload), qrgen.Medium, qrImageSize)
}

// decodeStrategy is one rung of the retry ladder. Each is pure: it reads the
// source image and either yields the payload or reports a miss.
type decodeStrategy struct {
	invert  bool
	upscale bool
}

// DecodeImageBytes decodes a PNG/JPEG containing a QR code, escalating through
// cheaper strategies first: native scan, inverted polarity, then a 2x upscale
// (both polarities) for small images. Fails with ErrNoQRCodeFound only after
// every rung missed.
func DecodeImageBytes(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrNoQRCodeFound
	}
	return DecodeImage(img)
}

func DecodeImage(img image.Image) ([]byte, error) {
	strategies := []decodeStrategy{
		{invert: false},
		{invert: true},
	}
	bounds := img.Bounds()
	if min(bounds.Dx(), bounds.Dy()) < minDecodeDimension {
		strategies = append(strategies,
			decodeStrategy{upscale: true},
			decodeStrategy{invert: true, upscale: true},
		)
	}

	for _, strat := range strategies {
		if payload, ok := tryDecode(img, strat); ok {
			return payload, nil
		}
	}
	return nil, ErrNoQRCodeFound
}

func tryDecode(img image.Image, strat decodeStrategy) ([]byte, bool) {
	if strat.upscale {
		img = upscale2x(img)
	}
	if strat.invert {
		img = &invertedImage{img}
	}

	source := gozxing.NewLuminanceSourceFromImage(img)
	bitmap, err := gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(source))
	if err != nil {
		return nil, false
	}

	reader := zxqrcode.NewQRCodeReader()
	result, err := reader.Decode(bitmap, map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	})
	if err != nil {
		return nil, false
	}
	return []byte(result.GetText()), true
}

func upscale2x(img image.Image) image.Image {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*2, bounds.Dy()*2))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// invertedImage flips image polarity so QR codes printed light-on-dark decode
// with an unmodified reader.
type invertedImage struct {
	image.Image
}

func (im *invertedImage) At(x, y int) color.Color {
	r, g, b, a := im.Image.At(x, y).RGBA()
	return color.RGBA64{
		R: uint16(0xffff - r),
		G: uint16(0xffff - g),
		B: uint16(0xffff - b),
		A: uint16(a),
	}
}
