package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"inkverify/pkg/core"
)

func sample(t *testing.T) *core.Grid {
	t.Helper()
	g, err := core.GridFromRaw(3, 2, []uint8{1, 0, 0, 0, 1, 1})
	require.NoError(t, err)
	return g
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePPM(&buf, sample(t)))
	want := "P3\n3 2\n255\n" +
		"0 0 0 255 255 255 255 255 255 \n" +
		"255 255 255 0 0 0 0 0 0 \n"
	assert.Equal(t, want, buf.String())
}

func TestPNGRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sample(t), FormatPNG))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	r, _, _, _ := img.At(0, 0).RGBA()
	assert.Zero(t, r, "live cell should be black")
	r, _, _, _ = img.At(1, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r, "empty cell should be white")
}

func TestBMPRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sample(t), FormatBMP))
	img, err := bmp.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dy())
	r, _, _, _ := img.At(2, 1).RGBA()
	assert.Zero(t, r)
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("out/proof.PNG")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	_, err = FormatFromPath("proof")
	require.ErrorIs(t, err, ErrUnknownFormat)
	_, err = FormatFromPath("proof.gif")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proof.ppm")
	require.NoError(t, WriteFile(path, sample(t), ""))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("P3\n3 2\n255\n")))
}

func TestRGBA(t *testing.T) {
	px := RGBA(sample(t))
	require.Len(t, px, 24)
	assert.Equal(t, []byte{0, 0, 0, 0xff}, px[0:4])
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, px[4:8])
}

func TestPaintRGBARejectsWrongBuffer(t *testing.T) {
	g := sample(t)
	err := PaintRGBA(make([]byte, 4*5), g)
	assert.ErrorIs(t, err, ErrSizeMismatch)

	buf := make([]byte, 4*6)
	require.NoError(t, PaintRGBA(buf, g))
	assert.Equal(t, RGBA(g), buf)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0xff}, buf[12:20])
}
