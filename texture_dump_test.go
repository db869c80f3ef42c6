package texcache

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func TestDumpTextureBMP_Decodes(t *testing.T) {
	desc := mustDescriptor(t, TextureParams{BaseFormat: TEX_BASE_FORMAT_U8U8U8U8, Width: 2, Height: 1})
	pixels := make([]byte, desc.DataSize())
	copy(pixels, []byte{0xFF, 0x00, 0x00, 0xFF, 0x00, 0x00, 0xFF, 0xFF})

	var buf bytes.Buffer
	require.NoError(t, DumpTextureBMP(&buf, &desc, pixels, nil))

	img, err := bmp.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 2, img.Bounds().Dx())

	r, g, b, _ := img.At(1, 0).RGBA()
	require.Equal(t, [3]uint32{0, 0, 0xFFFF}, [3]uint32{r, g, b})
	require.Equal(t, color.NRGBAModel.Convert(img.At(0, 0)), color.NRGBA{R: 0xFF, A: 0xFF})
}

func TestDumpSlot_WritesFile(t *testing.T) {
	cache, _, bus := newTestCache(t, 2)
	desc := u8Texture(t, 0x1000)
	_, err := cache.Bind(&desc, bus)
	require.NoError(t, err)

	dir := t.TempDir()
	path, err := DumpSlot(cache, 0, bus, dir)
	require.NoError(t, err)
	require.Equal(t, dir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "BM", string(data[:2]))

	_, err = DumpSlot(cache, 1, bus, dir)
	require.Error(t, err)
}
