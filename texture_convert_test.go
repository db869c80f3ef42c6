package texcache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeOne(t *testing.T, format, swizzle uint32, texel []byte, palette []byte) [4]byte {
	t.Helper()
	desc := mustDescriptor(t, TextureParams{BaseFormat: format, Swizzle: swizzle, Width: 1, Height: 1})
	pixels := make([]byte, desc.DataSize())
	copy(pixels, texel)
	out, err := DecodeRGBA(&desc, pixels, palette)
	require.NoError(t, err)
	require.Len(t, out, 4)
	return [4]byte(out)
}

func TestDecodeRGBA_DirectFormats(t *testing.T) {
	require.Equal(t, [4]byte{0x40, 0x40, 0x40, 0xFF}, decodeOne(t, TEX_BASE_FORMAT_U8, 0, []byte{0x40}, nil))
	require.Equal(t, [4]byte{0x40, 0x40, 0x40, 0x80}, decodeOne(t, TEX_BASE_FORMAT_U8U8, 0, []byte{0x40, 0x80}, nil))

	// 565: pure red
	require.Equal(t, [4]byte{0xFF, 0x00, 0x00, 0xFF}, decodeOne(t, TEX_BASE_FORMAT_U5U6U5, 0, []byte{0x00, 0xF8}, nil))
	// 565: pure green
	require.Equal(t, [4]byte{0x00, 0xFF, 0x00, 0xFF}, decodeOne(t, TEX_BASE_FORMAT_U5U6U5, 0, []byte{0xE0, 0x07}, nil))

	// 1555: opaque blue, then transparent blue
	require.Equal(t, [4]byte{0x00, 0x00, 0xFF, 0xFF}, decodeOne(t, TEX_BASE_FORMAT_U1U5U5U5, 0, []byte{0x1F, 0x80}, nil))
	require.Equal(t, [4]byte{0x00, 0x00, 0xFF, 0x00}, decodeOne(t, TEX_BASE_FORMAT_U1U5U5U5, 0, []byte{0x1F, 0x00}, nil))

	// 4444: A=8 R=F G=0 B=3
	require.Equal(t, [4]byte{0xFF, 0x00, 0x33, 0x88}, decodeOne(t, TEX_BASE_FORMAT_U4U4U4U4, 0, []byte{0x03, 0x8F}, nil))

	require.Equal(t, [4]byte{1, 2, 3, 4}, decodeOne(t, TEX_BASE_FORMAT_U8U8U8U8, 0, []byte{1, 2, 3, 4}, nil))
}

func TestDecodeRGBA_SwizzleSwapsRedBlue(t *testing.T) {
	require.Equal(t, [4]byte{3, 2, 1, 4}, decodeOne(t, TEX_BASE_FORMAT_U8U8U8U8, TEX_SWIZZLE_BGRA, []byte{1, 2, 3, 4}, nil))
}

func TestDecodeRGBA_Palettes(t *testing.T) {
	palette := make([]byte, TEX_PALETTE_P8_ENTRIES*TEX_PALETTE_ENTRY_SIZE)
	for i := 0; i < TEX_PALETTE_P8_ENTRIES; i++ {
		palette[i*4] = uint8(i)
		palette[i*4+1] = 0x10
		palette[i*4+2] = 0x20
		palette[i*4+3] = 0xFF
	}

	require.Equal(t, [4]byte{200, 0x10, 0x20, 0xFF}, decodeOne(t, TEX_BASE_FORMAT_P8, 0, []byte{200}, palette))

	// P4: even texel in the low nibble
	desc := mustDescriptor(t, TextureParams{BaseFormat: TEX_BASE_FORMAT_P4, Width: 2, Height: 1})
	pixels := make([]byte, desc.DataSize())
	pixels[0] = 0xA5
	out, err := DecodeRGBA(&desc, pixels, palette[:64])
	require.NoError(t, err)
	require.Equal(t, uint8(0x5), out[0])
	require.Equal(t, uint8(0xA), out[4])
}

// TestDecodeRGBA_DropsStridePadding verifies that rows are read with the
// padded stride and written tightly packed.
func TestDecodeRGBA_DropsStridePadding(t *testing.T) {
	desc := mustDescriptor(t, TextureParams{BaseFormat: TEX_BASE_FORMAT_U8, Width: 3, Height: 2})
	pixels := make([]byte, desc.DataSize())
	copy(pixels[0:], []byte{1, 2, 3, 99, 99, 99, 99, 99})
	copy(pixels[8:], []byte{4, 5, 6})

	out, err := DecodeRGBA(&desc, pixels, nil)
	require.NoError(t, err)
	require.Len(t, out, 3*2*4)
	for i, want := range []uint8{1, 2, 3, 4, 5, 6} {
		require.Equal(t, want, out[i*4], "texel %d", i)
	}
}

func TestDecodeRGBA_ShortInput(t *testing.T) {
	desc := mustDescriptor(t, TextureParams{BaseFormat: TEX_BASE_FORMAT_P8, Width: 8, Height: 8})
	_, err := DecodeRGBA(&desc, make([]byte, 63), make([]byte, 1024))
	require.Error(t, err)
	_, err = DecodeRGBA(&desc, make([]byte, 64), make([]byte, 1020))
	require.Error(t, err)
}
