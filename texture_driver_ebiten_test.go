//go:build !headless

package texcache

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/require"
)

func TestEbitenSamplerMapping(t *testing.T) {
	require.Equal(t, ebiten.FilterNearest, ebitenFilter(TextureSampler{}))
	require.Equal(t, ebiten.FilterLinear, ebitenFilter(TextureSampler{MagLinear: true}))
	// Minification has no separate ebiten filter
	require.Equal(t, ebiten.FilterNearest, ebitenFilter(TextureSampler{MinLinear: true}))

	require.Equal(t, ebiten.AddressRepeat, ebitenAddress(TEX_ADDR_REPEAT))
	require.Equal(t, ebiten.AddressRepeat, ebitenAddress(TEX_ADDR_MIRROR))
	require.Equal(t, ebiten.AddressClampToZero, ebitenAddress(TEX_ADDR_CLAMP))
}

func TestEbitenTextureDriver_HandleLifecycle(t *testing.T) {
	driver := NewEbitenTextureDriver()
	handles, err := driver.CreateTextures(3)
	require.NoError(t, err)
	require.Len(t, handles, 3)

	img, filter, address := driver.Texture(handles[0])
	require.Nil(t, img)
	require.Equal(t, ebiten.FilterNearest, filter)
	require.Equal(t, ebiten.AddressRepeat, address)

	driver.BindTexture(handles[1])
	require.Equal(t, handles[1], driver.Bound())

	require.NoError(t, driver.DestroyTextures(handles))
	require.Equal(t, TextureHandle(0), driver.Bound())
	require.ErrorIs(t, driver.DestroyTextures(handles[:1]), ErrUnknownTexture)
}
