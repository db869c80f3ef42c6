package texcache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSoftwareTextureDriver_ThroughCache verifies that the software driver
// ends up holding the decoded texels of the last bind.
func TestSoftwareTextureDriver_ThroughCache(t *testing.T) {
	driver := NewSoftwareTextureDriver()
	cache, err := NewTextureCache(driver, CacheConfig{Capacity: 2})
	require.NoError(t, err)
	require.NoError(t, cache.Init())
	require.Equal(t, 2, driver.Live())

	bus := NewSystemBus(64 * 1024)
	require.NoError(t, bus.WriteBytes(0x100, []byte{0x10, 0x20, 0x30, 0x40}))

	desc := mustDescriptor(t, TextureParams{
		BaseFormat: TEX_BASE_FORMAT_U8U8U8U8,
		Width:      1,
		Height:     1,
		MagLinear:  true,
		AddressU:   TEX_ADDR_CLAMP,
		DataAddr:   0x100,
	})
	result, err := cache.Bind(&desc, bus)
	require.NoError(t, err)

	info, _ := cache.Slot(result.Slot)
	require.Equal(t, info.Handle, driver.Bound())

	img, err := driver.Image(info.Handle)
	require.NoError(t, err)
	require.Equal(t, []byte{0x10, 0x20, 0x30, 0x40}, img.Pix)

	sampler, ok := driver.Sampler(info.Handle)
	require.True(t, ok)
	require.True(t, sampler.MagLinear)
	require.Equal(t, uint32(TEX_ADDR_CLAMP), sampler.AddressU)

	configured, ok := driver.Descriptor(info.Handle)
	require.True(t, ok)
	require.True(t, configured.Equal(&desc))

	require.NoError(t, cache.Destroy())
	require.Equal(t, 0, driver.Live())
	created, destroyed, configures, uploads := driver.Counts()
	require.Equal(t, []int{2, 2, 1, 1}, []int{created, destroyed, configures, uploads})
}

func TestSoftwareTextureDriver_UnknownHandle(t *testing.T) {
	driver := NewSoftwareTextureDriver()
	desc := mustDescriptor(t, TextureParams{BaseFormat: TEX_BASE_FORMAT_U8, Width: 1, Height: 1})

	require.ErrorIs(t, driver.ConfigureTexture(42, &desc), ErrUnknownTexture)
	require.ErrorIs(t, driver.UploadTexture(42, &desc, make([]byte, 8), nil), ErrUnknownTexture)
	require.ErrorIs(t, driver.DestroyTextures([]TextureHandle{42}), ErrUnknownTexture)
}

func TestSoftwareTextureDriver_UploadBeforeConfigure(t *testing.T) {
	driver := NewSoftwareTextureDriver()
	handles, err := driver.CreateTextures(1)
	require.NoError(t, err)

	desc := mustDescriptor(t, TextureParams{BaseFormat: TEX_BASE_FORMAT_U8, Width: 1, Height: 1})
	require.Error(t, driver.UploadTexture(handles[0], &desc, make([]byte, 8), nil))

	img, err := driver.Image(handles[0])
	require.NoError(t, err)
	require.Nil(t, img)
}
