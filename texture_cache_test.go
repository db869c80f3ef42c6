package texcache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Helpers
// ============================================================================

type driverCall struct {
	op     string
	handle TextureHandle
}

// recordingDriver logs every call the cache makes and can inject failures
type recordingDriver struct {
	next      TextureHandle
	live      map[TextureHandle]bool
	calls     []driverCall
	created   int
	destroyed int

	failConfigure error
	failUpload    error
	uploaded      map[TextureHandle][]byte
}

func newRecordingDriver() *recordingDriver {
	return &recordingDriver{
		next:     100,
		live:     make(map[TextureHandle]bool),
		uploaded: make(map[TextureHandle][]byte),
	}
}

func (d *recordingDriver) CreateTextures(n int) ([]TextureHandle, error) {
	handles := make([]TextureHandle, n)
	for i := range handles {
		handles[i] = d.next
		d.live[d.next] = true
		d.next++
	}
	d.created += n
	return handles, nil
}

func (d *recordingDriver) DestroyTextures(handles []TextureHandle) error {
	for _, h := range handles {
		if !d.live[h] {
			return ErrUnknownTexture
		}
		delete(d.live, h)
	}
	d.destroyed += len(handles)
	return nil
}

func (d *recordingDriver) BindTexture(handle TextureHandle) {
	d.calls = append(d.calls, driverCall{"bind", handle})
}

func (d *recordingDriver) ConfigureTexture(handle TextureHandle, desc *TextureDescriptor) error {
	d.calls = append(d.calls, driverCall{"configure", handle})
	return d.failConfigure
}

func (d *recordingDriver) UploadTexture(handle TextureHandle, desc *TextureDescriptor, pixels, palette []byte) error {
	d.calls = append(d.calls, driverCall{"upload", handle})
	if d.failUpload != nil {
		return d.failUpload
	}
	d.uploaded[handle] = append([]byte(nil), pixels...)
	return nil
}

func (d *recordingDriver) ops() []string {
	ops := make([]string, len(d.calls))
	for i, c := range d.calls {
		ops[i] = c.op
	}
	return ops
}

func (d *recordingDriver) clearCalls() {
	d.calls = nil
}

func mustDescriptor(t *testing.T, p TextureParams) TextureDescriptor {
	t.Helper()
	desc, err := NewTextureDescriptor(p)
	require.NoError(t, err)
	return desc
}

// u8Texture is an 8x8 single-channel texture: 64 bytes at addr
func u8Texture(t *testing.T, addr uint32) TextureDescriptor {
	t.Helper()
	return mustDescriptor(t, TextureParams{
		BaseFormat: TEX_BASE_FORMAT_U8,
		Width:      8,
		Height:     8,
		DataAddr:   addr,
	})
}

func newTestCache(t *testing.T, capacity int) (*TextureCache, *recordingDriver, *SystemBus) {
	t.Helper()
	driver := newRecordingDriver()
	config := DefaultCacheConfig()
	config.Capacity = capacity
	cache, err := NewTextureCache(driver, config)
	require.NoError(t, err)
	require.NoError(t, cache.Init())
	return cache, driver, NewSystemBus(1024 * 1024)
}

// ============================================================================
// Bind Decisions
// ============================================================================

// TestTextureCache_FirstBind_ConfiguresAndUploads verifies that a bind into
// an empty cache takes slot 0 and issues bind, configure, upload in order.
func TestTextureCache_FirstBind_ConfiguresAndUploads(t *testing.T) {
	cache, driver, bus := newTestCache(t, 4)
	desc := u8Texture(t, 0x1000)

	result, err := cache.Bind(&desc, bus)
	require.NoError(t, err)
	require.Equal(t, 0, result.Slot)
	require.True(t, result.Configured)
	require.True(t, result.Uploaded)
	require.False(t, result.Evicted)
	require.Equal(t, []string{"bind", "configure", "upload"}, driver.ops())
	require.Equal(t, 1, cache.Used())
}

// TestTextureCache_RepeatBind_IsHit verifies that binding unchanged data
// again only binds the GPU object and refreshes the timestamp.
func TestTextureCache_RepeatBind_IsHit(t *testing.T) {
	cache, driver, bus := newTestCache(t, 4)
	desc := u8Texture(t, 0x1000)

	_, err := cache.Bind(&desc, bus)
	require.NoError(t, err)
	driver.clearCalls()

	result, err := cache.Bind(&desc, bus)
	require.NoError(t, err)
	require.Equal(t, 0, result.Slot)
	require.False(t, result.Configured)
	require.False(t, result.Uploaded)
	require.Equal(t, []string{"bind"}, driver.ops())

	info, ok := cache.Slot(0)
	require.True(t, ok)
	require.Equal(t, uint64(2), info.LastAccess)
	require.Equal(t, uint64(2), cache.Clock())

	stats := cache.Stats()
	require.Equal(t, uint64(1), stats.Hits)
	require.Equal(t, uint64(1), stats.Misses)
}

// TestTextureCache_ContentChange_ReuploadsWithoutConfigure verifies that a
// write into texel memory forces an upload but keeps the configuration.
func TestTextureCache_ContentChange_ReuploadsWithoutConfigure(t *testing.T) {
	cache, driver, bus := newTestCache(t, 4)
	desc := u8Texture(t, 0x1000)

	_, err := cache.Bind(&desc, bus)
	require.NoError(t, err)
	driver.clearCalls()

	bus.Write8(0x1000+10, 0x7F)

	result, err := cache.Bind(&desc, bus)
	require.NoError(t, err)
	require.False(t, result.Configured)
	require.True(t, result.Uploaded)
	require.Equal(t, []string{"bind", "upload"}, driver.ops())
	require.Equal(t, uint8(0x7F), driver.uploaded[driver.calls[0].handle][10])
}

// TestTextureCache_WriteOutsideTexture_NoUpload verifies that memory just
// past the texture's data size does not affect its hash.
func TestTextureCache_WriteOutsideTexture_NoUpload(t *testing.T) {
	cache, _, bus := newTestCache(t, 4)
	desc := u8Texture(t, 0x1000)

	_, err := cache.Bind(&desc, bus)
	require.NoError(t, err)

	bus.Write8(0x1000+64, 0xFF)
	bus.Write8(0x1000-1, 0xFF)

	result, err := cache.Bind(&desc, bus)
	require.NoError(t, err)
	require.False(t, result.Uploaded)
}

// TestTextureCache_StridePadding_IsHashed verifies that the padding texels
// of an unaligned row are part of the hashed range.
func TestTextureCache_StridePadding_IsHashed(t *testing.T) {
	cache, _, bus := newTestCache(t, 4)
	desc := mustDescriptor(t, TextureParams{
		BaseFormat: TEX_BASE_FORMAT_U8,
		Width:      3,
		Height:     2,
		DataAddr:   0x2000,
	})
	require.Equal(t, 16, desc.DataSize())

	_, err := cache.Bind(&desc, bus)
	require.NoError(t, err)

	bus.Write8(0x2000+15, 0x01)
	result, err := cache.Bind(&desc, bus)
	require.NoError(t, err)
	require.True(t, result.Uploaded)
}

// TestTextureCache_DistinctDescriptors_FillSlotsInOrder verifies that new
// descriptors take the lowest unused slot.
func TestTextureCache_DistinctDescriptors_FillSlotsInOrder(t *testing.T) {
	cache, _, bus := newTestCache(t, 4)

	for i := 0; i < 3; i++ {
		desc := u8Texture(t, uint32(0x1000+i*0x100))
		result, err := cache.Bind(&desc, bus)
		require.NoError(t, err)
		require.Equal(t, i, result.Slot)
		require.False(t, result.Evicted)
	}
	require.Equal(t, 3, cache.Used())

	_, ok := cache.Slot(3)
	require.False(t, ok)
}

// TestTextureCache_SameDataDifferentDescriptor_IsMiss verifies that
// descriptors are matched structurally, not by content.
func TestTextureCache_SameDataDifferentDescriptor_IsMiss(t *testing.T) {
	cache, _, bus := newTestCache(t, 4)
	point := u8Texture(t, 0x1000)
	linear := mustDescriptor(t, TextureParams{
		BaseFormat: TEX_BASE_FORMAT_U8,
		Width:      8,
		Height:     8,
		MagLinear:  true,
		DataAddr:   0x1000,
	})

	_, err := cache.Bind(&point, bus)
	require.NoError(t, err)
	result, err := cache.Bind(&linear, bus)
	require.NoError(t, err)
	require.Equal(t, 1, result.Slot)
	require.True(t, result.Configured)
}

// ============================================================================
// Eviction
// ============================================================================

// TestTextureCache_Eviction_LeastRecentlyUsed verifies that with capacity 2
// the sequence A, B, A, C evicts B.
func TestTextureCache_Eviction_LeastRecentlyUsed(t *testing.T) {
	driver := newRecordingDriver()
	recorder := &EvictionRecorder{}
	cache, err := NewTextureCache(driver, CacheConfig{Capacity: 2, Sink: recorder})
	require.NoError(t, err)
	require.NoError(t, cache.Init())
	bus := NewSystemBus(64 * 1024)

	a := u8Texture(t, 0x1000)
	b := u8Texture(t, 0x2000)
	c := u8Texture(t, 0x3000)

	for _, desc := range []*TextureDescriptor{&a, &b, &a} {
		_, err := cache.Bind(desc, bus)
		require.NoError(t, err)
	}

	slotB, ok := cache.Slot(1)
	require.True(t, ok)
	require.True(t, slotB.Descriptor.Equal(&b))
	handleB := slotB.Handle

	driver.clearCalls()
	result, err := cache.Bind(&c, bus)
	require.NoError(t, err)
	require.Equal(t, 1, result.Slot)
	require.True(t, result.Evicted)
	require.True(t, result.Configured)
	require.True(t, result.Uploaded)

	// Slot reuse keeps the GPU object
	require.Equal(t, []driverCall{{"bind", handleB}, {"configure", handleB}, {"upload", handleB}}, driver.calls)

	events := recorder.Events()
	require.Len(t, events, 1)
	require.Equal(t, 1, events[0].Slot)
	require.Equal(t, uint64(2), events[0].PriorAccess)
	require.Equal(t, uint64(4), events[0].CurrentAccess)
	require.True(t, events[0].Evicted.Equal(&b))
	require.True(t, events[0].Incoming.Equal(&c))

	// A survived
	result, err = cache.Bind(&a, bus)
	require.NoError(t, err)
	require.Equal(t, 0, result.Slot)
	require.False(t, result.Configured)
	require.Equal(t, 2, cache.Used())
}

// TestTextureCache_CapacityOne_EveryMissEvicts verifies the degenerate
// single-slot cache.
func TestTextureCache_CapacityOne_EveryMissEvicts(t *testing.T) {
	cache, _, bus := newTestCache(t, 1)
	a := u8Texture(t, 0x1000)
	b := u8Texture(t, 0x2000)

	result, err := cache.Bind(&a, bus)
	require.NoError(t, err)
	require.False(t, result.Evicted)

	for i := 0; i < 4; i++ {
		desc := &b
		if i%2 == 1 {
			desc = &a
		}
		result, err = cache.Bind(desc, bus)
		require.NoError(t, err)
		require.Equal(t, 0, result.Slot)
		require.True(t, result.Evicted)
		require.True(t, result.Configured)
	}
	require.Equal(t, uint64(4), cache.Stats().Evictions)
}

// TestTextureCache_FullCache_HitDoesNotEvict verifies that a hit in a full
// cache never touches another slot.
func TestTextureCache_FullCache_HitDoesNotEvict(t *testing.T) {
	cache, _, bus := newTestCache(t, 2)
	a := u8Texture(t, 0x1000)
	b := u8Texture(t, 0x2000)

	_, err := cache.Bind(&a, bus)
	require.NoError(t, err)
	_, err = cache.Bind(&b, bus)
	require.NoError(t, err)

	result, err := cache.Bind(&a, bus)
	require.NoError(t, err)
	require.False(t, result.Evicted)
	require.Equal(t, uint64(0), cache.Stats().Evictions)
}

// ============================================================================
// Palettes
// ============================================================================

// TestTextureCache_PaletteChange_Reuploads verifies that a P8 texture is
// re-uploaded when only its palette changes.
func TestTextureCache_PaletteChange_Reuploads(t *testing.T) {
	cache, _, bus := newTestCache(t, 4)
	desc := mustDescriptor(t, TextureParams{
		BaseFormat:  TEX_BASE_FORMAT_P8,
		Width:       8,
		Height:      8,
		DataAddr:    0x1000,
		PaletteAddr: 0x8000,
	})
	require.Equal(t, 1024, desc.PaletteSize())

	_, err := cache.Bind(&desc, bus)
	require.NoError(t, err)

	bus.Write8(0x8000+1023, 0x55)
	result, err := cache.Bind(&desc, bus)
	require.NoError(t, err)
	require.False(t, result.Configured)
	require.True(t, result.Uploaded)

	// Past the end of the palette
	bus.Write8(0x8000+1024, 0x55)
	result, err = cache.Bind(&desc, bus)
	require.NoError(t, err)
	require.False(t, result.Uploaded)
}

// TestTextureCache_P4PaletteRange verifies the 64-byte palette of a P4
// texture.
func TestTextureCache_P4PaletteRange(t *testing.T) {
	cache, _, bus := newTestCache(t, 4)
	desc := mustDescriptor(t, TextureParams{
		BaseFormat:  TEX_BASE_FORMAT_P4,
		Width:       16,
		Height:      4,
		DataAddr:    0x1000,
		PaletteAddr: 0x8000,
	})
	require.Equal(t, 32, desc.DataSize())
	require.Equal(t, 64, desc.PaletteSize())

	_, err := cache.Bind(&desc, bus)
	require.NoError(t, err)

	bus.Write8(0x8000+64, 0x10)
	result, err := cache.Bind(&desc, bus)
	require.NoError(t, err)
	require.False(t, result.Uploaded)

	bus.Write8(0x8000+63, 0x10)
	result, err = cache.Bind(&desc, bus)
	require.NoError(t, err)
	require.True(t, result.Uploaded)
}

// ============================================================================
// Lifecycle
// ============================================================================

// TestTextureCache_Init_IsIdempotent verifies that a second Init creates
// no further GPU objects.
func TestTextureCache_Init_IsIdempotent(t *testing.T) {
	cache, driver, _ := newTestCache(t, 8)
	require.NoError(t, cache.Init())
	require.Equal(t, 8, driver.created)
	require.Len(t, driver.live, 8)
}

// TestTextureCache_DestroyAndReinit_NoLeak verifies that Destroy releases
// every object and a later Init creates exactly capacity new ones.
func TestTextureCache_DestroyAndReinit_NoLeak(t *testing.T) {
	cache, driver, bus := newTestCache(t, 8)
	desc := u8Texture(t, 0x1000)
	_, err := cache.Bind(&desc, bus)
	require.NoError(t, err)

	require.NoError(t, cache.Destroy())
	require.Equal(t, 8, driver.destroyed)
	require.Empty(t, driver.live)
	require.False(t, cache.IsInitialized())

	// Second destroy is a no-op
	require.NoError(t, cache.Destroy())
	require.Equal(t, 8, driver.destroyed)

	require.NoError(t, cache.Init())
	require.Equal(t, 16, driver.created)
	require.Len(t, driver.live, 8)
	require.Equal(t, 0, cache.Used())

	result, err := cache.Bind(&desc, bus)
	require.NoError(t, err)
	require.True(t, result.Configured)
}

// TestTextureCache_BindBeforeInit verifies the uninitialized error.
func TestTextureCache_BindBeforeInit(t *testing.T) {
	cache, err := NewTextureCache(newRecordingDriver(), DefaultCacheConfig())
	require.NoError(t, err)

	desc := u8Texture(t, 0)
	_, err = cache.Bind(&desc, NewSystemBus(4096))
	require.ErrorIs(t, err, ErrCacheNotInitialized)
}

// TestTextureCache_Reset_KeepsGPUObjects verifies that Reset empties the
// slots but reuses the same handles.
func TestTextureCache_Reset_KeepsGPUObjects(t *testing.T) {
	cache, driver, bus := newTestCache(t, 2)
	desc := u8Texture(t, 0x1000)

	result, err := cache.Bind(&desc, bus)
	require.NoError(t, err)
	info, _ := cache.Slot(result.Slot)
	handle := info.Handle

	cache.Reset()
	require.Equal(t, 0, cache.Used())
	require.Equal(t, uint64(0), cache.Clock())
	require.Equal(t, 2, driver.created)

	result, err = cache.Bind(&desc, bus)
	require.NoError(t, err)
	require.True(t, result.Configured)
	info, _ = cache.Slot(result.Slot)
	require.Equal(t, handle, info.Handle)
}

// ============================================================================
// Failures
// ============================================================================

// TestTextureCache_UnresolvableMemory verifies that a descriptor pointing
// outside memory fails without occupying a slot.
func TestTextureCache_UnresolvableMemory(t *testing.T) {
	cache, driver, bus := newTestCache(t, 4)
	desc := u8Texture(t, uint32(bus.Size()-32))

	result, err := cache.Bind(&desc, bus)
	require.ErrorIs(t, err, ErrAddressOutOfRange)
	require.Equal(t, -1, result.Slot)
	require.Equal(t, 0, cache.Used())
	require.Empty(t, driver.calls)
	require.Equal(t, uint64(1), cache.Clock())

	stats := cache.Stats()
	require.Equal(t, uint64(1), stats.Unresolved)
	require.Equal(t, stats.Binds, stats.Hits+stats.Misses+stats.Unresolved)

	var cacheErr *TextureCacheError
	require.True(t, errors.As(err, &cacheErr))
	require.Equal(t, "texture hash", cacheErr.Operation)
}

// TestTextureCache_UploadFailure_RetriesNextBind verifies that the hash is
// only committed after a successful upload.
func TestTextureCache_UploadFailure_RetriesNextBind(t *testing.T) {
	cache, driver, bus := newTestCache(t, 4)
	desc := u8Texture(t, 0x1000)

	driver.failUpload = errors.New("device lost")
	result, err := cache.Bind(&desc, bus)
	require.Error(t, err)
	require.Equal(t, 0, result.Slot)
	require.False(t, result.Uploaded)
	require.Equal(t, 1, cache.Used())

	driver.failUpload = nil
	driver.clearCalls()
	result, err = cache.Bind(&desc, bus)
	require.NoError(t, err)
	require.False(t, result.Configured)
	require.True(t, result.Uploaded)
	require.Equal(t, []string{"bind", "upload"}, driver.ops())
}

// TestTextureCache_ConfigureFailure_SkipsUpload verifies that a failed
// configure stops the bind before any texel upload.
func TestTextureCache_ConfigureFailure_SkipsUpload(t *testing.T) {
	cache, driver, bus := newTestCache(t, 4)
	desc := u8Texture(t, 0x1000)

	driver.failConfigure = errors.New("bad format")
	result, err := cache.Bind(&desc, bus)
	require.Error(t, err)
	require.False(t, result.Configured)
	require.Equal(t, []string{"bind", "configure"}, driver.ops())

	var cacheErr *TextureCacheError
	require.True(t, errors.As(err, &cacheErr))
	require.Equal(t, "configure", cacheErr.Operation)

	// The slot stays assigned but unconfigured; the next bind must redo both
	driver.failConfigure = nil
	driver.clearCalls()
	result, err = cache.Bind(&desc, bus)
	require.NoError(t, err)
	require.Equal(t, 0, result.Slot)
	require.True(t, result.Configured)
	require.True(t, result.Uploaded)
	require.Equal(t, []string{"bind", "configure", "upload"}, driver.ops())

	driver.clearCalls()
	result, err = cache.Bind(&desc, bus)
	require.NoError(t, err)
	require.False(t, result.Configured)
	require.False(t, result.Uploaded)
	require.Equal(t, []string{"bind"}, driver.ops())
	require.Equal(t, uint64(1), cache.Stats().Configures)
}

// TestTextureCache_EvictionUploadFailure_SameBytes verifies that a slot
// taken over by a descriptor whose texels hash like the evicted one still
// uploads after a failed first upload.
func TestTextureCache_EvictionUploadFailure_SameBytes(t *testing.T) {
	cache, driver, bus := newTestCache(t, 1)
	for i := uint32(0); i < 128; i++ {
		bus.Write8(0x1000+i, uint8(i*7))
	}

	wide := mustDescriptor(t, TextureParams{BaseFormat: TEX_BASE_FORMAT_U8, Width: 16, Height: 8, DataAddr: 0x1000})
	pairs := mustDescriptor(t, TextureParams{BaseFormat: TEX_BASE_FORMAT_U8U8, Width: 8, Height: 8, DataAddr: 0x1000})
	require.Equal(t, wide.DataSize(), pairs.DataSize())

	first, err := cache.Bind(&wide, bus)
	require.NoError(t, err)

	driver.failUpload = errors.New("device lost")
	result, err := cache.Bind(&pairs, bus)
	require.Error(t, err)
	require.True(t, result.Evicted)
	require.Equal(t, first.Hash, result.Hash)

	driver.failUpload = nil
	driver.clearCalls()
	result, err = cache.Bind(&pairs, bus)
	require.NoError(t, err)
	require.False(t, result.Configured)
	require.True(t, result.Uploaded)
	require.Equal(t, []string{"bind", "upload"}, driver.ops())
}

// ============================================================================
// Configuration
// ============================================================================

func TestCacheConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultCacheConfig().Validate())
	require.NoError(t, CacheConfig{Capacity: TEXTURE_CACHE_MAX_SIZE}.Validate())

	for _, config := range []CacheConfig{
		{Capacity: 0},
		{Capacity: TEXTURE_CACHE_MAX_SIZE + 1},
		{Capacity: 4, ParallelHashThreshold: -1},
		{Capacity: 4, HashWorkers: -2},
	} {
		require.ErrorIs(t, config.Validate(), ErrInvalidConfig)
	}

	_, err := NewTextureCache(nil, DefaultCacheConfig())
	require.ErrorIs(t, err, ErrInvalidConfig)
}

// TestTextureCache_ParallelHashing_SameDecisions verifies that a cache
// hashing in parallel reports the same hashes as a sequential one.
func TestTextureCache_ParallelHashing_SameDecisions(t *testing.T) {
	bus := NewSystemBus(1024 * 1024)
	for i := 0; i < 256*256; i++ {
		bus.Write8(uint32(0x10000+i), uint8(i*7))
	}
	desc := mustDescriptor(t, TextureParams{
		BaseFormat: TEX_BASE_FORMAT_U8,
		Width:      256,
		Height:     256,
		DataAddr:   0x10000,
	})

	sequential, err := NewTextureCache(newRecordingDriver(), CacheConfig{Capacity: 1})
	require.NoError(t, err)
	require.NoError(t, sequential.Init())
	parallel, err := NewTextureCache(newRecordingDriver(), CacheConfig{Capacity: 1, ParallelHashThreshold: 1024, HashWorkers: 4})
	require.NoError(t, err)
	require.NoError(t, parallel.Init())

	want, err := sequential.Bind(&desc, bus)
	require.NoError(t, err)
	got, err := parallel.Bind(&desc, bus)
	require.NoError(t, err)
	require.Equal(t, want.Hash, got.Hash)
}
