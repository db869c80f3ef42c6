package texcache

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLogfmtEvictionSink_Record verifies the logfmt line written for an
// eviction in a full cache.
func TestLogfmtEvictionSink_Record(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogfmtEvictionSink(&buf)
	cache, err := NewTextureCache(NewSoftwareTextureDriver(), CacheConfig{Capacity: 1, Sink: sink})
	require.NoError(t, err)
	require.NoError(t, cache.Init())
	bus := NewSystemBus(64 * 1024)

	a := u8Texture(t, 0x1000)
	b := u8Texture(t, 0x2000)
	_, err = cache.Bind(&a, bus)
	require.NoError(t, err)
	_, err = cache.Bind(&b, bus)
	require.NoError(t, err)

	require.Equal(t, uint64(1), sink.Count())
	require.NoError(t, sink.Err())

	line := buf.String()
	require.True(t, strings.HasPrefix(line, "event=evict slot=0 age=1 prior=1 now=2 "), line)
	require.Contains(t, line, `evicted="tex{fmt=U8 8x8 data=0x00001000 pal=0x00000000}"`)
	require.Contains(t, line, `incoming="tex{fmt=U8 8x8 data=0x00002000 pal=0x00000000}"`)
	require.Equal(t, 1, strings.Count(line, "\n"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestLogfmtEvictionSink_StickyError(t *testing.T) {
	sink := NewLogfmtEvictionSink(failingWriter{})
	sink.TextureEvicted(EvictionEvent{})
	sink.TextureEvicted(EvictionEvent{})
	require.Error(t, sink.Err())
	require.Equal(t, uint64(2), sink.Count())
}

func TestMultiEvictionSink_FansOut(t *testing.T) {
	a, b := &EvictionRecorder{}, &EvictionRecorder{}
	MultiEvictionSink{a, b, NopEvictionSink{}}.TextureEvicted(EvictionEvent{Slot: 7})
	require.Len(t, a.Events(), 1)
	require.Equal(t, 7, b.Events()[0].Slot)
}
