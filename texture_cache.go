// texture_cache.go - Fixed-capacity GPU texture cache

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

/*
texture_cache.go - GPU Texture Cache

Sits between the emulated graphics core and the real GPU. Every bind hashes
the texture's emulated memory, looks the descriptor up among the resident
slots and decides whether the GPU object needs reconfiguring (new
descriptor in the slot) and whether it needs new texels (new descriptor, or
same descriptor with different content).

Slots:
- capacity GPU objects are created once by Init and destroyed once by
  Destroy; reusing a slot only rewrites its descriptor, hash and timestamp.
- Slots 0..used-1 are occupied, the rest are untouched.
- A full cache reuses the least recently bound slot (see FindLRU).
- A slot taken by a new descriptor is marked unconfigured and unloaded
  until the driver calls succeed, so a failed bind is retried in full.

The cache is owned by the render thread and has no locking.
*/

package texcache

import "fmt"

// BindResult reports what a Bind did to the GPU
type BindResult struct {
	Slot       int
	Hash       TextureHash
	Configured bool // Descriptor state applied to the GPU object
	Uploaded   bool // Texel data pushed to the GPU object
	Evicted    bool // Slot taken from another descriptor
}

// CacheStats counts cache activity since Init or Reset.
// Binds == Hits + Misses + Unresolved.
type CacheStats struct {
	Binds      uint64
	Hits       uint64
	Misses     uint64
	Unresolved uint64 // Texture memory could not be resolved; no slot looked up
	Evictions  uint64
	Configures uint64
	Uploads    uint64
	Used       int
	Capacity   int
	Clock      uint64
}

func (s CacheStats) String() string {
	hitRate := 0.0
	if s.Binds > 0 {
		hitRate = float64(s.Hits) / float64(s.Binds) * 100
	}
	return fmt.Sprintf("binds=%d hits=%d misses=%d unresolved=%d evictions=%d configures=%d uploads=%d used=%d/%d hit-rate=%.1f%%",
		s.Binds, s.Hits, s.Misses, s.Unresolved, s.Evictions, s.Configures, s.Uploads, s.Used, s.Capacity, hitRate)
}

// SlotInfo is a read-only view of one occupied slot
type SlotInfo struct {
	Index      int
	Descriptor TextureDescriptor
	Hash       TextureHash
	LastAccess uint64
	Handle     TextureHandle
}

// TextureCache implements the bind-time texture cache
type TextureCache struct {
	driver TextureDriver
	sink   EvictionSink
	hasher TextureHasher

	capacity    int
	used        int
	clock       uint64
	initialized bool

	// Slot storage, indexed in lockstep
	descriptors []TextureDescriptor
	hashes      []TextureHash
	timestamps  []uint64
	handles     []TextureHandle
	configured  []bool // GPU object holds this slot's descriptor state
	loaded      []bool // hashes[i] describes texels present on the GPU

	stats CacheStats
}

// NewTextureCache creates an uninitialized cache. Call Init before Bind.
func NewTextureCache(driver TextureDriver, config CacheConfig) (*TextureCache, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, &TextureCacheError{
			Operation: "creation",
			Details:   "no texture driver",
			Err:       ErrInvalidConfig,
		}
	}

	sink := config.Sink
	if sink == nil {
		sink = NopEvictionSink{}
	}

	return &TextureCache{
		driver:   driver,
		sink:     sink,
		capacity: config.Capacity,
		hasher: TextureHasher{
			ParallelThreshold: config.ParallelHashThreshold,
			Workers:           config.HashWorkers,
		},
	}, nil
}

// Init allocates the cache's GPU objects. Calling Init on an initialized
// cache is a no-op; after Destroy it allocates a fresh set.
func (c *TextureCache) Init() error {
	if c.initialized {
		return nil
	}

	handles, err := c.driver.CreateTextures(c.capacity)
	if err != nil {
		return &TextureCacheError{
			Operation: "init",
			Details:   fmt.Sprintf("creating %d GPU textures", c.capacity),
			Err:       err,
		}
	}
	if len(handles) != c.capacity {
		if len(handles) > 0 {
			_ = c.driver.DestroyTextures(handles)
		}
		return &TextureCacheError{
			Operation: "init",
			Details:   fmt.Sprintf("driver created %d of %d GPU textures", len(handles), c.capacity),
		}
	}

	c.handles = handles
	c.descriptors = make([]TextureDescriptor, c.capacity)
	c.hashes = make([]TextureHash, c.capacity)
	c.timestamps = make([]uint64, c.capacity)
	c.configured = make([]bool, c.capacity)
	c.loaded = make([]bool, c.capacity)
	c.used = 0
	c.clock = 0
	c.stats = CacheStats{}
	c.initialized = true
	return nil
}

// Destroy releases every GPU object. The cache may be re-initialized.
func (c *TextureCache) Destroy() error {
	if !c.initialized {
		return nil
	}

	handles := c.handles
	c.handles = nil
	c.descriptors = nil
	c.hashes = nil
	c.timestamps = nil
	c.configured = nil
	c.loaded = nil
	c.used = 0
	c.initialized = false

	if err := c.driver.DestroyTextures(handles); err != nil {
		return &TextureCacheError{
			Operation: "destroy",
			Details:   fmt.Sprintf("releasing %d GPU textures", len(handles)),
			Err:       err,
		}
	}
	return nil
}

// Reset forgets every resident texture without touching the GPU objects.
// Used when the emulated machine is reset.
func (c *TextureCache) Reset() {
	if !c.initialized {
		return
	}
	for i := range c.descriptors {
		c.descriptors[i] = TextureDescriptor{}
		c.hashes[i] = 0
		c.timestamps[i] = 0
		c.configured[i] = false
		c.loaded[i] = false
	}
	c.used = 0
	c.clock = 0
	c.stats = CacheStats{}
}

// Bind makes the texture described by desc the active GPU texture,
// configuring and uploading only what changed since the last bind.
//
// Errors come from the collaborators. A failed driver call leaves the slot
// assigned and its timestamp refreshed. Configure and upload state are only
// recorded on success, so the next bind of the same descriptor repeats
// whatever failed.
func (c *TextureCache) Bind(desc *TextureDescriptor, mem TextureMemory) (BindResult, error) {
	if !c.initialized {
		return BindResult{Slot: -1}, ErrCacheNotInitialized
	}

	c.clock++
	c.stats.Binds++

	hash, pixels, palette, err := c.hasher.HashTexture(desc, mem)
	if err != nil {
		c.stats.Unresolved++
		return BindResult{Slot: -1}, err
	}

	result := BindResult{Hash: hash}
	index := c.find(desc)
	if index < 0 {
		c.stats.Misses++
		if c.used < c.capacity {
			index = c.used
			c.used++
		} else {
			index = FindLRU(c.timestamps[:c.used], c.clock)
			c.stats.Evictions++
			result.Evicted = true
			c.sink.TextureEvicted(EvictionEvent{
				Slot:          index,
				PriorAccess:   c.timestamps[index],
				CurrentAccess: c.clock,
				Evicted:       c.descriptors[index],
				Incoming:      *desc,
			})
		}
		c.descriptors[index] = *desc
		c.configured[index] = false
		c.loaded[index] = false
	} else {
		c.stats.Hits++
	}

	// A hit can still need work when an earlier bind of this slot failed
	result.Configured = !c.configured[index]
	result.Uploaded = result.Configured || !c.loaded[index] || hash != c.hashes[index]

	result.Slot = index
	c.timestamps[index] = c.clock

	handle := c.handles[index]
	c.driver.BindTexture(handle)

	if result.Configured {
		if err := c.driver.ConfigureTexture(handle, desc); err != nil {
			result.Configured = false
			result.Uploaded = false
			return result, &TextureCacheError{
				Operation: "configure",
				Details:   fmt.Sprintf("slot %d %s", index, desc),
				Err:       err,
			}
		}
		c.configured[index] = true
		c.stats.Configures++
	}

	if result.Uploaded {
		if err := c.driver.UploadTexture(handle, desc, pixels, palette); err != nil {
			result.Uploaded = false
			return result, &TextureCacheError{
				Operation: "upload",
				Details:   fmt.Sprintf("slot %d %s", index, desc),
				Err:       err,
			}
		}
		c.hashes[index] = hash
		c.loaded[index] = true
		c.stats.Uploads++
	}

	return result, nil
}

// find returns the slot holding a structurally equal descriptor, or -1
func (c *TextureCache) find(desc *TextureDescriptor) int {
	for i := 0; i < c.used; i++ {
		if c.descriptors[i].Equal(desc) {
			return i
		}
	}
	return -1
}

// Slot returns the state of an occupied slot
func (c *TextureCache) Slot(index int) (SlotInfo, bool) {
	if index < 0 || index >= c.used {
		return SlotInfo{}, false
	}
	return SlotInfo{
		Index:      index,
		Descriptor: c.descriptors[index],
		Hash:       c.hashes[index],
		LastAccess: c.timestamps[index],
		Handle:     c.handles[index],
	}, true
}

func (c *TextureCache) Stats() CacheStats {
	s := c.stats
	s.Used = c.used
	s.Capacity = c.capacity
	s.Clock = c.clock
	return s
}

func (c *TextureCache) Capacity() int { return c.capacity }

func (c *TextureCache) Used() int { return c.used }

func (c *TextureCache) Clock() uint64 { return c.clock }

func (c *TextureCache) IsInitialized() bool { return c.initialized }
