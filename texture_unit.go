// texture_unit.go - Memory-mapped texture unit registers

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
texture_unit.go - Texture Unit Register Interface

The emulated CPU selects textures by writing the four descriptor words to
DESC0-DESC3 and then writing BIND. Binds are queued and serviced on the
render thread by Service, which drives the texture cache; the CPU can poll
STATUS for the outcome of the most recent serviced bind.

The queue exists because bus callbacks run under the bus lock and the
cache resolves texture memory through that same bus.
*/

package texcache

import "sync"

// TextureUnit exposes a TextureCache as memory-mapped registers
type TextureUnit struct {
	mutex sync.Mutex

	cache *TextureCache
	mem   TextureMemory

	words   [TEX_WORD_COUNT]uint32
	pending []TextureDescriptor
	dropped uint64
	status  uint32
	used    uint32
	lastErr error
}

func NewTextureUnit(cache *TextureCache, mem TextureMemory) *TextureUnit {
	return &TextureUnit{
		cache:   cache,
		mem:     mem,
		pending: make([]TextureDescriptor, 0, TEX_UNIT_QUEUE_SIZE),
	}
}

// Attach maps the unit's registers onto bus
func (u *TextureUnit) Attach(bus MemoryBus) {
	bus.MapIO(TEX_UNIT_BASE, TEX_UNIT_END, u.HandleRead, u.HandleWrite)
}

// HandleRead handles register reads from the CPU
func (u *TextureUnit) HandleRead(addr uint32) uint32 {
	u.mutex.Lock()
	defer u.mutex.Unlock()

	switch addr {
	case TEX_UNIT_DESC0, TEX_UNIT_DESC1, TEX_UNIT_DESC2, TEX_UNIT_DESC3:
		return u.words[(addr-TEX_UNIT_DESC0)/4]
	case TEX_UNIT_STATUS:
		return u.status
	case TEX_UNIT_PENDING:
		return uint32(len(u.pending))
	case TEX_UNIT_USED:
		return u.used
	}
	return 0
}

// HandleWrite handles register writes from the CPU
func (u *TextureUnit) HandleWrite(addr uint32, value uint32) {
	u.mutex.Lock()
	defer u.mutex.Unlock()

	switch addr {
	case TEX_UNIT_DESC0, TEX_UNIT_DESC1, TEX_UNIT_DESC2, TEX_UNIT_DESC3:
		u.words[(addr-TEX_UNIT_DESC0)/4] = value
	case TEX_UNIT_BIND:
		if len(u.pending) >= TEX_UNIT_QUEUE_SIZE {
			u.dropped++
			return
		}
		u.pending = append(u.pending, TextureDescriptor{Words: u.words})
	case TEX_UNIT_RESET:
		u.resetLocked()
	}
}

// Service binds every queued descriptor in order and returns their
// results. It stops at the first failing bind; the rest of the queue is
// discarded, matching a GPU that drops its command buffer on a fault.
func (u *TextureUnit) Service() ([]BindResult, error) {
	u.mutex.Lock()
	queue := u.pending
	u.pending = make([]TextureDescriptor, 0, TEX_UNIT_QUEUE_SIZE)
	u.mutex.Unlock()

	if len(queue) == 0 {
		return nil, nil
	}

	results := make([]BindResult, 0, len(queue))
	var status uint32
	var err error
	for i := range queue {
		var result BindResult
		result, err = u.cache.Bind(&queue[i], u.mem)
		status = bindStatus(result, err)
		if err != nil {
			break
		}
		results = append(results, result)
	}

	u.mutex.Lock()
	u.status = status
	u.used = uint32(u.cache.Used())
	u.lastErr = err
	u.mutex.Unlock()

	return results, err
}

func bindStatus(result BindResult, err error) uint32 {
	status := uint32(TEX_STATUS_VALID)
	if result.Slot >= 0 {
		status |= uint32(result.Slot) & TEX_STATUS_SLOT_MASK
	}
	if result.Configured {
		status |= TEX_STATUS_CONFIGURED
	}
	if result.Uploaded {
		status |= TEX_STATUS_UPLOADED
	}
	if result.Evicted {
		status |= TEX_STATUS_EVICTED
	}
	if err != nil {
		status |= TEX_STATUS_ERROR
	}
	return status
}

// LastError returns the error of the last serviced bind, if any
func (u *TextureUnit) LastError() error {
	u.mutex.Lock()
	defer u.mutex.Unlock()
	return u.lastErr
}

// Dropped returns the number of BIND writes lost to a full queue
func (u *TextureUnit) Dropped() uint64 {
	u.mutex.Lock()
	defer u.mutex.Unlock()
	return u.dropped
}

// Reset clears registers and the bind queue. The cache is untouched.
func (u *TextureUnit) Reset() {
	u.mutex.Lock()
	defer u.mutex.Unlock()
	u.resetLocked()
}

func (u *TextureUnit) resetLocked() {
	u.words = [TEX_WORD_COUNT]uint32{}
	u.pending = u.pending[:0]
	u.dropped = 0
	u.status = 0
	u.lastErr = nil
}
