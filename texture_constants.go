// texture_constants.go - Texture descriptor register layout and cache constants

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
texture_constants.go - Texture Descriptor Register Definitions

A texture descriptor is four 32-bit control words written by the emulated
graphics core. The cache treats the words as an opaque key for structural
matching; the decoder below pulls out the fields needed to size, hash and
upload the texture.

Word layout:

	word 0 (control): format, swizzle, mip count, filters, address modes
	word 1 (size):    width-1, height-1, memory layout
	word 2 (data):    texel data address >> 2
	word 3 (palette): palette address >> 6

Only linear layouts are sized exactly; swizzled and tiled textures are
hashed with the linear stride rule.
*/

package texcache

// Descriptor word indices
const (
	TEX_WORD_CONTROL = 0
	TEX_WORD_SIZE    = 1
	TEX_WORD_DATA    = 2
	TEX_WORD_PALETTE = 3
	TEX_WORD_COUNT   = 4
)

// Control word bit fields
const (
	TEX_CTRL_BASE_FORMAT    = 0x1F    // Base format (5 bits)
	TEX_CTRL_FORMAT         = 0xFF    // Base format + swizzle
	TEX_CTRL_SWIZZLE_SHIFT  = 5       // Component order
	TEX_CTRL_SWIZZLE_MASK   = 0x7     // 3 bits
	TEX_CTRL_MIP_SHIFT      = 8       // Mip level count
	TEX_CTRL_MIP_MASK       = 0xF     // 4 bits
	TEX_CTRL_MIN_LINEAR     = 1 << 12 // Minification filter (0=point, 1=linear)
	TEX_CTRL_MAG_LINEAR     = 1 << 13 // Magnification filter (0=point, 1=linear)
	TEX_CTRL_ADDR_U_SHIFT   = 14      // U address mode
	TEX_CTRL_ADDR_V_SHIFT   = 16      // V address mode
	TEX_CTRL_ADDR_MASK      = 0x3     // 2 bits per axis
	TEX_CTRL_GAMMA          = 1 << 18 // sRGB sampling
	TEX_CTRL_LOD_BIAS_SHIFT = 24      // LOD bias
	TEX_CTRL_LOD_BIAS_MASK  = 0xF     // 4 bits
)

// Size word bit fields
const (
	TEX_SIZE_WIDTH_MASK   = 0xFFF // width-1 (12 bits)
	TEX_SIZE_HEIGHT_SHIFT = 12
	TEX_SIZE_HEIGHT_MASK  = 0xFFF // height-1 (12 bits)
	TEX_SIZE_LAYOUT_SHIFT = 24
	TEX_SIZE_LAYOUT_MASK  = 0x3
)

// Address word scaling
const (
	TEX_DATA_ADDR_SHIFT    = 2 // Texel data is word aligned
	TEX_PALETTE_ADDR_SHIFT = 6 // Palettes are 64-byte aligned
	TEX_PALETTE_ADDR_MASK  = 0x03FFFFFF
)

// Base formats
const (
	TEX_BASE_FORMAT_U8       = 0 // 8-bit luminance
	TEX_BASE_FORMAT_U8U8     = 1 // 8-bit luminance + 8-bit alpha
	TEX_BASE_FORMAT_U5U6U5   = 2 // RGB 565
	TEX_BASE_FORMAT_U1U5U5U5 = 3 // ARGB 1555
	TEX_BASE_FORMAT_U4U4U4U4 = 4 // ARGB 4444
	TEX_BASE_FORMAT_U8U8U8U8 = 5 // RGBA 8888
	TEX_BASE_FORMAT_P4       = 6 // 4-bit palette index
	TEX_BASE_FORMAT_P8       = 7 // 8-bit palette index
	TEX_BASE_FORMAT_COUNT    = 8
)

// Swizzles
const (
	TEX_SWIZZLE_RGBA = 0 // Components as stored
	TEX_SWIZZLE_BGRA = 1 // Red and blue exchanged
)

// Address modes
const (
	TEX_ADDR_REPEAT = 0
	TEX_ADDR_MIRROR = 1
	TEX_ADDR_CLAMP  = 2
)

// Memory layouts
const (
	TEX_LAYOUT_LINEAR   = 0
	TEX_LAYOUT_SWIZZLED = 1
	TEX_LAYOUT_TILED    = 2
)

// Dimensions and stride
const (
	TEX_MAX_DIMENSION = 4096
	TEX_STRIDE_ALIGN  = 8 // Linear rows are padded to 8 texels
)

// Palette sizes in entries; every entry is 4 bytes (R, G, B, A)
const (
	TEX_PALETTE_P4_ENTRIES = 16
	TEX_PALETTE_P8_ENTRIES = 256
	TEX_PALETTE_ENTRY_SIZE = 4
)

// Cache defaults
const (
	TEXTURE_CACHE_SIZE             = 1024       // Resident GPU textures
	TEXTURE_CACHE_MAX_SIZE         = 0x10000    // Slots addressable by TEX_STATUS_SLOT_MASK
	TEXTURE_PARALLEL_HASH_MIN_SIZE = 256 * 1024 // Bytes before hashing goes parallel
	TEXTURE_HASH_WORD_SIZE         = 8          // Hash reduction unit in bytes
)

// Texture unit registers
const (
	TEX_UNIT_BASE = 0xF5000 // Texture unit register base address
	TEX_UNIT_END  = 0xF503F // End of texture unit register space

	TEX_UNIT_DESC0   = TEX_UNIT_BASE + 0x00 // Descriptor word 0 (control)
	TEX_UNIT_DESC1   = TEX_UNIT_BASE + 0x04 // Descriptor word 1 (size)
	TEX_UNIT_DESC2   = TEX_UNIT_BASE + 0x08 // Descriptor word 2 (data address)
	TEX_UNIT_DESC3   = TEX_UNIT_BASE + 0x0C // Descriptor word 3 (palette address)
	TEX_UNIT_BIND    = TEX_UNIT_BASE + 0x10 // Write: queue a bind of DESC0-3
	TEX_UNIT_STATUS  = TEX_UNIT_BASE + 0x14 // Read: result of the last serviced bind
	TEX_UNIT_PENDING = TEX_UNIT_BASE + 0x18 // Read: queued binds
	TEX_UNIT_USED    = TEX_UNIT_BASE + 0x1C // Read: occupied cache slots
	TEX_UNIT_RESET   = TEX_UNIT_BASE + 0x20 // Write: drop queued binds and status
)

// Texture unit status bits
const (
	TEX_STATUS_SLOT_MASK  = 0xFFFF  // Slot of the last bind
	TEX_STATUS_CONFIGURED = 1 << 16 // Last bind configured its slot
	TEX_STATUS_UPLOADED   = 1 << 17 // Last bind uploaded texels
	TEX_STATUS_EVICTED    = 1 << 18 // Last bind evicted another texture
	TEX_STATUS_VALID      = 1 << 30 // A bind has been serviced
	TEX_STATUS_ERROR      = 1 << 31 // Last bind failed
)

// Bind queue depth; further BIND writes are dropped until serviced
const TEX_UNIT_QUEUE_SIZE = 64
