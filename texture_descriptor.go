// texture_descriptor.go - Texture descriptor encoding and field decoding

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

package texcache

import "fmt"

// TextureDescriptor is the register form of an emulated texture.
// Two descriptors describe the same cache entry only if every word matches.
type TextureDescriptor struct {
	Words [TEX_WORD_COUNT]uint32
}

// TextureParams is the field form of a descriptor
type TextureParams struct {
	BaseFormat  uint32
	Swizzle     uint32
	Width       int
	Height      int
	MipCount    int
	MinLinear   bool
	MagLinear   bool
	AddressU    uint32
	AddressV    uint32
	Gamma       bool
	LODBias     uint32
	Layout      uint32
	DataAddr    uint32
	PaletteAddr uint32
}

// NewTextureDescriptor packs params into descriptor words
func NewTextureDescriptor(p TextureParams) (TextureDescriptor, error) {
	var desc TextureDescriptor

	invalid := func(details string) (TextureDescriptor, error) {
		return TextureDescriptor{}, &TextureCacheError{
			Operation: "descriptor encode",
			Details:   details,
			Err:       ErrInvalidDescriptor,
		}
	}

	if p.BaseFormat >= TEX_BASE_FORMAT_COUNT {
		return invalid(fmt.Sprintf("unknown base format %d", p.BaseFormat))
	}
	if p.Swizzle > TEX_CTRL_SWIZZLE_MASK {
		return invalid(fmt.Sprintf("swizzle %d out of range", p.Swizzle))
	}
	if p.Width < 1 || p.Width > TEX_MAX_DIMENSION || p.Height < 1 || p.Height > TEX_MAX_DIMENSION {
		return invalid(fmt.Sprintf("dimensions %dx%d out of range", p.Width, p.Height))
	}
	if p.MipCount < 0 || p.MipCount > TEX_CTRL_MIP_MASK {
		return invalid(fmt.Sprintf("mip count %d out of range", p.MipCount))
	}
	if p.AddressU > TEX_ADDR_CLAMP || p.AddressV > TEX_ADDR_CLAMP {
		return invalid(fmt.Sprintf("address modes %d/%d out of range", p.AddressU, p.AddressV))
	}
	if p.LODBias > TEX_CTRL_LOD_BIAS_MASK {
		return invalid(fmt.Sprintf("lod bias %d out of range", p.LODBias))
	}
	if p.Layout > TEX_LAYOUT_TILED {
		return invalid(fmt.Sprintf("layout %d out of range", p.Layout))
	}
	if p.DataAddr&(1<<TEX_DATA_ADDR_SHIFT-1) != 0 {
		return invalid(fmt.Sprintf("data address 0x%08X not word aligned", p.DataAddr))
	}
	if p.PaletteAddr&(1<<TEX_PALETTE_ADDR_SHIFT-1) != 0 {
		return invalid(fmt.Sprintf("palette address 0x%08X not 64-byte aligned", p.PaletteAddr))
	}

	ctrl := p.BaseFormat |
		p.Swizzle<<TEX_CTRL_SWIZZLE_SHIFT |
		uint32(p.MipCount)<<TEX_CTRL_MIP_SHIFT |
		p.AddressU<<TEX_CTRL_ADDR_U_SHIFT |
		p.AddressV<<TEX_CTRL_ADDR_V_SHIFT |
		p.LODBias<<TEX_CTRL_LOD_BIAS_SHIFT
	if p.MinLinear {
		ctrl |= TEX_CTRL_MIN_LINEAR
	}
	if p.MagLinear {
		ctrl |= TEX_CTRL_MAG_LINEAR
	}
	if p.Gamma {
		ctrl |= TEX_CTRL_GAMMA
	}

	desc.Words[TEX_WORD_CONTROL] = ctrl
	desc.Words[TEX_WORD_SIZE] = uint32(p.Width-1) |
		uint32(p.Height-1)<<TEX_SIZE_HEIGHT_SHIFT |
		p.Layout<<TEX_SIZE_LAYOUT_SHIFT
	desc.Words[TEX_WORD_DATA] = p.DataAddr >> TEX_DATA_ADDR_SHIFT
	desc.Words[TEX_WORD_PALETTE] = (p.PaletteAddr >> TEX_PALETTE_ADDR_SHIFT) & TEX_PALETTE_ADDR_MASK
	return desc, nil
}

// Params unpacks the descriptor back into its fields
func (d *TextureDescriptor) Params() TextureParams {
	return TextureParams{
		BaseFormat:  d.BaseFormat(),
		Swizzle:     d.Swizzle(),
		Width:       d.Width(),
		Height:      d.Height(),
		MipCount:    d.MipCount(),
		MinLinear:   d.MinLinear(),
		MagLinear:   d.MagLinear(),
		AddressU:    d.AddressU(),
		AddressV:    d.AddressV(),
		Gamma:       d.Gamma(),
		LODBias:     (d.Words[TEX_WORD_CONTROL] >> TEX_CTRL_LOD_BIAS_SHIFT) & TEX_CTRL_LOD_BIAS_MASK,
		Layout:      d.Layout(),
		DataAddr:    d.DataAddr(),
		PaletteAddr: d.PaletteAddr(),
	}
}

// TextureSampler is the filtering and addressing state of a descriptor
type TextureSampler struct {
	MinLinear bool
	MagLinear bool
	AddressU  uint32
	AddressV  uint32
	Gamma     bool
}

func (d *TextureDescriptor) Sampler() TextureSampler {
	return TextureSampler{
		MinLinear: d.MinLinear(),
		MagLinear: d.MagLinear(),
		AddressU:  d.AddressU(),
		AddressV:  d.AddressV(),
		Gamma:     d.Gamma(),
	}
}

// Equal reports bit-for-bit equality of two descriptors
func (d *TextureDescriptor) Equal(other *TextureDescriptor) bool {
	return d.Words == other.Words
}

// Format returns base format and swizzle together
func (d *TextureDescriptor) Format() uint32 {
	return d.Words[TEX_WORD_CONTROL] & TEX_CTRL_FORMAT
}

func (d *TextureDescriptor) BaseFormat() uint32 {
	return d.Words[TEX_WORD_CONTROL] & TEX_CTRL_BASE_FORMAT
}

func (d *TextureDescriptor) Swizzle() uint32 {
	return (d.Words[TEX_WORD_CONTROL] >> TEX_CTRL_SWIZZLE_SHIFT) & TEX_CTRL_SWIZZLE_MASK
}

func (d *TextureDescriptor) MipCount() int {
	return int((d.Words[TEX_WORD_CONTROL] >> TEX_CTRL_MIP_SHIFT) & TEX_CTRL_MIP_MASK)
}

func (d *TextureDescriptor) MinLinear() bool {
	return d.Words[TEX_WORD_CONTROL]&TEX_CTRL_MIN_LINEAR != 0
}

func (d *TextureDescriptor) MagLinear() bool {
	return d.Words[TEX_WORD_CONTROL]&TEX_CTRL_MAG_LINEAR != 0
}

func (d *TextureDescriptor) AddressU() uint32 {
	return (d.Words[TEX_WORD_CONTROL] >> TEX_CTRL_ADDR_U_SHIFT) & TEX_CTRL_ADDR_MASK
}

func (d *TextureDescriptor) AddressV() uint32 {
	return (d.Words[TEX_WORD_CONTROL] >> TEX_CTRL_ADDR_V_SHIFT) & TEX_CTRL_ADDR_MASK
}

func (d *TextureDescriptor) Gamma() bool {
	return d.Words[TEX_WORD_CONTROL]&TEX_CTRL_GAMMA != 0
}

func (d *TextureDescriptor) Width() int {
	return int(d.Words[TEX_WORD_SIZE]&TEX_SIZE_WIDTH_MASK) + 1
}

func (d *TextureDescriptor) Height() int {
	return int((d.Words[TEX_WORD_SIZE]>>TEX_SIZE_HEIGHT_SHIFT)&TEX_SIZE_HEIGHT_MASK) + 1
}

func (d *TextureDescriptor) Layout() uint32 {
	return (d.Words[TEX_WORD_SIZE] >> TEX_SIZE_LAYOUT_SHIFT) & TEX_SIZE_LAYOUT_MASK
}

// Stride returns the row pitch in texels.
// Correct for linear layouts only.
func (d *TextureDescriptor) Stride() int {
	return (d.Width() + TEX_STRIDE_ALIGN - 1) &^ (TEX_STRIDE_ALIGN - 1)
}

func (d *TextureDescriptor) DataAddr() uint32 {
	return d.Words[TEX_WORD_DATA] << TEX_DATA_ADDR_SHIFT
}

func (d *TextureDescriptor) PaletteAddr() uint32 {
	return (d.Words[TEX_WORD_PALETTE] & TEX_PALETTE_ADDR_MASK) << TEX_PALETTE_ADDR_SHIFT
}

// PaletteEntries returns 16 for P4, 256 for P8 and 0 otherwise
func (d *TextureDescriptor) PaletteEntries() int {
	switch d.BaseFormat() {
	case TEX_BASE_FORMAT_P4:
		return TEX_PALETTE_P4_ENTRIES
	case TEX_BASE_FORMAT_P8:
		return TEX_PALETTE_P8_ENTRIES
	}
	return 0
}

func (d *TextureDescriptor) IsPaletted() bool {
	return d.PaletteEntries() != 0
}

// DataSize is the number of texel bytes the texture occupies in emulated memory
func (d *TextureDescriptor) DataSize() int {
	return BitsPerPixel(d.BaseFormat()) * d.Stride() * d.Height() / 8
}

// PaletteSize is the number of palette bytes, 0 for direct formats
func (d *TextureDescriptor) PaletteSize() int {
	return d.PaletteEntries() * TEX_PALETTE_ENTRY_SIZE
}

func (d *TextureDescriptor) String() string {
	return fmt.Sprintf("tex{fmt=%s %dx%d data=0x%08X pal=0x%08X}",
		BaseFormatName(d.BaseFormat()), d.Width(), d.Height(), d.DataAddr(), d.PaletteAddr())
}

// BitsPerPixel returns the storage size of one texel
func BitsPerPixel(baseFormat uint32) int {
	switch baseFormat {
	case TEX_BASE_FORMAT_P4:
		return 4
	case TEX_BASE_FORMAT_U8, TEX_BASE_FORMAT_P8:
		return 8
	case TEX_BASE_FORMAT_U8U8, TEX_BASE_FORMAT_U5U6U5, TEX_BASE_FORMAT_U1U5U5U5, TEX_BASE_FORMAT_U4U4U4U4:
		return 16
	case TEX_BASE_FORMAT_U8U8U8U8:
		return 32
	}
	return 0
}

var baseFormatNames = [TEX_BASE_FORMAT_COUNT]string{
	TEX_BASE_FORMAT_U8:       "U8",
	TEX_BASE_FORMAT_U8U8:     "U8U8",
	TEX_BASE_FORMAT_U5U6U5:   "U5U6U5",
	TEX_BASE_FORMAT_U1U5U5U5: "U1U5U5U5",
	TEX_BASE_FORMAT_U4U4U4U4: "U4U4U4U4",
	TEX_BASE_FORMAT_U8U8U8U8: "U8U8U8U8",
	TEX_BASE_FORMAT_P4:       "P4",
	TEX_BASE_FORMAT_P8:       "P8",
}

func BaseFormatName(baseFormat uint32) string {
	if baseFormat < TEX_BASE_FORMAT_COUNT {
		return baseFormatNames[baseFormat]
	}
	return fmt.Sprintf("UNKNOWN(%d)", baseFormat)
}

// ParseBaseFormat maps a format name back to its base format
func ParseBaseFormat(name string) (uint32, bool) {
	for i, n := range baseFormatNames {
		if n == name {
			return uint32(i), true
		}
	}
	return 0, false
}
