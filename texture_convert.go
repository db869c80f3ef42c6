// texture_convert.go - Texel format conversion to RGBA8

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
texture_convert.go - Texel Decoding

Converts emulated texel data into tightly packed RGBA8, which is what every
texture driver uploads. Rows are read with the descriptor stride and the
padding texels are dropped. Swizzled and tiled layouts are read as linear.

16-bit formats are little-endian:

	U5U6U5:   R[15:11] G[10:5]  B[4:0]
	U1U5U5U5: A[15]    R[14:10] G[9:5]  B[4:0]
	U4U4U4U4: A[15:12] R[11:8]  G[7:4]  B[3:0]

P4 stores two texels per byte, the even texel in the low nibble.
*/

package texcache

import (
	"encoding/binary"
	"fmt"
)

// expand5 scales a 5-bit channel to 8 bits
func expand5(v uint16) uint8 {
	return uint8(v<<3 | v>>2)
}

func expand6(v uint16) uint8 {
	return uint8(v<<2 | v>>4)
}

func expand4(v uint16) uint8 {
	return uint8(v<<4 | v)
}

// DecodeRGBA converts a texture's texels to width*height RGBA8 pixels.
// palette is required for P4 and P8 and ignored otherwise.
func DecodeRGBA(desc *TextureDescriptor, pixels, palette []byte) ([]byte, error) {
	width := desc.Width()
	height := desc.Height()
	stride := desc.Stride()
	format := desc.BaseFormat()
	bpp := BitsPerPixel(format)

	if bpp == 0 {
		return nil, &TextureCacheError{
			Operation: "decode",
			Details:   fmt.Sprintf("unsupported format %s", BaseFormatName(format)),
			Err:       ErrInvalidDescriptor,
		}
	}
	if len(pixels) < desc.DataSize() {
		return nil, &TextureCacheError{
			Operation: "decode",
			Details:   fmt.Sprintf("%s needs %d texel bytes, got %d", desc, desc.DataSize(), len(pixels)),
		}
	}
	if desc.IsPaletted() && len(palette) < desc.PaletteSize() {
		return nil, &TextureCacheError{
			Operation: "decode",
			Details:   fmt.Sprintf("%s needs %d palette bytes, got %d", desc, desc.PaletteSize(), len(palette)),
		}
	}

	out := make([]byte, width*height*4)
	rowBytes := stride * bpp / 8

	for y := 0; y < height; y++ {
		row := pixels[y*rowBytes : (y+1)*rowBytes]
		dst := out[y*width*4 : (y+1)*width*4]

		for x := 0; x < width; x++ {
			var r, g, b, a uint8
			switch format {
			case TEX_BASE_FORMAT_U8:
				l := row[x]
				r, g, b, a = l, l, l, 0xFF
			case TEX_BASE_FORMAT_U8U8:
				l := row[x*2]
				r, g, b, a = l, l, l, row[x*2+1]
			case TEX_BASE_FORMAT_U5U6U5:
				v := binary.LittleEndian.Uint16(row[x*2:])
				r = expand5(v>>11&0x1F)
				g = expand6(v>>5&0x3F)
				b = expand5(v&0x1F)
				a = 0xFF
			case TEX_BASE_FORMAT_U1U5U5U5:
				v := binary.LittleEndian.Uint16(row[x*2:])
				r = expand5(v>>10&0x1F)
				g = expand5(v>>5&0x1F)
				b = expand5(v&0x1F)
				if v&0x8000 != 0 {
					a = 0xFF
				}
			case TEX_BASE_FORMAT_U4U4U4U4:
				v := binary.LittleEndian.Uint16(row[x*2:])
				a = expand4(v>>12&0xF)
				r = expand4(v>>8&0xF)
				g = expand4(v>>4&0xF)
				b = expand4(v&0xF)
			case TEX_BASE_FORMAT_U8U8U8U8:
				r, g, b, a = row[x*4], row[x*4+1], row[x*4+2], row[x*4+3]
			case TEX_BASE_FORMAT_P4:
				index := row[x/2]
				if x&1 != 0 {
					index >>= 4
				}
				entry := palette[int(index&0xF)*TEX_PALETTE_ENTRY_SIZE:]
				r, g, b, a = entry[0], entry[1], entry[2], entry[3]
			case TEX_BASE_FORMAT_P8:
				entry := palette[int(row[x])*TEX_PALETTE_ENTRY_SIZE:]
				r, g, b, a = entry[0], entry[1], entry[2], entry[3]
			}

			if desc.Swizzle() == TEX_SWIZZLE_BGRA {
				r, b = b, r
			}
			dst[x*4] = r
			dst[x*4+1] = g
			dst[x*4+2] = b
			dst[x*4+3] = a
		}
	}

	return out, nil
}
