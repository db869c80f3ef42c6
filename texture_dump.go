// texture_dump.go - Texture dumps to BMP files

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

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
)

// DumpTextureBMP decodes a texture and writes it to w as a 32-bit BMP
func DumpTextureBMP(w io.Writer, desc *TextureDescriptor, pixels, palette []byte) error {
	rgba, err := DecodeRGBA(desc, pixels, palette)
	if err != nil {
		return err
	}
	img := &image.NRGBA{
		Pix:    rgba,
		Stride: desc.Width() * 4,
		Rect:   image.Rect(0, 0, desc.Width(), desc.Height()),
	}
	if err := bmp.Encode(w, img); err != nil {
		return &TextureCacheError{
			Operation: "dump",
			Details:   "encoding " + desc.String(),
			Err:       err,
		}
	}
	return nil
}

// DumpSlot writes the texture resident in a cache slot to dir, reading
// its current contents from mem. Returns the written file path.
func DumpSlot(cache *TextureCache, index int, mem TextureMemory, dir string) (string, error) {
	info, ok := cache.Slot(index)
	if !ok {
		return "", &TextureCacheError{
			Operation: "dump",
			Details:   fmt.Sprintf("slot %d is not occupied", index),
		}
	}

	desc := info.Descriptor
	pixels, err := mem.Resolve(desc.DataAddr(), desc.DataSize())
	if err != nil {
		return "", &TextureCacheError{Operation: "dump", Details: "resolving " + desc.String(), Err: err}
	}
	var palette []byte
	if desc.IsPaletted() {
		palette, err = mem.Resolve(desc.PaletteAddr(), desc.PaletteSize())
		if err != nil {
			return "", &TextureCacheError{Operation: "dump", Details: "resolving palette of " + desc.String(), Err: err}
		}
	}

	name := fmt.Sprintf("slot%04d_%s_%dx%d_%016x.bmp",
		index, BaseFormatName(desc.BaseFormat()), desc.Width(), desc.Height(), uint64(info.Hash))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", &TextureCacheError{Operation: "dump", Details: "creating " + path, Err: err}
	}
	if err := DumpTextureBMP(f, &desc, pixels, palette); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", &TextureCacheError{Operation: "dump", Details: "closing " + path, Err: err}
	}
	return path, nil
}
