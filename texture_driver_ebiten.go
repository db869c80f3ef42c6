//go:build !headless

// texture_driver_ebiten.go - Ebiten GPU texture driver

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
texture_driver_ebiten.go - Ebiten Texture Driver

Backs each cache slot with an ebiten.Image. Images are sized at configure
time, so a slot that changes dimensions gets a new image and the old one
is deallocated; same-size reconfigures keep the GPU image.

Ebiten samples with one filter and one address mode per draw. The
magnification filter and the U address mode are used; mirrored addressing
falls back to repeat.
*/

package texcache

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

type ebitenTexture struct {
	image   *ebiten.Image
	desc    TextureDescriptor
	filter  ebiten.Filter
	address ebiten.Address
}

// EbitenTextureDriver implements TextureDriver on ebiten images
type EbitenTextureDriver struct {
	mutex    sync.Mutex
	textures map[TextureHandle]*ebitenTexture
	next     TextureHandle
	bound    TextureHandle
}

func NewEbitenTextureDriver() *EbitenTextureDriver {
	return &EbitenTextureDriver{
		textures: make(map[TextureHandle]*ebitenTexture),
		next:     1,
	}
}

// NewDefaultTextureDriver returns the GPU driver for this build
func NewDefaultTextureDriver() TextureDriver {
	return NewEbitenTextureDriver()
}

func ebitenFilter(sampler TextureSampler) ebiten.Filter {
	if sampler.MagLinear {
		return ebiten.FilterLinear
	}
	return ebiten.FilterNearest
}

func ebitenAddress(mode uint32) ebiten.Address {
	if mode == TEX_ADDR_CLAMP {
		return ebiten.AddressClampToZero
	}
	return ebiten.AddressRepeat
}

func (d *EbitenTextureDriver) CreateTextures(n int) ([]TextureHandle, error) {
	if n < 0 {
		return nil, fmt.Errorf("cannot create %d textures", n)
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	handles := make([]TextureHandle, n)
	for i := range handles {
		handles[i] = d.next
		d.textures[d.next] = &ebitenTexture{filter: ebiten.FilterNearest, address: ebiten.AddressRepeat}
		d.next++
	}
	return handles, nil
}

func (d *EbitenTextureDriver) DestroyTextures(handles []TextureHandle) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	for _, h := range handles {
		if _, ok := d.textures[h]; !ok {
			return fmt.Errorf("destroy handle %d: %w", h, ErrUnknownTexture)
		}
	}
	for _, h := range handles {
		if img := d.textures[h].image; img != nil {
			img.Deallocate()
		}
		delete(d.textures, h)
		if d.bound == h {
			d.bound = 0
		}
	}
	return nil
}

func (d *EbitenTextureDriver) BindTexture(handle TextureHandle) {
	d.mutex.Lock()
	d.bound = handle
	d.mutex.Unlock()
}

func (d *EbitenTextureDriver) ConfigureTexture(handle TextureHandle, desc *TextureDescriptor) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	tex, ok := d.textures[handle]
	if !ok {
		return fmt.Errorf("configure handle %d: %w", handle, ErrUnknownTexture)
	}

	width, height := desc.Width(), desc.Height()
	if tex.image != nil {
		bounds := tex.image.Bounds()
		if bounds.Dx() != width || bounds.Dy() != height {
			tex.image.Deallocate()
			tex.image = nil
		}
	}
	if tex.image == nil {
		tex.image = ebiten.NewImage(width, height)
	}

	sampler := desc.Sampler()
	tex.desc = *desc
	tex.filter = ebitenFilter(sampler)
	tex.address = ebitenAddress(sampler.AddressU)
	return nil
}

func (d *EbitenTextureDriver) UploadTexture(handle TextureHandle, desc *TextureDescriptor, pixels, palette []byte) error {
	// Decoded outside the lock; large textures take a while
	rgba, err := DecodeRGBA(desc, pixels, palette)
	if err != nil {
		return err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	tex, ok := d.textures[handle]
	if !ok {
		return fmt.Errorf("upload handle %d: %w", handle, ErrUnknownTexture)
	}
	if tex.image == nil {
		return fmt.Errorf("upload handle %d before configure", handle)
	}

	// ebiten expects premultiplied alpha
	for i := 0; i < len(rgba); i += 4 {
		a := uint16(rgba[i+3])
		if a == 0xFF {
			continue
		}
		rgba[i] = uint8(uint16(rgba[i]) * a / 0xFF)
		rgba[i+1] = uint8(uint16(rgba[i+1]) * a / 0xFF)
		rgba[i+2] = uint8(uint16(rgba[i+2]) * a / 0xFF)
	}
	tex.image.WritePixels(rgba)
	return nil
}

// Texture returns the image and sampling state of handle for drawing.
// The image is nil until the handle is configured.
func (d *EbitenTextureDriver) Texture(handle TextureHandle) (*ebiten.Image, ebiten.Filter, ebiten.Address) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	tex, ok := d.textures[handle]
	if !ok {
		return nil, ebiten.FilterNearest, ebiten.AddressRepeat
	}
	return tex.image, tex.filter, tex.address
}

func (d *EbitenTextureDriver) Bound() TextureHandle {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.bound
}
