// texture_driver_software.go - CPU-side texture driver

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
texture_driver_software.go - Software Texture Driver

Keeps every texture as a decoded RGBA8 image in host memory along with its
sampler state. Used by headless builds, the trace tool's dump path and the
tests, where it doubles as a record of exactly what the cache asked the GPU
to do.
*/

package texcache

import (
	"fmt"
	"image"
	"sync"
)

type softwareTexture struct {
	configured bool
	desc       TextureDescriptor
	sampler    TextureSampler
	image      *image.NRGBA
	uploads    int
}

// SoftwareTextureDriver implements TextureDriver on host memory
type SoftwareTextureDriver struct {
	mutex    sync.RWMutex
	textures map[TextureHandle]*softwareTexture
	next     TextureHandle
	bound    TextureHandle

	created    int
	destroyed  int
	configures int
	uploads    int
}

func NewSoftwareTextureDriver() *SoftwareTextureDriver {
	return &SoftwareTextureDriver{
		textures: make(map[TextureHandle]*softwareTexture),
		next:     1,
	}
}

func (d *SoftwareTextureDriver) CreateTextures(n int) ([]TextureHandle, error) {
	if n < 0 {
		return nil, fmt.Errorf("cannot create %d textures", n)
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	handles := make([]TextureHandle, n)
	for i := range handles {
		handles[i] = d.next
		d.textures[d.next] = &softwareTexture{}
		d.next++
	}
	d.created += n
	return handles, nil
}

func (d *SoftwareTextureDriver) DestroyTextures(handles []TextureHandle) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	for _, h := range handles {
		if _, ok := d.textures[h]; !ok {
			return fmt.Errorf("destroy handle %d: %w", h, ErrUnknownTexture)
		}
	}
	for _, h := range handles {
		delete(d.textures, h)
		if d.bound == h {
			d.bound = 0
		}
	}
	d.destroyed += len(handles)
	return nil
}

func (d *SoftwareTextureDriver) BindTexture(handle TextureHandle) {
	d.mutex.Lock()
	d.bound = handle
	d.mutex.Unlock()
}

func (d *SoftwareTextureDriver) ConfigureTexture(handle TextureHandle, desc *TextureDescriptor) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	tex, ok := d.textures[handle]
	if !ok {
		return fmt.Errorf("configure handle %d: %w", handle, ErrUnknownTexture)
	}

	tex.configured = true
	tex.desc = *desc
	tex.sampler = desc.Sampler()
	if tex.image == nil || tex.image.Rect.Dx() != desc.Width() || tex.image.Rect.Dy() != desc.Height() {
		tex.image = image.NewNRGBA(image.Rect(0, 0, desc.Width(), desc.Height()))
	}
	d.configures++
	return nil
}

func (d *SoftwareTextureDriver) UploadTexture(handle TextureHandle, desc *TextureDescriptor, pixels, palette []byte) error {
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
	if !tex.configured {
		return fmt.Errorf("upload handle %d before configure", handle)
	}

	tex.image = &image.NRGBA{
		Pix:    rgba,
		Stride: desc.Width() * 4,
		Rect:   image.Rect(0, 0, desc.Width(), desc.Height()),
	}
	tex.uploads++
	d.uploads++
	return nil
}

// Image returns the texels last uploaded to handle, nil before any upload
func (d *SoftwareTextureDriver) Image(handle TextureHandle) (*image.NRGBA, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	tex, ok := d.textures[handle]
	if !ok {
		return nil, fmt.Errorf("image handle %d: %w", handle, ErrUnknownTexture)
	}
	if tex.uploads == 0 {
		return nil, nil
	}
	return tex.image, nil
}

// Descriptor returns the descriptor handle was last configured with
func (d *SoftwareTextureDriver) Descriptor(handle TextureHandle) (TextureDescriptor, bool) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	tex, ok := d.textures[handle]
	if !ok || !tex.configured {
		return TextureDescriptor{}, false
	}
	return tex.desc, true
}

// Sampler returns the sampler state handle was last configured with
func (d *SoftwareTextureDriver) Sampler(handle TextureHandle) (TextureSampler, bool) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	tex, ok := d.textures[handle]
	if !ok || !tex.configured {
		return TextureSampler{}, false
	}
	return tex.sampler, true
}

func (d *SoftwareTextureDriver) Bound() TextureHandle {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return d.bound
}

// Live returns the number of textures created and not yet destroyed
func (d *SoftwareTextureDriver) Live() int {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return len(d.textures)
}

// Counts returns lifetime totals of driver calls
func (d *SoftwareTextureDriver) Counts() (created, destroyed, configures, uploads int) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return d.created, d.destroyed, d.configures, d.uploads
}
