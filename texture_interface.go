// texture_interface.go - Texture cache collaborator interfaces

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
	"errors"
	"fmt"
)

// TextureCacheError provides detailed error context for cache operations
type TextureCacheError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *TextureCacheError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("texture cache %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("texture cache %s failed: %s", e.Operation, e.Details)
}

func (e *TextureCacheError) Unwrap() error {
	return e.Err
}

var (
	ErrCacheNotInitialized = errors.New("texture cache not initialized")
	ErrInvalidConfig       = errors.New("invalid texture cache configuration")
	ErrInvalidDescriptor   = errors.New("invalid texture descriptor")
	ErrUnknownTexture      = errors.New("unknown texture handle")
)

// TextureHandle identifies one GPU texture object owned by a driver
type TextureHandle uint32

// TextureDriver is the real-GPU side of the cache.
//
// The cache creates its objects once in Init and destroys them once in
// Destroy; in between it only binds, configures and uploads. Configure and
// Upload always act on the most recently bound handle.
type TextureDriver interface {
	CreateTextures(n int) ([]TextureHandle, error)
	DestroyTextures(handles []TextureHandle) error
	BindTexture(handle TextureHandle)
	ConfigureTexture(handle TextureHandle, desc *TextureDescriptor) error
	UploadTexture(handle TextureHandle, desc *TextureDescriptor, pixels, palette []byte) error
}

// TextureMemory resolves emulated addresses to readable byte ranges.
// The returned slice must stay stable for the duration of a Bind.
type TextureMemory interface {
	Resolve(addr uint32, size int) ([]byte, error)
}

// EvictionEvent describes one slot being reused for a new descriptor
type EvictionEvent struct {
	Slot          int
	PriorAccess   uint64
	CurrentAccess uint64
	Evicted       TextureDescriptor
	Incoming      TextureDescriptor
}

// EvictionSink receives eviction events. Purely informational.
type EvictionSink interface {
	TextureEvicted(event EvictionEvent)
}
