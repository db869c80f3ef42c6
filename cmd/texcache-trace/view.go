//go:build !headless

// view.go - Resident texture viewer

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

package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/intuitionamiga/texcache"
	"golang.design/x/clipboard"
)

const (
	viewerCell    = 96 // Pixels per slot tile
	viewerColumns = 8
	viewerRows    = 6
	viewerHeader  = 32
)

func newViewerDriver() texcache.TextureDriver {
	return texcache.NewEbitenTextureDriver()
}

// textureViewer draws each resident slot twice over its tile so the
// sampler's address mode is visible
type textureViewer struct {
	cache       *texcache.TextureCache
	driver      *texcache.EbitenTextureDriver
	page        int
	clipboardOK bool
	message     string
}

func runViewer(cache *texcache.TextureCache, driver texcache.TextureDriver) error {
	ebitenDriver, ok := driver.(*texcache.EbitenTextureDriver)
	if !ok {
		return fmt.Errorf("viewer needs the ebiten texture driver")
	}

	v := &textureViewer{cache: cache, driver: ebitenDriver}
	v.clipboardOK = clipboard.Init() == nil

	ebiten.SetWindowSize(viewerCell*viewerColumns, viewerCell*viewerRows+viewerHeader)
	ebiten.SetWindowTitle("Texture Cache Viewer")
	ebiten.SetWindowResizable(true)
	return ebiten.RunGame(v)
}

func (v *textureViewer) perPage() int {
	return viewerColumns * viewerRows
}

func (v *textureViewer) Update() error {
	pages := (v.cache.Used() + v.perPage() - 1) / v.perPage()
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) && v.page+1 < pages {
		v.page++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) && v.page > 0 {
		v.page--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if v.clipboardOK {
			clipboard.Write(clipboard.FmtText, []byte(v.cache.Stats().String()))
			v.message = "stats copied"
		} else {
			v.message = "clipboard unavailable"
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (v *textureViewer) Draw(screen *ebiten.Image) {
	first := v.page * v.perPage()
	for i := 0; i < v.perPage(); i++ {
		info, ok := v.cache.Slot(first + i)
		if !ok {
			break
		}
		img, filter, address := v.driver.Texture(info.Handle)
		if img == nil {
			continue
		}
		x := float32(i%viewerColumns) * viewerCell
		y := float32(i/viewerColumns)*viewerCell + viewerHeader
		drawTile(screen, img, x, y, filter, address)
	}

	status := fmt.Sprintf("%s\npage %d  [<-/->] page  [C] copy stats  [Esc] quit  %s",
		v.cache.Stats(), v.page+1, v.message)
	ebitenutil.DebugPrint(screen, status)
}

// drawTile maps two texture repeats across one tile
func drawTile(screen, img *ebiten.Image, x, y float32, filter ebiten.Filter, address ebiten.Address) {
	bounds := img.Bounds()
	sw := float32(bounds.Dx() * 2)
	sh := float32(bounds.Dy() * 2)
	size := float32(viewerCell - 2)

	vertices := []ebiten.Vertex{
		{DstX: x, DstY: y, SrcX: 0, SrcY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: x + size, DstY: y, SrcX: sw, SrcY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: x, DstY: y + size, SrcX: 0, SrcY: sh, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: x + size, DstY: y + size, SrcX: sw, SrcY: sh, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	}
	indices := []uint16{0, 1, 2, 1, 2, 3}

	opts := &ebiten.DrawTrianglesOptions{}
	opts.Filter = filter
	opts.Address = address
	screen.DrawTriangles(vertices, indices, img, opts)
}

func (v *textureViewer) Layout(_, _ int) (int, int) {
	return viewerCell * viewerColumns, viewerCell*viewerRows + viewerHeader
}
