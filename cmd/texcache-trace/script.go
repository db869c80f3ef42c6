// script.go - Lua scripting host for bind traces

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
script.go - Trace Script API

Globals available to trace scripts:

	texture{format=, width=, height=, data=, palette=, swizzle=, mips=,
	        min_linear=, mag_linear=, address_u=, address_v=, gamma=,
	        lod_bias=, layout=}       -> texture
	texture_words(w0, w1, w2, w3)    -> texture
	bind(tex)                        -> {slot, hash, configured, uploaded, evicted}
	poke(addr, byte)  poke32(addr, value)  peek(addr)  peek32(addr)
	fill(addr, size, byte)  write(addr, string)
	reg_write(addr, value)  reg_read(addr)  service() -> binds serviced
	stats()                          -> table of counters
	slot(i)                          -> {texture, hash, last_access} or nil
	dump(slot)                       -> file path
	reset()
	log(...)

Textures expose size() and data_size() plus tostring().
*/

package main

import (
	"fmt"
	"strings"

	"github.com/intuitionamiga/texcache"
	lua "github.com/yuin/gopher-lua"
)

const luaTextureType = "texture"

type traceHost struct {
	cache   *texcache.TextureCache
	bus     texcache.MemoryBus
	unit    *texcache.TextureUnit
	dumpDir string
	verbose bool
	color   bool
}

func newTraceHost(cache *texcache.TextureCache, bus texcache.MemoryBus, unit *texcache.TextureUnit, dumpDir string, verbose, color bool) *traceHost {
	return &traceHost{cache: cache, bus: bus, unit: unit, dumpDir: dumpDir, verbose: verbose, color: color}
}

func (h *traceHost) newState() *lua.LState {
	L := lua.NewState()

	mt := L.NewTypeMetatable(luaTextureType)
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		desc := checkTexture(L, 1)
		L.Push(lua.LString(desc.String()))
		return 1
	}))
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"size": func(L *lua.LState) int {
			desc := checkTexture(L, 1)
			L.Push(lua.LNumber(desc.Width()))
			L.Push(lua.LNumber(desc.Height()))
			return 2
		},
		"data_size": func(L *lua.LState) int {
			desc := checkTexture(L, 1)
			L.Push(lua.LNumber(desc.DataSize()))
			return 1
		},
		"words": func(L *lua.LState) int {
			desc := checkTexture(L, 1)
			for _, w := range desc.Words {
				L.Push(lua.LNumber(w))
			}
			return len(desc.Words)
		},
	}))

	for name, fn := range map[string]lua.LGFunction{
		"texture":       h.luaTexture,
		"texture_words": h.luaTextureWords,
		"bind":          h.luaBind,
		"poke":          h.luaPoke,
		"poke32":        h.luaPoke32,
		"peek":          h.luaPeek,
		"peek32":        h.luaPeek32,
		"fill":          h.luaFill,
		"write":         h.luaWrite,
		"reg_write":     h.luaRegWrite,
		"reg_read":      h.luaRegRead,
		"service":       h.luaService,
		"stats":         h.luaStats,
		"slot":          h.luaSlot,
		"dump":          h.luaDump,
		"reset":         h.luaReset,
		"log":           h.luaLog,
	} {
		L.SetGlobal(name, L.NewFunction(fn))
	}

	return L
}

func (h *traceHost) RunFile(path string) error {
	L := h.newState()
	defer L.Close()
	return L.DoFile(path)
}

func (h *traceHost) RunString(chunk string) error {
	L := h.newState()
	defer L.Close()
	return L.DoString(chunk)
}

func pushTexture(L *lua.LState, desc texcache.TextureDescriptor) {
	ud := L.NewUserData()
	ud.Value = desc
	L.SetMetatable(ud, L.GetTypeMetatable(luaTextureType))
	L.Push(ud)
}

func checkTexture(L *lua.LState, n int) texcache.TextureDescriptor {
	ud := L.CheckUserData(n)
	if desc, ok := ud.Value.(texcache.TextureDescriptor); ok {
		return desc
	}
	L.ArgError(n, "texture expected")
	return texcache.TextureDescriptor{}
}

func checkAddr(L *lua.LState, n int) uint32 {
	v := L.CheckInt64(n)
	if v < 0 || v > 0xFFFFFFFF {
		L.ArgError(n, "address out of range")
	}
	return uint32(v)
}

var addressModes = map[string]uint32{
	"repeat": texcache.TEX_ADDR_REPEAT,
	"mirror": texcache.TEX_ADDR_MIRROR,
	"clamp":  texcache.TEX_ADDR_CLAMP,
}

var layouts = map[string]uint32{
	"linear":   texcache.TEX_LAYOUT_LINEAR,
	"swizzled": texcache.TEX_LAYOUT_SWIZZLED,
	"tiled":    texcache.TEX_LAYOUT_TILED,
}

func optEnum(L *lua.LState, tbl *lua.LTable, field string, values map[string]uint32, def uint32) uint32 {
	v := tbl.RawGetString(field)
	if v == lua.LNil {
		return def
	}
	mode, ok := values[strings.ToLower(lua.LVAsString(v))]
	if !ok {
		L.RaiseError("texture: unknown %s %q", field, lua.LVAsString(v))
	}
	return mode
}

func optNumber(tbl *lua.LTable, field string, def int64) int64 {
	v := tbl.RawGetString(field)
	if v == lua.LNil {
		return def
	}
	return int64(lua.LVAsNumber(v))
}

func (h *traceHost) luaTexture(L *lua.LState) int {
	tbl := L.CheckTable(1)

	formatName := strings.ToUpper(lua.LVAsString(tbl.RawGetString("format")))
	format, ok := texcache.ParseBaseFormat(formatName)
	if !ok {
		L.RaiseError("texture: unknown format %q", formatName)
	}

	swizzle := uint32(texcache.TEX_SWIZZLE_RGBA)
	if strings.EqualFold(lua.LVAsString(tbl.RawGetString("swizzle")), "bgra") {
		swizzle = texcache.TEX_SWIZZLE_BGRA
	}

	desc, err := texcache.NewTextureDescriptor(texcache.TextureParams{
		BaseFormat:  format,
		Swizzle:     swizzle,
		Width:       int(optNumber(tbl, "width", 0)),
		Height:      int(optNumber(tbl, "height", 0)),
		MipCount:    int(optNumber(tbl, "mips", 0)),
		MinLinear:   lua.LVAsBool(tbl.RawGetString("min_linear")),
		MagLinear:   lua.LVAsBool(tbl.RawGetString("mag_linear")),
		AddressU:    optEnum(L, tbl, "address_u", addressModes, texcache.TEX_ADDR_REPEAT),
		AddressV:    optEnum(L, tbl, "address_v", addressModes, texcache.TEX_ADDR_REPEAT),
		Gamma:       lua.LVAsBool(tbl.RawGetString("gamma")),
		LODBias:     uint32(optNumber(tbl, "lod_bias", 0)),
		Layout:      optEnum(L, tbl, "layout", layouts, texcache.TEX_LAYOUT_LINEAR),
		DataAddr:    uint32(optNumber(tbl, "data", 0)),
		PaletteAddr: uint32(optNumber(tbl, "palette", 0)),
	})
	if err != nil {
		L.RaiseError("%v", err)
	}
	pushTexture(L, desc)
	return 1
}

func (h *traceHost) luaTextureWords(L *lua.LState) int {
	var desc texcache.TextureDescriptor
	for i := range desc.Words {
		desc.Words[i] = uint32(L.CheckInt64(i + 1))
	}
	pushTexture(L, desc)
	return 1
}

func (h *traceHost) luaBind(L *lua.LState) int {
	desc := checkTexture(L, 1)
	result, err := h.cache.Bind(&desc, h.bus)
	if err != nil {
		L.RaiseError("%v", err)
	}

	if h.verbose {
		h.printBind(&desc, result)
	}

	tbl := L.NewTable()
	tbl.RawSetString("slot", lua.LNumber(result.Slot))
	tbl.RawSetString("hash", lua.LString(fmt.Sprintf("%016x", uint64(result.Hash))))
	tbl.RawSetString("configured", lua.LBool(result.Configured))
	tbl.RawSetString("uploaded", lua.LBool(result.Uploaded))
	tbl.RawSetString("evicted", lua.LBool(result.Evicted))
	L.Push(tbl)
	return 1
}

func (h *traceHost) printBind(desc *texcache.TextureDescriptor, result texcache.BindResult) {
	outcome := paint(h.color, ansiGreen, "hit ")
	switch {
	case result.Evicted:
		outcome = paint(h.color, ansiRed, "evict")
	case result.Configured:
		outcome = paint(h.color, ansiYellow, "miss")
	case result.Uploaded:
		outcome = paint(h.color, ansiCyan, "dirty")
	}
	fmt.Printf("%6d %-5s slot=%-4d %s\n", h.cache.Clock(), outcome, result.Slot, desc)
}

func (h *traceHost) luaPoke(L *lua.LState) int {
	h.bus.Write8(checkAddr(L, 1), uint8(L.CheckInt(2)))
	return 0
}

func (h *traceHost) luaPoke32(L *lua.LState) int {
	h.bus.Write32(checkAddr(L, 1), uint32(L.CheckInt64(2)))
	return 0
}

func (h *traceHost) luaPeek(L *lua.LState) int {
	L.Push(lua.LNumber(h.bus.Read8(checkAddr(L, 1))))
	return 1
}

func (h *traceHost) luaPeek32(L *lua.LState) int {
	L.Push(lua.LNumber(h.bus.Read32(checkAddr(L, 1))))
	return 1
}

func (h *traceHost) luaFill(L *lua.LState) int {
	if err := h.bus.Fill(checkAddr(L, 1), L.CheckInt(2), uint8(L.CheckInt(3))); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (h *traceHost) luaWrite(L *lua.LState) int {
	if err := h.bus.WriteBytes(checkAddr(L, 1), []byte(L.CheckString(2))); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (h *traceHost) luaRegWrite(L *lua.LState) int {
	h.bus.Write32(checkAddr(L, 1), uint32(L.CheckInt64(2)))
	return 0
}

func (h *traceHost) luaRegRead(L *lua.LState) int {
	L.Push(lua.LNumber(h.bus.Read32(checkAddr(L, 1))))
	return 1
}

func (h *traceHost) luaService(L *lua.LState) int {
	results, err := h.unit.Service()
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(len(results)))
	return 1
}

func (h *traceHost) luaStats(L *lua.LState) int {
	s := h.cache.Stats()
	tbl := L.NewTable()
	tbl.RawSetString("binds", lua.LNumber(s.Binds))
	tbl.RawSetString("hits", lua.LNumber(s.Hits))
	tbl.RawSetString("misses", lua.LNumber(s.Misses))
	tbl.RawSetString("unresolved", lua.LNumber(s.Unresolved))
	tbl.RawSetString("evictions", lua.LNumber(s.Evictions))
	tbl.RawSetString("configures", lua.LNumber(s.Configures))
	tbl.RawSetString("uploads", lua.LNumber(s.Uploads))
	tbl.RawSetString("used", lua.LNumber(s.Used))
	tbl.RawSetString("capacity", lua.LNumber(s.Capacity))
	tbl.RawSetString("clock", lua.LNumber(s.Clock))
	L.Push(tbl)
	return 1
}

func (h *traceHost) luaSlot(L *lua.LState) int {
	info, ok := h.cache.Slot(L.CheckInt(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	tbl := L.NewTable()
	pushTexture(L, info.Descriptor)
	tbl.RawSetString("texture", L.Get(-1))
	L.Pop(1)
	tbl.RawSetString("hash", lua.LString(fmt.Sprintf("%016x", uint64(info.Hash))))
	tbl.RawSetString("last_access", lua.LNumber(info.LastAccess))
	L.Push(tbl)
	return 1
}

func (h *traceHost) luaDump(L *lua.LState) int {
	if h.dumpDir == "" {
		L.RaiseError("dump: no -dump directory given")
	}
	path, err := texcache.DumpSlot(h.cache, L.CheckInt(1), h.bus, h.dumpDir)
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LString(path))
	return 1
}

func (h *traceHost) luaReset(L *lua.LState) int {
	h.cache.Reset()
	h.unit.Reset()
	h.bus.Reset()
	return 0
}

func (h *traceHost) luaLog(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	fmt.Println(strings.Join(parts, " "))
	return 0
}
