// main.go - Texture cache trace runner

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
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/intuitionamiga/texcache"
	"golang.org/x/term"
)

func main() {
	capacity := flag.Int("capacity", texcache.TEXTURE_CACHE_SIZE, "Resident texture slots")
	memoryMB := flag.Int("memory", texcache.DEFAULT_MEMORY_SIZE/(1024*1024), "Emulated memory size in MB")
	parallel := flag.Int("parallel-threshold", texcache.TEXTURE_PARALLEL_HASH_MIN_SIZE, "Bytes before hashing goes parallel (0 disables)")
	workers := flag.Int("workers", 0, "Parallel hash workers (default: GOMAXPROCS)")
	evictLog := flag.String("evictions", "", "Write eviction records in logfmt to file (- for stdout)")
	dumpDir := flag.String("dump", "", "Directory for dump() output")
	verbose := flag.Bool("v", false, "Print every bind")
	noColor := flag.Bool("no-color", false, "Disable coloured output")
	view := flag.Bool("view", false, "Show resident textures in a window after the script")
	inline := flag.String("e", "", "Run this Lua chunk instead of a script file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: texcache-trace [options] script.lua\n\nReplays a Lua bind trace through the texture cache and reports hit, upload and eviction counts.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  texcache-trace traces/menu.lua\n")
		fmt.Fprintf(os.Stderr, "  texcache-trace -capacity 16 -evictions - traces/level1.lua\n")
		fmt.Fprintf(os.Stderr, "  texcache-trace -e 'bind(texture{format=\"U8\", width=8, height=8})'\n")
	}
	flag.Parse()

	if (*inline == "") == (flag.NArg() != 1) {
		flag.Usage()
		os.Exit(1)
	}
	if *memoryMB < 1 {
		fmt.Fprintf(os.Stderr, "error: -memory must be at least 1\n")
		os.Exit(1)
	}

	color := !*noColor && term.IsTerminal(int(os.Stdout.Fd()))

	config := texcache.DefaultCacheConfig()
	config.Capacity = *capacity
	config.ParallelHashThreshold = *parallel
	config.HashWorkers = *workers

	var sinks texcache.MultiEvictionSink
	var logSink *texcache.LogfmtEvictionSink
	if *evictLog != "" {
		var w io.Writer = os.Stdout
		if *evictLog != "-" {
			f, err := os.Create(*evictLog)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			defer f.Close()
			w = f
		}
		logSink = texcache.NewLogfmtEvictionSink(w)
		sinks = append(sinks, logSink)
	}
	if len(sinks) > 0 {
		config.Sink = sinks
	}

	var driver texcache.TextureDriver
	if *view {
		driver = newViewerDriver()
	} else {
		driver = texcache.NewSoftwareTextureDriver()
	}

	cache, err := texcache.NewTextureCache(driver, config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := cache.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	bus := texcache.NewSystemBus(*memoryMB * 1024 * 1024)
	unit := texcache.NewTextureUnit(cache, bus)
	unit.Attach(bus)

	host := newTraceHost(cache, bus, unit, *dumpDir, *verbose, color)
	if *inline != "" {
		err = host.RunString(*inline)
	} else {
		err = host.RunFile(flag.Arg(0))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", paint(color, ansiRed, "error: "+err.Error()))
	}

	printStats(os.Stdout, cache.Stats(), color)
	if logSink != nil && logSink.Err() != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", logSink.Err())
	}

	if *view && err == nil {
		if verr := runViewer(cache, driver); verr != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", verr)
		}
	}

	if derr := cache.Destroy(); derr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", derr)
	}
	if err != nil {
		os.Exit(1)
	}
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

func paint(color bool, code, s string) string {
	if !color {
		return s
	}
	return code + s + ansiReset
}

func printStats(w io.Writer, s texcache.CacheStats, color bool) {
	fmt.Fprintf(w, "Binds:      %d\n", s.Binds)
	fmt.Fprintf(w, "Hits:       %s\n", paint(color, ansiGreen, fmt.Sprint(s.Hits)))
	fmt.Fprintf(w, "Misses:     %s\n", paint(color, ansiYellow, fmt.Sprint(s.Misses)))
	fmt.Fprintf(w, "Unresolved: %d\n", s.Unresolved)
	fmt.Fprintf(w, "Evictions:  %s\n", paint(color, ansiRed, fmt.Sprint(s.Evictions)))
	fmt.Fprintf(w, "Configures: %d\n", s.Configures)
	fmt.Fprintf(w, "Uploads:    %d\n", s.Uploads)
	fmt.Fprintf(w, "Slots:      %d/%d\n", s.Used, s.Capacity)
}
