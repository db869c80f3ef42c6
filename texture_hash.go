// texture_hash.go - Content hashing of emulated texture memory

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
texture_hash.go - Texture Content Hashing

The hash is a sum of mixed 8-byte words. Each little-endian word is mixed
with its word index before being added to the accumulator, so moving data
around changes the result while the reduction itself stays associative and
commutative. Any split of the input into word-aligned chunks therefore sums
to the same value, which is what lets large textures hash in parallel.

Zero-length input hashes to 0. Palette formats XOR the palette hash into the
texel hash so a palette swap with untouched indices still forces an upload.
*/

package texcache

import (
	"encoding/binary"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// TextureHash is the content checksum of texel and palette data
type TextureHash uint64

const hashIndexStep = 0x9E3779B97F4A7C15

// mixWord is the splitmix64 finaliser over a word offset by its position
func mixWord(word, index uint64) uint64 {
	z := word + (index+1)*hashIndexStep
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// hashWords sums the mixed words of data, numbering them from firstWord.
// A trailing partial word is zero padded.
func hashWords(data []byte, firstWord uint64) uint64 {
	var sum uint64
	index := firstWord
	for len(data) >= TEXTURE_HASH_WORD_SIZE {
		sum += mixWord(binary.LittleEndian.Uint64(data), index)
		data = data[TEXTURE_HASH_WORD_SIZE:]
		index++
	}
	if len(data) > 0 {
		var tail [TEXTURE_HASH_WORD_SIZE]byte
		copy(tail[:], data)
		sum += mixWord(binary.LittleEndian.Uint64(tail[:]), index)
	}
	return sum
}

// HashData hashes data sequentially
func HashData(data []byte) TextureHash {
	return TextureHash(hashWords(data, 0))
}

// HashDataParallel hashes data across up to workers goroutines.
// The result is identical to HashData for every input.
func HashDataParallel(data []byte, workers int) TextureHash {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	words := (len(data) + TEXTURE_HASH_WORD_SIZE - 1) / TEXTURE_HASH_WORD_SIZE
	workers = min(workers, words)
	if workers <= 1 {
		return HashData(data)
	}

	perWorker := (words + workers - 1) / workers
	partials := make([]uint64, workers)

	var g errgroup.Group
	for w := range workers {
		first := w * perWorker
		if first >= words {
			break
		}
		last := min(first+perWorker, words)
		start := first * TEXTURE_HASH_WORD_SIZE
		end := min(last*TEXTURE_HASH_WORD_SIZE, len(data))
		g.Go(func() error {
			partials[w] = hashWords(data[start:end], uint64(first))
			return nil
		})
	}
	_ = g.Wait()

	var sum uint64
	for _, p := range partials {
		sum += p
	}
	return TextureHash(sum)
}

// TextureHasher picks sequential or parallel hashing by input size
type TextureHasher struct {
	ParallelThreshold int // Bytes; 0 disables parallel hashing
	Workers           int // 0 means GOMAXPROCS
}

func (h TextureHasher) Hash(data []byte) TextureHash {
	if h.ParallelThreshold > 0 && len(data) >= h.ParallelThreshold {
		return HashDataParallel(data, h.Workers)
	}
	return HashData(data)
}

// HashTexture resolves and hashes a texture's texels and, for palette
// formats, its palette. The resolved byte ranges are returned for upload.
func (h TextureHasher) HashTexture(desc *TextureDescriptor, mem TextureMemory) (TextureHash, []byte, []byte, error) {
	pixels, err := mem.Resolve(desc.DataAddr(), desc.DataSize())
	if err != nil {
		return 0, nil, nil, &TextureCacheError{
			Operation: "texture hash",
			Details:   "resolving texel data for " + desc.String(),
			Err:       err,
		}
	}
	hash := h.Hash(pixels)

	if !desc.IsPaletted() {
		return hash, pixels, nil, nil
	}

	palette, err := mem.Resolve(desc.PaletteAddr(), desc.PaletteSize())
	if err != nil {
		return 0, nil, nil, &TextureCacheError{
			Operation: "texture hash",
			Details:   "resolving palette for " + desc.String(),
			Err:       err,
		}
	}
	return hash ^ h.Hash(palette), pixels, palette, nil
}
