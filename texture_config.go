// texture_config.go - Texture cache configuration

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

// CacheConfig contains the tunables fixed at cache construction
type CacheConfig struct {
	Capacity              int          // Resident GPU textures, 1..TEXTURE_CACHE_MAX_SIZE
	ParallelHashThreshold int          // Bytes before hashing goes parallel; 0 disables
	HashWorkers           int          // Parallel hash goroutines; 0 means GOMAXPROCS
	Sink                  EvictionSink // Eviction diagnostics; nil discards
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Capacity:              TEXTURE_CACHE_SIZE,
		ParallelHashThreshold: TEXTURE_PARALLEL_HASH_MIN_SIZE,
	}
}

func (c CacheConfig) Validate() error {
	if c.Capacity < 1 {
		return &TextureCacheError{
			Operation: "configuration",
			Details:   fmt.Sprintf("capacity must be at least 1 (got %d)", c.Capacity),
			Err:       ErrInvalidConfig,
		}
	}
	if c.Capacity > TEXTURE_CACHE_MAX_SIZE {
		return &TextureCacheError{
			Operation: "configuration",
			Details:   fmt.Sprintf("capacity must be at most %d (got %d)", TEXTURE_CACHE_MAX_SIZE, c.Capacity),
			Err:       ErrInvalidConfig,
		}
	}
	if c.ParallelHashThreshold < 0 {
		return &TextureCacheError{
			Operation: "configuration",
			Details:   fmt.Sprintf("parallel hash threshold must not be negative (got %d)", c.ParallelHashThreshold),
			Err:       ErrInvalidConfig,
		}
	}
	if c.HashWorkers < 0 {
		return &TextureCacheError{
			Operation: "configuration",
			Details:   fmt.Sprintf("hash workers must not be negative (got %d)", c.HashWorkers),
			Err:       ErrInvalidConfig,
		}
	}
	return nil
}
