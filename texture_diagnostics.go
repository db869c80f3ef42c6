// texture_diagnostics.go - Texture cache eviction diagnostics

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
	"io"
	"sync"

	"github.com/go-logfmt/logfmt"
)

// NopEvictionSink discards eviction events
type NopEvictionSink struct{}

func (NopEvictionSink) TextureEvicted(EvictionEvent) {}

// LogfmtEvictionSink writes one logfmt record per eviction:
//
//	event=evict slot=3 age=12 prior=40 now=52 evicted="tex{...}" incoming="tex{...}"
type LogfmtEvictionSink struct {
	mutex   sync.Mutex
	encoder *logfmt.Encoder
	err     error
	count   uint64
}

func NewLogfmtEvictionSink(w io.Writer) *LogfmtEvictionSink {
	return &LogfmtEvictionSink{encoder: logfmt.NewEncoder(w)}
}

func (s *LogfmtEvictionSink) TextureEvicted(event EvictionEvent) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.count++
	if s.err != nil {
		return
	}
	err := s.encoder.EncodeKeyvals(
		"event", "evict",
		"slot", event.Slot,
		"age", event.CurrentAccess-event.PriorAccess,
		"prior", event.PriorAccess,
		"now", event.CurrentAccess,
		"evicted", event.Evicted.String(),
		"incoming", event.Incoming.String(),
	)
	if err == nil {
		err = s.encoder.EndRecord()
	}
	if err != nil {
		// Sticky; evictions keep being counted
		s.err = fmt.Errorf("eviction log: %w", err)
	}
}

// Count returns the number of events received
func (s *LogfmtEvictionSink) Count() uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.count
}

// Err returns the first write error, if any
func (s *LogfmtEvictionSink) Err() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.err
}

// EvictionRecorder keeps every event in memory
type EvictionRecorder struct {
	mutex  sync.Mutex
	events []EvictionEvent
}

func (r *EvictionRecorder) TextureEvicted(event EvictionEvent) {
	r.mutex.Lock()
	r.events = append(r.events, event)
	r.mutex.Unlock()
}

func (r *EvictionRecorder) Events() []EvictionEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]EvictionEvent(nil), r.events...)
}

// MultiEvictionSink fans events out to several sinks
type MultiEvictionSink []EvictionSink

func (m MultiEvictionSink) TextureEvicted(event EvictionEvent) {
	for _, sink := range m {
		sink.TextureEvicted(event)
	}
}
