// Package media serves sign-language video clips from a bounded
// in-memory cache.
//
// The service wraps a fixed-capacity LRU cache with asynchronous
// fetch-on-miss and a small worker pool that prefetches the remaining
// variants of a word once its primary clip arrives. Completions are
// race-safe: a fetch whose word is no longer the hovered one delivers
// a stale result instead of clobbering newer state.
package media

import (
	"context"
	"sync"

	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/glossary"
	"github.com/charmbracelet/log"
)

const (
	// DefaultCapacity bounds how many words keep their clips resident.
	DefaultCapacity = 20
	// DefaultWorkers is the background prefetch concurrency cap.
	DefaultWorkers = 3
)

// Options tunes the service. Zero values select the defaults.
type Options struct {
	Capacity int
	Workers  int
}

// Status classifies how a hover request resolved.
type Status int

const (
	// StatusReady means the clip is available and the word is still
	// current.
	StatusReady Status = iota
	// StatusNoMedia means no clip could be produced for the word.
	StatusNoMedia
	// StatusStale means another word became current before this result
	// arrived; the caller must discard it.
	StatusStale
)

// Result is the single outcome delivered for one Hover call.
type Result struct {
	Word    string
	Variant int
	Total   int
	Entry   glossary.Entry
	Clip    *Clip
	Status  Status
	Err     error
}

// fetchJob is one queued background variant fetch.
type fetchJob struct {
	word      string
	variant   int
	mediaFile string
}

// cacheEntry holds every variant of one word. Slots fill in as
// fetches complete; a done slot with a nil clip records a failed
// fetch so it is never retried.
type cacheEntry struct {
	entries []glossary.Entry
	slots   []variantSlot
	current int
}

type variantSlot struct {
	clip *Clip
	done bool
}

func newCacheEntry(entries []glossary.Entry, primary int, clip *Clip) *cacheEntry {
	entry := &cacheEntry{
		entries: entries,
		slots:   make([]variantSlot, len(entries)),
		current: primary,
	}
	entry.slots[primary] = variantSlot{clip: clip, done: true}
	return entry
}

func (e *cacheEntry) releaseAll() {
	for _, slot := range e.slots {
		if slot.clip != nil {
			slot.clip.Release()
		}
	}
}

// Service resolves hover requests to media clips, keeping recently
// used words cached and prefetching their remaining variants.
type Service struct {
	fetcher Fetcher

	cache   *Cache[string, *cacheEntry]
	current string // word of the most recent hover
	queue   []fetchJob
	active  int
	workers int
	closed  bool
	mu      sync.Mutex
	cond    *sync.Cond

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService starts a media service backed by fetcher. The background
// workers run until Close.
func NewService(fetcher Fetcher, opts Options) *Service {
	if opts.Capacity < 1 {
		opts.Capacity = DefaultCapacity
	}
	if opts.Workers < 1 {
		opts.Workers = DefaultWorkers
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		fetcher: fetcher,
		workers: opts.Workers,
		ctx:     ctx,
		cancel:  cancel,
	}
	s.cond = sync.NewCond(&s.mu)
	s.cache = NewCache[string, *cacheEntry](opts.Capacity, func(word string, entry *cacheEntry) {
		entry.releaseAll()
		log.Debugf("Evicted media for '%s' from cache", word)
	})

	for i := 0; i < opts.Workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

// Hover makes word the current word and resolves the clip for its
// chosen variant. Exactly one Result arrives on the returned channel.
// A cached variant is delivered immediately; otherwise a primary fetch
// runs in the background and, on success, the word's remaining
// variants are queued for prefetching. Queued fetches for other words
// are dropped, and a completion for a word that is no longer current
// delivers StatusStale.
func (s *Service) Hover(ctx context.Context, word string, bestIndex int, entries []glossary.Entry) <-chan Result {
	out := make(chan Result, 1)

	s.mu.Lock()
	s.current = word
	s.purgeQueue(word)

	if len(entries) == 0 {
		s.mu.Unlock()
		out <- Result{Word: word, Variant: -1, Status: StatusNoMedia}
		close(out)
		return out
	}

	variant := bestIndex
	if variant < 0 || variant >= len(entries) {
		variant = 0
	}

	if entry, ok := s.cache.Get(word); ok {
		if variant >= len(entry.entries) {
			variant = 0
		}
		slot := entry.slots[variant]
		if slot.done {
			entry.current = variant
			r := Result{
				Word:    word,
				Variant: variant,
				Total:   len(entry.entries),
				Entry:   entry.entries[variant],
				Clip:    slot.clip,
				Status:  StatusReady,
			}
			if slot.clip == nil {
				r.Status = StatusNoMedia
			}
			s.mu.Unlock()
			out <- r
			close(out)
			return out
		}
		// The requested variant is still in flight somewhere; fetch it
		// as the primary so this hover gets its own completion.
	}
	mediaFile := entries[variant].MediaFile
	s.mu.Unlock()

	go s.primaryFetch(ctx, out, word, variant, entries, mediaFile)
	return out
}

func (s *Service) primaryFetch(ctx context.Context, out chan Result, word string, variant int, entries []glossary.Entry, mediaFile string) {
	clip, err := s.fetcher.Fetch(ctx, mediaFile)

	s.mu.Lock()
	stillCurrent := s.current == word

	if err != nil {
		s.mu.Unlock()
		if !stillCurrent {
			log.Debugf("Dropped stale fetch failure for '%s'", word)
			out <- Result{Word: word, Variant: variant, Total: len(entries), Status: StatusStale}
			close(out)
			return
		}
		log.Warnf("Primary fetch failed for '%s': %v", word, err)
		out <- Result{Word: word, Variant: variant, Total: len(entries), Entry: entries[variant], Status: StatusNoMedia, Err: err}
		close(out)
		return
	}

	if !stillCurrent {
		s.mu.Unlock()
		clip.Release()
		log.Debugf("Dropped stale clip for '%s'", word)
		out <- Result{Word: word, Variant: variant, Total: len(entries), Status: StatusStale}
		close(out)
		return
	}

	if entry, cached := s.cache.Peek(word); cached {
		// An earlier hover cached this word while the fetch ran. Keep the
		// new clip only if its slot is still empty.
		if entry.slots[variant].done {
			clip.Release()
		} else {
			entry.slots[variant] = variantSlot{clip: clip, done: true}
		}
		slot := entry.slots[variant]
		entry.current = variant
		r := Result{
			Word:    word,
			Variant: variant,
			Total:   len(entry.entries),
			Entry:   entry.entries[variant],
			Clip:    slot.clip,
			Status:  StatusReady,
		}
		if slot.clip == nil {
			r.Status = StatusNoMedia
		}
		s.mu.Unlock()
		out <- r
		close(out)
		return
	}

	s.cache.Put(word, newCacheEntry(entries, variant, clip))
	queued := s.enqueueRemaining(word, entries, variant)
	s.mu.Unlock()

	if queued > 0 {
		log.Debugf("Queued %d background variants for '%s'", queued, word)
	}
	out <- Result{
		Word:    word,
		Variant: variant,
		Total:   len(entries),
		Entry:   entries[variant],
		Clip:    clip,
		Status:  StatusReady,
	}
	close(out)
}

// NextVariant advances word to its next variant, wrapping around. It
// reports false when the word is not cached, has a single variant, or
// the next variant's clip has not arrived.
func (s *Service) NextVariant(word string) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache.Get(word)
	if !ok {
		return Result{}, false
	}
	total := len(entry.entries)
	if total <= 1 {
		return Result{}, false
	}
	next := (entry.current + 1) % total
	slot := entry.slots[next]
	if !slot.done || slot.clip == nil {
		return Result{}, false
	}
	entry.current = next
	return Result{
		Word:    word,
		Variant: next,
		Total:   total,
		Entry:   entry.entries[next],
		Clip:    slot.clip,
		Status:  StatusReady,
	}, true
}

// Stats reports cache occupancy, queue depth and the worker pool size.
func (s *Service) Stats() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]int{
		"cachedWords":   s.cache.Len(),
		"queuedFetches": len(s.queue),
		"activeFetches": s.active,
		"workers":       s.workers,
	}
}

// Close stops the background workers and releases every cached clip.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.queue = nil
	s.cond.Broadcast()
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	s.mu.Lock()
	s.cache.Clear()
	s.mu.Unlock()
}

// purgeQueue drops queued background fetches for every word except
// word. Callers must hold mu.
func (s *Service) purgeQueue(word string) {
	if len(s.queue) == 0 {
		return
	}
	kept := s.queue[:0]
	for _, job := range s.queue {
		if job.word == word {
			kept = append(kept, job)
		}
	}
	if dropped := len(s.queue) - len(kept); dropped > 0 {
		log.Debugf("Dropped %d stale background fetches from queue", dropped)
	}
	s.queue = kept
}

// enqueueRemaining queues every variant except the primary and wakes
// the workers. Callers must hold mu.
func (s *Service) enqueueRemaining(word string, entries []glossary.Entry, primary int) int {
	queued := 0
	for i := range entries {
		if i == primary {
			continue
		}
		s.queue = append(s.queue, fetchJob{word: word, variant: i, mediaFile: entries[i].MediaFile})
		queued++
	}
	if queued > 0 {
		s.cond.Broadcast()
	}
	return queued
}

func (s *Service) worker() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		job := s.queue[0]
		s.queue = s.queue[1:]
		s.active++
		s.mu.Unlock()

		clip, err := s.fetcher.Fetch(s.ctx, job.mediaFile)
		s.finishJob(job, clip, err)
	}
}

// finishJob records a background fetch outcome. The clip is dropped
// when the word was evicted or the slot already resolved; a failure
// leaves a permanent empty slot instead of retrying.
func (s *Service) finishJob(job fetchJob, clip *Clip, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active--

	entry, ok := s.cache.Peek(job.word)
	if !ok {
		if clip != nil {
			clip.Release()
		}
		return
	}
	if entry.slots[job.variant].done {
		if clip != nil {
			clip.Release()
		}
		return
	}
	if err != nil {
		log.Warnf("Background fetch failed for '%s' variant %d: %v", job.word, job.variant, err)
		entry.slots[job.variant] = variantSlot{done: true}
		return
	}
	entry.slots[job.variant] = variantSlot{clip: clip, done: true}
}
