// Package cli drives an interactive overlay session for demos and testing
package cli

import (
	"bufio"
	"context"
	"os"
	"strings"
	"time"

	"github.com/WeyehnR/ASL-DEMO-sub000/internal/article"
	"github.com/WeyehnR/ASL-DEMO-sub000/internal/utils"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/highlight"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/media"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/overlay"
	"github.com/charmbracelet/log"
)

const hoverTimeout = 10 * time.Second

// InputHandler processes user input from stdin, resolving hovered words
// against the loaded document. Bare words hover; everything else is a
// command: load, text, show, chips, stats, next, forms, quit.
type InputHandler struct {
	session      *overlay.Session
	renderer     *Renderer
	loader       *article.Loader
	maxResults   int
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(session *overlay.Session, renderer *Renderer, loader *article.Loader, maxResults int) *InputHandler {
	if maxResults < 1 {
		maxResults = 24
	}
	return &InputHandler{
		session:    session,
		renderer:   renderer,
		loader:     loader,
		maxResults: maxResults,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to the handleInput() for processing.
// Loop terminates on quit or if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("SignServe CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a highlighted word and press Enter to resolve its sign (Ctrl+C to exit):")
	log.Print("commands: load <url|file>, text <sample>, show, chips, stats, next <word>, forms <word>, quit")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !h.handleInput(line) {
			return nil
		}
	}
}

// handleInput processes a single line. Returns false to stop the loop.
func (h *InputHandler) handleInput(line string) bool {
	h.requestCount++
	if h.requestCount%50 == 0 {
		log.Debug("Session checkpoint", "stats", h.session.Stats())
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return false
	case "load":
		h.handleLoad(arg)
	case "text":
		h.handleText(arg)
	case "show":
		h.renderer.Document(h.session)
	case "chips":
		h.printList("chips", h.session.Chips())
	case "stats":
		for key, value := range h.session.Stats() {
			log.Printf("%-16s %s", key, utils.FormatWithCommas(value))
		}
	case "next":
		h.handleNext(arg)
	case "forms":
		if arg == "" {
			log.Error("Usage: forms <word>")
			return true
		}
		h.printList("forms", h.session.Forms(arg))
	default:
		h.handleHover(line)
	}
	return true
}

// Load paints a document before the loop starts, for the -url flag.
func (h *InputHandler) Load(target string) {
	h.handleLoad(target)
}

// handleLoad fetches an article by URL or local path and paints it.
func (h *InputHandler) handleLoad(target string) {
	if target == "" {
		log.Error("Usage: load <url|file>")
		return
	}

	start := time.Now()
	var art *article.Article
	var err error
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		ctx, cancel := context.WithTimeout(context.Background(), article.DefaultTimeout)
		defer cancel()
		art, err = h.loader.FromURL(ctx, target)
	} else {
		art, err = h.loader.FromFile(target)
	}
	if err != nil {
		log.Errorf("Loading article: %v", err)
		return
	}

	matches := h.session.Load(art.Container)
	log.Printf("Loaded %s: %d matches in [ %v ]", h.renderer.Title(art.Title), len(matches), time.Since(start))
}

// handleText paints the rest of the line as a plain text document.
func (h *InputHandler) handleText(sample string) {
	if sample == "" {
		log.Error("Usage: text <sample sentence>")
		return
	}
	matches := h.session.Load(highlight.FromText(sample))
	log.Printf("Loaded sample text: %d matches", len(matches))
}

// handleHover resolves a hovered word and waits for its clip.
func (h *InputHandler) handleHover(word string) {
	if !utils.IsValidInput(word) {
		log.Warnf("Not a resolvable word: '%s'", word)
		return
	}

	start := time.Now()
	log.Debug("Processing hover request for", "word", word)
	results := h.session.Hover(context.Background(), word, h.matchPos(word))

	select {
	case result := <-results:
		h.printResult(result, time.Since(start))
	case <-time.After(hoverTimeout):
		log.Warnf("Timed out resolving '%s'", word)
	}
}

// handleNext cycles an already resolved word to its next variant.
func (h *InputHandler) handleNext(word string) {
	if word == "" {
		log.Error("Usage: next <word>")
		return
	}
	result, ok := h.session.Next(word)
	if !ok {
		log.Warnf("No cached variants for '%s' (hover it first)", word)
		return
	}
	h.printResult(result, 0)
}

// printResult formats one media result in the session's terms.
func (h *InputHandler) printResult(result media.Result, elapsed time.Duration) {
	switch result.Status {
	case media.StatusReady:
		size := "0"
		if result.Clip != nil {
			size = utils.FormatWithCommas(len(result.Clip.Data))
		}
		clWord := h.renderer.Word(result.Word)
		if elapsed > 0 {
			log.Debugf("Took [ %v ] for word '%s'", elapsed, result.Word)
		}
		log.Printf("%s  variant %d/%d  %-24s (%8s bytes)", clWord, result.Variant+1, result.Total, result.Entry.ID, size)
	case media.StatusNoMedia:
		if result.Err != nil {
			log.Errorf("Fetching sign for '%s': %v", result.Word, result.Err)
			return
		}
		log.Warnf("No sign available for '%s'", result.Word)
	case media.StatusStale:
		log.Debugf("Discarded stale result for '%s'", result.Word)
	}
}

// printList prints up to maxResults entries of a word list.
func (h *InputHandler) printList(label string, words []string) {
	if len(words) == 0 {
		log.Warnf("No %s to show", label)
		return
	}
	if len(words) > h.maxResults {
		log.Debugf("Truncating %s to %d entries", label, h.maxResults)
		words = words[:h.maxResults]
	}
	for i, word := range words {
		log.Printf("%2d. %s", i+1, h.renderer.Word(word))
	}
}

// matchPos finds the document position of the first painted occurrence
// of a word, for disambiguation context. Unpainted words hover at 0.
func (h *InputHandler) matchPos(word string) int {
	lowered := strings.ToLower(word)
	for _, m := range h.session.Matches() {
		if strings.ToLower(m.Surface) == lowered || m.Canonical == lowered {
			return m.Pos
		}
	}
	return 0
}
