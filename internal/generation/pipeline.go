package generation

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"storyhatch/internal/entities"
	"storyhatch/internal/storage"
)

// PipelineConfig wires the pipeline's collaborators and policy.
type PipelineConfig struct {
	Store  *storage.Facade
	Text   NarrativeGenerator
	Images IllustrationGenerator
	Speech SpeechSynthesizer

	// PageDelay throttles successive external calls to respect
	// upstream rate limits. Pages are generated strictly in order.
	PageDelay time.Duration

	DefaultVoice string
	DefaultPages int
	MaxPages     int
}

// Pipeline drives a book from prompt to completion. Each book is
// written back through the façade after every step; a poller watching
// GetBook sees progress grow and status settle on a terminal value.
type Pipeline struct {
	store  *storage.Facade
	text   NarrativeGenerator
	images IllustrationGenerator
	speech SpeechSynthesizer

	pageDelay    time.Duration
	defaultVoice string
	defaultPages int
	maxPages     int
}

func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.DefaultPages <= 0 {
		cfg.DefaultPages = 8
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 12
	}
	if cfg.DefaultVoice == "" {
		cfg.DefaultVoice = "nova"
	}
	return &Pipeline{
		store:        cfg.Store,
		text:         cfg.Text,
		images:       cfg.Images,
		speech:       cfg.Speech,
		pageDelay:    cfg.PageDelay,
		defaultVoice: cfg.DefaultVoice,
		defaultPages: cfg.DefaultPages,
		maxPages:     cfg.MaxPages,
	}
}

// BookRequest is the caller's input to start a generation.
type BookRequest struct {
	Prompt            string
	AgeRange          string
	IllustrationStyle string
	ExpectedPages     int
	OwnerID           string
	NarratorVoice     string
	Character         *entities.Character
}

// NewBookID returns an opaque unique book identifier.
func NewBookID() string {
	return "book_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// CreateBook validates the request and persists a new book in
// `generating` status so pollers can see it immediately. The actual
// generation happens in Run, scheduled separately.
func (p *Pipeline) CreateBook(ctx context.Context, req BookRequest) (*entities.Book, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrValidation)
	}

	pages := req.ExpectedPages
	if pages <= 0 {
		pages = p.defaultPages
	}
	if pages > p.maxPages {
		pages = p.maxPages
	}

	voice := req.NarratorVoice
	if voice == "" {
		voice = p.defaultVoice
	}

	book := &entities.Book{
		ID:                 NewBookID(),
		Status:             entities.BookStatusGenerating,
		AgeRange:           req.AgeRange,
		IllustrationStyle:  req.IllustrationStyle,
		CreatedAt:          time.Now().UTC(),
		ExpectedPages:      pages,
		GenerationProgress: 0,
		OwnerID:            req.OwnerID,
		NarratorVoice:      voice,
		Character:          req.Character,
	}

	if err := p.store.SetBook(ctx, book); err != nil {
		return nil, fmt.Errorf("persist new book: %w", err)
	}
	return book, nil
}

// Run executes the full generation for a book created by CreateBook.
// Failures are recorded on the book itself (status=error) so polling
// callers observe them without holding a task reference. Calling Run
// on a book that already reached a terminal status is a no-op.
func (p *Pipeline) Run(ctx context.Context, bookID, prompt string) error {
	book, err := p.store.GetBook(ctx, bookID)
	if err != nil {
		return fmt.Errorf("load book %s: %w", bookID, err)
	}
	if book.Status != entities.BookStatusGenerating {
		log.Printf("Book %s already %s, skipping generation", bookID, book.Status)
		return nil
	}

	narrative, err := p.text.GenerateNarrative(ctx, p.storyPrompt(book, prompt))
	if err != nil {
		return p.fail(ctx, book, fmt.Errorf("narrative generation: %w", err))
	}

	book.Title = narrative.Title
	if len(narrative.Pages) != book.ExpectedPages {
		log.Printf("Book %s: narrative returned %d pages, expected %d",
			bookID, len(narrative.Pages), book.ExpectedPages)
		book.ExpectedPages = len(narrative.Pages)
	}
	if err := p.store.SetBook(ctx, book); err != nil {
		return fmt.Errorf("persist narrative for %s: %w", bookID, err)
	}

	for i, page := range narrative.Pages {
		p.throttle()
		image, err := p.images.GenerateIllustration(ctx, page.Illustration, book.IllustrationStyle)
		if err != nil {
			// Every page needs an image for the reader; a partial book
			// is worse than a failed one.
			return p.fail(ctx, book, fmt.Errorf("illustration for page %d: %w", i+1, err))
		}

		book.Pages = append(book.Pages, entities.BookPage{
			BookID:     book.ID,
			PageNumber: i + 1,
			Text:       page.Text,
			Image:      image,
		})
		book.GenerationProgress = progressPercent(len(book.Pages), book.ExpectedPages)
		if err := p.store.SetBook(ctx, book); err != nil {
			return fmt.Errorf("persist page %d for %s: %w", i+1, bookID, err)
		}
	}

	p.throttle()
	cover, err := p.images.GenerateIllustration(ctx, coverDescription(narrative), book.IllustrationStyle)
	if err != nil {
		return p.fail(ctx, book, fmt.Errorf("title page illustration: %w", err))
	}
	book.TitlePage = &entities.TitlePage{Image: cover, Title: book.Title}

	book.Status = entities.BookStatusCompleted
	book.GenerationProgress = 100
	if err := p.store.SetBook(ctx, book); err != nil {
		return fmt.Errorf("persist completed book %s: %w", bookID, err)
	}

	log.Printf("Book %s completed with %d pages", bookID, len(book.Pages))
	return nil
}

// EnrichAudio narrates a completed book and stores the audio reference
// on it. Idempotent: re-invoking replaces the previous audio.
func (p *Pipeline) EnrichAudio(ctx context.Context, bookID string) (string, error) {
	book, err := p.store.GetBook(ctx, bookID)
	if err != nil {
		return "", err
	}
	if book.Status != entities.BookStatusCompleted {
		return "", fmt.Errorf("%w: book %s is %s", ErrNotReady, bookID, book.Status)
	}

	texts := make([]string, 0, len(book.Pages))
	for _, page := range book.Pages {
		texts = append(texts, page.Text)
	}
	narration := strings.TrimSpace(strings.Join(texts, " "))
	if narration == "" {
		return "", fmt.Errorf("%w: book %s has no text content", ErrValidation, bookID)
	}

	voice := book.NarratorVoice
	if voice == "" {
		voice = p.defaultVoice
	}
	audioURL, err := p.speech.Synthesize(ctx, narration, voice)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	book.AudioURL = audioURL
	if err := p.store.SetBook(ctx, book); err != nil {
		return "", fmt.Errorf("persist audio for %s: %w", bookID, err)
	}
	return audioURL, nil
}

func (p *Pipeline) storyPrompt(book *entities.Book, prompt string) StoryPrompt {
	sp := StoryPrompt{
		Prompt:    prompt,
		AgeRange:  book.AgeRange,
		PageCount: book.ExpectedPages,
	}
	if book.Character != nil {
		sp.CharacterName = book.Character.Name
		sp.CharacterType = book.Character.Type
		sp.Traits = []string(book.Character.Traits)
	}
	return sp
}

// fail records the terminal error state on the book and returns the
// original cause wrapped as an upstream failure.
func (p *Pipeline) fail(ctx context.Context, book *entities.Book, cause error) error {
	log.Printf("Book %s generation failed: %v", book.ID, cause)
	book.Status = entities.BookStatusError
	book.ErrorMessage = cause.Error()
	if err := p.store.SetBook(ctx, book); err != nil {
		log.Printf("WARNING: could not record failure on book %s: %v", book.ID, err)
	}
	return fmt.Errorf("%w: %v", ErrUpstream, cause)
}

func (p *Pipeline) throttle() {
	if p.pageDelay > 0 {
		time.Sleep(p.pageDelay)
	}
}

func progressPercent(done, expected int) int {
	if expected <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(expected)))
}

func coverDescription(narrative *Narrative) string {
	return fmt.Sprintf("Book cover illustration for the children's story %q. %s",
		narrative.Title, narrative.Pages[0].Illustration)
}
