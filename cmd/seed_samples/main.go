// Command seed_samples generates the curated sample book catalog by
// running the full generation stack against the configured provider and
// writing the finished books to the bundled catalog JSON.
// Usage: go run cmd/seed_samples/main.go [-out path/to/index.json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"storyhatch/internal/config"
	"storyhatch/internal/entities"
	"storyhatch/internal/generation"
)

type sampleSeed struct {
	ID          string
	Prompt      string
	Description string
	Category    string
	HeroType    entities.HeroType
	Setting     string
	AgeRange    string
	Style       string
	Pages       int
}

func sampleSeeds() []sampleSeed {
	return []sampleSeed{
		{
			ID:          "sample_brave_bunny",
			Prompt:      "A small rabbit who is afraid of the dark learns that night in the forest is full of gentle friends",
			Description: "A cozy bedtime story about facing the dark with new friends.",
			Category:    "bedtime",
			HeroType:    entities.HeroTypeAnimal,
			Setting:     "moonlit forest",
			AgeRange:    "kindergarten",
			Style:       "soft watercolor",
			Pages:       6,
		},
		{
			ID:          "sample_rocket_girl",
			Prompt:      "A curious girl builds a cardboard rocket in her backyard and takes an imaginary trip past every planet",
			Description: "A playful tour of the solar system powered by imagination.",
			Category:    "adventure",
			HeroType:    entities.HeroTypePerson,
			Setting:     "backyard and outer space",
			AgeRange:    "2nd-grade",
			Style:       "bright cartoon",
			Pages:       8,
		},
		{
			ID:          "sample_dragon_baker",
			Prompt:      "A young dragon who cannot breathe fire discovers her warm breath is perfect for baking bread for the whole village",
			Description: "A gentle story about finding your own kind of strength.",
			Category:    "friendship",
			HeroType:    entities.HeroTypeFantasy,
			Setting:     "mountain village",
			AgeRange:    "1st-grade",
			Style:       "storybook illustration",
			Pages:       6,
		},
	}
}

func main() {
	cfg := config.NewConfig()
	outPath := flag.String("out", cfg.Storage.SamplesPath, "path to the sample catalog JSON")
	flag.Parse()

	if cfg.OpenAI.APIKey == "" {
		log.Fatal("OPENAI_API_KEY must be set to generate sample books")
	}

	client := generation.NewOpenAIClient(generation.OpenAIConfig{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		TextModel:   cfg.OpenAI.TextModel,
		ImageModel:  cfg.OpenAI.ImageModel,
		SpeechModel: cfg.OpenAI.SpeechModel,
	})

	ctx := context.Background()
	books := make([]entities.Book, 0, len(sampleSeeds()))
	for _, seed := range sampleSeeds() {
		log.Printf("Generating sample %s...", seed.ID)
		book, err := generateSample(ctx, client, seed, cfg.Generation.PageDelay)
		if err != nil {
			log.Fatalf("Failed to generate sample %s: %v", seed.ID, err)
		}
		books = append(books, *book)
		log.Printf("Generated %q with %d pages", book.Title, len(book.Pages))
	}

	if err := writeCatalog(*outPath, books); err != nil {
		log.Fatalf("Failed to write catalog: %v", err)
	}
	log.Printf("Sample catalog written to %s (%d books)", *outPath, len(books))
}

func generateSample(ctx context.Context, client *generation.OpenAIClient, seed sampleSeed, delay time.Duration) (*entities.Book, error) {
	narrative, err := client.GenerateNarrative(ctx, generation.StoryPrompt{
		Prompt:    seed.Prompt,
		AgeRange:  seed.AgeRange,
		PageCount: seed.Pages,
	})
	if err != nil {
		return nil, err
	}

	book := &entities.Book{
		ID:                 seed.ID,
		Title:              narrative.Title,
		AgeRange:           seed.AgeRange,
		IllustrationStyle:  seed.Style,
		Status:             entities.BookStatusCompleted,
		CreatedAt:          time.Now().UTC(),
		ExpectedPages:      len(narrative.Pages),
		GenerationProgress: 100,
		Description:        seed.Description,
		Category:           seed.Category,
		HeroType:           seed.HeroType,
		Setting:            seed.Setting,
		IsSample:           true,
	}

	for i, page := range narrative.Pages {
		time.Sleep(delay)
		image, err := client.GenerateIllustration(ctx, page.Illustration, seed.Style)
		if err != nil {
			return nil, err
		}
		book.Pages = append(book.Pages, entities.BookPage{
			BookID:     book.ID,
			PageNumber: i + 1,
			Text:       page.Text,
			Image:      image,
		})
	}

	time.Sleep(delay)
	cover, err := client.GenerateIllustration(ctx, narrative.Pages[0].Illustration, seed.Style)
	if err != nil {
		return nil, err
	}
	book.TitlePage = &entities.TitlePage{Image: cover, Title: book.Title}

	return book, nil
}

func writeCatalog(path string, books []entities.Book) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
