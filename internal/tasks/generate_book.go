package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"storyhatch/internal/generation"
)

// GenerateBookTask runs the full generation pipeline for one book.
// The book already exists in `generating` status when the task is
// enqueued, so pollers see it immediately.
type GenerateBookTask struct {
	BookID string `json:"book_id"`
	Prompt string `json:"prompt"`
}

// Config returns the queue configuration for generation tasks.
// MaxAttempts is 1: a failed generation is recorded on the book as
// status=error and is never retried automatically.
func (t GenerateBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "generate_book",
		MaxAttempts: 1,
		Timeout:     15 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// GenerateBookProcessor creates a processor function that drives the
// pipeline for one book.
func GenerateBookProcessor(pipeline *generation.Pipeline) backlite.QueueProcessor[GenerateBookTask] {
	return func(ctx context.Context, task GenerateBookTask) error {
		if pipeline == nil {
			return fmt.Errorf("pipeline not configured")
		}

		log.Printf("[TASK] Generating book %s", task.BookID)
		if err := pipeline.Run(ctx, task.BookID, task.Prompt); err != nil {
			// The failure is already recorded on the book; returning it
			// here only marks the task row as failed for inspection.
			return fmt.Errorf("generate book %s: %w", task.BookID, err)
		}
		return nil
	}
}

// NewGenerateBookQueue creates a backlite queue for generation tasks.
func NewGenerateBookQueue(pipeline *generation.Pipeline) backlite.Queue {
	return backlite.NewQueue(GenerateBookProcessor(pipeline))
}
