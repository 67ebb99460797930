package queue

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"
)

type stubRecognizer struct {
	release chan struct{}
	mu      sync.Mutex
	seen    []string
}

func (s *stubRecognizer) Recognize(ctx context.Context, image string) (*recipe.RecognitionOutcome, error) {
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	s.seen = append(s.seen, image)
	s.mu.Unlock()
	return &recipe.RecognitionOutcome{
		Status: http.StatusOK,
		Labels: []recipe.RecognitionLabel{{Name: image, Confidence: 0.99}},
	}, nil
}

func TestRecognize(t *testing.T) {
	stub := &stubRecognizer{}
	m := NewManager(&config.QueueConfig{Workers: 2, MaxSize: 4}, stub)
	defer m.Close()

	outcome, err := m.Recognize(context.Background(), "img-1")
	if err != nil {
		t.Fatalf("Recognize() error: %v", err)
	}
	if !outcome.OK() || outcome.Labels[0].Name != "img-1" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}

	status := m.GetQueueStatus()
	if status.ProcessedCount != 1 || status.Workers != 2 || status.MaxQueueSize != 4 {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestEnqueueFull(t *testing.T) {
	stub := &stubRecognizer{release: make(chan struct{})}
	m := NewManager(&config.QueueConfig{Workers: 1, MaxSize: 1}, stub)
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 第一個請求佔住 worker
	first, err := m.Enqueue(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(time.Second)
	for m.GetQueueStatus().QueueLength != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	// 第二個請求填滿隊列
	if _, err := m.Enqueue(ctx, "b"); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Enqueue(ctx, "c"); !errors.Is(err, common.ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	close(stub.release)
	if r := <-first; r.Error != nil || r.Outcome.Labels[0].Name != "a" {
		t.Fatalf("unexpected first result %+v", r)
	}
}

func TestRecognizeHonorsContext(t *testing.T) {
	stub := &stubRecognizer{release: make(chan struct{})}
	m := NewManager(&config.QueueConfig{Workers: 1, MaxSize: 2}, stub)
	defer m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := m.Recognize(ctx, "slow"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestClosed(t *testing.T) {
	m := NewManager(&config.QueueConfig{Workers: 1, MaxSize: 1}, &stubRecognizer{})
	m.Close()
	m.Close()

	if _, err := m.Recognize(context.Background(), "img"); !errors.Is(err, common.ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}
