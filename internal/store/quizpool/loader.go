// Package quizpool loads the practice question pool. The pool is published
// as a static JSON document alongside the site; a copy is embedded in the
// binary so a fetch failure never takes the quiz endpoint down.
package quizpool

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fixthevuln/backend/internal/store/domain"
	"github.com/fixthevuln/backend/pkg/slogx"
)

//go:embed fallback.json
var fallbackFS embed.FS

const fetchTimeout = 10 * time.Second

// Load fetches the question pool from url, falling back to the embedded pool
// when url is empty or the fetch fails. The fallback path logs and never
// returns an error; only a corrupt embedded pool (a build defect) does.
func Load(ctx context.Context, url string, client *http.Client) (*domain.QuizPool, error) {
	if url != "" {
		pool, err := fetch(ctx, url, client)
		if err == nil {
			return pool, nil
		}
		slogx.FromContext(ctx).Warn("quiz pool fetch failed, using embedded fallback",
			"url", url, "error", err)
	}

	return loadEmbedded()
}

func fetch(ctx context.Context, url string, client *http.Client) (*domain.QuizPool, error) {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quizpool: unexpected status %d", resp.StatusCode)
	}

	var pool domain.QuizPool
	if err := json.NewDecoder(resp.Body).Decode(&pool); err != nil {
		return nil, fmt.Errorf("quizpool: decode: %w", err)
	}
	if len(pool.Questions) == 0 {
		return nil, fmt.Errorf("quizpool: remote pool is empty")
	}
	return &pool, nil
}

func loadEmbedded() (*domain.QuizPool, error) {
	data, err := fallbackFS.ReadFile("fallback.json")
	if err != nil {
		return nil, fmt.Errorf("quizpool: embedded pool: %w", err)
	}

	var pool domain.QuizPool
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("quizpool: embedded pool: %w", err)
	}
	return &pool, nil
}
