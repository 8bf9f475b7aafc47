package service

import (
	"math/rand"

	"github.com/fixthevuln/backend/internal/store/domain"
)

// QuizService samples practice questions from the loaded pool.
type QuizService struct {
	Pool *domain.QuizPool

	// Rand is swappable for deterministic tests; defaults to the global source.
	Rand *rand.Rand
}

// DomainAll and DifficultyMixed are the wildcard filter values.
const (
	DomainAll       = "all"
	DifficultyMixed = "mixed"
)

func (s *QuizService) intn(n int) int {
	if s.Rand != nil {
		return s.Rand.Intn(n)
	}
	return rand.Intn(n)
}

// shuffle is an in-place Fisher–Yates: walk from the last index down to 1,
// swapping each element with a uniformly random earlier-or-equal index.
func (s *QuizService) shuffle(qs []domain.Question) {
	for i := len(qs) - 1; i >= 1; i-- {
		j := s.intn(i + 1)
		qs[i], qs[j] = qs[j], qs[i]
	}
}

// Sample returns up to n questions honoring the domain and difficulty
// filters. A filter combination that matches nothing falls back to sampling
// the full pool, so the quiz page never renders empty.
func (s *QuizService) Sample(domainKey, difficulty string, n int) []domain.Question {
	if n <= 0 {
		return nil
	}

	filtered := s.filter(domainKey, difficulty)
	if len(filtered) == 0 {
		filtered = append([]domain.Question(nil), s.Pool.Questions...)
	}

	if domainKey != DomainAll {
		s.shuffle(filtered)
		return filtered[:min(n, len(filtered))]
	}

	return s.sampleWeighted(filtered, n)
}

func (s *QuizService) filter(domainKey, difficulty string) []domain.Question {
	var out []domain.Question
	for _, q := range s.Pool.Questions {
		if domainKey != DomainAll && q.Domain != domainKey {
			continue
		}
		if difficulty != DifficultyMixed && difficulty != "" && q.Difficulty != difficulty {
			continue
		}
		out = append(out, q)
	}
	return out
}

// sampleWeighted allocates slots proportionally to each domain's exam weight,
// then tops up from the leftover pool when rounding leaves the total short.
func (s *QuizService) sampleWeighted(pool []domain.Question, n int) []domain.Question {
	byDomain := map[string][]domain.Question{}
	var domainOrder []string
	for _, q := range pool {
		if _, seen := byDomain[q.Domain]; !seen {
			domainOrder = append(domainOrder, q.Domain)
		}
		byDomain[q.Domain] = append(byDomain[q.Domain], q)
	}

	totalWeight := 0
	for _, key := range domainOrder {
		totalWeight += s.Pool.DomainWeight(key)
	}
	if totalWeight == 0 {
		// No weighting data for any present domain: plain shuffle-and-take.
		s.shuffle(pool)
		return pool[:min(n, len(pool))]
	}

	var selected, leftover []domain.Question
	for _, key := range domainOrder {
		qs := byDomain[key]
		s.shuffle(qs)

		want := int(float64(n)*float64(s.Pool.DomainWeight(key))/float64(totalWeight) + 0.5)
		take := min(want, len(qs))
		selected = append(selected, qs[:take]...)
		leftover = append(leftover, qs[take:]...)
	}

	// Rounding can leave the total short; top up from the unselected rest.
	if len(selected) < n && len(leftover) > 0 {
		s.shuffle(leftover)
		need := min(n-len(selected), len(leftover))
		selected = append(selected, leftover[:need]...)
	}

	s.shuffle(selected)
	return selected[:min(n, len(selected))]
}
