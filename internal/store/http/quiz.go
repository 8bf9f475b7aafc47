package http

import (
	"net/http"
	"strconv"

	"github.com/fixthevuln/backend/internal/store/domain"
	"github.com/fixthevuln/backend/internal/store/service"
	"github.com/fixthevuln/backend/pkg/httpx"
)

const (
	defaultQuizCount = 10
	maxQuizCount     = 50
)

// QuizHandler samples practice questions.
//
// GET /v1/quiz/sample?domain=all&difficulty=mixed&count=10 responds
// {"questions": [...]}.
type QuizHandler struct {
	QuizService *service.QuizService
}

type quizResponse struct {
	Questions []domain.Question `json:"questions"`
}

func (h *QuizHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	domainKey := q.Get("domain")
	if domainKey == "" {
		domainKey = service.DomainAll
	}
	difficulty := q.Get("difficulty")
	if difficulty == "" {
		difficulty = service.DifficultyMixed
	}

	count := defaultQuizCount
	if raw := q.Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httpx.WriteError(w, http.StatusBadRequest, "count must be a positive integer")
			return
		}
		count = min(n, maxQuizCount)
	}

	questions := h.QuizService.Sample(domainKey, difficulty, count)
	if questions == nil {
		questions = []domain.Question{}
	}
	httpx.WriteJSON(w, http.StatusOK, quizResponse{Questions: questions})
}
