package domain

// Question is one practice question from the static pool.
type Question struct {
	ID          string   `json:"id"`
	Domain      string   `json:"domain"`
	Difficulty  string   `json:"difficulty"`
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	Answer      int      `json:"answer"`
	Explanation string   `json:"explanation"`
}

// QuizDomain describes one exam domain and its weighting in the real exam.
// Weights drive proportional allocation when sampling across all domains.
type QuizDomain struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Weight int    `json:"weight"` // percentage points
}

// QuizPool is a loaded question pool plus its domain weighting table.
type QuizPool struct {
	Domains   []QuizDomain `json:"domains"`
	Questions []Question   `json:"questions"`
}

// DomainWeight returns the weight for a domain key, or 0 if unknown.
func (p *QuizPool) DomainWeight(key string) int {
	for _, d := range p.Domains {
		if d.Key == key {
			return d.Weight
		}
	}
	return 0
}
