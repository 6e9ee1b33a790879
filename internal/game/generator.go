package game

import (
	"math/rand"
	"time"

	"flag-quiz-service/internal/domain"
)

// Generator builds randomized question sets from a country pool.
type Generator struct {
	rnd  *rand.Rand
	lang string
}

// NewGenerator returns a generator producing display names in lang ("en" or "fr").
func NewGenerator(lang string) *Generator {
	return NewGeneratorWithRand(lang, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewGeneratorWithRand allows deterministic generation in tests.
func NewGeneratorWithRand(lang string, rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd, lang: lang}
}

// Generate produces up to count questions, each with the correct answer plus
// up to distractors incorrect choices. The pool is shuffled uniformly
// (Fisher-Yates via rand.Shuffle); distractors always exclude the current
// answer and any display name already present among the question's choices,
// and prefer countries not yet used as a correct answer in this pass. When
// the preferred pool runs short, earlier answers backfill so every question
// still reaches the requested choice count; only a genuinely exhausted pool
// leaves a question with fewer distractors. Returns ErrNotEnoughCountries
// when no valid question can be formed at all.
func (g *Generator) Generate(pool []domain.Country, count, distractors int) ([]domain.Question, error) {
	if count <= 0 || distractors < 0 || len(pool) == 0 {
		return nil, domain.ErrNotEnoughCountries
	}

	shuffled := make([]domain.Country, len(pool))
	copy(shuffled, pool)
	g.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	usedAnswers := make(map[string]bool, count)
	questions := make([]domain.Question, 0, count)
	for _, country := range shuffled {
		if len(questions) == count {
			break
		}
		name := country.DisplayName(g.lang)
		if name == "" {
			continue
		}

		question := domain.Question{
			Answer: domain.Answer{
				Code:       country.Code,
				Name:       name,
				Normalized: Normalize(name),
				Flag:       country.FlagSVG,
			},
			Choices: []domain.Choice{{Code: country.Code, Name: name}},
		}
		question.Choices = g.appendDistractors(question.Choices, shuffled, country.Code, usedAnswers, distractors)
		g.rnd.Shuffle(len(question.Choices), func(i, j int) {
			question.Choices[i], question.Choices[j] = question.Choices[j], question.Choices[i]
		})

		usedAnswers[country.Code] = true
		questions = append(questions, question)
	}

	if len(questions) == 0 {
		return nil, domain.ErrNotEnoughCountries
	}
	return questions, nil
}

func (g *Generator) appendDistractors(choices []domain.Choice, pool []domain.Country, answerCode string, usedAnswers map[string]bool, want int) []domain.Choice {
	if want == 0 {
		return choices
	}
	seenNames := map[string]bool{choices[0].Name: true}

	fresh := make([]domain.Country, 0, len(pool))
	reused := make([]domain.Country, 0, len(usedAnswers))
	for _, country := range pool {
		if country.Code == answerCode {
			continue
		}
		if usedAnswers[country.Code] {
			reused = append(reused, country)
			continue
		}
		fresh = append(fresh, country)
	}
	g.rnd.Shuffle(len(fresh), func(i, j int) {
		fresh[i], fresh[j] = fresh[j], fresh[i]
	})
	g.rnd.Shuffle(len(reused), func(i, j int) {
		reused[i], reused[j] = reused[j], reused[i]
	})

	added := 0
	// Fresh countries first; earlier answers only backfill a shortfall.
	for _, candidate := range append(fresh, reused...) {
		if added == want {
			break
		}
		name := candidate.DisplayName(g.lang)
		if name == "" || seenNames[name] {
			continue
		}
		choices = append(choices, domain.Choice{Code: candidate.Code, Name: name})
		seenNames[name] = true
		added++
	}
	return choices
}
