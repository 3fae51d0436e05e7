package scoring

import (
	"math"

	"github.com/nagame-dev/aiready/internal/quizbank"
)

// CategoryScore is one row of the radar display: a canonical category and
// the rounded mean of its answered questions.
type CategoryScore struct {
	Category string `json:"category"`
	Average  int    `json:"average"`
}

// categoryAliases merges near-duplicate labels from the quiz table into
// canonical category names.
var categoryAliases = map[string]string{
	"データ活用志向": "データ活用",
	"データ応用意":  "データ活用",
}

const fallbackCategory = "その他"

// AggregateCategories groups answered questions by canonical category,
// preserving first-seen order, and averages each group (rounded half away
// from zero). Categories with no answered questions are omitted.
func AggregateCategories(questions []quizbank.Question, answers AnswerSet) []CategoryScore {
	buckets := map[string][]int{}
	var order []string

	for _, q := range questions {
		category := q.Category
		if category == "" {
			category = fallbackCategory
		}
		if canonical, ok := categoryAliases[category]; ok {
			category = canonical
		}
		value, answered := answers[q.ID]
		if !answered {
			continue
		}
		if _, seen := buckets[category]; !seen {
			order = append(order, category)
		}
		buckets[category] = append(buckets[category], value)
	}

	scores := make([]CategoryScore, 0, len(order))
	for _, category := range order {
		values := buckets[category]
		sum := 0
		for _, v := range values {
			sum += v
		}
		scores = append(scores, CategoryScore{
			Category: category,
			Average:  int(math.Round(float64(sum) / float64(len(values)))),
		})
	}
	return scores
}
