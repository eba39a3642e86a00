package insights

import (
	"math"
	"sort"
	"time"

	"moneta/internal/ledger"
	"moneta/internal/models"
)

// canonicalPeriod is one of the fixed candidate recurrence intervals used
// for pattern matching, with its matching tolerance in days. The long
// buckets tolerate proportionally more jitter.
type canonicalPeriod struct {
	days      int
	tolerance int
	label     string
}

var canonicalPeriods = []canonicalPeriod{
	{days: 7, tolerance: 3, label: "weekly"},
	{days: 14, tolerance: 3, label: "biweekly"},
	{days: 30, tolerance: 5, label: "monthly"},
	{days: 365, tolerance: 20, label: "yearly"},
}

// minOccurrences is the smallest transaction count that qualifies as a
// pattern.
const minOccurrences = 3

// DetectedRecurringPattern is an unsupervised finding: a category whose
// expense dates cluster around one canonical recurrence interval.
type DetectedRecurringPattern struct {
	CategoryID     string    `json:"category_id"`
	CategoryName   string    `json:"category_name"`
	Frequency      string    `json:"frequency"`
	Occurrences    int       `json:"occurrences"`
	AverageAmount  float64   `json:"average_amount"`
	LastOccurrence time.Time `json:"last_occurrence"`
	NextExpected   time.Time `json:"next_expected"`
	Note           string    `json:"note"`

	// Confidence in [0,1]: decreasing in the coefficient of variation of
	// both amounts and gap lengths, so tighter clustering scores higher.
	Confidence float64 `json:"confidence"`
}

// DetectPatterns mines the full expense history for periodic patterns, one
// per category at most. Categories with fewer than three qualifying
// occurrences produce nothing.
func (e *Engine) DetectPatterns() ([]DetectedRecurringPattern, error) {
	transactions, err := e.repo.All(ledger.SortDateAsc)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]models.Transaction)
	names := make(map[string]string)
	for i := range transactions {
		t := &transactions[i]
		if t.Type != models.TransactionTypeExpense || t.CategoryID == nil {
			continue
		}
		groups[*t.CategoryID] = append(groups[*t.CategoryID], *t)
		if t.Category != nil {
			names[*t.CategoryID] = t.Category.Name
		}
	}

	var patterns []DetectedRecurringPattern
	for categoryID, group := range groups {
		if pattern, ok := detectInGroup(group); ok {
			pattern.CategoryID = categoryID
			pattern.CategoryName = names[categoryID]
			patterns = append(patterns, pattern)
		}
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Confidence != patterns[j].Confidence {
			return patterns[i].Confidence > patterns[j].Confidence
		}
		return patterns[i].CategoryID < patterns[j].CategoryID
	})
	return patterns, nil
}

// detectInGroup inspects one category's date-sorted transactions.
func detectInGroup(group []models.Transaction) (DetectedRecurringPattern, bool) {
	if len(group) < minOccurrences {
		return DetectedRecurringPattern{}, false
	}

	sort.Slice(group, func(i, j int) bool { return group[i].Date.Before(group[j].Date) })

	// Consecutive date gaps in days; gaps outside every tolerance window
	// are discarded as noise.
	matchedGaps := make(map[int][]float64)
	for i := 1; i < len(group); i++ {
		gap := int(math.Round(group[i].Date.Sub(group[i-1].Date).Hours() / 24))
		if canon, ok := nearestCanonical(gap); ok {
			matchedGaps[canon.days] = append(matchedGaps[canon.days], float64(gap))
		}
	}

	// Pick the dominant canonical period.
	var dominant canonicalPeriod
	var dominantGaps []float64
	for _, canon := range canonicalPeriods {
		if gaps := matchedGaps[canon.days]; len(gaps) > len(dominantGaps) {
			dominant = canon
			dominantGaps = gaps
		}
	}

	// n matched gaps cover n+1 transactions.
	occurrences := len(dominantGaps) + 1
	if occurrences < minOccurrences {
		return DetectedRecurringPattern{}, false
	}

	amounts := make([]float64, len(group))
	var sum float64
	for i := range group {
		amounts[i] = float64(group[i].Amount)
		sum += amounts[i]
	}

	last := group[len(group)-1].Date
	confidence := 1 - (coefficientOfVariation(amounts)+coefficientOfVariation(dominantGaps))/2
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return DetectedRecurringPattern{
		Frequency:      dominant.label,
		Occurrences:    occurrences,
		AverageAmount:  sum / float64(len(group)),
		LastOccurrence: last,
		NextExpected:   last.AddDate(0, 0, dominant.days),
		Note:           mostFrequentNote(group),
		Confidence:     confidence,
	}, true
}

// nearestCanonical assigns a gap to the closest canonical period whose
// tolerance window contains it.
func nearestCanonical(gapDays int) (canonicalPeriod, bool) {
	best := canonicalPeriod{}
	bestDistance := math.MaxInt
	found := false
	for _, canon := range canonicalPeriods {
		distance := gapDays - canon.days
		if distance < 0 {
			distance = -distance
		}
		if distance <= canon.tolerance && distance < bestDistance {
			best = canon
			bestDistance = distance
			found = true
		}
	}
	return best, found
}

// coefficientOfVariation is stddev/mean, or 0 for degenerate input.
func coefficientOfVariation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return 0
	}

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance) / mean
}

// mostFrequentNote picks the representative note for a pattern.
func mostFrequentNote(group []models.Transaction) string {
	counts := make(map[string]int)
	best := ""
	for i := range group {
		note := group[i].Note
		if note == "" {
			continue
		}
		counts[note]++
		if counts[note] > counts[best] {
			best = note
		}
	}
	return best
}
