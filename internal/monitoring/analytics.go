package monitoring

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CountEntry is one (label, count) pair, ordered by descending count.
type CountEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AnalyticsSnapshot summarizes intent and recruiter behavior so far.
type AnalyticsSnapshot struct {
	TotalInteractions int                       `json:"total_interactions"`
	IntentCounts      []CountEntry              `json:"intent_counts"`
	RecruiterTypes    []CountEntry              `json:"recruiter_types"`
	RecruiterIntents  map[string]map[string]int `json:"recruiter_intent_map"`
	TopTrends         []string                  `json:"top_trends"`
}

// Analytics accumulates per-intent and per-recruiter counters with a
// cross-category map.
type Analytics struct {
	mu sync.Mutex

	total            int
	intentCounts     map[string]int
	recruiterTypes   map[string]int
	recruiterIntents map[string]map[string]int
}

// NewAnalytics creates an empty accumulator.
func NewAnalytics() *Analytics {
	return &Analytics{
		intentCounts:     make(map[string]int),
		recruiterTypes:   make(map[string]int),
		recruiterIntents: make(map[string]map[string]int),
	}
}

// Track records one interaction.
func (a *Analytics) Track(intent, recruiterType string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++
	a.intentCounts[intent]++
	a.recruiterTypes[recruiterType]++
	if a.recruiterIntents[recruiterType] == nil {
		a.recruiterIntents[recruiterType] = make(map[string]int)
	}
	a.recruiterIntents[recruiterType][intent]++
}

// Snapshot returns the current analytics view.
func (a *Analytics) Snapshot() AnalyticsSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	crossMap := make(map[string]map[string]int, len(a.recruiterIntents))
	for rt, intents := range a.recruiterIntents {
		inner := make(map[string]int, len(intents))
		for intent, n := range intents {
			inner[intent] = n
		}
		crossMap[rt] = inner
	}

	return AnalyticsSnapshot{
		TotalInteractions: a.total,
		IntentCounts:      sortedEntries(a.intentCounts),
		RecruiterTypes:    sortedEntries(a.recruiterTypes),
		RecruiterIntents:  crossMap,
		TopTrends:         topTrends(crossMap),
	}
}

func sortedEntries(counts map[string]int) []CountEntry {
	entries := make([]CountEntry, 0, len(counts))
	for name, n := range counts {
		entries = append(entries, CountEntry{Name: name, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

var titleCaser = cases.Title(language.English)

// prettyLabel turns TECH_LEAD or project_query into a readable label.
func prettyLabel(raw string) string {
	return titleCaser.String(strings.ToLower(strings.ReplaceAll(raw, "_", " ")))
}

func topTrends(crossMap map[string]map[string]int) []string {
	recruiters := make([]string, 0, len(crossMap))
	for rt := range crossMap {
		recruiters = append(recruiters, rt)
	}
	sort.Strings(recruiters)

	var trends []string
	for _, rt := range recruiters {
		intents := crossMap[rt]
		if len(intents) == 0 {
			continue
		}
		topIntent := ""
		topCount := -1
		names := make([]string, 0, len(intents))
		for intent := range intents {
			names = append(names, intent)
		}
		sort.Strings(names)
		for _, intent := range names {
			if intents[intent] > topCount {
				topIntent = intent
				topCount = intents[intent]
			}
		}
		trends = append(trends, fmt.Sprintf(
			"Top interest for %s: %s (%d requests)",
			prettyLabel(rt), prettyLabel(topIntent), topCount,
		))
	}
	return trends
}
