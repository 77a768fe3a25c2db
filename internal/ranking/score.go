package ranking

import (
	"bytes"
	"math"
	"sort"
	"time"
)

// Fusion weights. Lexical relevance carries full weight; the remaining
// signals are additive boosts tuned so none of them can dominate a strong
// text match.
const (
	fuzzyWeight     = 0.3
	editorPickBoost = 0.15
	trendingWeight  = 0.05
	recencyBoost    = 0.2
	daySeconds      = 86400.0
)

// Candidate filter floors: an article must match at least one signal
// meaningfully or it is excluded regardless of its other boosts.
const (
	lexicalFloor = 0.05
	fuzzyFloor   = 0.3
)

// Score fuses one article's raw signals into a scalar:
//
//	lexical + 0.3*fuzzy + pick + 0.05*ln(1+views24h) + recency
//
// where pick is 0.15 for editor picks and recency decays as
// 0.2 / (1 + age_seconds/86400) from the published timestamp.
func Score(s Signals, now time.Time) float64 {
	score := s.Lexical + fuzzyWeight*s.Fuzzy
	if s.IsEditorPick {
		score += editorPickBoost
	}
	score += trendingWeight * math.Log(1+float64(s.Views24h))

	if s.PublishedAt != nil {
		age := now.Sub(*s.PublishedAt).Seconds()
		if age < 0 {
			age = 0
		}
		score += recencyBoost / (1 + age/daySeconds)
	}
	return score
}

func passesFilter(s Signals) bool {
	return s.Lexical >= lexicalFloor || s.Fuzzy >= fuzzyFloor
}

type scored struct {
	Signals
	score float64
}

// fuse scores and orders candidates. With filter set, articles matching
// neither the lexical nor the fuzzy floor are dropped; listing paths pass
// filter=false and rank on promotion, popularity and recency alone.
func fuse(candidates []Signals, filter bool, now time.Time) []scored {
	out := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if filter && !passesFilter(c) {
			continue
		}
		out = append(out, scored{Signals: c, score: Score(c, now)})
	}
	sortScored(out)
	return out
}

// sortScored orders by score descending, then published timestamp
// descending with nulls last, then identifier ascending. The order is a
// pure function of the tuple, so repeated calls over the same signals are
// reproducible.
func sortScored(items []scored) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if c := comparePublished(a.PublishedAt, b.PublishedAt); c != 0 {
			return c > 0
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})
}

// comparePublished returns >0 when a should sort before b (more recent
// first, nil timestamps last).
func comparePublished(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.After(*b):
		return 1
	case b.After(*a):
		return -1
	default:
		return 0
	}
}
