package scoring

import (
	"sort"
	"strings"
	"time"

	"github.com/predictdesk/predictdesk/internal/model"
)

// NewsMatch reports which articles mention a market's question keywords.
type NewsMatch struct {
	Count         int
	MatchedTitles []string
	Articles      []model.NewsArticle
}

// minKeywordLen filters stop words and short fillers out of the question text.
const minKeywordLen = 5

// QuestionKeywords extracts the match keywords from a market question:
// lowercased words longer than four characters with punctuation stripped.
func QuestionKeywords(question string) []string {
	fields := strings.FieldsFunc(strings.ToLower(question), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})

	keywords := make([]string, 0, len(fields))
	seen := make(map[string]bool)
	for _, f := range fields {
		if len(f) < minKeywordLen || seen[f] {
			continue
		}
		seen[f] = true
		keywords = append(keywords, f)
	}
	return keywords
}

// MatchArticles links news articles to a market by keyword overlap between the
// question text and each article's title plus description.
//
// This is a cheap lexical heuristic, not semantic matching: "Apple harvest"
// will happily match an iPhone market. Good enough to bias scoring, not good
// enough to be trusted as ground truth.
func MatchArticles(question string, articles []model.NewsArticle) NewsMatch {
	keywords := QuestionKeywords(question)
	if len(keywords) == 0 {
		return NewsMatch{}
	}

	var match NewsMatch
	for _, a := range articles {
		haystack := strings.ToLower(a.Title + " " + a.Description)
		for _, kw := range keywords {
			if strings.Contains(haystack, kw) {
				match.Count++
				match.MatchedTitles = append(match.MatchedTitles, a.Title)
				match.Articles = append(match.Articles, a)
				break
			}
		}
	}

	// Youngest first, so callers can take the top N as "most relevant".
	sort.SliceStable(match.Articles, func(i, j int) bool {
		return match.Articles[i].PublishedAt.After(match.Articles[j].PublishedAt)
	})

	return match
}

// Recency weighting bounds for news contribution.
const (
	newsFreshWindow = 6 * time.Hour
	newsStaleCutoff = 48 * time.Hour
	newsMinWeight   = 0.25
)

// recencyWeight returns 1.0 for articles younger than six hours, decaying
// linearly to the minimum weight at the 48 hour cutoff.
func recencyWeight(publishedAt, now time.Time) float64 {
	age := now.Sub(publishedAt)
	if age <= newsFreshWindow {
		return 1.0
	}
	if age >= newsStaleCutoff {
		return newsMinWeight
	}
	span := float64(newsStaleCutoff - newsFreshWindow)
	frac := float64(age-newsFreshWindow) / span
	return 1.0 - frac*(1.0-newsMinWeight)
}

// WeightedMatchCount sums recency weights over matched articles, so two fresh
// articles outweigh three stale ones.
func WeightedMatchCount(match NewsMatch, now time.Time) float64 {
	var total float64
	for _, a := range match.Articles {
		total += recencyWeight(a.PublishedAt, now)
	}
	return total
}
