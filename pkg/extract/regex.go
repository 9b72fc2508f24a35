// Package extract pulls structured facts out of free text.
package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/m-mizutani/chatlaw/pkg/model"
)

var (
	numericDatePattern  = regexp.MustCompile(`\b\d{1,2}[-/]\d{1,2}[-/]\d{2,4}\b`)
	monthDatePattern    = regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:,\s*\d{4})?`)
	dayMonthPattern     = regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)(?:\s+\d{4})?\b`)
	relativeDatePattern = regexp.MustCompile(`(?i)\b(?:yesterday(?:\s+(?:morning|afternoon|evening|night))?|today|tonight|last\s+(?:night|week|month|year)|this\s+(?:morning|afternoon|evening))\b`)

	moneyPattern = regexp.MustCompile(`(?i)(?:\bRs\.?|\bINR|\$|₹)\s*\d[\d,]*(?:\.\d+)?`)

	capitalizedPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2}\b`)
	placePattern       = regexp.MustCompile(`(?i)\b(?:shop|market|home|house|street|road|station|office|bank|hospital|school|village|temple|bus stand|railway station)\b`)

	partyPattern = regexp.MustCompile(`(?i)\bmy\s+(landlord|tenant|employer|employee|neighbou?r|husband|wife|brother|sister|father|mother|son|daughter|friend|partner|boss|client|builder|contractor)\b`)
)

var itemKeywords = []string{
	"phone", "laptop", "car", "bike", "house", "land", "jewelry", "jewellery",
	"gold", "chain", "wallet", "cash", "money", "document", "agreement", "FIR", "complaint",
}

var itemPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(itemKeywords))
	for i, kw := range itemKeywords {
		patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
	}
	return patterns
}()

// capitalizedStopwords are capitalized words that do not name a place
var capitalizedStopwords = map[string]struct{}{
	"I": {}, "My": {}, "Me": {}, "The": {}, "A": {}, "An": {}, "He": {}, "She": {}, "They": {},
	"We": {}, "It": {}, "His": {}, "Her": {}, "Their": {}, "Our": {}, "This": {}, "That": {},
	"There": {}, "Then": {}, "On": {}, "In": {}, "At": {}, "After": {}, "Before": {},
	"And": {}, "But": {}, "If": {}, "Also": {}, "Please": {}, "When": {}, "Where": {}, "What": {}, "Who": {}, "Why": {}, "How": {},
	"Yesterday": {}, "Today": {}, "Tomorrow": {}, "Last": {}, "Yes": {}, "No": {},
	"Police": {}, "Someone": {}, "Rs": {}, "Sir": {}, "Mr": {}, "Mrs": {}, "Ms": {}, "Dr": {},
	"January": {}, "February": {}, "March": {}, "April": {}, "May": {}, "June": {}, "July": {},
	"August": {}, "September": {}, "October": {}, "November": {}, "December": {},
	"Monday": {}, "Tuesday": {}, "Wednesday": {}, "Thursday": {}, "Friday": {}, "Saturday": {}, "Sunday": {},
}

// Per-category caps
var limits = map[model.EntityCategory]int{
	model.EntityDates:          4,
	model.EntityMonetaryValues: 3,
	model.EntityLocations:      4,
	model.EntityItems:          4,
	model.EntityParties:        4,
}

// Regex is a rule based extractor. It never fails; text without any match
// gives empty entities.
type Regex struct{}

// NewRegex returns a regex extractor
func NewRegex() *Regex {
	return &Regex{}
}

// Extract implements interfaces.Extractor
func (r *Regex) Extract(ctx context.Context, text string) (model.Entities, error) {
	out := make(model.Entities)

	var dates []string
	dates = append(dates, numericDatePattern.FindAllString(text, -1)...)
	dates = append(dates, monthDatePattern.FindAllString(text, -1)...)
	dates = append(dates, dayMonthPattern.FindAllString(text, -1)...)
	dates = append(dates, relativeDatePattern.FindAllString(text, -1)...)
	put(out, model.EntityDates, dates)

	put(out, model.EntityMonetaryValues, moneyPattern.FindAllString(text, -1))
	put(out, model.EntityLocations, locations(text))
	put(out, model.EntityItems, items(text))

	var parties []string
	for _, m := range partyPattern.FindAllStringSubmatch(text, -1) {
		parties = append(parties, strings.ToLower(m[1]))
	}
	put(out, model.EntityParties, parties)

	return out, nil
}

func locations(text string) []string {
	var found []string
	for _, phrase := range capitalizedPattern.FindAllString(text, -1) {
		words := strings.Fields(phrase)
		for len(words) > 0 {
			if _, stop := capitalizedStopwords[words[0]]; !stop {
				break
			}
			words = words[1:]
		}
		if len(words) > 0 {
			found = append(found, strings.Join(words, " "))
		}
	}
	for _, place := range placePattern.FindAllString(text, -1) {
		found = append(found, strings.ToLower(place))
	}
	return found
}

func items(text string) []string {
	var found []string
	for i, p := range itemPatterns {
		if p.MatchString(text) {
			found = append(found, itemKeywords[i])
		}
	}
	return found
}

// put stores values after whitespace normalization, case-insensitive
// deduplication and capping. The first spelling seen is kept.
func put(out model.Entities, category model.EntityCategory, values []string) {
	seen := make(map[string]struct{}, len(values))
	var result []string
	for _, v := range values {
		v = strings.Join(strings.Fields(v), " ")
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, v)
		if len(result) == limits[category] {
			break
		}
	}
	if len(result) > 0 {
		out[category] = result
	}
}
