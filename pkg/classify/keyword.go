// Package classify decides the case type and offense subtype of a client's
// initial description.
package classify

import (
	"context"
	"strings"

	"github.com/m-mizutani/chatlaw/pkg/model"
)

type keywordSet struct {
	caseType model.CaseType
	keywords []string
}

// Order matters: on equal scores the first listed case type wins.
var caseKeywords = []keywordSet{
	{model.CaseTypeCriminal, []string{"theft", "stolen", "robbery", "assault", "murder", "rape", "dacoity", "fir", "police", "crime", "burglar", "pickpocket", "extortion", "blackmail"}},
	{model.CaseTypeFamily, []string{"divorce", "marriage", "custody", "alimony", "maintenance", "dowry", "wife", "husband", "domestic", "separation", "child", "guardian"}},
	{model.CaseTypeProperty, []string{"land", "boundary", "inheritance", "encroachment", "tenant", "landlord", "eviction", "deed", "title", "plot", "mutation"}},
	{model.CaseTypeContract, []string{"agreement", "breach", "contract", "payment", "outstanding", "invoice", "debt", "loan", "delivery", "default"}},
}

type offenseSet struct {
	subtype  model.Subtype
	keywords []string
}

var offenseKeywords = []offenseSet{
	{model.SubtypeMurder, []string{"murder", "killed", "homicide", "stabbed", "shot", "strangled", "burned", "ipc 302", "302"}},
	{model.SubtypeTheft, []string{"theft", "stolen", "pickpocket", "burglary", "phone was stolen", "ipc 379", "379"}},
	{model.SubtypeRobbery, []string{"robbery", "dacoity", "snatched", "armed", "weapon", "force", "ipc 392", "392", "395", "396"}},
	{model.SubtypeAssault, []string{"assault", "beat", "injury", "attack", "fight", "ipc 323", "324", "325", "326"}},
}

const (
	// scoreSaturation is the number of keyword hits that gives full confidence
	scoreSaturation = 5.0

	generalConfidence = 0.5
)

// Keyword classifies by counting case-insensitive keyword occurrences
type Keyword struct{}

// NewKeyword returns a keyword classifier
func NewKeyword() *Keyword {
	return &Keyword{}
}

// Classify implements interfaces.Classifier
func (k *Keyword) Classify(ctx context.Context, text string) (*model.Classification, error) {
	t := strings.ToLower(text)

	var (
		best      model.CaseType
		bestScore int
	)
	for _, set := range caseKeywords {
		if score := countHits(t, set.keywords); score > bestScore {
			best, bestScore = set.caseType, score
		}
	}

	if bestScore == 0 {
		return &model.Classification{
			CaseType:   model.CaseTypeGeneral,
			Subtype:    model.SubtypeNone,
			Confidence: generalConfidence,
		}, nil
	}

	result := &model.Classification{
		CaseType:   best,
		Subtype:    model.SubtypeNone,
		Confidence: min(float64(bestScore)/scoreSaturation, 1.0),
	}
	if best == model.CaseTypeCriminal {
		result.Subtype = DetectOffense(t)
	}
	return result, nil
}

// DetectOffense returns the criminal subtype with the most keyword hits, or
// SubtypeNone when no offense keyword appears.
func DetectOffense(text string) model.Subtype {
	t := strings.ToLower(text)

	best := model.SubtypeNone
	bestScore := 0
	for _, set := range offenseKeywords {
		if score := countHits(t, set.keywords); score > bestScore {
			best, bestScore = set.subtype, score
		}
	}
	return best
}

func countHits(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}
