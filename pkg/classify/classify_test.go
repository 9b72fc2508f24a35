package classify_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/chatlaw/pkg/classify"
	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestKeywordClassify(t *testing.T) {
	testCases := []struct {
		name       string
		text       string
		caseType   model.CaseType
		subtype    model.Subtype
		confidence float64
	}{
		{"robbery", "robbery happened at my shop yesterday", model.CaseTypeCriminal, model.SubtypeRobbery, 0.2},
		{"theft", "My phone was stolen, police did not help", model.CaseTypeCriminal, model.SubtypeTheft, 0.4},
		{"murder", "my brother was killed, it is murder", model.CaseTypeCriminal, model.SubtypeMurder, 0.2},
		{"criminal without offense", "I got a call from the police about a crime", model.CaseTypeCriminal, model.SubtypeNone, 0.4},
		{"family", "I want a divorce and custody of my child", model.CaseTypeFamily, model.SubtypeNone, 0.6},
		{"property", "my landlord started eviction of the tenant", model.CaseTypeProperty, model.SubtypeNone, 0.8},
		{"contract", "breach of contract and outstanding payment", model.CaseTypeContract, model.SubtypeNone, 0.8},
		{"general", "I need some advice", model.CaseTypeGeneral, model.SubtypeNone, 0.5},
		{"saturated", "theft stolen robbery assault murder police crime", model.CaseTypeCriminal, model.SubtypeTheft, 1.0},
	}

	k := classify.NewKeyword()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := k.Classify(context.Background(), tc.text)
			gt.NoError(t, err)
			gt.Equal(t, c.CaseType, tc.caseType)
			gt.Equal(t, c.Subtype, tc.subtype)
			gt.True(t, c.Confidence > tc.confidence-1e-9 && c.Confidence < tc.confidence+1e-9)
			gt.NoError(t, c.Validate())
		})
	}
}

func TestKeywordTieBreak(t *testing.T) {
	// one criminal keyword and one family keyword: criminal is listed first
	c, err := classify.NewKeyword().Classify(context.Background(), "police and my husband")
	gt.NoError(t, err)
	gt.Equal(t, c.CaseType, model.CaseTypeCriminal)
}

func TestDetectOffense(t *testing.T) {
	gt.Equal(t, classify.DetectOffense("he was STABBED"), model.SubtypeMurder)
	gt.Equal(t, classify.DetectOffense("chain snatched with force"), model.SubtypeRobbery)
	gt.Equal(t, classify.DetectOffense("a fight broke out, injury to head"), model.SubtypeAssault)
	gt.Equal(t, classify.DetectOffense("nothing relevant"), model.SubtypeNone)
}

func writePolicy(t *testing.T, dir, policy string) {
	t.Helper()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "classify.rego"), []byte(policy), 0644))
}

func TestPolicyClassify(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	writePolicy(t, tmpDir, `package classify

case_type := "contract" if {
	contains(input.lower, "cheque bounce")
}

confidence := 0.9 if {
	case_type == "contract"
}
`)

	p, err := classify.NewPolicy(ctx, tmpDir, classify.NewKeyword())
	gt.NoError(t, err)

	c, err := p.Classify(ctx, "Cheque bounce of my tenant")
	gt.NoError(t, err)
	gt.Equal(t, c.CaseType, model.CaseTypeContract)
	gt.Equal(t, c.Subtype, model.SubtypeNone)
	gt.Equal(t, c.Confidence, 0.9)

	// no decision from the policy: keyword fallback
	c, err = p.Classify(ctx, "my wife filed for divorce")
	gt.NoError(t, err)
	gt.Equal(t, c.CaseType, model.CaseTypeFamily)
}

func TestPolicyClassifySubtype(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	writePolicy(t, tmpDir, `package classify

case_type := "criminal" if {
	contains(input.lower, "chain")
}

subtype := "robbery" if {
	contains(input.lower, "chain")
}
`)

	p, err := classify.NewPolicy(ctx, tmpDir, nil)
	gt.NoError(t, err)

	c, err := p.Classify(ctx, "Someone took my chain near the station")
	gt.NoError(t, err)
	gt.Equal(t, c.CaseType, model.CaseTypeCriminal)
	gt.Equal(t, c.Subtype, model.SubtypeRobbery)
	gt.Equal(t, c.Confidence, 1.0)
}

func TestPolicyInvalidDecision(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	writePolicy(t, tmpDir, `package classify

case_type := "maritime"
`)

	p, err := classify.NewPolicy(ctx, tmpDir, nil)
	gt.NoError(t, err)

	_, err = p.Classify(ctx, "anything")
	gt.Error(t, err)
}

func TestPolicyWithoutFiles(t *testing.T) {
	ctx := context.Background()

	p, err := classify.NewPolicy(ctx, t.TempDir(), nil)
	gt.NoError(t, err)

	c, err := p.Classify(ctx, "robbery at the market")
	gt.NoError(t, err)
	gt.Equal(t, c.CaseType, model.CaseTypeCriminal)
	gt.Equal(t, c.Subtype, model.SubtypeRobbery)
}

func TestPolicySyntaxError(t *testing.T) {
	tmpDir := t.TempDir()
	writePolicy(t, tmpDir, `package classify

case_type := 
`)

	_, err := classify.NewPolicy(context.Background(), tmpDir, nil)
	gt.Error(t, err)
}
