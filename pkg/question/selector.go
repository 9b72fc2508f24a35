package question

import "github.com/m-mizutani/chatlaw/pkg/model"

// SelectNext returns the first catalog question for the matter that has not
// been asked yet. Catalog order is authoritative, so the result is fully
// determined by the arguments. The second return value is false when every
// candidate was already asked (catalog exhaustion); the consultation then
// finalizes instead of asking a closing question.
//
// memory is accepted so that selection can take known facts into account;
// the current catalog does not skip questions based on it.
func SelectNext(caseType model.CaseType, subtype model.Subtype, memory *model.CaseMemory, asked []string) (string, bool) {
	seen := make(map[string]struct{}, len(asked))
	for _, q := range asked {
		seen[q] = struct{}{}
	}

	for _, q := range Lookup(caseType, subtype) {
		if _, ok := seen[q]; !ok {
			return q, true
		}
	}
	return "", false
}

// Remaining returns how many catalog questions are still unasked
func Remaining(caseType model.CaseType, subtype model.Subtype, asked []string) int {
	seen := make(map[string]struct{}, len(asked))
	for _, q := range asked {
		seen[q] = struct{}{}
	}

	n := 0
	for _, q := range Lookup(caseType, subtype) {
		if _, ok := seen[q]; !ok {
			n++
		}
	}
	return n
}
