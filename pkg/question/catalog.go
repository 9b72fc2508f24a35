// Package question holds the static question catalog and the selector that
// picks the next clarifying question of a consultation.
package question

import "github.com/m-mizutani/chatlaw/pkg/model"

// entry is the catalog of one case type. Questions are listed in priority
// order: the most important fact first.
type entry struct {
	defaults []string
	subtypes map[model.Subtype][]string
}

var (
	murderQuestions = []string{
		"When did the incident occur?",
		"Approximate time of death known?",
		"Where did the incident happen?",
		"Where was the body found?",
		"What was the relationship between accused and victim?",
		"Any prior dispute?",
		"What weapon was used? (knife/firearm/blunt object)",
		"Was the weapon recovered?",
		"Post-mortem report available?",
		"Any CCTV or eyewitnesses?",
		"FIR filed? Which police station?",
		"Any arrests made?",
	}

	robberyQuestions = []string{
		"When did the robbery occur?",
		"Where exactly did it happen? (street / shop / home)",
		"Was a weapon or threat used?",
		"Any injuries?",
		"What items or money were taken?",
		"Any CCTV or witnesses?",
		"Police informed? FIR filed?",
	}

	theftQuestions = []string{
		"When was the item last seen?",
		"When did you notice it missing?",
		"Where was the theft location?",
		"What item was stolen? (model/serial/IMEI)",
		"CCTV or witnesses?",
		"Proof of ownership available?",
		"FIR filed? Which station?",
	}

	assaultQuestions = []string{
		"When did the assault occur?",
		"Where did it happen?",
		"What injuries occurred? Medical report available?",
		"Was there a dispute or trigger?",
		"CCTV or witnesses?",
		"Any hospital or police report?",
	}

	criminalQuestions = []string{
		"When did the incident occur?",
		"Where did it happen?",
		"What exactly happened? Please describe the sequence of events.",
		"Who was involved? Do you know the accused?",
		"Was anyone injured or was any property taken?",
		"Any CCTV or witnesses?",
		"Police informed? FIR filed?",
	}

	propertyQuestions = []string{
		"What type of property dispute? (land/house/inheritance/tenant)",
		"Where is the property located? (address/survey number)",
		"Do you have ownership documents? (sale deed/title deed)",
		"What is the exact nature of the dispute?",
		"When did the dispute start?",
		"Who are the other parties involved?",
		"Do you have: mutation records, property tax receipts, court orders?",
	}

	familyQuestions = []string{
		"What is the family matter? (divorce/custody/maintenance/inheritance)",
		"When and where did the marriage take place?",
		"How long have you been married/separated?",
		"Do you have children? If yes, their ages?",
		"What are the grounds for divorce/dispute?",
		"Have you tried mediation or counseling?",
		"Do you have: marriage certificate, proof of income, other relevant documents?",
	}

	contractQuestions = []string{
		"What type of agreement? (sale/loan/service/employment)",
		"When was the contract signed?",
		"What is the contract value/amount involved?",
		"How has the contract been breached?",
		"When did the breach occur?",
		"Do you have a written agreement?",
		"What remedy are you seeking? (refund/specific performance/damages)",
	}

	generalQuestions = []string{
		"Please describe your legal issue in detail",
		"Who are the parties involved?",
		"When did this issue arise?",
		"Do you have any relevant documents?",
		"Is this matter urgent?",
	}
)

func catalogOf(caseType model.CaseType) (entry, bool) {
	switch caseType {
	case model.CaseTypeCriminal:
		return entry{
			defaults: criminalQuestions,
			subtypes: map[model.Subtype][]string{
				model.SubtypeMurder:  murderQuestions,
				model.SubtypeRobbery: robberyQuestions,
				model.SubtypeTheft:   theftQuestions,
				model.SubtypeAssault: assaultQuestions,
			},
		}, true
	case model.CaseTypeProperty:
		return entry{defaults: propertyQuestions}, true
	case model.CaseTypeFamily:
		return entry{defaults: familyQuestions}, true
	case model.CaseTypeContract:
		return entry{defaults: contractQuestions}, true
	case model.CaseTypeGeneral:
		return entry{defaults: generalQuestions}, true
	default:
		return entry{}, false
	}
}

// Fallback returns the questions used for an unrecognized case type
func Fallback() []string {
	return append([]string(nil), generalQuestions...)
}

// Lookup resolves the ordered candidate questions for a matter: the subtype
// list when subtype is set and catalogued for caseType, else the case type's
// default list, else the fallback list. It never fails and returns a copy.
func Lookup(caseType model.CaseType, subtype model.Subtype) []string {
	e, ok := catalogOf(caseType)
	if !ok {
		return Fallback()
	}
	if subtype != model.SubtypeNone {
		if questions, ok := e.subtypes[subtype]; ok {
			return append([]string(nil), questions...)
		}
	}
	return append([]string(nil), e.defaults...)
}
