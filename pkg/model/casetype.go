package model

import "github.com/m-mizutani/goerr/v2"

type CaseType string

const (
	CaseTypeCriminal CaseType = "criminal"
	CaseTypeFamily   CaseType = "family"
	CaseTypeProperty CaseType = "property"
	CaseTypeContract CaseType = "contract"
	CaseTypeGeneral  CaseType = "general"
)

// AllCaseTypes returns every case type a classifier may emit
func AllCaseTypes() []CaseType {
	return []CaseType{
		CaseTypeCriminal,
		CaseTypeFamily,
		CaseTypeProperty,
		CaseTypeContract,
		CaseTypeGeneral,
	}
}

// Valid checks if the case type is one of the known values
func (c CaseType) Valid() bool {
	switch c {
	case CaseTypeCriminal, CaseTypeFamily, CaseTypeProperty, CaseTypeContract, CaseTypeGeneral:
		return true
	default:
		return false
	}
}

func (c CaseType) String() string { return string(c) }

// Subtype narrows a case type. Only criminal matters currently have subtypes.
type Subtype string

const (
	SubtypeNone    Subtype = ""
	SubtypeMurder  Subtype = "murder"
	SubtypeTheft   Subtype = "theft"
	SubtypeRobbery Subtype = "robbery"
	SubtypeAssault Subtype = "assault"
)

// Valid checks if the subtype is empty or one of the known offenses
func (s Subtype) Valid() bool {
	switch s {
	case SubtypeNone, SubtypeMurder, SubtypeTheft, SubtypeRobbery, SubtypeAssault:
		return true
	default:
		return false
	}
}

func (s Subtype) String() string { return string(s) }

// Classification is the classifier's verdict on a query
type Classification struct {
	CaseType   CaseType `json:"case_type"`
	Subtype    Subtype  `json:"subtype,omitempty"`
	Confidence float64  `json:"confidence"`
}

// Validate checks the classification before it is used to open a session
func (c *Classification) Validate() error {
	if !c.CaseType.Valid() {
		return goerr.New("unknown case type", goerr.V("case_type", c.CaseType))
	}
	if !c.Subtype.Valid() {
		return goerr.New("unknown subtype", goerr.V("subtype", c.Subtype))
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return goerr.New("confidence out of range", goerr.V("confidence", c.Confidence))
	}
	return nil
}
