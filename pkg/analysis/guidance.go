package analysis

import "github.com/m-mizutani/chatlaw/pkg/model"

// guidance is the fixed legal background of one kind of matter
type guidance struct {
	Overview  string
	Laws      []string
	Actions   []string
	Reminders []string
}

var (
	robberyGuidance = guidance{
		Overview: "This is a robbery case under IPC Sections 390-392 (Robbery and Dacoity).",
		Laws: []string{
			"IPC Section 390: Definition of Robbery (theft with force/threat)",
			"IPC Section 392: Punishment for robbery (up to 10 years + fine)",
			"If weapon used: IPC Section 397 (robbery with deadly weapon), up to 14 years",
			"If injury caused: enhanced punishment under relevant sections",
		},
		Actions: []string{
			"File FIR immediately at the nearest police station (jurisdiction based on crime location)",
			"Provide detailed description of perpetrators if seen",
			"Request police to preserve CCTV footage from the area",
			"Get medical examination done if any injuries sustained",
			"Prepare list of stolen items with proof of ownership",
			"Identify and contact witnesses immediately",
		},
		Reminders: []string{
			"Evidence deteriorates quickly; CCTV footage may be overwritten after 7-30 days",
			"This is a serious offense; professional legal representation is recommended",
		},
	}

	theftGuidance = guidance{
		Overview: "This is a theft case under IPC Sections 378-379.",
		Laws: []string{
			"IPC Section 378: Definition of theft",
			"IPC Section 379: Punishment for theft (up to 3 years, or fine, or both)",
			"IPC Section 380: Theft in a dwelling house (up to 7 years + fine)",
		},
		Actions: []string{
			"File FIR at the police station with jurisdiction over the place of theft",
			"Block stolen phones or cards (IMEI block through CEIR, bank helpline)",
			"Collect proof of ownership: bills, serial numbers, IMEI",
			"Request preservation of CCTV footage near the location",
		},
		Reminders: []string{
			"Keep a copy of the FIR; insurers and carriers ask for it",
		},
	}

	murderGuidance = guidance{
		Overview: "This is a homicide matter under IPC Sections 299-302.",
		Laws: []string{
			"IPC Section 299/300: Culpable homicide and murder",
			"IPC Section 302: Punishment for murder (death or life imprisonment)",
			"IPC Section 304: Culpable homicide not amounting to murder",
		},
		Actions: []string{
			"Ensure an FIR is registered and obtain a copy",
			"Follow up on the post-mortem report",
			"Share details of witnesses and prior disputes with the investigating officer",
			"Engage a criminal lawyer to watch the investigation and trial",
		},
		Reminders: []string{
			"Do not disturb the scene or tamper with any evidence",
		},
	}

	assaultGuidance = guidance{
		Overview: "This is an assault / hurt matter under IPC Sections 319-326 and 351-352.",
		Laws: []string{
			"IPC Section 323: Voluntarily causing hurt",
			"IPC Section 324/326: Hurt or grievous hurt by dangerous weapons",
			"IPC Section 352: Punishment for assault or criminal force",
		},
		Actions: []string{
			"Get a medico-legal examination and keep the MLC report",
			"File FIR or a complaint at the police station",
			"Photograph injuries and keep all medical bills",
			"Note the names and contact details of witnesses",
		},
		Reminders: []string{
			"Medical evidence is strongest when recorded the same day",
		},
	}

	criminalGuidance = guidance{
		Overview: "This appears to be a criminal matter requiring prompt action.",
		Laws: []string{
			"Indian Penal Code, 1860 (offense specific sections)",
			"Code of Criminal Procedure, 1973 (FIR under Section 154)",
		},
		Actions: []string{
			"File FIR immediately at the nearest police station",
			"Collect and preserve all evidence (photos, documents, CCTV)",
			"Get witness statements recorded",
			"Obtain medical examination report if injuries present",
			"Consult a criminal lawyer for detailed legal strategy",
		},
	}

	propertyGuidance = guidance{
		Overview: "This is a property dispute under civil and property laws.",
		Laws: []string{
			"Transfer of Property Act, 1882",
			"Indian Succession Act, 1925 (if inheritance dispute)",
			"Specific Relief Act, 1963 (for specific performance)",
			"Registration Act, 1908 (for property registration)",
			"State-specific Land Revenue Acts",
		},
		Actions: []string{
			"Collect all property documents (sale deed, title deed, mutation records)",
			"Get property survey done to verify boundaries",
			"Check encumbrance certificate from sub-registrar office",
			"Verify ownership chain, tracing back 30 years minimum",
			"Check for any pending litigation on the property",
			"Document any illegal occupation or encroachment with photos/videos",
		},
		Reminders: []string{
			"Property disputes can take years; document everything",
			"Do not make any physical changes to disputed property",
		},
	}

	familyGuidance = guidance{
		Overview: "This is a family law matter.",
		Laws: []string{
			"Hindu Marriage Act, 1955 / Special Marriage Act, 1954",
			"Guardians and Wards Act, 1890 (custody)",
			"Section 125 CrPC (maintenance)",
			"Protection of Women from Domestic Violence Act, 2005",
		},
		Actions: []string{
			"Attempt mediation/counseling first if applicable",
			"Gather all relevant documents (marriage certificate, financial records)",
			"Document any incidents with dates and evidence",
			"Consult a family law specialist",
			"Consider filing petition in family court if mediation fails",
		},
	}

	contractGuidance = guidance{
		Overview: "This is a contract dispute.",
		Laws: []string{
			"Indian Contract Act, 1872 (Sections 73-75 for damages)",
			"Specific Relief Act, 1963",
			"Negotiable Instruments Act, 1881, Section 138 (if cheque dishonoured)",
		},
		Actions: []string{
			"Collect the agreement, invoices and all correspondence",
			"Send a legal notice demanding performance or payment",
			"Check the dispute resolution / arbitration clause",
			"Note the limitation period (generally 3 years)",
		},
	}

	generalGuidance = guidance{
		Overview: "The matter needs further assessment by a legal professional.",
		Actions: []string{
			"Gather all relevant documents and evidence",
			"Document timeline of events",
			"Identify witnesses if any",
			"Consult appropriate legal specialist",
			"File case in appropriate court if required",
		},
	}
)

func guidanceOf(caseType model.CaseType, subtype model.Subtype) guidance {
	switch caseType {
	case model.CaseTypeCriminal:
		switch subtype {
		case model.SubtypeRobbery:
			return robberyGuidance
		case model.SubtypeTheft:
			return theftGuidance
		case model.SubtypeMurder:
			return murderGuidance
		case model.SubtypeAssault:
			return assaultGuidance
		}
		return criminalGuidance
	case model.CaseTypeProperty:
		return propertyGuidance
	case model.CaseTypeFamily:
		return familyGuidance
	case model.CaseTypeContract:
		return contractGuidance
	}
	return generalGuidance
}
