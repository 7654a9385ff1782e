package types

// Field is the public JSON identifier of a request field. Validation errors
// report these names verbatim, so renaming one is a breaking API change.
type Field string

const (
	FieldAssessmentDate          Field = "assessmentDate"
	FieldGender                  Field = "gender"
	FieldDateOfBirth             Field = "dateOfBirth"
	FieldDateOfCurrentConviction Field = "dateOfCurrentConviction"
	FieldDateAtStartOfFollowup   Field = "dateAtStartOfFollowup"
	FieldTotalNumberOfSanctions  Field = "totalNumberOfSanctions"
	FieldAgeAtFirstSanction      Field = "ageAtFirstSanction"
	FieldCurrentOffenceCode      Field = "currentOffenceCode"

	FieldTotalNumberOfViolentSanctions Field = "totalNumberOfViolentSanctions"
	FieldCarryOrUseWeapon              Field = "carryOrUseWeapon"

	FieldHasEverCommittedSexualOffence         Field = "hasEverCommittedSexualOffence"
	FieldIsCurrentOffenceSexuallyMotivated     Field = "isCurrentOffenceSexuallyMotivated"
	FieldTotalContactAdultSexualSanctions      Field = "totalContactAdultSexualSanctions"
	FieldTotalContactChildSexualSanctions      Field = "totalContactChildSexualSanctions"
	FieldTotalIndecentImageSanctions           Field = "totalIndecentImageSanctions"
	FieldTotalNonContactSexualOffences         Field = "totalNonContactSexualOffences"
	FieldIsCurrentOffenceAgainstVictimStranger Field = "isCurrentOffenceAgainstVictimStranger"

	FieldSuitabilityOfAccommodation           Field = "suitabilityOfAccommodation"
	FieldIsUnemployed                         Field = "isUnemployed"
	FieldCurrentRelationshipWithPartner       Field = "currentRelationshipWithPartner"
	FieldCloseFamilyRelationships             Field = "closeFamilyRelationships"
	FieldEvidenceOfDomesticAbuse              Field = "evidenceOfDomesticAbuse"
	FieldDomesticAbuseAgainstPartner          Field = "domesticAbuseAgainstPartner"
	FieldDomesticAbuseAgainstFamily           Field = "domesticAbuseAgainstFamily"
	FieldCurrentAlcoholUseProblems            Field = "currentAlcoholUseProblems"
	FieldExcessiveAlcoholUse                  Field = "excessiveAlcoholUse"
	FieldCurrentDrugMisuse                    Field = "currentDrugMisuse"
	FieldHasCurrentPsychiatricTreatment       Field = "hasCurrentPsychiatricTreatment"
	FieldImpulsivityProblems                  Field = "impulsivityProblems"
	FieldTemperControl                        Field = "temperControl"
	FieldProCriminalAttitudes                 Field = "proCriminalAttitudes"
	FieldHostileOrientation                   Field = "hostileOrientation"
	FieldProblemSolvingSkills                 Field = "problemSolvingSkills"
	FieldAwarenessOfConsequences              Field = "awarenessOfConsequences"
	FieldEasilyInfluencedByCriminalAssociates Field = "easilyInfluencedByCriminalAssociates"

	FieldPeerGroupInfluences      Field = "peerGroupInfluences"
	FieldAttitudesPeerPressure    Field = "attitudesPeerPressure"
	FieldAttitudesStableBehaviour Field = "attitudesStableBehaviour"
	FieldDifficultiesCoping       Field = "difficultiesCoping"
	FieldAttitudesTowardsSelf     Field = "attitudesTowardsSelf"

	FieldWorkRelatedSkills                      Field = "workRelatedSkills"
	FieldProblemsWithReadingWritingNumeracy     Field = "problemsWithReadingWritingNumeracy"
	FieldHasProblemsWithReading                 Field = "hasProblemsWithReading"
	FieldHasProblemsWithNumeracy                Field = "hasProblemsWithNumeracy"
	FieldLearningDifficulties                   Field = "learningDifficulties"
	FieldProfessionalOrVocationalQualifications Field = "professionalOrVocationalQualifications"

	FieldSexualPreoccupation             Field = "sexualPreoccupation"
	FieldSexualInterestOffenceRelated    Field = "sexualInterestOffenceRelated"
	FieldEmotionalCongruenceWithChildren Field = "emotionalCongruenceWithChildren"
)

var presence = map[Field]func(*RiskScoreRequest) bool{
	FieldAssessmentDate:          func(r *RiskScoreRequest) bool { return r.AssessmentDate != nil },
	FieldGender:                  func(r *RiskScoreRequest) bool { return r.Gender != nil },
	FieldDateOfBirth:             func(r *RiskScoreRequest) bool { return r.DateOfBirth != nil },
	FieldDateOfCurrentConviction: func(r *RiskScoreRequest) bool { return r.DateOfCurrentConviction != nil },
	FieldDateAtStartOfFollowup:   func(r *RiskScoreRequest) bool { return r.DateAtStartOfFollowup != nil },
	FieldTotalNumberOfSanctions:  func(r *RiskScoreRequest) bool { return r.TotalNumberOfSanctions != nil },
	FieldAgeAtFirstSanction:      func(r *RiskScoreRequest) bool { return r.AgeAtFirstSanction != nil },
	FieldCurrentOffenceCode:      func(r *RiskScoreRequest) bool { return r.CurrentOffenceCode != nil },

	FieldTotalNumberOfViolentSanctions: func(r *RiskScoreRequest) bool { return r.TotalNumberOfViolentSanctions != nil },
	FieldCarryOrUseWeapon:              func(r *RiskScoreRequest) bool { return r.CarryOrUseWeapon != nil },

	FieldHasEverCommittedSexualOffence:         func(r *RiskScoreRequest) bool { return r.HasEverCommittedSexualOffence != nil },
	FieldIsCurrentOffenceSexuallyMotivated:     func(r *RiskScoreRequest) bool { return r.IsCurrentOffenceSexuallyMotivated != nil },
	FieldTotalContactAdultSexualSanctions:      func(r *RiskScoreRequest) bool { return r.TotalContactAdultSexualSanctions != nil },
	FieldTotalContactChildSexualSanctions:      func(r *RiskScoreRequest) bool { return r.TotalContactChildSexualSanctions != nil },
	FieldTotalIndecentImageSanctions:           func(r *RiskScoreRequest) bool { return r.TotalIndecentImageSanctions != nil },
	FieldTotalNonContactSexualOffences:         func(r *RiskScoreRequest) bool { return r.TotalNonContactSexualOffences != nil },
	FieldIsCurrentOffenceAgainstVictimStranger: func(r *RiskScoreRequest) bool { return r.IsCurrentOffenceAgainstVictimStranger != nil },

	FieldSuitabilityOfAccommodation:           func(r *RiskScoreRequest) bool { return r.SuitabilityOfAccommodation != nil },
	FieldIsUnemployed:                         func(r *RiskScoreRequest) bool { return r.IsUnemployed != nil },
	FieldCurrentRelationshipWithPartner:       func(r *RiskScoreRequest) bool { return r.CurrentRelationshipWithPartner != nil },
	FieldCloseFamilyRelationships:             func(r *RiskScoreRequest) bool { return r.CloseFamilyRelationships != nil },
	FieldEvidenceOfDomesticAbuse:              func(r *RiskScoreRequest) bool { return r.EvidenceOfDomesticAbuse != nil },
	FieldDomesticAbuseAgainstPartner:          func(r *RiskScoreRequest) bool { return r.DomesticAbuseAgainstPartner != nil },
	FieldDomesticAbuseAgainstFamily:           func(r *RiskScoreRequest) bool { return r.DomesticAbuseAgainstFamily != nil },
	FieldCurrentAlcoholUseProblems:            func(r *RiskScoreRequest) bool { return r.CurrentAlcoholUseProblems != nil },
	FieldExcessiveAlcoholUse:                  func(r *RiskScoreRequest) bool { return r.ExcessiveAlcoholUse != nil },
	FieldCurrentDrugMisuse:                    func(r *RiskScoreRequest) bool { return r.CurrentDrugMisuse != nil },
	FieldHasCurrentPsychiatricTreatment:       func(r *RiskScoreRequest) bool { return r.HasCurrentPsychiatricTreatment != nil },
	FieldImpulsivityProblems:                  func(r *RiskScoreRequest) bool { return r.ImpulsivityProblems != nil },
	FieldTemperControl:                        func(r *RiskScoreRequest) bool { return r.TemperControl != nil },
	FieldProCriminalAttitudes:                 func(r *RiskScoreRequest) bool { return r.ProCriminalAttitudes != nil },
	FieldHostileOrientation:                   func(r *RiskScoreRequest) bool { return r.HostileOrientation != nil },
	FieldProblemSolvingSkills:                 func(r *RiskScoreRequest) bool { return r.ProblemSolvingSkills != nil },
	FieldAwarenessOfConsequences:              func(r *RiskScoreRequest) bool { return r.AwarenessOfConsequences != nil },
	FieldEasilyInfluencedByCriminalAssociates: func(r *RiskScoreRequest) bool { return r.EasilyInfluencedByCriminalAssociates != nil },

	FieldPeerGroupInfluences:      func(r *RiskScoreRequest) bool { return r.PeerGroupInfluences != nil },
	FieldAttitudesPeerPressure:    func(r *RiskScoreRequest) bool { return r.AttitudesPeerPressure != nil },
	FieldAttitudesStableBehaviour: func(r *RiskScoreRequest) bool { return r.AttitudesStableBehaviour != nil },
	FieldDifficultiesCoping:       func(r *RiskScoreRequest) bool { return r.DifficultiesCoping != nil },
	FieldAttitudesTowardsSelf:     func(r *RiskScoreRequest) bool { return r.AttitudesTowardsSelf != nil },

	FieldWorkRelatedSkills:                      func(r *RiskScoreRequest) bool { return r.WorkRelatedSkills != nil },
	FieldProblemsWithReadingWritingNumeracy:     func(r *RiskScoreRequest) bool { return r.ProblemsWithReadingWritingNumeracy != nil },
	FieldHasProblemsWithReading:                 func(r *RiskScoreRequest) bool { return r.HasProblemsWithReading != nil },
	FieldHasProblemsWithNumeracy:                func(r *RiskScoreRequest) bool { return r.HasProblemsWithNumeracy != nil },
	FieldLearningDifficulties:                   func(r *RiskScoreRequest) bool { return r.LearningDifficulties != nil },
	FieldProfessionalOrVocationalQualifications: func(r *RiskScoreRequest) bool { return r.ProfessionalOrVocationalQualifications != nil },

	FieldSexualPreoccupation:             func(r *RiskScoreRequest) bool { return r.SexualPreoccupation != nil },
	FieldSexualInterestOffenceRelated:    func(r *RiskScoreRequest) bool { return r.SexualInterestOffenceRelated != nil },
	FieldEmotionalCongruenceWithChildren: func(r *RiskScoreRequest) bool { return r.EmotionalCongruenceWithChildren != nil },
}

// Present reports whether field f is set on r. Unknown fields and a nil
// request are never present.
func Present(r *RiskScoreRequest, f Field) bool {
	if r == nil {
		return false
	}
	check, ok := presence[f]
	return ok && check(r)
}

// KnownField reports whether f names a request field.
func KnownField(f Field) bool {
	_, ok := presence[f]
	return ok
}
