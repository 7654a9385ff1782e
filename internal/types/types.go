package types

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for every date in the assessment request.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component.
type Date struct {
	time.Time
}

// NewDate returns the UTC midnight Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a yyyy-mm-dd string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Gender of the assessed person.
type Gender string

const (
	Male   Gender = "MALE"
	Female Gender = "FEMALE"
)

func (g *Gender) UnmarshalText(b []byte) error {
	switch v := Gender(b); v {
	case Male, Female:
		*g = v
		return nil
	default:
		return fmt.Errorf("unknown gender %q", string(b))
	}
}

// ProblemLevel is the three point ordinal scale shared by most need questions.
type ProblemLevel string

const (
	NoProblems          ProblemLevel = "NO_PROBLEMS"
	SomeProblems        ProblemLevel = "SOME_PROBLEMS"
	SignificantProblems ProblemLevel = "SIGNIFICANT_PROBLEMS"
)

// Score maps the level onto 0, 1 or 2.
func (p ProblemLevel) Score() int {
	switch p {
	case SomeProblems:
		return 1
	case SignificantProblems:
		return 2
	default:
		return 0
	}
}

func (p *ProblemLevel) UnmarshalText(b []byte) error {
	switch v := ProblemLevel(b); v {
	case NoProblems, SomeProblems, SignificantProblems:
		*p = v
		return nil
	default:
		return fmt.Errorf("unknown problem level %q", string(b))
	}
}

// QualificationLevel records whether any professional or vocational
// qualification is held.
type QualificationLevel string

const (
	HasQualifications QualificationLevel = "HAS_QUALIFICATIONS"
	NoQualifications  QualificationLevel = "NO_QUALIFICATIONS"
)

func (q *QualificationLevel) UnmarshalText(b []byte) error {
	switch v := QualificationLevel(b); v {
	case HasQualifications, NoQualifications:
		*q = v
		return nil
	default:
		return fmt.Errorf("unknown qualification level %q", string(b))
	}
}

// RiskScoreRequest is the raw assessment. Every field is optional here;
// each predictor declares and checks its own required subset.
type RiskScoreRequest struct {
	AssessmentDate          *Date   `json:"assessmentDate"`
	Gender                  *Gender `json:"gender"`
	DateOfBirth             *Date   `json:"dateOfBirth"`
	DateOfCurrentConviction *Date   `json:"dateOfCurrentConviction"`
	DateAtStartOfFollowup   *Date   `json:"dateAtStartOfFollowup"`
	TotalNumberOfSanctions  *int    `json:"totalNumberOfSanctions"`
	AgeAtFirstSanction      *int    `json:"ageAtFirstSanction"`
	CurrentOffenceCode      *string `json:"currentOffenceCode"`

	TotalNumberOfViolentSanctions *int  `json:"totalNumberOfViolentSanctions"`
	CarryOrUseWeapon              *bool `json:"carryOrUseWeapon"`

	HasEverCommittedSexualOffence         *bool `json:"hasEverCommittedSexualOffence"`
	IsCurrentOffenceSexuallyMotivated     *bool `json:"isCurrentOffenceSexuallyMotivated"`
	TotalContactAdultSexualSanctions      *int  `json:"totalContactAdultSexualSanctions"`
	TotalContactChildSexualSanctions      *int  `json:"totalContactChildSexualSanctions"`
	TotalIndecentImageSanctions           *int  `json:"totalIndecentImageSanctions"`
	TotalNonContactSexualOffences         *int  `json:"totalNonContactSexualOffences"`
	IsCurrentOffenceAgainstVictimStranger *bool `json:"isCurrentOffenceAgainstVictimStranger"`

	SuitabilityOfAccommodation           *ProblemLevel `json:"suitabilityOfAccommodation"`
	IsUnemployed                         *bool         `json:"isUnemployed"`
	CurrentRelationshipWithPartner       *ProblemLevel `json:"currentRelationshipWithPartner"`
	CloseFamilyRelationships             *ProblemLevel `json:"closeFamilyRelationships"`
	EvidenceOfDomesticAbuse              *bool         `json:"evidenceOfDomesticAbuse"`
	DomesticAbuseAgainstPartner          *bool         `json:"domesticAbuseAgainstPartner"`
	DomesticAbuseAgainstFamily           *bool         `json:"domesticAbuseAgainstFamily"`
	CurrentAlcoholUseProblems            *ProblemLevel `json:"currentAlcoholUseProblems"`
	ExcessiveAlcoholUse                  *ProblemLevel `json:"excessiveAlcoholUse"`
	CurrentDrugMisuse                    *ProblemLevel `json:"currentDrugMisuse"`
	HasCurrentPsychiatricTreatment       *bool         `json:"hasCurrentPsychiatricTreatment"`
	ImpulsivityProblems                  *ProblemLevel `json:"impulsivityProblems"`
	TemperControl                        *ProblemLevel `json:"temperControl"`
	ProCriminalAttitudes                 *ProblemLevel `json:"proCriminalAttitudes"`
	HostileOrientation                   *ProblemLevel `json:"hostileOrientation"`
	ProblemSolvingSkills                 *ProblemLevel `json:"problemSolvingSkills"`
	AwarenessOfConsequences              *ProblemLevel `json:"awarenessOfConsequences"`
	EasilyInfluencedByCriminalAssociates *ProblemLevel `json:"easilyInfluencedByCriminalAssociates"`

	PeerGroupInfluences      *ProblemLevel `json:"peerGroupInfluences"`
	AttitudesPeerPressure    *ProblemLevel `json:"attitudesPeerPressure"`
	AttitudesStableBehaviour *ProblemLevel `json:"attitudesStableBehaviour"`
	DifficultiesCoping       *ProblemLevel `json:"difficultiesCoping"`
	AttitudesTowardsSelf     *ProblemLevel `json:"attitudesTowardsSelf"`

	WorkRelatedSkills                      *ProblemLevel       `json:"workRelatedSkills"`
	ProblemsWithReadingWritingNumeracy     *ProblemLevel       `json:"problemsWithReadingWritingNumeracy"`
	HasProblemsWithReading                 *bool               `json:"hasProblemsWithReading"`
	HasProblemsWithNumeracy                *bool               `json:"hasProblemsWithNumeracy"`
	LearningDifficulties                   *ProblemLevel       `json:"learningDifficulties"`
	ProfessionalOrVocationalQualifications *QualificationLevel `json:"professionalOrVocationalQualifications"`

	SexualPreoccupation             *ProblemLevel `json:"sexualPreoccupation"`
	SexualInterestOffenceRelated    *ProblemLevel `json:"sexualInterestOffenceRelated"`
	EmotionalCongruenceWithChildren *ProblemLevel `json:"emotionalCongruenceWithChildren"`
}

// IsMale reports whether gender is present and MALE.
func (r *RiskScoreRequest) IsMale() bool {
	return r.Gender != nil && *r.Gender == Male
}

// Ptr returns a pointer to v. Handy when building requests in code.
func Ptr[T any](v T) *T {
	return &v
}
