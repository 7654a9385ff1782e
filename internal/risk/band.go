package risk

// RiskBand is the ordered classification derived from a predictor score.
type RiskBand string

const (
	Low           RiskBand = "LOW"
	Medium        RiskBand = "MEDIUM"
	High          RiskBand = "HIGH"
	VeryHigh      RiskBand = "VERY_HIGH"
	NotApplicable RiskBand = "NOT_APPLICABLE"
)

// Rank orders bands for comparison. NOT_APPLICABLE ranks below LOW.
func (b RiskBand) Rank() int {
	switch b {
	case Low:
		return 1
	case Medium:
		return 2
	case High:
		return 3
	case VeryHigh:
		return 4
	default:
		return 0
	}
}

type threshold struct {
	min  int
	band RiskBand
}

// Thresholds maps a score onto a band. Entries are ascending by min; a score
// takes the band of the last entry whose min it reaches, and scores under
// the first min take the first band.
type Thresholds []threshold

// Band classifies score.
func (t Thresholds) Band(score int) RiskBand {
	band := t[0].band
	for _, th := range t {
		if score < th.min {
			break
		}
		band = th.band
	}
	return band
}

var (
	ogrs3Bands  = Thresholds{{0, Low}, {50, Medium}, {75, High}, {90, VeryHigh}}
	ovpBands    = Thresholds{{0, Low}, {30, Medium}, {60, High}, {80, VeryHigh}}
	ogpBands    = Thresholds{{0, Low}, {34, Medium}, {67, High}, {85, VeryHigh}}
	ospDcBands  = Thresholds{{0, Low}, {3, Medium}, {9, High}, {22, VeryHigh}}
	ospIicBands = Thresholds{{0, Low}, {3, Medium}, {11, High}}
	rsrBands    = Thresholds{{0, Low}, {3, Medium}, {7, High}}
	mstBands    = Thresholds{{0, Low}, {7, Medium}, {13, High}}
	ldsBands    = Thresholds{{0, Low}, {3, Medium}, {5, High}}
)

func bandPtr(b RiskBand) *RiskBand { return &b }

// highest returns the higher ranked of the given bands, ignoring nil and
// NOT_APPLICABLE.
func highest(bands ...*RiskBand) (RiskBand, bool) {
	var best RiskBand
	found := false
	for _, b := range bands {
		if b == nil || *b == NotApplicable {
			continue
		}
		if !found || b.Rank() > best.Rank() {
			best = *b
			found = true
		}
	}
	return best, found
}
