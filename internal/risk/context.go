package risk

import (
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/validation"
)

// Predictor names one scoring algorithm.
type Predictor string

const (
	PredictorOGRS3  Predictor = "OGRS3"
	PredictorOVP    Predictor = "OVP"
	PredictorOGP    Predictor = "OGP"
	PredictorOSPDC  Predictor = "OSP_DC"
	PredictorOSPIIC Predictor = "OSP_IIC"
	PredictorRSR    Predictor = "RSR"
	PredictorMST    Predictor = "MST"
	PredictorLDS    Predictor = "LDS"
	PredictorPNI    Predictor = "PNI"
)

// OGRS3Output is the general reoffending predictor.
type OGRS3Output struct {
	OneYear          *int               `json:"ogrs3OneYear"`
	TwoYear          *int               `json:"ogrs3TwoYear"`
	Band             *RiskBand          `json:"band"`
	ValidationErrors []validation.Error `json:"validationErrors"`
}

// OVPOutput is the violent reoffending predictor.
type OVPOutput struct {
	Score            *int               `json:"ovpScore"`
	OneYear          *int               `json:"ovpOneYear"`
	TwoYear          *int               `json:"ovpTwoYear"`
	Band             *RiskBand          `json:"band"`
	ValidationErrors []validation.Error `json:"validationErrors"`
}

// OGPOutput is the general (non-violent) needs predictor.
type OGPOutput struct {
	NeedsScore       *int               `json:"ogpNeedsScore"`
	OneYear          *int               `json:"ogpOneYear"`
	TwoYear          *int               `json:"ogpTwoYear"`
	Band             *RiskBand          `json:"band"`
	ValidationErrors []validation.Error `json:"validationErrors"`
}

// OSPDCOutput is the direct contact sexual reoffending predictor.
type OSPDCOutput struct {
	Points           *int               `json:"ospDcPoints"`
	Score            *int               `json:"ospDcScore"`
	Band             *RiskBand          `json:"band"`
	ValidationErrors []validation.Error `json:"validationErrors"`
}

// OSPIICOutput is the indecent image and indirect contact predictor.
type OSPIICOutput struct {
	Score            *int               `json:"ospIicScore"`
	Band             *RiskBand          `json:"band"`
	ValidationErrors []validation.Error `json:"validationErrors"`
}

// SNSVVariant says which serious non-sexual violence model fed RSR.
type SNSVVariant string

const (
	SNSVStatic  SNSVVariant = "STATIC"
	SNSVDynamic SNSVVariant = "DYNAMIC"
)

// RSROutput is the combined serious reoffending predictor.
type RSROutput struct {
	Score            *int               `json:"rsrScore"`
	SNSVScore        *int               `json:"snsvScore"`
	Variant          *SNSVVariant       `json:"snsvVariant"`
	Band             *RiskBand          `json:"band"`
	ValidationErrors []validation.Error `json:"validationErrors"`
}

// MSTOutput is the maturity screening.
type MSTOutput struct {
	Score            *int               `json:"mstScore"`
	MaturityFlag     *bool              `json:"maturityFlag"`
	Band             *RiskBand          `json:"band"`
	ValidationErrors []validation.Error `json:"validationErrors"`
}

// LDSOutput is the learning and literacy screening.
type LDSOutput struct {
	Score            *int               `json:"ldsScore"`
	Band             *RiskBand          `json:"band"`
	ValidationErrors []validation.Error `json:"validationErrors"`
}

// Pathway is the recommended programme intensity.
type Pathway string

const (
	HighIntensity     Pathway = "HIGH_INTENSITY"
	ModerateIntensity Pathway = "MODERATE_INTENSITY"
	LowIntensity      Pathway = "LOW_INTENSITY"
	Alternative       Pathway = "ALTERNATIVE"
)

// PNIDomains is the need level found in each criminogenic domain.
type PNIDomains struct {
	Thinking       RiskBand  `json:"thinking"`
	Relationships  RiskBand  `json:"relationships"`
	SelfManagement RiskBand  `json:"selfManagement"`
	Sexual         *RiskBand `json:"sexual"`
}

// PNIOutput is the programme needs identification.
type PNIOutput struct {
	Score            *int               `json:"pniScore"`
	Pathway          *Pathway           `json:"pniPathway"`
	Domains          *PNIDomains        `json:"domains"`
	Band             *RiskBand          `json:"band"`
	ValidationErrors []validation.Error `json:"validationErrors"`
}

// Context carries every predictor output computed so far for one request.
// It is a value: producers read upstream slots and return a copy with their
// own slot filled. Outputs are never modified once stored.
type Context struct {
	OGRS3  *OGRS3Output
	OVP    *OVPOutput
	OGP    *OGPOutput
	OSPDC  *OSPDCOutput
	OSPIIC *OSPIICOutput
	RSR    *RSROutput
	MST    *MSTOutput
	LDS    *LDSOutput
	PNI    *PNIOutput
}

func (c Context) WithOGRS3(o OGRS3Output) Context   { c.OGRS3 = &o; return c }
func (c Context) WithOVP(o OVPOutput) Context       { c.OVP = &o; return c }
func (c Context) WithOGP(o OGPOutput) Context       { c.OGP = &o; return c }
func (c Context) WithOSPDC(o OSPDCOutput) Context   { c.OSPDC = &o; return c }
func (c Context) WithOSPIIC(o OSPIICOutput) Context { c.OSPIIC = &o; return c }
func (c Context) WithRSR(o RSROutput) Context       { c.RSR = &o; return c }
func (c Context) WithMST(o MSTOutput) Context       { c.MST = &o; return c }
func (c Context) WithLDS(o LDSOutput) Context       { c.LDS = &o; return c }
func (c Context) WithPNI(o PNIOutput) Context       { c.PNI = &o; return c }

// RiskScoreResponse is the API payload. Every predictor is always present.
type RiskScoreResponse struct {
	OGRS3  OGRS3Output  `json:"ogrs3"`
	OVP    OVPOutput    `json:"ovp"`
	OGP    OGPOutput    `json:"ogp"`
	OSPDC  OSPDCOutput  `json:"ospDc"`
	OSPIIC OSPIICOutput `json:"ospIic"`
	RSR    RSROutput    `json:"rsr"`
	MST    MSTOutput    `json:"mst"`
	LDS    LDSOutput    `json:"lds"`
	PNI    PNIOutput    `json:"pni"`
}

func notRun(p Predictor) []validation.Error {
	return []validation.Error{{Type: validation.UnexpectedError, Message: string(p) + " was not calculated"}}
}

// ToResponse assembles the response. A slot that was never produced is
// reported as an unexpected error rather than omitted.
func ToResponse(c Context) RiskScoreResponse {
	var r RiskScoreResponse
	if c.OGRS3 != nil {
		r.OGRS3 = *c.OGRS3
	} else {
		r.OGRS3 = OGRS3Output{ValidationErrors: notRun(PredictorOGRS3)}
	}
	if c.OVP != nil {
		r.OVP = *c.OVP
	} else {
		r.OVP = OVPOutput{ValidationErrors: notRun(PredictorOVP)}
	}
	if c.OGP != nil {
		r.OGP = *c.OGP
	} else {
		r.OGP = OGPOutput{ValidationErrors: notRun(PredictorOGP)}
	}
	if c.OSPDC != nil {
		r.OSPDC = *c.OSPDC
	} else {
		r.OSPDC = OSPDCOutput{ValidationErrors: notRun(PredictorOSPDC)}
	}
	if c.OSPIIC != nil {
		r.OSPIIC = *c.OSPIIC
	} else {
		r.OSPIIC = OSPIICOutput{ValidationErrors: notRun(PredictorOSPIIC)}
	}
	if c.RSR != nil {
		r.RSR = *c.RSR
	} else {
		r.RSR = RSROutput{ValidationErrors: notRun(PredictorRSR)}
	}
	if c.MST != nil {
		r.MST = *c.MST
	} else {
		r.MST = MSTOutput{ValidationErrors: notRun(PredictorMST)}
	}
	if c.LDS != nil {
		r.LDS = *c.LDS
	} else {
		r.LDS = LDSOutput{ValidationErrors: notRun(PredictorLDS)}
	}
	if c.PNI != nil {
		r.PNI = *c.PNI
	} else {
		r.PNI = PNIOutput{ValidationErrors: notRun(PredictorPNI)}
	}
	return r
}
