package scoring

// ReadinessBand is the three-way classification of the readiness index.
type ReadinessBand string

const (
	BandStart ReadinessBand = "start"
	BandTrial ReadinessBand = "trial"
	BandScale ReadinessBand = "scale"
)

// AdoptionBand classifies how far AI usage is already established.
type AdoptionBand string

const (
	AdoptionNone     AdoptionBand = "none"
	AdoptionPartial  AdoptionBand = "partial"
	AdoptionEmbedded AdoptionBand = "embedded"
)

// Band thresholds are shared by both axes: [0,39], [40,69], [70,100].
const (
	trialThreshold = 40
	scaleThreshold = 70
)

// ClassifyReadiness maps a readiness score onto its band. Out-of-range
// values clamp to the nearest band so the classification stays total.
func ClassifyReadiness(score int) ReadinessBand {
	switch {
	case score >= scaleThreshold:
		return BandScale
	case score >= trialThreshold:
		return BandTrial
	default:
		return BandStart
	}
}

// ClassifyAdoption maps an adoption score onto its band, with the same
// thresholds and the same clamping policy as ClassifyReadiness.
func ClassifyAdoption(score int) AdoptionBand {
	switch {
	case score >= scaleThreshold:
		return AdoptionEmbedded
	case score >= trialThreshold:
		return AdoptionPartial
	default:
		return AdoptionNone
	}
}

// Emoji returns the phase marker shown next to the readiness index.
func (b ReadinessBand) Emoji() string {
	switch b {
	case BandScale:
		return "🚀"
	case BandTrial:
		return "🔧"
	default:
		return "🌱"
	}
}

// Label returns the Japanese phase name used on the results screen.
func (b ReadinessBand) Label() string {
	switch b {
	case BandScale:
		return "拡張期"
	case BandTrial:
		return "試行期"
	default:
		return "スタート"
	}
}

// Label returns the Japanese stage name for the adoption band.
func (b AdoptionBand) Label() string {
	switch b {
	case AdoptionEmbedded:
		return "定着"
	case AdoptionPartial:
		return "一部導入"
	default:
		return "未導入"
	}
}
