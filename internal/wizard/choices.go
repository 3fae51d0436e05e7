package wizard

// Regions is the allowed region choice list. A value outside it falls
// back to DefaultRegion rather than blocking the wizard.
var Regions = []string{
	"北海道・東北",
	"関東",
	"中部",
	"関西",
	"中国・四国",
	"九州・沖縄",
}

const DefaultRegion = "関東"

// IndustryOther is the sentinel choice that requires free-text input.
const IndustryOther = "その他"

// Industries is the fixed industry choice list.
var Industries = []string{
	"製造業",
	"小売・卸売",
	"建設・不動産",
	"医療・福祉",
	"飲食・サービス",
	"IT・通信",
	"士業・コンサルティング",
	IndustryOther,
}

func validRegion(region string) bool {
	for _, r := range Regions {
		if r == region {
			return true
		}
	}
	return false
}

func validIndustry(industry string) bool {
	for _, i := range Industries {
		if i == industry {
			return true
		}
	}
	return false
}
