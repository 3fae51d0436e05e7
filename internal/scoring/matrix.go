package scoring

type matrixKey struct {
	readiness ReadinessBand
	adoption  AdoptionBand
}

// recommendationMatrix is static content, not computed. One entry per
// (readiness band, adoption band) pair.
var recommendationMatrix = map[matrixKey]string{
	{BandStart, AdoptionNone}:     "基盤整備を進めつつ、小規模な試行から取り組みましょう。",
	{BandStart, AdoptionPartial}:  "成功事例を共有し、本格導入へ向けた体制を整えましょう。",
	{BandStart, AdoptionEmbedded}: "ガバナンス（セキュリティやルール）整備で安心して活用できる環境を整えましょう。",
	{BandTrial, AdoptionNone}:     "日報・報告など取り組みやすい業務からAI導入を始めましょう。",
	{BandTrial, AdoptionPartial}:  "テンプレート整備と効果測定で導入範囲を広げましょう。",
	{BandTrial, AdoptionEmbedded}: "運用の標準化と定期研修で活用レベルを底上げしましょう。",
	{BandScale, AdoptionNone}:     "高効果が期待できる部門に一気に導入を進めましょう。",
	{BandScale, AdoptionPartial}:  "全社最適化とROI管理で成果の最大化を図りましょう。",
	{BandScale, AdoptionEmbedded}: "自動化や高度応用に踏み出し、新たな価値創出につなげましょう。",
}

const defaultRecommendation = "現在の状況に合わせた取り組みを検討しましょう。"

// Recommend returns the matrix suggestion for a band pair. Both band
// classifications are total, so the default is a safety net only.
func Recommend(readiness ReadinessBand, adoption AdoptionBand) string {
	if hint, ok := recommendationMatrix[matrixKey{readiness, adoption}]; ok {
		return hint
	}
	return defaultRecommendation
}

// RecommendScores classifies both scores and looks up the suggestion.
func RecommendScores(readiness, adoption int) string {
	return Recommend(ClassifyReadiness(readiness), ClassifyAdoption(adoption))
}
