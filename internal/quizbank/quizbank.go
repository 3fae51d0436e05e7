// Package quizbank loads the ten-question slider bank the wizard walks
// through. The bank is read once per process and shared read-only.
package quizbank

// Question is one slider prompt. Immutable once loaded.
type Question struct {
	ID       string `json:"id"`
	Order    int    `json:"order"`
	Prompt   string `json:"prompt"`
	Category string `json:"category"`
}

// ExpectedCount is how many questions a well-formed bank holds. A mismatch
// is a warning, not an error.
const ExpectedCount = 10

// Default is the built-in bank used when no quiz file is configured, so
// the server runs out of the box.
func Default() []Question {
	return []Question{
		{ID: "q1", Order: 1, Prompt: "経営層はAI活用の方針を明確に示していますか", Category: "経営・方針"},
		{ID: "q2", Order: 2, Prompt: "業務データは整理され、すぐに取り出せる状態ですか", Category: "データ活用"},
		{ID: "q3", Order: 3, Prompt: "日常業務の手順は文書化されていますか", Category: "業務プロセス"},
		{ID: "q4", Order: 4, Prompt: "現在、業務でAIツールをどの程度使っていますか", Category: "AI活用"},
		{ID: "q5", Order: 5, Prompt: "社内にAI活用を推進する担当者がいますか", Category: "人材・スキル"},
		{ID: "q6", Order: 6, Prompt: "従業員はデジタルツールの操作に慣れていますか", Category: "人材・スキル"},
		{ID: "q7", Order: 7, Prompt: "データの取り扱いルールは整備されていますか", Category: "経営・方針"},
		{ID: "q8", Order: 8, Prompt: "定型業務の自動化に取り組んだ経験がありますか", Category: "業務プロセス"},
		{ID: "q9", Order: 9, Prompt: "業務の成果を数値で把握していますか", Category: "データ活用志向"},
		{ID: "q10", Order: 10, Prompt: "新しいツール導入への社内の抵抗は少ないですか", Category: "経営・方針"},
	}
}
