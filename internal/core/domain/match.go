package domain

// MatchScore is the compatibility of a candidate with an implicit subject.
type MatchScore struct {
	CandidateUserID     string   `json:"userId"`
	Score               int      `json:"score"`
	MatchReasons        []string `json:"matchReasons"`
	SharedGoals         []string `json:"sharedGoals"`
	ComplementarySkills []string `json:"complementarySkills"`
}
