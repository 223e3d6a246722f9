package model

// RunState est la seule entité persistée : le dernier challenge créé, sa
// date (YYYY-MM-DD) et le nombre de runs réussis pour cette date.
// Les champs absents restent des zero values, jamais une erreur.
type RunState struct {
	LastChallengeID   string `json:"last_challenge_id"`
	LastChallengeDate string `json:"last_challenge_date"`
	ChallengesToday   int    `json:"challenges_today_count"`
}

// IsZero indique qu'aucun état antérieur n'existe
func (s RunState) IsZero() bool {
	return s.LastChallengeID == "" && s.LastChallengeDate == "" && s.ChallengesToday == 0
}
