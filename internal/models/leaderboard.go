package model

// LeaderboardEntry est une ligne du classement d'un challenge, déjà
// normalisée par le client GeoGuessr (score entier, temps en secondes)
type LeaderboardEntry struct {
	Nick       string `json:"nick"`
	TotalScore int    `json:"totalScore"`
	TotalTime  int    `json:"totalTime"` // secondes
}
