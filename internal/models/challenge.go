package model

// ChallengeRecord décrit un challenge GeoGuessr tel qu'affiché dans le message
type ChallengeRecord struct {
	ID        string `json:"id"`
	MapName   string `json:"mapName"`
	TimeLimit int    `json:"timeLimit"` // secondes par round, 0 = illimité
	Rounds    int    `json:"rounds"`
	MoveLimit int    `json:"moveLimit"` // 0 = illimité
}

// ChallengeSettings regroupe les règles fixes appliquées à la création
type ChallengeSettings struct {
	MapID       string `json:"map"`
	Rounds      int    `json:"rounds"`
	TimeLimit   int    `json:"timeLimit"`
	MoveLimit   int    `json:"moveLimit"`
	AccessLevel int    `json:"accessLevel"` // 1 = privé, sur invitation
	AllowGuests bool   `json:"allowGuests"`
}
