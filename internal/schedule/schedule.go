package schedule

import (
	"time"

	model "github.com/MassBabyGeek/GeoDaily-bot/internal/models"
)

const (
	isoDate     = "2006-01-02"
	displayDate = "02/01/2006"
)

// Run décrit le run courant, calculé depuis l'état persisté et la date du jour
type Run struct {
	Number       int    // 1 pour le premier run du jour, puis 2, 3, ...
	Today        string // date du jour au format affichage (DD/MM/YYYY)
	TodayISO     string // date du jour au format persisté (YYYY-MM-DD)
	ResultsLabel string // date affichée à côté des résultats précédents
}

// Reconcile calcule le numéro de run du jour et la date à afficher pour les
// résultats du challenge précédent. Fonction pure, aucun effet de bord.
func Reconcile(today time.Time, st model.RunState) Run {
	run := Run{
		Today:    today.Format(displayDate),
		TodayISO: today.Format(isoDate),
	}

	if st.LastChallengeDate == run.TodayISO {
		// Run répété le même jour : les résultats viennent du run du matin
		run.Number = st.ChallengesToday + 1
		run.ResultsLabel = run.Today
		return run
	}

	run.Number = 1
	switch {
	case st.LastChallengeDate == "":
		run.ResultsLabel = run.Today
	default:
		run.ResultsLabel = DisplayDate(st.LastChallengeDate)
	}
	return run
}

// Next construit l'état à persister après un run réussi
func Next(run Run, challengeID string) model.RunState {
	return model.RunState{
		LastChallengeID:   challengeID,
		LastChallengeDate: run.TodayISO,
		ChallengesToday:   run.Number,
	}
}

// DisplayDate convertit YYYY-MM-DD en DD/MM/YYYY. Une date persistée
// illisible est rendue telle quelle plutôt que de faire échouer le run.
func DisplayDate(raw string) string {
	t, err := time.Parse(isoDate, raw)
	if err != nil {
		return raw
	}
	return t.Format(displayDate)
}

// InWindow indique si la publication est autorisée : jours ouvrés
// uniquement, de startHour inclus à endHour exclu (heures locales)
func InWindow(now time.Time, startHour, endHour int) bool {
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return now.Hour() >= startHour && now.Hour() < endHour
}
