package message

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/slack-go/slack"

	model "github.com/MassBabyGeek/GeoDaily-bot/internal/models"
)

// Largeurs fixes du tableau de résultats (bloc monospace)
const (
	widthRank   = 4
	widthName   = 20
	widthResult = 8
	widthTime   = 6

	// Lignes affichées au maximum
	topDaily       = 10
	topResultsOnly = 15
)

// DailyInput rassemble tout ce qu'affiche le message quotidien. Le
// formatage est une fonction pure de cette structure.
type DailyInput struct {
	ChallengeURL string
	MapName      string
	TimeString   string // ex: "1m 30s per round"
	Rounds       int
	MoveLimit    int // 0 = illimité
	TodayDate    string
	RunNumber    int
	ResultsDate  string
	Leaderboard  []model.LeaderboardEntry
}

// Daily construit le message du challenge quotidien : version texte et
// version Block Kit. La section résultats est entièrement omise quand le
// classement est vide.
func Daily(in DailyInput) (string, []slack.Block) {
	title := fmt.Sprintf("GeoGuessr - Softhouse Daily Challenge %s #%d", in.TodayDate, in.RunNumber)
	moves := MoveLimitString(in.MoveLimit)

	var text strings.Builder
	fmt.Fprintf(&text, "%s\n\nMap: %s\nTime: %s\nRounds: %d\nMoves: %s\n\nPlay here: %s",
		title, in.MapName, in.TimeString, in.Rounds, moves, in.ChallengeURL)

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, false, false)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, "*Map:*\n"+in.MapName, false, false),
			slack.NewTextBlockObject(slack.MarkdownType, "*Time Limit:*\n"+in.TimeString, false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Rounds:*\n%d", in.Rounds), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, "*Move Limit:*\n"+moves, false, false),
		}, nil),
	}

	if len(in.Leaderboard) > 0 {
		table := renderTable(in.Leaderboard, topDaily)
		resultsTitle := "*📊 Previous challenge results*"
		if in.ResultsDate != "" {
			resultsTitle += fmt.Sprintf(" (%s)", in.ResultsDate)
		}

		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, resultsTitle+"\n```\n"+table+"\n```", false, false),
			nil, nil))

		resultsDate := in.ResultsDate
		if resultsDate == "" {
			resultsDate = "previous"
		}
		fmt.Fprintf(&text, "\n\n📊 Previous challenge results (%s):\n%s", resultsDate, table)
	}

	playButton := slack.NewButtonBlockElement("play-challenge", in.ChallengeURL,
		slack.NewTextBlockObject(slack.PlainTextType, "Play Challenge", false, false))
	playButton.URL = in.ChallengeURL
	playButton.Style = slack.StylePrimary
	blocks = append(blocks, slack.NewActionBlock("", playButton))

	return text.String(), blocks
}

// ResultsOnly construit un message ne contenant que le tableau de
// résultats, sans lien de jeu. Classement vide = message vide.
func ResultsOnly(entries []model.LeaderboardEntry, dateLabel, challengeID string) (string, []slack.Block) {
	if len(entries) == 0 {
		return "", nil
	}

	title := "*📊 Challenge Results*"
	if dateLabel != "" {
		title += fmt.Sprintf(" (%s)", dateLabel)
	}
	if challengeID != "" {
		title += fmt.Sprintf(" - Challenge: `%s`", challengeID)
	}

	text := title + "\n```\n" + renderTable(entries, topResultsOnly) + "\n```"
	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil),
	}
	return text, blocks
}

// TimeString rend la limite de temps par round lisible
func TimeString(seconds int) string {
	if seconds <= 0 {
		return "No time limit"
	}
	return fmt.Sprintf("%dm %ds per round", seconds/60, seconds%60)
}

// MoveLimitString rend la limite de déplacements, 0 = illimité
func MoveLimitString(moveLimit int) string {
	if moveLimit <= 0 {
		return "Unlimited"
	}
	return strconv.Itoa(moveLimit)
}

// renderTable aligne le classement en colonnes fixes :
// Rank | Name | Result | Time(s)
func renderTable(entries []model.LeaderboardEntry, limit int) string {
	header := center("Rank", widthRank) + " | " +
		pad("Name", widthName) + " | " +
		rightAlign("Result", widthResult) + " | " +
		rightAlign("Time(s)", widthTime)
	separator := strings.Repeat("-", widthRank) + "-+-" +
		strings.Repeat("-", widthName) + "-+-" +
		strings.Repeat("-", widthResult) + "-+-" +
		strings.Repeat("-", widthTime)

	lines := []string{header, separator}
	for i, entry := range entries {
		if i >= limit {
			break
		}
		nick := entry.Nick
		if nick == "" {
			nick = "Unknown"
		}
		nick = truncate(nick, widthName)
		lines = append(lines,
			rightAlign(strconv.Itoa(i+1), widthRank)+" | "+
				pad(nick, widthName)+" | "+
				rightAlign(thousands(entry.TotalScore), widthResult)+" | "+
				rightAlign(strconv.Itoa(entry.TotalTime), widthTime))
	}
	return strings.Join(lines, "\n")
}

// thousands formate un entier avec séparateurs de milliers (4,500)
func thousands(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + thousands(-n)
	}
	if len(s) <= 3 {
		return s
	}
	var out strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		out.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if out.Len() > 0 {
			out.WriteByte(',')
		}
		out.WriteString(s[i : i+3])
	}
	return out.String()
}

// Les largeurs se comptent en runes, pas en octets : un pseudo accentué ne
// doit ni casser l'alignement ni être tronqué au milieu d'un caractère

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func rightAlign(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}
