package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/spellgame/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	stdout io.Writer
	stderr io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, stdout, stderr io.Writer) *Output {
	return &Output{format: format, stdout: stdout, stderr: stderr}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.stderr, string(data))
	} else {
		_, _ = fmt.Fprintf(o.stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.stdout, string(data))
	} else {
		_, _ = fmt.Fprintln(o.stdout, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Session:
		o.printSession(v)
	case response.SessionList:
		o.printSessionList(v)
	case response.PlayerStats:
		o.printPlayerStats(v)
	case response.Health:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.stdout, format, args...)
}

func (o *Output) printSession(s response.Session) {
	o.printf("Session: %s (%s)\n", s.Name, s.ID)
	o.printf("State: %s\n", s.State)
	o.printf("Round: %d/%d\n", s.CurrentRound, s.Settings.TotalRounds)
	o.printf("Difficulty: %s, %ds per round, up to %d players\n",
		s.Settings.Difficulty, s.Settings.RoundDuration, s.Settings.MaxPlayers)

	if s.Clue != nil {
		clue := s.Clue.Definition
		if s.Clue.PartOfSpeech != "" {
			clue = fmt.Sprintf("(%s) %s", s.Clue.PartOfSpeech, clue)
		}
		o.printf("Clue: %s\n", clue)
	}
	if s.CurrentWord != "" {
		o.printf("Word: %s\n", s.CurrentWord)
	}

	o.printf("Players (%d):\n", len(s.Players))
	for _, p := range s.Players {
		var tags []string
		if p.IsHost {
			tags = append(tags, "host")
		}
		if p.IsReady {
			tags = append(tags, "ready")
		}
		suffix := ""
		if len(tags) > 0 {
			suffix = " [" + strings.Join(tags, ", ") + "]"
		}
		o.printf("  - %s (%s): %d pts, rating %d%s\n", p.Username, p.ID, p.Score, p.Rating, suffix)
	}

	if s.Winner != "" {
		o.printf("Winner: %s\n", s.Winner)
	}
}

func (o *Output) printSessionList(l response.SessionList) {
	if len(l.Sessions) == 0 {
		o.printf("No sessions\n")
		return
	}
	for _, s := range l.Sessions {
		o.printf("%s  %-18s %d/%d players  %s\n",
			s.ID, s.State, len(s.Players), s.Settings.MaxPlayers, s.Name)
	}
}

func (o *Output) printPlayerStats(s response.PlayerStats) {
	o.printf("Player: %s (%s)\n", s.Username, s.PlayerID)
	o.printf("Games: %d played, %d won\n", s.GamesPlayed, s.GamesWon)
	o.printf("Total Score: %d\n", s.TotalScore)
	o.printf("Rating: %d\n", s.Rating)
}
