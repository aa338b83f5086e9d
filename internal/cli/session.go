package cli

import (
	"net/url"
	"strings"

	"github.com/mcoot/spellgame/internal/api/request"
	"github.com/mcoot/spellgame/internal/api/response"
	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"s"},
		Short:   "Session and round commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionActionCmd("join", "Join a session", "join"))
	cmd.AddCommand(newSessionLeaveCmd())
	cmd.AddCommand(newSessionReadyCmd())
	cmd.AddCommand(newSessionActionCmd("start", "Start the game (host only)", "start"))
	cmd.AddCommand(newSessionActionCmd("round", "Begin the next round and fetch its word", "rounds"))
	cmd.AddCommand(newSessionAnswerCmd())
	cmd.AddCommand(newSessionActionCmd("advance", "Advance past a finished round", "advance"))
	cmd.AddCommand(newSessionEndCmd())

	return cmd
}

func sessionPath(id string, parts ...string) string {
	p := "/api/v1/sessions/" + url.PathEscape(id)
	if len(parts) > 0 {
		p += "/" + strings.Join(parts, "/")
	}
	return p
}

func newSessionCreateCmd() *cobra.Command {
	var name string
	var settings settingsFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new session hosted by you",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.CreateSessionRequest{
				Name:     name,
				Settings: settings.request(cmd),
			}
			var result response.Session

			if err := client.Post(cmd.Context(), "/api/v1/sessions", req, &result); err != nil {
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Session name")
	settings.register(cmd)

	return cmd
}

// settingsFlags maps create flags onto a settings request. Only flags the
// user actually set are sent.
type settingsFlags struct {
	maxPlayers    int
	roundDuration int
	difficulty    string
	totalRounds   int
	basePoints    int
	timeBonus     int
	streakBonus   int
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxPlayers, "max-players", 0, "Maximum roster size")
	cmd.Flags().IntVar(&f.roundDuration, "round-duration", 0, "Seconds per round")
	cmd.Flags().StringVar(&f.difficulty, "difficulty", "", "Word difficulty: EASY, MEDIUM, HARD, EXPERT")
	cmd.Flags().IntVar(&f.totalRounds, "rounds", 0, "Number of rounds")
	cmd.Flags().IntVar(&f.basePoints, "base-points", 0, "Points for a correct answer")
	cmd.Flags().IntVar(&f.timeBonus, "time-bonus", 0, "Maximum time bonus")
	cmd.Flags().IntVar(&f.streakBonus, "streak-bonus", 0, "Bonus per streak step")
}

func (f *settingsFlags) request(cmd *cobra.Command) *request.SettingsRequest {
	var req request.SettingsRequest
	set := false

	intFlag := func(name string, v int) *int {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		set = true
		return &v
	}
	req.MaxPlayers = intFlag("max-players", f.maxPlayers)
	req.RoundDuration = intFlag("round-duration", f.roundDuration)
	req.TotalRounds = intFlag("rounds", f.totalRounds)
	req.BasePoints = intFlag("base-points", f.basePoints)
	req.TimeBonus = intFlag("time-bonus", f.timeBonus)
	req.StreakBonus = intFlag("streak-bonus", f.streakBonus)
	if cmd.Flags().Changed("difficulty") {
		d := strings.ToUpper(f.difficulty)
		req.Difficulty = &d
		set = true
	}

	if !set {
		return nil
	}
	return &req
}

func newSessionListCmd() *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions in a state",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/sessions"
			if state != "" {
				path += "?state=" + url.QueryEscape(strings.ToUpper(state))
			}
			var result response.SessionList

			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "Session state to list (default LOBBY)")

	return cmd
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <session-id>",
		Short: "Show a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session

			if err := client.Get(cmd.Context(), sessionPath(args[0]), &result); err != nil {
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

// newSessionActionCmd builds a command that POSTs to a body-less session
// action and prints the resulting session.
func newSessionActionCmd(use, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <session-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session

			if err := client.Post(cmd.Context(), sessionPath(args[0], action), nil, &result); err != nil {
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newSessionLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <session-id>",
		Short: "Leave a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *response.Session

			if err := client.Post(cmd.Context(), sessionPath(args[0], "leave"), nil, &result); err != nil {
				return err
			}

			// The server answers with no content once the last player is gone
			if result == nil {
				out.PrintMessage("Left session " + args[0] + "; it has been closed")
				return nil
			}
			out.Print(*result)
			return nil
		},
	}
}

func newSessionReadyCmd() *cobra.Command {
	var notReady bool

	cmd := &cobra.Command{
		Use:   "ready <session-id>",
		Short: "Mark yourself ready",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.ReadyRequest{Ready: !notReady}
			var result response.Session

			if err := client.Post(cmd.Context(), sessionPath(args[0], "ready"), req, &result); err != nil {
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&notReady, "not", false, "Mark yourself not ready instead")

	return cmd
}

func newSessionAnswerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "answer <session-id> <spelling>",
		Short: "Submit a spelling for the current round",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.AnswerRequest{Answer: args[1]}
			var result response.Session

			if err := client.Post(cmd.Context(), sessionPath(args[0], "answers"), req, &result); err != nil {
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newSessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <session-id>",
		Short: "End a session early",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session

			if err := client.Delete(cmd.Context(), sessionPath(args[0]), &result); err != nil {
				return err
			}

			out.Print(result)
			return nil
		},
	}
}
