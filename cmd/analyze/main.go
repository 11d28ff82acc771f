// Command analyze prints quick, human-readable statistics about a session's
// estimation history. It reads a session state JSON export (the body of
// GET /api/sessions/{id}/state) and summarizes each archived story: range,
// average, spread, and whether the team reached consensus, plus aggregate
// counts across the whole session.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/MichaelHabermas/Planning-Poker/poker/session"
	"github.com/urfave/cli/v3"
)

// stateExport matches the /state response body. A bare snapshot (without
// the wrapper) is accepted too.
type stateExport struct {
	State *session.State `json:"state"`
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "summarize the estimation history of an exported session state",
		ArgsUsage: "<state.json>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "print the per-user vote roster for each story",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("usage: analyze <state.json>")
	}

	state, err := loadState(path)
	if err != nil {
		return err
	}

	fmt.Printf("Session %s\n", state.SessionID)
	fmt.Printf("Participants: %d, archived stories: %d\n\n", len(state.Users), len(state.History))

	if len(state.History) == 0 {
		fmt.Println("Nothing archived yet.")
		return nil
	}

	consensus := 0
	var totalSpread float64
	nonNumeric := 0

	for i, story := range state.History {
		spread := story.Results.Max - story.Results.Min
		totalSpread += spread

		storyNonNumeric := 0
		for _, vote := range story.Results.Votes {
			if _, ok := session.NumericValue(vote.CardValue); !ok {
				storyNonNumeric++
			}
		}
		nonNumeric += storyNonNumeric

		agreed := spread == 0 && len(story.Results.Votes) > storyNonNumeric
		if agreed {
			consensus++
		}

		fmt.Printf("%d. %q\n", i+1, story.StoryText)
		fmt.Printf("   min=%g max=%g avg=%.2f spread=%g votes=%d",
			story.Results.Min, story.Results.Max, story.Results.Average,
			spread, len(story.Results.Votes))
		if storyNonNumeric > 0 {
			fmt.Printf(" (%d non-numeric)", storyNonNumeric)
		}
		if agreed {
			fmt.Print(" [consensus]")
		}
		fmt.Println()

		if cmd.Bool("verbose") {
			for _, vote := range story.Results.Votes {
				fmt.Printf("     %-20s %s\n", vote.DisplayName, vote.CardValue)
			}
		}
	}

	fmt.Printf("\nConsensus on %d of %d stories, average spread %.2f\n",
		consensus, len(state.History), totalSpread/float64(len(state.History)))
	if nonNumeric > 0 {
		fmt.Printf("Non-numeric votes across the session: %d\n", nonNumeric)
	}

	return nil
}

// loadState reads a state export, accepting both the wrapped /state
// response and a bare snapshot.
func loadState(path string) (*session.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var export stateExport
	if err := json.Unmarshal(data, &export); err == nil && export.State != nil {
		return export.State, nil
	}

	var state session.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if state.SessionID == "" {
		return nil, fmt.Errorf("%s does not look like a session state export", path)
	}
	return &state, nil
}
