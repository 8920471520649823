package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/arjun-mehta/portfolio-agent/internal/engine"
)

var (
	askSession string
	askPersona bool
	askDebug   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question from the terminal",
	Long:  "Runs a single question through the pipeline without starting the server. Interaction logging is disabled.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			return eris.New("ask: question is empty")
		}

		env, err := initApp(cmd.Context(), "off")
		if err != nil {
			return err
		}
		defer env.Close()

		resp := env.Engine.Handle(cmd.Context(), engine.Question{
			Text:      question,
			SessionID: askSession,
			Metadata: engine.Metadata{
				Debug:       askDebug,
				PersonaMode: askPersona,
			},
		})

		fmt.Println(resp.Answer)
		fmt.Printf("\n[intent=%s strategy=%s confidence=%.2f]\n",
			resp.Intent, resp.Strategy, resp.ConfidenceScore)

		if askDebug && resp.Debug != nil {
			raw, err := json.MarshalIndent(resp.Debug, "", "  ")
			if err != nil {
				return eris.Wrap(err, "ask: marshal debug info")
			}
			fmt.Println(string(raw))
		}

		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askSession, "session", "", "session id for context continuity")
	askCmd.Flags().BoolVar(&askPersona, "persona", false, "answer in first-person persona mode")
	askCmd.Flags().BoolVar(&askDebug, "debug", false, "print the debug payload")
	rootCmd.AddCommand(askCmd)
}
