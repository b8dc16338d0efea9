package cmd

import (
	"fmt"
	"strings"

	"github.com/f3rmion/pyime/internal/decoder"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <letters...>",
	Short: "Feed letters through the decoder and show the predicted phrase",
	Long: `Feed each argument through the input decoder as one burst of input,
then show the events, the resulting phrase and its prediction.

By default letters are tapped and each argument ends with a confirm. With
--slip every argument is traced as one slide gesture.

Example:
  pyime decode nihao
  pyime decode --slip zhong guo
  pyime decode --trace xyz`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().Bool("slip", false, "trace each argument as a slide gesture")
	decodeCmd.Flags().Bool("trace", false, "print every event and its outcome")
}

func runDecode(cmd *cobra.Command, args []string) error {
	slip, _ := cmd.Flags().GetBool("slip")
	trace, _ := cmd.Flags().GetBool("trace")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	e, st, err := openEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	s := e.NewSession(decoder.ModeSlip)
	for _, arg := range args {
		for _, ev := range decodeEvents(strings.ToLower(arg), slip) {
			res := s.Decode(ev)
			if trace {
				fmt.Printf("  %-12s %-6q -> %-18s pending=%q%s\n",
					ev.Kind, ev.Text, res.State, res.Pending.Spelling(), outcome(res))
			}
		}
	}

	phrase := s.Phrase()
	if len(phrase) == 0 {
		fmt.Println("(nothing decoded)")
		return nil
	}

	fmt.Printf("Phrase: %s\n\n", s.Text())
	for i, p := range phrase {
		kind := "pinyin"
		if p.Latin {
			kind = "latin"
		}
		fmt.Printf("  %d. %-8s %-6s %s\n", i+1, p.Spelling(), kind, p.Text())
	}
	return nil
}

// decodeEvents turns one argument into decoder events.
func decodeEvents(letters string, slip bool) []decoder.Event {
	var events []decoder.Event
	if slip {
		for i := 0; i < len(letters); i++ {
			kind := decoder.EventSlipMove
			if i == 0 {
				kind = decoder.EventSlipStart
			}
			events = append(events, decoder.Event{Kind: kind, Text: letters[i : i+1], Level: decoder.LevelLetter})
		}
		return append(events, decoder.Event{Kind: decoder.EventRelease})
	}

	for i := 0; i < len(letters); i++ {
		events = append(events, decoder.Event{Kind: decoder.EventTap, Text: letters[i : i+1]})
	}
	return append(events, decoder.Event{Kind: decoder.EventConfirm})
}

func outcome(res decoder.Result) string {
	var flags []string
	if res.Rejected {
		flags = append(flags, "rejected")
	}
	if res.Dropped {
		flags = append(flags, "dropped")
	}
	for _, c := range res.Completed {
		flags = append(flags, "completed "+c.Spelling())
	}
	if len(flags) == 0 {
		return ""
	}
	return " [" + strings.Join(flags, ", ") + "]"
}
