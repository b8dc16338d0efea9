package cmd

import (
	"fmt"
	"strings"

	"github.com/f3rmion/pyime/internal/decoder"
	"github.com/f3rmion/pyime/internal/hmm"
	"github.com/f3rmion/pyime/internal/input"
	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict <syllable...>",
	Short: "Predict the most likely hanzi for a syllable sequence",
	Long: `Predict the most likely hanzi chain for a sequence of syllables.

Write a syllable as spelling=hanzi to fix its word; the rest of the chain
is predicted around it. Arguments that are not pinyin are kept as Latin
text and split the phrase.

Example:
  pyime predict ni hao
  pyime predict zhong=中 guo ren`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	e, st, err := openEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var window input.Phrase
	for _, arg := range args {
		spelling, fixed, _ := strings.Cut(strings.ToLower(arg), "=")
		if !e.Trie().IsSyllable(spelling) {
			window = append(window, input.NewLatin(arg))
			continue
		}

		p := input.NewPending(spelling)
		if fixed != "" {
			for _, w := range e.Dict().Candidates(spelling) {
				if w.Value == fixed {
					p.SetWord(w, true)
					break
				}
			}
			if p.Word == nil {
				return fmt.Errorf("%s is not a candidate of %s", fixed, spelling)
			}
		}
		window = append(window, p)
	}

	s := e.NewSession(decoder.ModeSlip)
	filled := s.PredictAndFill(window)

	fmt.Printf("Prediction: %s\n\n", filled.Text())
	model := e.Model()
	prev := ""
	for _, p := range filled {
		if p.Word == nil {
			fmt.Printf("  %-8s (no word)\n", p.Spelling())
			prev = ""
			continue
		}
		mark := ""
		if p.Confirmed {
			mark = " *"
		}
		from := prev
		if from == "" {
			from = "<BOS>"
		}
		fmt.Printf("  %-8s %s  score(%s→%s)=%.2f%s\n",
			p.Spelling(), p.Word.Value, from, p.Word.Value, scoreFrom(model, prev, p.Word.Value), mark)
		prev = p.Word.Value
	}
	return nil
}

// scoreFrom scores curr after prev, treating an empty prev as the phrase
// start.
func scoreFrom(m *hmm.Model, prev, curr string) float64 {
	if prev == "" {
		prev = hmm.BOS
	}
	return m.Score(prev, curr)
}
