package cmd

import (
	"fmt"
	"strings"

	"github.com/f3rmion/pyime/internal/input"
	"github.com/f3rmion/pyime/internal/rank"
	"github.com/spf13/cobra"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates <spelling>",
	Short: "List ranked candidates for a syllable",
	Long: `List one page of ranked candidates for a complete or partial syllable.

The leading candidates are ranked by the transition model given the word
before (--after); the rest follow by frequency. Filters narrow the list by
tone-marked spelling and radical.

Example:
  pyime candidates zhong
  pyime candidates zh --page 1
  pyime candidates hao --after 你
  pyime candidates shi --spell shì --radical 讠`,
	Args: cobra.ExactArgs(1),
	RunE: runCandidates,
}

func init() {
	rootCmd.AddCommand(candidatesCmd)
	candidatesCmd.Flags().String("after", "", "word typed before the syllable")
	candidatesCmd.Flags().String("spell", "", "tone-marked spelling filter")
	candidatesCmd.Flags().StringSlice("radical", nil, "radical filter (repeatable)")
	candidatesCmd.Flags().Int("page", 0, "page index")
}

func runCandidates(cmd *cobra.Command, args []string) error {
	after, _ := cmd.Flags().GetString("after")
	spell, _ := cmd.Flags().GetString("spell")
	radicals, _ := cmd.Flags().GetStringSlice("radical")
	page, _ := cmd.Flags().GetInt("page")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	e, st, err := openEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	spelling := strings.ToLower(args[0])
	if !e.Trie().IsValidPartial(spelling) {
		return fmt.Errorf("%q is not a pinyin spelling", args[0])
	}

	ctx := rank.Context{Prev: after}
	if after != "" {
		ctx.Keywords = []string{after}
	}

	var f input.Filter
	if spell != "" {
		f = f.ToggleSpell(spell)
	}
	for _, r := range radicals {
		f = f.ToggleRadical(r)
	}

	p := input.NewPending(spelling)
	r := e.Ranker()
	result := r.List(p, ctx, f, page)
	if len(result.Items) == 0 {
		fmt.Println("(no candidates)")
		return nil
	}

	fmt.Printf("Candidates for %s (page %d/%d)\n\n", spelling, result.Index+1, result.Total)
	for i, w := range result.Items {
		line := fmt.Sprintf("  %2d. %s", i+1, w.Value)
		if w.Spell != "" {
			line += "  " + w.Spell
		}
		if w.Radical != "" {
			line += "  [" + w.Radical + "]"
		}
		if w.Emoji {
			line += "  (emoji)"
		}
		fmt.Println(line)
	}

	if spells := r.Spells(p); len(spells) > 1 {
		fmt.Printf("\nSpells:   %s\n", strings.Join(spells, " "))
	}
	if rads := r.Radicals(p, f); len(rads) > 0 {
		fmt.Printf("Radicals: %s\n", strings.Join(rads, " "))
	}
	return nil
}
