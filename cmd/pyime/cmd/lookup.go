package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/f3rmion/pyime/internal/decomp"
	"github.com/f3rmion/pyime/internal/engine"
	"github.com/f3rmion/pyime/internal/hmm"
	"github.com/f3rmion/pyime/internal/pinyin"
	"github.com/f3rmion/pyime/internal/syllable"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <hanzi>",
	Short: "Show how a character is typed and ranked",
	Long: `Look up a Chinese character and display:
  - Pinyin readings and the keys that type them (initial, continuation, final)
  - Meaning, structure and radical (with the Make Me a Hanzi dictionary)
  - Its weight in the transition model and the words seen around it

Example:
  pyime lookup 好
  pyime lookup 中国`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	e, st, err := openEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	table := decomp.New()
	if err := table.ReadFile(cfg.Dictionary); err != nil {
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Warning: Could not load dictionary: %v\n", err)
		}
		table = nil
	}

	parser := pinyin.NewParser()
	input := strings.Join(args, "")
	fmt.Printf("Looking up: %s\n\n", input)

	for _, char := range input {
		if !pinyin.IsHanzi(char) {
			continue
		}
		charStr := string(char)
		fmt.Printf("Character: %s\n", charStr)

		if table != nil {
			printDecomposition(table, table.Lookup(charStr))
		}

		readings := parser.ParseChar(charStr)
		if readings == nil {
			fmt.Printf("  Pinyin: (not found)\n")
		}
		for _, r := range readings {
			initial, cont, final := syllable.Segment(r.Toneless)
			id, ok := e.Trie().ID(r.Toneless)
			fmt.Printf("  Pinyin:  %-8s tone %d", r.Full, r.Tone)
			if ok {
				fmt.Printf("  syllable #%d  keys %s", id, strings.Join(nonEmpty(initial, cont, final), " + "))
			}
			fmt.Println()
		}

		printModel(e, charStr)
		fmt.Println()
	}

	return nil
}

func printDecomposition(table *decomp.Table, entry *decomp.Entry) {
	if entry == nil {
		return
	}
	if entry.Definition != "" {
		fmt.Printf("  Meaning:   %s\n", entry.Definition)
	}
	if entry.Structure() != decomp.StructureUnknown {
		fmt.Printf("  Structure: %s\n", decomp.Describe(entry.Decomposition))
	}
	if entry.Radical != "" {
		fmt.Printf("  Radical:   %s", entry.Radical)
		if n := len(table.Sharing(entry.Radical)); n > 1 {
			fmt.Printf("  (%d characters)", n)
		}
		fmt.Println()
	}
}

// printModel shows the model weight of word and its most frequent
// neighbours.
func printModel(e *engine.Engine, word string) {
	m := e.Model()
	weight := m.Weight(word)
	if weight == 0 {
		fmt.Println("  Model:   (not seen)")
		return
	}
	fmt.Printf("  Model:   weight %d, start score %.2f\n", weight, m.Score(hmm.BOS, word))

	var before, after []string
	for _, entry := range m.Entries() {
		switch {
		case entry.Curr == word && entry.Prev != hmm.TOTAL && entry.Prev != hmm.BOS:
			before = append(before, fmt.Sprintf("%s(%d)", entry.Prev, entry.Count))
		case entry.Prev == word && entry.Curr != hmm.EOS:
			after = append(after, fmt.Sprintf("%s(%d)", entry.Curr, entry.Count))
		}
	}
	if len(before) > 0 {
		fmt.Printf("  After:   %s\n", strings.Join(before, " "))
	}
	if len(after) > 0 {
		fmt.Printf("  Before:  %s\n", strings.Join(after, " "))
	}
}

func nonEmpty(parts ...string) []string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
