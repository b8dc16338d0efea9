package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Show the user corpus",
	Long: `Show what has been committed: the most used phrases, Latin words and
emoji. Latin words also feed completion.

Example:
  pyime corpus --limit 20
  pyime corpus --latin hel`,
	RunE: runCorpus,
}

func init() {
	rootCmd.AddCommand(corpusCmd)
	corpusCmd.Flags().Int("limit", 10, "entries per section")
	corpusCmd.Flags().String("latin", "", "complete a Latin prefix instead")
}

func runCorpus(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	prefix, _ := cmd.Flags().GetString("latin")
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	e, st, err := openEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if prefix != "" {
		words, err := e.NewSession(cfg.KeyboardMode()).CompleteLatin(ctx, prefix, limit)
		if err != nil {
			return err
		}
		if len(words) == 0 {
			fmt.Printf("No completions for %q\n", prefix)
			return nil
		}
		fmt.Println(strings.Join(words, "\n"))
		return nil
	}

	phrases, counts, err := st.Phrases(ctx, limit)
	if err != nil {
		return err
	}
	fmt.Println("Phrases:")
	for i, p := range phrases {
		fmt.Printf("  %4d  %s\n", counts[i], strings.Join(p, ""))
	}

	latin, err := st.LatinWords(ctx, "", limit)
	if err != nil {
		return err
	}
	fmt.Println("\nLatin:")
	for _, u := range latin {
		fmt.Printf("  %4d  %s\n", u.Count, u.Value)
	}

	emojis, err := st.Emojis(ctx, limit)
	if err != nil {
		return err
	}
	fmt.Println("\nEmoji:")
	for _, u := range emojis {
		fmt.Printf("  %4d  %s\n", u.Count, u.Value)
	}

	fmt.Printf("\nModel: %d words, %d transitions\n", e.Model().Len(), len(e.Model().Entries()))
	return nil
}
