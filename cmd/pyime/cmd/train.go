package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/f3rmion/pyime/internal/anki"
	"github.com/f3rmion/pyime/internal/pinyin"
	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train [phrase...]",
	Short: "Train the transition model on hanzi phrases",
	Long: `Train the transition model on hanzi phrases.

Phrases come from the arguments, from a text file (--file) or from an
Anki deck (--anki). Every run of consecutive hanzi counts as one phrase;
punctuation, Latin text and markup split runs.

Example:
  pyime train 你好 中国人
  pyime train --file corpus.txt --count 2
  pyime train --anki HSK1.apkg --field Hanzi`,
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
	trainCmd.Flags().String("file", "", "text file of phrases")
	trainCmd.Flags().String("anki", "", "Anki .apkg deck")
	trainCmd.Flags().String("field", "", "Anki field to read (default: all fields)")
	trainCmd.Flags().Int("count", 1, "occurrences to add per phrase")
}

func runTrain(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	deck, _ := cmd.Flags().GetString("anki")
	field, _ := cmd.Flags().GetString("field")
	count, _ := cmd.Flags().GetInt("count")

	var phrases [][]string
	for _, arg := range args {
		phrases = append(phrases, pinyin.HanziRuns(arg)...)
	}

	if file != "" {
		fromFile, err := readPhrases(file)
		if err != nil {
			return err
		}
		phrases = append(phrases, fromFile...)
	}

	if deck != "" {
		pkg, err := anki.OpenPackage(deck)
		if err != nil {
			return fmt.Errorf("opening deck: %w", err)
		}
		defer pkg.Close()
		if field != "" && !containsFold(pkg.FieldNames(), field) {
			fmt.Fprintf(os.Stderr, "Warning: deck has no field %q (fields: %v)\n", field, pkg.FieldNames())
		}
		phrases = append(phrases, pkg.Phrases(field)...)
	}

	if len(phrases) == 0 {
		return fmt.Errorf("no phrases to train on; pass phrases, --file or --anki")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	e, st, err := openEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	before := e.Model().Len()
	for _, phrase := range phrases {
		if err := e.IngestTrainingPhrase(cmd.Context(), phrase, count); err != nil {
			return fmt.Errorf("training %v: %w", phrase, err)
		}
	}

	fmt.Printf("Trained %d phrases (x%d) into %s\n", len(phrases), count, st.Path())
	fmt.Printf("  Words in model: %d -> %d\n", before, e.Model().Len())
	return nil
}

// readPhrases returns the hanzi runs of every line of a text file.
func readPhrases(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening phrase file: %w", err)
	}
	defer f.Close()

	var phrases [][]string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		phrases = append(phrases, pinyin.HanziRuns(scanner.Text())...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading phrase file: %w", err)
	}
	return phrases, nil
}

// containsFold reports whether names holds name, ignoring case.
func containsFold(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
