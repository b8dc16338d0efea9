package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/pyime/internal/config"
	"github.com/f3rmion/pyime/internal/store"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pyime configuration",
	Long: `Initialize pyime in your config directory.

This creates:
  - config.yaml   (keyboard mode, page sizes, file paths)
  - extras.yaml   (extra words, variants and emoji keywords)
  - pyime.db      (transition model and user corpus)

For radical filters, download dictionary.txt from Make Me a Hanzi into the
same directory.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	configDir, err := config.EnsureConfigDir(getConfigDir())
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	cfgPath := filepath.Join(configDir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("config already exists: %s\nUse --force to overwrite", cfgPath)
	}

	fmt.Printf("Initializing pyime in %s\n\n", configDir)

	cfg := config.Default(configDir)
	if err := config.Save(configDir, cfg); err != nil {
		return err
	}
	fmt.Printf("  Created %s\n", config.FileName)

	if err := os.WriteFile(cfg.Extras, []byte(extrasTemplate), 0644); err != nil {
		return fmt.Errorf("writing extras file: %w", err)
	}
	fmt.Printf("  Created %s\n", filepath.Base(cfg.Extras))

	st, err := store.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()
	fmt.Printf("  Created %s\n", filepath.Base(cfg.Database))

	fmt.Println()
	fmt.Println("Configuration initialized!")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Run 'pyime train --file phrases.txt' to seed the model")
	fmt.Println("  2. Run 'pyime predict ni hao' to test a prediction")
	fmt.Println("  3. Run 'pyime' to type in the sandbox")

	return nil
}

const extrasTemplate = `# Extra candidates merged into the built-in dictionary.
words:
  - value: 嗯
    spell: ǹg
    weight: 10

# Traditional/simplified counterparts, used with the variant commit option.
variants:
  号: 號
  国: 國
  们: 們

# Emoji shown after the best candidates when a keyword is in the phrase.
emojis:
  - value: "👍"
    keywords: [好, 赞]
  - value: "😄"
    keywords: [笑, 哈]
  - value: "❤️"
    keywords: [爱, 心]
`
