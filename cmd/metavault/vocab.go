package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/metavault/internal/platform"
	"github.com/aretw0/metavault/pkg/core"
	"github.com/aretw0/metavault/pkg/vocabulary"
)

var (
	vocabFormat string
	vocabJSON   bool
	vocabType   string
	vocabCommit bool
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Work with controlled vocabularies",
}

var vocabParseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a SKOS, JSON or YAML vocabulary and print its concepts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		concepts, err := parseVocabularyFile(args[0])
		if err != nil {
			return err
		}

		if vocabJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(concepts)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "LABEL (DE)\tLABEL (EN)\tURI\tBROADER")
		for _, c := range concepts {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Label.Get("de"), c.Label.Get("en"), c.URI, c.Broader)
		}
		return tw.Flush()
	},
}

var vocabImportCmd = &cobra.Command{
	Use:   "import <file> <schema> <field>",
	Short: "Replace the vocabulary of a field in the default version and publish it",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		parser, err := vocabularyParser()
		if err != nil {
			return err
		}
		vt := core.VocabularyType(vocabType)
		if !vt.Valid() {
			return fmt.Errorf("invalid vocabulary type %q", vocabType)
		}

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		if err := s.SetActiveSchema(ctx, args[1]); err != nil {
			return err
		}
		n, err := s.ImportVocabulary(args[1], args[2], parser, raw, vt)
		if err != nil {
			return err
		}
		if err := s.Err(); err != nil {
			return err
		}

		dst, ok := s.Documents().(core.WritableStore)
		if !ok {
			return fmt.Errorf("cannot publish: %w", core.ErrReadOnly)
		}
		message := ""
		if vocabCommit {
			cur := s.Cursor()
			message = platform.FormatChangeReason(platform.CommitTypeFeat, cur.Context+"@"+cur.Version,
				fmt.Sprintf("import %d concepts into %s", n, args[2]), "")
		}
		if _, err := s.Publish(ctx, dst, message); err != nil {
			return err
		}
		fmt.Printf("Imported %d concepts into %s/%s\n", n, args[1], args[2])
		return nil
	},
}

func vocabularyParser() (vocabulary.Parser, error) {
	format := vocabFormat
	if format == "" {
		format = cfg.Vocabulary.Format
	}
	return vocabulary.ForFormat(format)
}

func parseVocabularyFile(path string) ([]core.Concept, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parser, err := vocabularyParser()
	if err != nil {
		return nil, err
	}
	return parser.ParseConcepts(raw)
}

func init() {
	vocabCmd.PersistentFlags().StringVar(&vocabFormat, "format", "", "Input format: auto, skos, json or yaml")
	vocabParseCmd.Flags().BoolVar(&vocabJSON, "json", false, "Output as JSON")
	vocabImportCmd.Flags().StringVar(&vocabType, "type", string(core.VocabularySKOS), "Vocabulary type: closed, skos or open")
	vocabImportCmd.Flags().BoolVar(&vocabCommit, "commit", false, "Commit the change when the repository is versioned")

	vocabCmd.AddCommand(vocabParseCmd, vocabImportCmd)
	rootCmd.AddCommand(vocabCmd)
}
