// Package main is the entry point for the markpdf CLI, which converts
// PDF documents to Markdown on the command line.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsawler/markpdf"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the markpdf CLI.
var rootCmd = &cobra.Command{
	Use:   "markpdf [input.pdf]",
	Short: "Convert PDF documents to Markdown",
	Long: `markpdf converts the visual layout of a PDF document into Markdown.
Heading levels are inferred from font sizes, paragraph breaks from vertical
whitespace, and bold emphasis from font faces. Each converted page is marked
with an HTML comment recording its page number.

By default the Markdown is written to standard output; use --output to write
to a file instead.`,
	Version: version,
	Args:    cobra.ExactArgs(1),
	RunE:    runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./markpdf.yaml or ~/.config/markpdf/config.yaml)")

	rootCmd.Flags().StringP("output", "o", "", "write Markdown to this file instead of stdout")
	rootCmd.Flags().IntSlice("pages", nil, "convert only these pages (1-indexed, e.g. --pages 1,3,5)")
	rootCmd.Flags().Bool("ocr", false, "OCR pages without extractable text (requires a build with -tags ocr)")
	rootCmd.Flags().String("ocr-language", "", "OCR language(s), e.g. eng or eng+fra")
	rootCmd.Flags().Float64("gap-factor", 0, "paragraph-break sensitivity as a fraction of the body font size")
	rootCmd.Flags().BoolP("verbose", "v", false, "log progress and configuration details")

	viper.BindPFlag("ocr", rootCmd.Flags().Lookup("ocr"))
	viper.BindPFlag("ocr-language", rootCmd.Flags().Lookup("ocr-language"))
	viper.BindPFlag("gap-factor", rootCmd.Flags().Lookup("gap-factor"))
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("markpdf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "markpdf"))
		}
	}

	viper.SetEnvPrefix("MARKPDF")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runConvert(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	input := args[0]

	conv := markpdf.Open(input)

	if pages, _ := cmd.Flags().GetIntSlice("pages"); len(pages) > 0 {
		conv = conv.Pages(pages...)
	}
	if viper.GetBool("ocr") {
		conv = conv.WithOCR()
	}
	if lang := viper.GetString("ocr-language"); lang != "" {
		conv = conv.OCRLanguage(lang)
	}
	if factor := viper.GetFloat64("gap-factor"); factor != 0 {
		conv = conv.GapFactor(factor)
	}

	logger.Info("converting", "input", input)

	md, warnings, err := conv.Markdown()
	if err != nil {
		logger.Error("conversion failed", "input", input, "error", err)
		return err
	}

	for _, w := range warnings {
		logger.Warn("conversion warning", "page", w.Page, "message", w.Message)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		fmt.Println(md)
		return nil
	}

	if err := os.WriteFile(output, []byte(md+"\n"), 0o644); err != nil {
		logger.Error("writing output failed", "output", output, "error", err)
		return fmt.Errorf("writing %q: %w", output, err)
	}
	logger.Info("wrote output", "output", output, "bytes", len(md)+1)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
