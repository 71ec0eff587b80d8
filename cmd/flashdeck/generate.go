package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/flashdeck/flashdeck/internal/ai"
	"github.com/flashdeck/flashdeck/internal/cards"
	"github.com/flashdeck/flashdeck/internal/config"
	"github.com/flashdeck/flashdeck/internal/pipeline"
	"github.com/flashdeck/flashdeck/internal/raster"
)

func generateCmd() *cobra.Command {
	var pageSelection string
	var out string
	var model string
	var cfgPath string
	var fromText bool

	cmd := &cobra.Command{
		Use:   "generate <input>",
		Short: "Generate flashcards from a text file or selected PDF pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Ctrl-C cancels an in-flight run at the next page boundary.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if model != "" {
				cfg.Model = model
			}

			var gen ai.Generator = ai.Noop{}
			if cfg.APIKey != "" {
				g, err := ai.NewGemini(ctx, cfg.APIKey, cfg.Model)
				if err != nil {
					return err
				}
				gen = g
			} else {
				logrus.Warn("GEMINI_API_KEY not set, an empty deck will be generated")
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var raw string
			if strings.EqualFold(filepath.Ext(args[0]), ".pdf") {
				raw, err = generateFromPDF(ctx, cmd, gen, data, pageSelection, fromText)
			} else {
				raw, err = gen.FromText(ctx, string(data))
			}
			if errors.Is(err, pipeline.ErrCancelled) {
				fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
				return nil
			}
			if err != nil {
				return err
			}

			deck, err := cards.Decode(raw)
			if errors.Is(err, cards.ErrMalformedResponse) || errors.Is(err, cards.ErrResponseShape) {
				return fmt.Errorf("could not understand the model response: %w", err)
			}
			if err != nil {
				return err
			}
			if len(deck) == 0 {
				logrus.Warn("no flashcards generated")
			}

			b, err := json.MarshalIndent(deck, "", "  ")
			if err != nil {
				return err
			}
			if out != "" {
				if err := os.WriteFile(out, b, 0o644); err != nil {
					return err
				}
				logrus.WithFields(logrus.Fields{"cards": len(deck), "file": out}).Info("deck written")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().StringVarP(&pageSelection, "pages", "p", "", "pages to process, e.g. \"1, 3, 5-8\" (default: all pages)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the deck as JSON to this file instead of stdout")
	cmd.Flags().StringVar(&model, "model", "", "override the generation model")
	cmd.Flags().StringVar(&cfgPath, "config", "", "optional YAML config file")
	cmd.Flags().BoolVar(&fromText, "from-text", false, "send extracted page text instead of page images")
	return cmd
}

func generateFromPDF(ctx context.Context, cmd *cobra.Command, gen ai.Generator, data []byte, selection string, fromText bool) (string, error) {
	runner := pipeline.New(func(b []byte) (pipeline.Document, error) {
		return raster.Open(b)
	})
	onProgress := func(pct int) {
		fmt.Fprintf(cmd.OutOrStdout(), "\rprocessing pages... %3d%%", pct)
	}

	if fromText {
		text, err := runner.RunText(ctx, data, selection, onProgress)
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", err
		}
		return gen.FromText(ctx, text)
	}

	batch, err := runner.Run(ctx, data, selection, onProgress)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", err
	}
	return gen.FromImages(ctx, batch)
}
