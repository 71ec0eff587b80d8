package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/flashdeck/flashdeck/internal/cards"
	"github.com/flashdeck/flashdeck/internal/export"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <deck.json> <out.pdf>",
		Short: "Render a generated deck as a printable PDF",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var deck []cards.Flashcard
			if err := json.Unmarshal(b, &deck); err != nil {
				return fmt.Errorf("cannot read deck %s: %w", args[0], err)
			}
			if len(deck) == 0 {
				return fmt.Errorf("deck %s contains no flashcards", args[0])
			}
			if err := export.WriteDeck(args[1], deck); err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{"cards": len(deck), "file": args[1]}).Info("deck exported")
			return nil
		},
	}
	return cmd
}
