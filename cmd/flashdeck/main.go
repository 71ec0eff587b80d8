package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "flashdeck",
		Short: "Generate study flashcards from text or PDF pages",
	}

	root.AddCommand(generateCmd())
	root.AddCommand(exportCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
