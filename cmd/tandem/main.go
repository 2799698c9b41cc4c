package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped by the build.
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "tandem",
		Short: "Language-exchange chat: reference server and terminal client",
	}
	root.PersistentFlags().String("config", "", "path to config file")

	root.AddCommand(newServeCmd(), newChatCmd(), &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Println("tandem", Version)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
