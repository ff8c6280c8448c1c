// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vault-engine/internal/index"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Query the vault link graph (stats, orphans, related, tag, topic, export)",
	Long: `Graph runs read-only queries over the vault index: aggregate
statistics, notes with no links in either direction, the notes related
to a given note (outbound links plus backlinks), notes by tag or topic,
and a visualization-ready export of the whole graph.`,
}

// --- stats subcommand ---

var graphStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate statistics for the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := loadIndex(cmd)
		stats := store.Stats()

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return printJSON(stats)
		}

		fmt.Printf("notes:         %d\n", stats.TotalFiles)
		fmt.Printf("links:         %d\n", stats.TotalLinks)
		fmt.Printf("unique tags:   %d\n", stats.UniqueTags)
		fmt.Printf("unique topics: %d\n", stats.UniqueTopics)
		return nil
	},
}

// --- orphans subcommand ---

var graphOrphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List notes with no inbound or outbound links",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := loadIndex(cmd)
		orphans := store.Orphaned()

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return printJSON(orphans)
		}

		if len(orphans) == 0 {
			fmt.Println("No orphaned notes.")
			return nil
		}
		for _, id := range orphans {
			fmt.Println(id)
		}
		fmt.Printf("\n%d orphaned note(s)\n", len(orphans))
		return nil
	},
}

// --- related subcommand ---

var graphRelatedCmd = &cobra.Command{
	Use:   "related <note-id>",
	Short: "List notes connected to a note in either direction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := loadIndex(cmd)
		related, err := store.RelatedTo(args[0])
		if err != nil {
			return err
		}

		return printIDList(cmd, related, fmt.Sprintf("No notes related to %s.", args[0]))
	},
}

// --- tag / topic subcommands ---

var graphTagCmd = &cobra.Command{
	Use:   "tag <tag>",
	Short: "List notes carrying a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := loadIndex(cmd).ByTag(args[0])
		return printIDList(cmd, ids, fmt.Sprintf("No notes tagged %s.", args[0]))
	},
}

var graphTopicCmd = &cobra.Command{
	Use:   "topic <topic>",
	Short: "List notes covering a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := loadIndex(cmd).ByTopic(args[0])
		return printIDList(cmd, ids, fmt.Sprintf("No notes covering %s.", args[0]))
	},
}

// --- export subcommand ---

var graphExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the link graph as JSON for visualization",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(loadIndex(cmd).Export())
	},
}

// --- shared helpers ---

func loadIndex(cmd *cobra.Command) *index.Store {
	indexPath, _ := cmd.Flags().GetString("index")
	return index.Load(indexPath)
}

func printIDList(cmd *cobra.Command, ids []string, emptyMsg string) error {
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printJSON(ids)
	}
	if len(ids) == 0 {
		fmt.Println(emptyMsg)
		return nil
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	graphCmd.PersistentFlags().String("index", ".vault/index.json", "vault index file")
	graphCmd.PersistentFlags().Bool("json", false, "output as JSON")

	graphCmd.AddCommand(graphStatsCmd)
	graphCmd.AddCommand(graphOrphansCmd)
	graphCmd.AddCommand(graphRelatedCmd)
	graphCmd.AddCommand(graphTagCmd)
	graphCmd.AddCommand(graphTopicCmd)
	graphCmd.AddCommand(graphExportCmd)

	rootCmd.AddCommand(graphCmd)
}
