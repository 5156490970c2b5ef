package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/binventory/internal/store"
)

var reindexCheck bool

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the full-text search index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if reindexCheck {
			status, err := store.VerifyIndex(cmd.Context(), a.db)
			if err != nil {
				return err
			}
			printIndexStatus(status)
			if !status.InSync() {
				return fmt.Errorf("search index is out of sync, run reindex")
			}
			return nil
		}

		status, err := store.RebuildIndex(cmd.Context(), a.db)
		if err != nil {
			return err
		}
		a.logger.Info("search index rebuilt",
			zap.Int("items", status.IndexedItems),
			zap.Int("tags", status.IndexedTags),
		)
		printIndexStatus(status)
		return nil
	},
}

func init() {
	reindexCmd.Flags().BoolVar(&reindexCheck, "check", false, "only report whether the index matches the tables")
}

func printIndexStatus(s store.IndexStatus) {
	fmt.Printf("Items: %d (indexed %d, missing %d, stale %d)\n", s.Items, s.IndexedItems, s.MissingItems, s.StaleItems)
	fmt.Printf("Tags:  %d (indexed %d, missing %d, stale %d)\n", s.Tags, s.IndexedTags, s.MissingTags, s.StaleTags)
	if s.InSync() {
		fmt.Println("Index is in sync.")
	}
}
