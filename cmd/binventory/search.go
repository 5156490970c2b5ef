package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/binventory/internal/model"
	"github.com/erazemk/binventory/internal/store"
)

var searchParams model.SearchParams

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search items",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		params := searchParams
		if len(args) == 1 {
			params.Term = args[0]
		}
		params.Skip, params.Limit = a.cfg.Search.Page(params.Skip, params.Limit)
		params.MaxLimit = a.cfg.Search.MaxLimit

		result, err := store.Search(cmd.Context(), a.db, params)
		if err != nil {
			return err
		}
		if result.Fallback {
			a.logger.Warn("search term is not a valid full-text query, used substring match",
				zap.String("term", params.Term))
		}

		if result.Total == 0 {
			fmt.Println("No items found.")
			return nil
		}

		fmt.Printf("\n Items (%d found, showing %d) \n\n", result.Total, len(result.Items))
		for _, item := range result.Items {
			fmt.Printf(" [%d] %s x%d\n", item.ID, item.Name, item.Quantity)
			if where := locationPath(item); where != "" {
				fmt.Printf("     %s\n", where)
			}
			if len(item.Tags) > 0 {
				fmt.Printf("     Tags: %s\n", strings.Join(item.TagNames(), ", "))
			}
		}
		fmt.Println()
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchParams.Area, "area", "", "only items in this area")
	searchCmd.Flags().StringVar(&searchParams.Container, "container", "", "only items in this container")
	searchCmd.Flags().StringVar(&searchParams.Bin, "bin", "", "only items in this bin")
	searchCmd.Flags().StringVar(&searchParams.Tag, "tag", "", "only items with this tag")
	searchCmd.Flags().IntVar(&searchParams.Skip, "skip", 0, "number of results to skip")
	searchCmd.Flags().IntVarP(&searchParams.Limit, "limit", "n", 0, "maximum number of results")
}

func locationPath(item model.Item) string {
	var parts []string
	for _, p := range []string{item.Area, item.Container, item.Bin} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " > ")
}
