package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"redline/store"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage stored documents",
}

var docsOwner string

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.Store.Dir)
		if err != nil {
			return err
		}
		docs, err := st.ListDocuments(docsOwner)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Println("no documents")
			return nil
		}
		for _, doc := range docs {
			fmt.Printf("%-20s  %-30s  %s  %d chars\n", doc.ID, doc.Title, doc.Timestamp.Format("2006-01-02 15:04"), len(doc.Content))
		}
		return nil
	},
}

var docsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a text file as a stored document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.Store.Dir)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		base := filepath.Base(args[0])
		id := strings.TrimSuffix(base, filepath.Ext(base))
		doc := &store.Document{
			ID:      id,
			Title:   base,
			Content: string(data),
			OwnerID: docsOwner,
		}
		if err := st.SaveDocument(doc); err != nil {
			return err
		}
		fmt.Printf("stored %s (%d chars)\n", id, len(doc.Content))
		return nil
	},
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.Store.Dir)
		if err != nil {
			return err
		}
		return st.DeleteDocument(args[0])
	},
}

func init() {
	docsCmd.PersistentFlags().StringVar(&docsOwner, "owner", "", "owner ID to scope the operation to")
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsImportCmd)
	docsCmd.AddCommand(docsDeleteCmd)
}
