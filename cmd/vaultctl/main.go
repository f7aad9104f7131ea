package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/filevault/internal/client/api"
	"github.com/dmitrijs2005/filevault/internal/client/cli"
	"github.com/dmitrijs2005/filevault/internal/netx"
)

const requestTimeout = 30 * time.Second

var (
	serverURL string
	parentID  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newClient prompts for the token (or takes it from VAULT_TOKEN) and builds
// an API client.
func newClient() (*api.Client, error) {
	token, err := cli.GetToken(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	return api.NewClient(serverURL, token, requestTimeout), nil
}

func parentArg() *string {
	if parentID == "" {
		return nil
	}
	return &parentID
}

var rootCmd = &cobra.Command{
	Use:   "vaultctl",
	Short: "Command-line client for the file vault server",
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List visible objects",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		search, _ := cmd.Flags().GetString("search")
		items, err := c.List(ctx, parentID, search)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tNAME\tSIZE\tSTATUS\tOWNER")
		for _, o := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				o.ID, o.Kind, o.Name, o.SizeBytes, o.SecurityStatus, o.OwnerName)
		}
		return w.Flush()
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		c, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		name := filepath.Base(args[0])
		mimeType := mime.TypeByExtension(filepath.Ext(name))

		res, err := c.Create(ctx, &api.CreateRequest{
			Name:      name,
			Kind:      "FILE",
			SizeBytes: int64(len(content)),
			MimeType:  mimeType,
			ParentID:  parentArg(),
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created %s (%s), status %s\n", res.Object.Name, res.Object.ID, res.Object.SecurityStatus)
		if res.Object.RawNameWasModified {
			fmt.Printf("Note: name was sanitized to %s\n", res.Object.Name)
		}

		if res.UploadURL == "" {
			fmt.Println("No content storage configured; metadata only")
			return nil
		}
		if err := netx.UploadToPresignedURL(ctx, res.UploadURL, content, mimeType); err != nil {
			return fmt.Errorf("uploading content: %w", err)
		}
		fmt.Println("Content uploaded")
		return nil
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		res, err := c.Create(ctx, &api.CreateRequest{
			Name:     args[0],
			Kind:     "FOLDER",
			ParentID: parentArg(),
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created folder %s (%s)\n", res.Object.Name, res.Object.ID)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		if err := c.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Download a file's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		res, err := c.Download(ctx, args[0])
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = res.Object.Name
		}

		if res.URL == "" {
			return fmt.Errorf("no content storage configured on the server")
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()

		n, err := netx.DownloadFromPresignedURL(ctx, res.URL, f)
		if err != nil {
			return fmt.Errorf("downloading content: %w", err)
		}
		fmt.Printf("Wrote %d bytes to %s\n", n, out)
		return nil
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent audit entries (admin only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		n, _ := cmd.Flags().GetInt("n")
		entries, err := c.AuditTail(ctx, n)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tSEVERITY\tACTOR\tACTION\tDETAIL")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				e.Timestamp.Format(time.RFC3339), e.Severity, e.ActorUsername, e.Action, e.Detail)
		}
		return w.Flush()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog totals per security status (admin only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		s, err := c.Stats(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Total:    %d\n", s.Total)
		fmt.Printf("Pending:  %d\n", s.Pending)
		fmt.Printf("Clean:    %d\n", s.Clean)
		fmt.Printf("Warning:  %d\n", s.Warning)
		fmt.Printf("Infected: %d\n", s.Infected)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "vault server base URL")

	lsCmd.Flags().StringVar(&parentID, "parent", "", "folder id to list (default root)")
	lsCmd.Flags().String("search", "", "case-insensitive name filter")
	uploadCmd.Flags().StringVar(&parentID, "parent", "", "destination folder id")
	mkdirCmd.Flags().StringVar(&parentID, "parent", "", "destination folder id")
	downloadCmd.Flags().StringP("output", "o", "", "output path (default: object name)")
	auditCmd.Flags().Int("n", 50, "number of entries")

	rootCmd.AddCommand(lsCmd, uploadCmd, mkdirCmd, rmCmd, downloadCmd, auditCmd, statsCmd)
}
