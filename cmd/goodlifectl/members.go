package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"goodlife/internal/adapters/email"
	"goodlife/internal/adapters/photostore"
	"goodlife/internal/application/orchestrators"
)

func (a *app) membersCmd() *cobra.Command {
	membersCmd := &cobra.Command{Use: "members", Short: "Bulk member operations"}

	var skipWelcome bool
	importCmd := &cobra.Command{
		Use:   "import <file.csv|file.json>",
		Short: "Import members from a CSV or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			actor, err := a.actor(st.Container)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var format orchestrators.ImportFormat
			switch strings.ToLower(filepath.Ext(args[0])) {
			case ".json":
				format = orchestrators.ImportJSON
			case ".csv":
				format = orchestrators.ImportCSV
			}

			var sender email.Sender = email.NewNoopSender()
			if a.cfg.EmailConfigured() {
				sender = email.NewResendSender(a.cfg.ResendKey, a.cfg.EmailFrom, a.cfg.EmailReplyTo)
			}
			var photos photostore.Store = photostore.Inline{}
			if a.cfg.PhotoStoreConfigured() {
				s3, err := photostore.NewS3(a.cfg.S3Bucket, a.cfg.S3Region)
				if err != nil {
					return err
				}
				photos = s3
			}

			res, err := orchestrators.ExecuteImportMembers(cmd.Context(), orchestrators.ImportMembersInput{
				Actor:       actor,
				Reader:      f,
				Format:      format,
				SkipWelcome: skipWelcome,
			}, orchestrators.MemberDeps{
				State: st.Container, Photos: photos, Email: sender, GenerateID: uuid.NewString, Now: time.Now,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d of %d rows, %d failed\n", res.Imported, res.Total, res.Failed)
			for _, e := range res.Errors {
				fmt.Fprintln(out, "  "+e)
			}
			return nil
		},
	}
	importCmd.Flags().BoolVar(&skipWelcome, "skip-welcome", false, "do not send welcome emails")

	membersCmd.AddCommand(importCmd)
	return membersCmd
}
