package main

import (
	"fmt"
	"os"

	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/config"
	"github.com/justsurfingit/job-portal/internal/logging"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/spf13/cobra"
)

// Administrators cannot register over HTTP; this is the only way to create one.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a superUser account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logging.New(cfg.LogLevel, cfg.IsProduction())
		store, closeStore, err := openStore(cfg, log, true)
		if err != nil {
			return err
		}
		defer closeStore()

		flags := cmd.Flags()
		email, _ := flags.GetString("email")
		password, _ := flags.GetString("password")
		fullname, _ := flags.GetString("fullname")
		phone, _ := flags.GetString("phone")

		users := services.NewUserService(store, nil, auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL), log)
		user, err := users.CreateByAdmin(cmd.Context(), services.NewUser{
			Fullname:    fullname,
			Email:       email,
			PhoneNumber: phone,
			Password:    password,
		}, models.RoleSuperUser)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id %d)\n", user.Email, user.ID)
		return nil
	},
}

var gmailTokenCmd = &cobra.Command{
	Use:   "gmail-token",
	Short: "Authorize the Gmail account used for status emails",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.GmailCredentialsFile == "" || cfg.GmailTokenFile == "" {
			return fmt.Errorf("GMAIL_CREDENTIALS_FILE and GMAIL_TOKEN_FILE must be set")
		}
		oauthCfg, err := auth.GmailConfig(cfg.GmailCredentialsFile)
		if err != nil {
			return err
		}
		return auth.AuthorizeGmail(cmd.Context(), oauthCfg, cfg.GmailTokenFile, os.Stdin, cmd.OutOrStdout())
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.String("email", "", "admin email")
	f.String("password", "", "admin password")
	f.String("fullname", "Administrator", "display name")
	f.String("phone", "0000000000", "phone number")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}
