package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"portfolio/internal/auth"
	"portfolio/internal/content"
	"portfolio/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Load sections, projects and articles from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := seed.Load(args[0])
		if err != nil {
			return err
		}
		gdb, err := connect()
		if err != nil {
			return err
		}
		bus, closeBus, err := newBus(cmd.Context())
		if err != nil {
			return err
		}
		defer closeBus()

		_, err = seed.Apply(cmd.Context(), content.NewRepository(gdb, bus), f)
		return err
	},
}

var grantAdminCmd = &cobra.Command{
	Use:   "grant-admin <email>",
	Short: "Give an existing account the admin role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := connect()
		if err != nil {
			return err
		}
		if err := auth.NewService(gdb, cfg.SessionTTL).GrantRoleByEmail(cmd.Context(), args[0], auth.RoleAdmin); err != nil {
			return err
		}
		logrus.WithField("email", args[0]).Info("admin role granted")
		return nil
	},
}
