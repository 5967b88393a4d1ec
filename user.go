package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/model"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage dashboard accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a dashboard account",
	Long: `Create a dashboard account.

Example:
  portfolio user create --email me@example.com --password '...' --name Zach --role admin`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("name")
		roleName, _ := cmd.Flags().GetString("role")

		role, err := model.ParseRole(roleName)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		p := &model.Profile{Email: email, DisplayName: model.String(name), Role: role}
		if err := auth.CreateProfile(cmd.Context(), st.Profiles, p, password); err != nil {
			return err
		}
		fmt.Printf("Created %s account %s (%s)\n", p.Role, p.Email, p.ID)
		return nil
	},
}

var userRoleCmd = &cobra.Command{
	Use:   "role <email> <role>",
	Short: "Change the role of an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := model.ParseRole(args[1])
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		ctx := cmd.Context()
		p, err := st.Profiles.ByEmail(ctx, args[0])
		if err != nil {
			return fmt.Errorf("find %s: %w", args[0], err)
		}
		if err := st.Profiles.SetRole(ctx, p.ID, role); err != nil {
			return err
		}
		fmt.Printf("%s is now %s\n", p.Email, role)
		return nil
	},
}

var userPasswordCmd = &cobra.Command{
	Use:   "password <email>",
	Short: "Reset the password of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if len(password) < auth.MinPasswordLen {
			return fmt.Errorf("password must be at least %d characters", auth.MinPasswordLen)
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		ctx := cmd.Context()
		p, err := st.Profiles.ByEmail(ctx, args[0])
		if err != nil {
			return fmt.Errorf("find %s: %w", args[0], err)
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		if err := st.Profiles.SetPassword(ctx, p.ID, hash); err != nil {
			return err
		}
		fmt.Printf("Password updated for %s\n", p.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userRoleCmd)
	userCmd.AddCommand(userPasswordCmd)

	userCreateCmd.Flags().String("email", "", "account email (required)")
	userCreateCmd.Flags().String("password", "", "account password (required)")
	userCreateCmd.Flags().String("name", "", "display name")
	userCreateCmd.Flags().String("role", string(model.RoleViewer), "admin, editor or viewer")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")

	userPasswordCmd.Flags().String("password", "", "new password (required)")
	_ = userPasswordCmd.MarkFlagRequired("password")
}
