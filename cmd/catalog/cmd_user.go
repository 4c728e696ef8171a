package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"example.com/catalog-admin/internal/infra/security"
	useruc "example.com/catalog-admin/internal/usecase/user"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage catalog users",
}

var userCreateInput useruc.CreateUserInput

// catalog user create --name --email --password [--admin]
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user who can sign in to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := bootLogger(cfg)
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer st.Close()

		hasher, err := security.NewPasswordService(cfg.Auth.BcryptCost)
		if err != nil {
			return err
		}
		svc := useruc.NewService(st.Users, hasher, log)
		u, err := svc.CreateUser(cmd.Context(), userCreateInput)
		if err != nil {
			return err
		}
		role := "user"
		if u.IsAdmin {
			role = "admin"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s #%d <%s>\n", role, u.ID, u.Email)
		return nil
	},
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&userCreateInput.Name, "name", "", "display name")
	f.StringVar(&userCreateInput.Email, "email", "", "login email")
	f.StringVar(&userCreateInput.Password, "password", "", "password (min 8 characters)")
	f.BoolVar(&userCreateInput.IsAdmin, "admin", false, "grant catalog management rights")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
}
