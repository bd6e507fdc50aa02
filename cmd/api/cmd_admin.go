package main

import (
	"fmt"

	"pizzeria/internal/usecase"

	"github.com/spf13/cobra"
)

var adminFlags struct {
	email    string
	password string
	name     string
	store    string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a store admin, resolving or creating the store by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		out, err := a.admins.Signup(cmd.Context(), usecase.AdminSignupInput{
			Name:     adminFlags.name,
			Email:    adminFlags.email,
			Password: adminFlags.password,
			Store:    usecase.StoreInput{Name: adminFlags.store},
		})
		if err != nil {
			return err
		}
		if out.Admin.Store != nil {
			fmt.Printf("created admin %d for store %d (%s)\n", out.Admin.ID, out.Admin.Store.ID, out.Admin.Store.Name)
			return nil
		}
		fmt.Printf("created admin %d\n", out.Admin.ID)
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminFlags.email, "email", "", "admin email")
	f.StringVar(&adminFlags.password, "password", "", "admin password (min 8 characters)")
	f.StringVar(&adminFlags.name, "name", "", "display name")
	f.StringVar(&adminFlags.store, "store", "", "store name")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	_ = createAdminCmd.MarkFlagRequired("store")
}
