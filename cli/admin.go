package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dcode-github/property_listing_api/notify"
	"github.com/dcode-github/property_listing_api/services"
	"github.com/dcode-github/property_listing_api/utils"
	"github.com/dcode-github/property_listing_api/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type adminFlags struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// input runs the flags through the same validation as a signup body.
func (f adminFlags) input() (validation.SignupInput, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return validation.SignupInput{}, err
	}
	return validation.ParseSignup(bytes.NewReader(b))
}

func createAdminCmd() *cobra.Command {
	var f adminFlags

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Provision an admin account (signup only ever creates members)",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := f.input()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			rt, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer rt.close(ctx)

			if err := rt.store.Migrate(ctx); err != nil {
				return err
			}

			tokens := utils.NewTokenManager(rt.cfg.JWTKey, rt.cfg.RefreshTokenTTL)
			auth := services.NewAuthService(rt.store.Users(), tokens, notify.NewLogNotifier(rt.log), nil, rt.log)

			u, err := auth.CreateAdmin(ctx, in)
			if err != nil {
				return err
			}
			rt.log.Info("admin created", zap.Uint("user_id", u.ID), zap.String("email", u.Email))
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %d (%s)\n", u.ID, u.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&f.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&f.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&f.Email, "email", "", "email address")
	cmd.Flags().StringVar(&f.Password, "password", "", "password")
	for _, name := range []string{"first-name", "last-name", "phone", "email", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
