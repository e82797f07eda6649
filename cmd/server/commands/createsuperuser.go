package commands

import (
	"fmt"

	"anoa.com/yamdb/internal/bootstrap"
	"github.com/spf13/cobra"
)

var (
	superuserName  string
	superuserEmail string
)

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create an admin account",
	Long: `Create a superuser with the admin role.

The account has no password; it signs in through the usual confirmation code
flow at /v1/auth/signup/ and /v1/auth/token/.

Examples:
  yamdb createsuperuser --username root --email root@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := bootstrapEnv()
		if err != nil {
			return err
		}
		if err := bootstrap.Migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		user, err := bootstrap.CreateSuperuser(cmd.Context(), db, superuserName, superuserEmail)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "superuser %s created (id %d)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createSuperuserCmd)

	createSuperuserCmd.Flags().StringVar(&superuserName, "username", "", "Username (required)")
	createSuperuserCmd.Flags().StringVar(&superuserEmail, "email", "", "Email address (required)")
	_ = createSuperuserCmd.MarkFlagRequired("username")
	_ = createSuperuserCmd.MarkFlagRequired("email")
}
