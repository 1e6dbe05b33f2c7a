// Command goodlifectl runs operator tasks against the configured backend:
// schema migration, fixture seeding, staff accounts, member import and
// check-in export.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"goodlife/internal/application/orchestrators"
	"goodlife/internal/application/state"
	"goodlife/internal/bootstrap"
	"goodlife/internal/config"
	"goodlife/internal/domain/privilege"
)

var errNoBackend = errors.New("GOODLIFE_DB_DSN is not set; there is no backend to work on")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app is the state shared by every subcommand.
type app struct {
	cfg config.Config
	as  string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "goodlifectl",
		Short:         "Operator tasks for the Goodlife front desk",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.AutoMigrate = false
			a.cfg = cfg
			if a.as == "" {
				a.as = cfg.AdminEmail
			}
			if a.as == "" {
				a.as = state.SeedAdminEmail
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.as, "as", "", "email of the Super Admin the changes are recorded against (default GOODLIFE_ADMIN_EMAIL)")

	root.AddCommand(
		a.migrateCmd(),
		a.seedCmd(),
		a.staffCmd(),
		a.membersCmd(),
		a.checkInsCmd(),
	)
	return root
}

// load opens the backend and loads every collection.
func (a *app) load(ctx context.Context) (*bootstrap.State, error) {
	if !a.cfg.BackendConfigured() {
		return nil, errNoBackend
	}
	return bootstrap.LoadState(ctx, a.cfg, nil)
}

// actor resolves the account named by --as.
func (a *app) actor(c *state.Container) (orchestrators.Actor, error) {
	st, ok := c.Snapshot().StaffByEmail(a.as)
	if !ok {
		return orchestrators.Actor{}, fmt.Errorf("no staff account %q; pass --as with an existing Super Admin", a.as)
	}
	return orchestrators.ActorFor(c.Snapshot(), st.Role, st.Email), nil
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.BackendConfigured() {
				return errNoBackend
			}
			db, d, err := bootstrap.OpenDB(a.cfg, true)
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", d)
			return nil
		},
	}
}

func (a *app) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the fixture data into empty tables and set the admin password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := orchestrators.ExecuteSeedFixtures(cmd.Context(), orchestrators.SeedFixturesDeps{State: st.Container})
			if err != nil {
				return err
			}
			if err := orchestrators.ExecuteSeedAdmin(cmd.Context(), orchestrators.SeedAdminInput{
				Email:    a.cfg.AdminEmail,
				Password: a.cfg.AdminPassword,
			}, orchestrators.StaffDeps{State: st.Container, GenerateID: uuid.NewString, Now: time.Now}); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range []string{"staff", "members", "payments", "announcements", "gallery"} {
				if n, ok := res.Seeded[name]; ok {
					fmt.Fprintf(out, "%-14s %d added\n", name, n)
				}
			}
			for _, name := range res.Skipped {
				fmt.Fprintf(out, "%-14s already has rows, skipped\n", name)
			}
			return nil
		},
	}
}

func (a *app) staffCmd() *cobra.Command {
	staffCmd := &cobra.Command{Use: "staff", Short: "Manage portal accounts"}

	var (
		in         orchestrators.CreateStaffInput
		privileges string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a portal account; the password is read from the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if in.Actor, err = a.actor(st.Container); err != nil {
				return err
			}
			if privileges != "" {
				in.Privileges = strings.Split(privileges, ",")
			}
			if in.Password, err = readPassword(cmd, "Password for "+in.Email+": "); err != nil {
				return err
			}
			created, err := orchestrators.ExecuteCreateStaff(cmd.Context(), in, orchestrators.StaffDeps{
				State: st.Container, GenerateID: uuid.NewString, Now: time.Now,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) with id %s\n", created.Email, created.Role.Label(), created.ID)
			return nil
		},
	}
	f := create.Flags()
	f.StringVar(&in.FullName, "name", "", "full name")
	f.StringVar(&in.Email, "email", "", "login email")
	f.StringVar(&in.Role, "role", string(privilege.RoleStaff), "STAFF or SUPER_ADMIN")
	f.StringVar(&in.Position, "position", "", "job title")
	f.StringVar(&in.Phone, "phone", "", "phone number")
	f.StringVar(&privileges, "privileges", "", "comma-separated privileges, e.g. MANAGE_MEMBERS,MANAGE_PAYMENTS")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("email")

	staffCmd.AddCommand(create)
	return staffCmd
}

// readPassword masks input on a terminal and reads one line otherwise.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimSpace(line), nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
