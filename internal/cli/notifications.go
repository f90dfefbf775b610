package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/konekt-network/konekt/internal/daemon"
)

func init() {
	notificationsCmd.Flags().BoolVar(&markShown, "mark-shown", false, "Mark listed notifications as shown")
	rootCmd.AddCommand(notificationsCmd)
}

var markShown bool

var notificationsCmd = &cobra.Command{
	Use:     "notifications USER",
	Aliases: []string{"inbox"},
	Short:   "List a user's pending notifications",
	Args:    cobra.ExactArgs(1),
	RunE:    runNotifications,
}

func runNotifications(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	notifs := d.Gamification.Notifications()
	ctx := cmd.Context()
	pending, err := notifs.Pending(ctx, args[0], 20)
	if err != nil {
		return err
	}
	if markShown {
		for _, n := range pending {
			if err := notifs.MarkShown(ctx, args[0], n.ID); err != nil {
				return err
			}
		}
	}
	if jsonOutput {
		return printJSON(pending)
	}
	if len(pending) == 0 {
		fmt.Println("No pending notifications.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTITLE\tCREATED")
	for _, n := range pending {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", n.ID, n.Type, n.Title, n.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
