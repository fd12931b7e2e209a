package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Freeeeeet/glee_portal/internal/model"
	"github.com/Freeeeeet/glee_portal/internal/slots"
)

// SlotsCmd creates the slots command
func SlotsCmd(app *AppContext) *cobra.Command {
	var (
		asJSON        bool
		availableOnly bool
	)

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Print the audition slot lattice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lattice, err := app.App.Auditions.Lattice(app.Ctx)
			if err != nil {
				return err
			}
			summary := slots.Summarize(lattice)

			if availableOnly {
				free := lattice[:0:0]
				for _, s := range lattice {
					if !s.IsScheduled {
						free = append(free, s)
					}
				}
				lattice = free
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"summary": summary, "slots": lattice})
			}

			printLattice(out, lattice)
			fmt.Fprintf(out, "\nTotal: %d  Scheduled: %d  Available: %d\n", summary.Total, summary.Scheduled, summary.Available)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	cmd.Flags().BoolVar(&availableOnly, "available", false, "Only list unbooked slots")
	return cmd
}

func printLattice(out io.Writer, lattice []model.Slot) {
	day := ""
	for _, s := range lattice {
		if s.Date != day {
			day = s.Date
			fmt.Fprintf(out, "\n%s (%s)\n", day, s.Start.Format("Monday"))
		}

		who := "available"
		if s.IsScheduled && s.Booking != nil {
			who = fmt.Sprintf("%s [%s]", s.Booking.SubjectName, s.Booking.Status)
		}
		fmt.Fprintf(out, "  %s  %s\n", s.Time, who)
	}
}
