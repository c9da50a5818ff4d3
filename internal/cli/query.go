package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"venuebooking/internal/domain"
)

func newSlotsCmd() *cobra.Command {
	var venueID, date string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Print the free slots of a venue on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := domain.ParseDate(date)
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return printFreeSlots(cmd.Context(), cmd.OutOrStdout(), a.availabilityService(), venueID, d)
		},
	}

	cmd.Flags().StringVar(&venueID, "venue", "", "venue ID")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("venue")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newDatesCmd() *cobra.Command {
	var venueID, start, end string

	cmd := &cobra.Command{
		Use:   "dates",
		Short: "Print the future dates on which a venue is free for a time range",
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := domain.NewTimeRange(start, end)
			if err != nil {
				return err
			}
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return printFreeDates(cmd.Context(), cmd.OutOrStdout(), a.availabilityService(), venueID, rng)
		},
	}

	cmd.Flags().StringVar(&venueID, "venue", "", "venue ID")
	cmd.Flags().StringVar(&start, "start", "", "start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "end time (HH:MM, 24:00 allowed)")
	for _, name := range []string{"venue", "start", "end"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func printFreeSlots(ctx context.Context, w io.Writer, svc domain.AvailabilityService, venueID string, date domain.Date) error {
	slots, err := svc.FreeSlots(ctx, venueID, date)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Fprintf(w, "%s is fully booked on %s\n", venueID, date)
		return nil
	}
	fmt.Fprintf(w, "Free slots for %s on %s:\n", venueID, date)
	for _, s := range slots {
		fmt.Fprintf(w, "  %s\n", s)
	}
	return nil
}

func printFreeDates(ctx context.Context, w io.Writer, svc domain.AvailabilityService, venueID string, rng domain.TimeRange) error {
	dates, err := svc.FreeDates(ctx, venueID, rng)
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		fmt.Fprintf(w, "No free dates for %s at %s\n", venueID, rng)
		return nil
	}
	fmt.Fprintf(w, "%d free dates for %s at %s:\n", len(dates), venueID, rng)
	for _, d := range dates {
		fmt.Fprintf(w, "  %s\n", d)
	}
	return nil
}
