package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rookgm/gofood/internal/dashboard"
	"github.com/rookgm/gofood/internal/models"
	"github.com/rookgm/gofood/internal/poller"
)

// visibility is the part of a dashboard poller watch drives
type visibility interface {
	SetVisible(visible bool)
	Visible() bool
	Start(ctx context.Context)
	Stop()
}

func runWatch(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("watch")
	role := fs.String("role", "", "dashboard: admin, rider or customer")
	orderID := fs.String("order", "", "order to track, customer dashboard only")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	user, err := a.currentUser()
	if err != nil {
		return err
	}

	var p visibility
	switch *role {
	case models.RoleAdmin:
		p = dashboard.NewAdmin(a.api, a.cfg.ListInterval, a.logger,
			poller.WithOnUpdate(func(s dashboard.AdminSnapshot) { printAdmin(a.out, s) }))
	case models.RoleRider:
		p = dashboard.NewRider(a.api, user.ID, a.cfg.ListInterval, a.logger,
			poller.WithOnUpdate(func(s dashboard.RiderSnapshot) { printRider(a.out, s) }))
	case "customer", models.RoleUser:
		if *orderID == "" {
			return fmt.Errorf("%w: -order is required", errUsage)
		}
		p = dashboard.NewCustomer(a.api, user.ID, *orderID, a.cfg.DetailInterval, a.logger,
			poller.WithOnUpdate(func(s dashboard.CustomerSnapshot) { printCustomer(a.out, s) }))
	default:
		return fmt.Errorf("%w: unknown role %q", errUsage, *role)
	}

	p.Start(ctx)
	defer p.Stop()

	// SIGUSR1 hides the dashboard, SIGUSR2 shows it again
	toggle := make(chan os.Signal, 1)
	signal.Notify(toggle, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(toggle)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-toggle:
			p.SetVisible(sig == syscall.SIGUSR2)
			a.logger.Sugar().Debugf("dashboard visible: %t", p.Visible())
		}
	}
}

func printAdmin(w io.Writer, s dashboard.AdminSnapshot) {
	fmt.Fprintf(w, "\n%s  live: %d  finished: %d\n", time.Now().Format(time.TimeOnly), len(s.Active), len(s.Finished))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tSTATE\tRIDER\tTOTAL")
	for _, o := range s.Active {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.UserName, o.State(), o.RiderID, o.Total().StringFixed(2))
	}
	tw.Flush()
}

func printRider(w io.Writer, s dashboard.RiderSnapshot) {
	fmt.Fprintf(w, "\n%s  current: %d  delivered: %d\n", time.Now().Format(time.TimeOnly), len(s.Current), len(s.Delivered))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tCONTACT\tSTATE\tADDRESS")
	for _, o := range s.Current {
		address := o.Address
		if o.Location != nil {
			address = fmt.Sprintf("%s (%.5f, %.5f)", o.Location.Name, o.Location.Lat, o.Location.Lon)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.UserName, o.Contact, o.State(), address)
	}
	tw.Flush()
}

func printCustomer(w io.Writer, s dashboard.CustomerSnapshot) {
	var fields models.StatusFields
	switch {
	case s.Order != nil:
		fields = s.Order.StatusFields
	case s.Finished != nil:
		fields = s.Finished.StatusFields
	}

	fmt.Fprintf(w, "\n%s  %s\n", time.Now().Format(time.TimeOnly), s.State())
	steps := []struct {
		name  string
		value string
	}{
		{models.FieldPending, fields.Pending},
		{models.FieldConfirmed, fields.Confirmed},
		{models.FieldPreparing, fields.Preparing},
		{models.FieldPacking, fields.Packing},
		{models.FieldOutForDelivery, fields.OutForDelivery},
	}
	for _, step := range steps {
		if step.value != "" {
			fmt.Fprintf(w, "  %-15s %s\n", step.name, step.value)
		}
	}
	if s.Finished != nil {
		fmt.Fprintf(w, "  %-15s %s\n", "delivered", s.Finished.DeliveredAt.Format(time.DateTime))
	}
}
