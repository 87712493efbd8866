package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/rookgm/gofood/internal/cart"
	"github.com/rookgm/gofood/internal/localstore"
	"github.com/rookgm/gofood/internal/models"
	"github.com/rookgm/gofood/internal/schedule"
)

var errNotLoggedIn = errors.New("not logged in, run gofoodctl login first")

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// currentUser returns the user saved by login
func (a *app) currentUser() (*models.User, error) {
	user := models.User{}
	if err := a.store.Get(localstore.KeyUser, &user); err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return nil, errNotLoggedIn
		}
		return nil, err
	}
	return &user, nil
}

func runSignUp(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("signup")
	name := fs.String("name", "", "user name")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	phone := fs.String("phone", "", "phone")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	user, err := a.api.SignUp(ctx, *name, *email, *password, *phone)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "registered %s (%s)\n", user.Name, user.ID)
	return nil
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login")
	name := fs.String("name", "", "user name")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	token, user, err := a.api.Login(ctx, *name, *password)
	if err != nil {
		return err
	}
	if err := a.store.Set(localstore.KeyToken, token); err != nil {
		return err
	}
	if err := a.store.Set(localstore.KeyUser, user); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "logged in as %s (%s)\n", user.Name, user.Role)
	return nil
}

func runLogout(_ context.Context, a *app, _ []string) error {
	if err := a.store.Delete(localstore.KeyToken); err != nil {
		return err
	}
	return a.store.Delete(localstore.KeyUser)
}

func runMenu(ctx context.Context, a *app, _ []string) error {
	items, err := a.api.Menu(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", item.ID, item.Name, item.Category, item.Price)
	}
	return tw.Flush()
}

func runCart(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}

	c, err := a.loadCart()
	if err != nil {
		return err
	}

	switch args[0] {
	case "show":
		printCart(a.out, c)
		return nil
	case "add":
		if len(args) < 2 {
			return errUsage
		}
		qty := 1
		if len(args) > 2 {
			if qty, err = strconv.Atoi(args[2]); err != nil {
				return fmt.Errorf("%w: quantity %q", errUsage, args[2])
			}
		}
		item, err := a.findMenuItem(ctx, args[1])
		if err != nil {
			return err
		}
		if err := c.Add(cart.ProductFromMenuItem(*item), qty); err != nil {
			return err
		}
	case "update":
		if len(args) < 3 {
			return errUsage
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("%w: quantity %q", errUsage, args[2])
		}
		if err := c.UpdateQuantity(args[1], qty); err != nil {
			return err
		}
	case "remove":
		if len(args) < 2 {
			return errUsage
		}
		if err := c.Remove(args[1]); err != nil {
			return err
		}
	case "clear":
		if err := c.Clear(); err != nil {
			return err
		}
	case "checkout":
		return a.checkout(ctx, c, args[1:])
	default:
		return fmt.Errorf("%w: unknown cart command %q", errUsage, args[0])
	}

	printCart(a.out, c)
	return nil
}

func (a *app) findMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	items, err := a.api.Menu(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", models.ErrMenuItemNotFound, id)
}

func (a *app) checkout(ctx context.Context, c *cart.Cart, args []string) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	fs := newFlagSet("checkout")
	contact := fs.String("contact", user.Phone, "contact phone")
	address := fs.String("address", "", "delivery address")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	details := cart.CheckoutDetails{
		UserName: user.Name,
		Contact:  *contact,
		Address:  *address,
	}

	location := models.Location{}
	err = a.store.Get(localstore.KeyLocation, &location)
	switch {
	case err == nil:
		details.Location = &location
	case !errors.Is(err, localstore.ErrNotFound):
		return err
	}

	order, err := c.Checkout(ctx, a.api, details)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "order %s placed, total %s\n", order.ID, order.Total().StringFixed(2))

	var slot time.Time
	if err := a.store.Get(localstore.KeySlot, &slot); err == nil {
		fmt.Fprintf(a.out, "delivery slot %s\n", slot.Format("Mon 15:04"))
	}
	return nil
}

func printCart(w io.Writer, c *cart.Cart) {
	items := c.Items()
	if len(items) == 0 {
		fmt.Fprintln(w, "cart is empty")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\n", item.MenuItem.ID, item.MenuItem.Name, item.Quantity, item.MenuItem.Price)
	}
	fmt.Fprintf(tw, "\t\tTOTAL\t%s\n", c.Total().StringFixed(2))
	tw.Flush()
}

func runLocation(_ context.Context, a *app, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}

	switch args[0] {
	case "show":
		location := models.Location{}
		if err := a.store.Get(localstore.KeyLocation, &location); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s (%.6f, %.6f)\n", location.Name, location.Lat, location.Lon)
		return nil
	case "set":
		fs := newFlagSet("location")
		name := fs.String("name", "", "place name")
		lat := fs.Float64("lat", 0, "latitude")
		lon := fs.Float64("lon", 0, "longitude")
		if err := fs.Parse(args[1:]); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		return a.store.Set(localstore.KeyLocation, models.Location{Name: *name, Lat: *lat, Lon: *lon})
	case "clear":
		return a.store.Delete(localstore.KeyLocation)
	default:
		return fmt.Errorf("%w: unknown location command %q", errUsage, args[0])
	}
}

func runSlot(_ context.Context, a *app, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}

	day := schedule.Available(time.Now())

	switch args[0] {
	case "list":
		fmt.Fprintln(a.out, day.Date.Format("Monday, 02 Jan"))
		for _, slot := range day.Slots {
			fmt.Fprintf(a.out, "  %s\n", slot.Format("15:04"))
		}
		return nil
	case "set":
		if len(args) < 2 {
			return errUsage
		}
		slot, err := day.Find(args[1])
		if err != nil {
			return err
		}
		return a.store.Set(localstore.KeySlot, slot)
	case "clear":
		return a.store.Delete(localstore.KeySlot)
	default:
		return fmt.Errorf("%w: unknown slot command %q", errUsage, args[0])
	}
}

func runOrders(ctx context.Context, a *app, _ []string) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	live, err := a.api.UserOrders(ctx, user.ID)
	if err != nil {
		return err
	}
	finished, err := a.api.UserFinishedOrders(ctx, user.ID)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tTOTAL\tCREATED")
	for _, o := range live {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.ID, o.State(), o.Total().StringFixed(2), o.CreatedAt.Format(time.DateTime))
	}
	for _, f := range finished {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, models.StateArchived, models.ItemsTotal(f.Items).StringFixed(2), f.CreatedAt.Format(time.DateTime))
	}
	return tw.Flush()
}

func runStatus(ctx context.Context, a *app, args []string) error {
	if len(args) != 3 {
		return errUsage
	}

	order, err := a.api.SetStatus(ctx, args[0], args[1], args[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "order %s is %s\n", order.ID, order.State())
	return nil
}

func runAssign(ctx context.Context, a *app, args []string) error {
	if len(args) != 2 {
		return errUsage
	}

	order, err := a.api.AssignRider(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "order %s assigned to %s\n", order.ID, order.RiderID)
	return nil
}

func runFinish(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	finished, err := a.api.MarkFinished(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "order %s delivered at %s\n", finished.ID, finished.DeliveredAt.Format(time.DateTime))
	return nil
}
