package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"github.com/finance-tracker/budget-api/internal/client/analytics"
	"github.com/finance-tracker/budget-api/internal/client/api"
)

func (a *app) register(ctx context.Context, args []string) error {
	fs := a.flags("register")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	pw := fs.String("password", "", "password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	password, err := a.password(*pw)
	if err != nil {
		return err
	}

	s, err := a.manager().Register(ctx, *name, *email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s! You are signed in as %s.\n", s.User.Name, s.User.Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "email address")
	pw := fs.String("password", "", "password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	password, err := a.password(*pw)
	if err != nil {
		return err
	}

	s, err := a.manager().Login(ctx, *email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s.\n", s.User.Email)
	return nil
}

func (a *app) logout() error {
	if err := a.manager().Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *app) profile(ctx context.Context, args []string) error {
	if err := a.flags("profile").Parse(args); err != nil {
		return err
	}
	client, err := a.authed(ctx)
	if err != nil {
		return err
	}
	p, err := client.GetProfile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.view.Profile(*p))
	return nil
}

func (a *app) profileSet(ctx context.Context, args []string) error {
	fs := a.flags("profile set")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	phone := fs.String("phone", "", "phone number")
	location := fs.String("location", "", "location")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var update api.ProfileUpdate
	changed := func(flag string, v *string) *string {
		if fs.Changed(flag) {
			return v
		}
		return nil
	}
	update.Name = changed("name", name)
	update.Email = changed("email", email)
	update.Phone = changed("phone", phone)
	update.Location = changed("location", location)

	client, err := a.authed(ctx)
	if err != nil {
		return err
	}
	p, err := client.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated.")
	fmt.Fprintln(a.out, a.view.Profile(*p))
	return nil
}

func (a *app) avatar(ctx context.Context, args []string) error {
	src, err := oneArg(a.flags("avatar"), args, "file path or URL")
	if err != nil {
		return err
	}
	value, err := avatarValue(src)
	if err != nil {
		return err
	}

	client, err := a.authed(ctx)
	if err != nil {
		return err
	}
	if _, err := client.UploadAvatar(ctx, value); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Avatar updated.")
	return nil
}

// avatarValue turns a readable file into a data URL. Anything else is sent as is.
func avatarValue(src string) (string, error) {
	info, err := os.Stat(src)
	if err != nil || info.IsDir() {
		return src, nil
	}
	raw, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read avatar: %w", err)
	}
	mime := http.DetectContentType(raw)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

func (a *app) snapshot(ctx context.Context) (*api.Snapshot, error) {
	client, err := a.authed(ctx)
	if err != nil {
		return nil, err
	}
	return client.FetchAll(ctx)
}

func (a *app) dashboard(ctx context.Context, args []string) error {
	if err := a.flags("dashboard").Parse(args); err != nil {
		return err
	}
	snap, err := a.snapshot(ctx)
	if err != nil {
		return err
	}
	d := analytics.BuildDashboard(*snap.Profile, snap.Transactions, snap.Budgets, a.now())
	fmt.Fprintln(a.out, a.view.Dashboard(d))
	return nil
}

func (a *app) showAnalytics(ctx context.Context, args []string) error {
	if err := a.flags("analytics").Parse(args); err != nil {
		return err
	}
	snap, err := a.snapshot(ctx)
	if err != nil {
		return err
	}
	d := analytics.BuildDashboard(*snap.Profile, snap.Transactions, snap.Budgets, a.now())
	fmt.Fprintln(a.out, a.view.Analytics(d))
	return nil
}

func (a *app) transactions(ctx context.Context, args []string) error {
	fs := a.flags("transactions")
	var f analytics.Filter
	fs.StringVarP(&f.Search, "search", "s", "", "match description or category")
	fs.StringVar(&f.Category, "category", analytics.All, "category name or all")
	fs.StringVar(&f.Type, "type", analytics.All, "income, expense or all")
	fs.StringVar(&f.SortBy, "sort", analytics.SortByDate, "date, amount or category")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}

	client, err := a.authed(ctx)
	if err != nil {
		return err
	}
	txns, err := client.ListTransactions(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.view.TransactionTotals(analytics.Summarize(txns)))
	fmt.Fprintln(a.out, a.view.Transactions(analytics.FilterTransactions(txns, f)))
	return nil
}

// txFlags declares the flags shared by tx add and tx edit.
type txFlags struct {
	typ         string
	amount      string
	category    string
	date        string
	description string
	time        string
	location    string
	note        string
	budget      string
	tags        []string
}

func (t *txFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&t.typ, "type", "expense", "income or expense")
	fs.StringVar(&t.amount, "amount", "", "amount")
	fs.StringVar(&t.category, "category", "", "category")
	fs.StringVar(&t.date, "date", "", "date as YYYY-MM-DD (today when empty)")
	fs.StringVar(&t.description, "description", "", "description")
	fs.StringVar(&t.time, "time", "", "time of day")
	fs.StringVar(&t.location, "location", "", "location")
	fs.StringVar(&t.note, "note", "", "note")
	fs.StringVar(&t.budget, "budget", "", "budget id to link")
	fs.StringSliceVar(&t.tags, "tags", nil, "comma separated tags")
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

func (a *app) txAdd(ctx context.Context, args []string) error {
	fs := a.flags("tx add")
	var t txFlags
	t.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if t.date == "" {
		t.date = a.now().Format(api.DateLayout)
	}

	in := api.NewTransaction{
		Type:        t.typ,
		Category:    t.category,
		Date:        t.date,
		Description: t.description,
		Time:        t.time,
		Location:    t.location,
		Note:        t.note,
		Tags:        t.tags,
		BudgetID:    t.budget,
	}
	if t.amount != "" {
		amount, err := parseAmount(t.amount)
		if err != nil {
			return err
		}
		in.Amount = amount
	}

	client, err := a.authed(ctx)
	if err != nil {
		return err
	}
	created, err := client.CreateTransaction(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Transaction %s created.\n", created.ID)
	return nil
}

func (a *app) txEdit(ctx context.Context, args []string) error {
	fs := a.flags("tx edit")
	var t txFlags
	t.bind(fs)
	clearBudget := fs.Bool("clear-budget", false, "unlink the budget")
	id, err := oneArg(fs, args, "transaction id")
	if err != nil {
		return err
	}

	var patch api.TransactionPatch
	str := func(flag string, v *string) *string {
		if fs.Changed(flag) {
			return v
		}
		return nil
	}
	patch.Type = str("type", &t.typ)
	patch.Category = str("category", &t.category)
	patch.Date = str("date", &t.date)
	patch.Description = str("description", &t.description)
	patch.Time = str("time", &t.time)
	patch.Location = str("location", &t.location)
	patch.Note = str("note", &t.note)
	patch.BudgetID = str("budget", &t.budget)
	patch.ClearBudget = *clearBudget
	if fs.Changed("tags") {
		patch.Tags = append([]string{}, t.tags...)
	}
	if fs.Changed("amount") {
		amount, err := parseAmount(t.amount)
		if err != nil {
			return err
		}
		patch.Amount = &amount
	}

	client, err := a.authed(ctx)
	if err != nil {
		return err
	}
	if _, err := client.UpdateTransaction(ctx, id, patch); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Transaction %s updated.\n", id)
	return nil
}

func (a *app) txRemove(ctx context.Context, args []string) error {
	id, err := oneArg(a.flags("tx rm"), args, "transaction id")
	if err != nil {
		return err
	}
	client, err := a.authed(ctx)
	if err != nil {
		return err
	}
	if err := client.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Transaction %s deleted.\n", id)
	return nil
}

func (a *app) budgets(ctx context.Context, args []string) error {
	if err := a.flags("budgets").Parse(args); err != nil {
		return err
	}
	client, err := a.authed(ctx)
	if err != nil {
		return err
	}
	snap, err := client.FetchAll(ctx)
	if err != nil {
		return err
	}
	overview := analytics.BudgetProgress(snap.Budgets, snap.Transactions, analytics.MatchByReference)
	fmt.Fprintln(a.out, a.view.Budgets(overview))
	return nil
}

// budgetFlags declares the flags shared by budget add and budget edit.
type budgetFlags struct {
	name      string
	limit     string
	icon      string
	color     string
	threshold int
}

func (b *budgetFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&b.name, "name", "", "budget name, matched against transaction categories")
	fs.StringVar(&b.limit, "limit", "", "spending limit")
	fs.StringVar(&b.icon, "icon", "", "icon")
	fs.StringVar(&b.color, "color", "", "hex colour such as #FF6B6B")
	fs.IntVar(&b.threshold, "threshold", 0, "alert threshold percent (1-100)")
}

func (a *app) budgetAdd(ctx context.Context, args []string) error {
	fs := a.flags("budget add")
	var b budgetFlags
	b.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := api.NewBudget{Name: b.name, Icon: b.icon, Color: b.color, AlertThreshold: b.threshold}
	if b.limit != "" {
		limit, err := parseAmount(b.limit)
		if err != nil {
			return err
		}
		in.Limit = limit
	}

	client, err := a.authed(ctx)
	if err != nil {
		return err
	}
	created, err := client.CreateBudget(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Budget %s created (%s).\n", created.Name, created.ID)
	return nil
}

func (a *app) budgetEdit(ctx context.Context, args []string) error {
	fs := a.flags("budget edit")
	var b budgetFlags
	b.bind(fs)
	id, err := oneArg(fs, args, "budget id")
	if err != nil {
		return err
	}

	var patch api.BudgetPatch
	if fs.Changed("name") {
		patch.Name = &b.name
	}
	if fs.Changed("icon") {
		patch.Icon = &b.icon
	}
	if fs.Changed("color") {
		patch.Color = &b.color
	}
	if fs.Changed("threshold") {
		patch.AlertThreshold = &b.threshold
	}
	if fs.Changed("limit") {
		limit, err := parseAmount(b.limit)
		if err != nil {
			return err
		}
		patch.Limit = &limit
	}

	client, err := a.authed(ctx)
	if err != nil {
		return err
	}
	if _, err := client.UpdateBudget(ctx, id, patch); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Budget %s updated.\n", id)
	return nil
}

func (a *app) budgetRemove(ctx context.Context, args []string) error {
	fs := a.flags("budget rm")
	noReassign := fs.Bool("no-reassign", false, "only unlink transactions instead of moving them")
	id, err := oneArg(fs, args, "budget id")
	if err != nil {
		return err
	}

	client, err := a.authed(ctx)
	if err != nil {
		return err
	}
	res, err := client.DeleteBudget(ctx, id, !*noReassign)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Budget %s deleted.", id)
	if res.Reassigned > 0 {
		fmt.Fprintf(a.out, " %d transaction(s) moved", res.Reassigned)
		if len(res.CreatedBudgets) > 0 {
			names := make([]string, 0, len(res.CreatedBudgets))
			for _, b := range res.CreatedBudgets {
				names = append(names, b.Name)
			}
			fmt.Fprintf(a.out, "; new budgets: %s", strings.Join(names, ", "))
		}
		fmt.Fprint(a.out, ".")
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := a.flags("export")
	path := fs.StringP("out", "o", "", "write to a file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	snap, err := a.snapshot(ctx)
	if err != nil {
		return err
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	raw = append(raw, '\n')

	if *path == "" {
		_, err = a.out.Write(raw)
		return err
	}
	if err := os.WriteFile(*path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Fprintf(a.out, "Exported to %s.\n", *path)
	return nil
}
