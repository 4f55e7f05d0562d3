package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/finance-tracker/budget-api/internal/client/api"
	"github.com/finance-tracker/budget-api/internal/client/session"
	"github.com/finance-tracker/budget-api/internal/client/view"
)

const (
	defaultAPIURL = "http://localhost:8080"
	usage         = `Usage: fintrack [--api-url URL] [--session-file PATH] <command> [flags]

Commands:
  register                 create an account and sign in
  login                    sign in
  logout                   forget the stored session
  profile [set]            show or edit the profile
  avatar <file|url>        set the avatar
  dashboard                totals, budget alerts and recent activity
  analytics                category, monthly and month-over-month figures
  transactions             list transactions (--search --category --type --sort)
  tx add|edit|rm           manage transactions
  budgets                  budget progress
  budget add|edit|rm       manage budgets
  export                   dump profile, transactions and budgets as JSON
`
)

// app holds the streams and settings of one invocation.
type app struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
	view   *view.Renderer
	now    func() time.Time

	httpClient  *http.Client
	apiURL      string
	sessionPath string
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		in:         bufio.NewReader(in),
		out:        out,
		errOut:     errOut,
		view:       view.New(out),
		now:        time.Now,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// run executes one command line and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	global := pflag.NewFlagSet("fintrack", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(a.errOut)
	global.Usage = func() { fmt.Fprint(a.errOut, usage) }
	global.StringVar(&a.apiURL, "api-url", envOr("FINTRACK_API_URL", defaultAPIURL), "API base URL")
	global.StringVar(&a.sessionPath, "session-file", envOr("FINTRACK_SESSION_FILE", defaultSessionPath()), "session file")

	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	rest := global.Args()
	if len(rest) == 0 {
		fmt.Fprint(a.errOut, usage)
		return 2
	}

	if err := a.dispatch(ctx, rest[0], rest[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(a.errOut, a.view.Error(err))
		return 1
	}
	return 0
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout()
	case "profile":
		if len(args) > 0 && args[0] == "set" {
			return a.profileSet(ctx, args[1:])
		}
		return a.profile(ctx, args)
	case "avatar":
		return a.avatar(ctx, args)
	case "dashboard":
		return a.dashboard(ctx, args)
	case "analytics":
		return a.showAnalytics(ctx, args)
	case "transactions":
		return a.transactions(ctx, args)
	case "tx":
		return a.sub(ctx, "tx", args, map[string]func(context.Context, []string) error{
			"add":  a.txAdd,
			"edit": a.txEdit,
			"rm":   a.txRemove,
		})
	case "budgets":
		return a.budgets(ctx, args)
	case "budget":
		return a.sub(ctx, "budget", args, map[string]func(context.Context, []string) error{
			"add":  a.budgetAdd,
			"edit": a.budgetEdit,
			"rm":   a.budgetRemove,
		})
	case "export":
		return a.export(ctx, args)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) sub(ctx context.Context, name string, args []string, cmds map[string]func(context.Context, []string) error) error {
	if len(args) == 0 {
		return fmt.Errorf("%s needs a subcommand: add, edit or rm", name)
	}
	fn, ok := cmds[args[0]]
	if !ok {
		return fmt.Errorf("unknown %s subcommand %q", name, args[0])
	}
	return fn(ctx, args[1:])
}

func (a *app) manager() *session.Manager {
	return session.NewManager(a.sessionPath, api.New(a.apiURL, api.WithHTTPClient(a.httpClient)))
}

// authed restores the stored session and returns a client acting for it.
func (a *app) authed(ctx context.Context) (*api.Client, error) {
	m := a.manager()
	s, err := m.Restore(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return nil, errors.New("not signed in; run `fintrack login` first")
	}
	if err != nil {
		return nil, err
	}
	return m.Client(s), nil
}

func (a *app) flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// password returns the flag value or reads one line from the input.
func (a *app) password(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv("FINTRACK_PASSWORD"); v != "" {
		return v, nil
	}
	fmt.Fprint(a.errOut, "Password: ")
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// oneArg parses fs and requires exactly one positional argument.
func oneArg(fs *pflag.FlagSet, args []string, what string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%s requires exactly one %s", fs.Name(), what)
	}
	return fs.Arg(0), nil
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".fintrack", "session.json")
	}
	return filepath.Join(home, ".fintrack", "session.json")
}
