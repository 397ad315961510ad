// Package cli implements accountsctl, the operator tool of the accounts
// service. Remote commands talk to the gRPC endpoint; admin commands work
// on the database directly; the rest only touch local input.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/addonaccounts/internal/api"
	"github.com/dmitrijs2005/addonaccounts/internal/client/config"
	"github.com/dmitrijs2005/addonaccounts/internal/common"
	"github.com/dmitrijs2005/addonaccounts/internal/logging"
	"github.com/dmitrijs2005/addonaccounts/internal/netx"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/repomanager"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var errNoToken = errors.New("no access token: pass --token or set " + config.TokenEnv)

// overrides are the persistent flags; a flag wins over the config file
// only when it was set.
type overrides struct {
	configPath string
	addr       string
	dsn        string
	token      string
	lang       string
	verbose    bool
}

type App struct {
	cfg    *config.Config
	flags  overrides
	logger logging.Logger
	lines  *bufio.Reader

	dial         func(addr string) (api.AccountsServiceClient, io.Closer, error)
	openDB       func(dsn string) (*sql.DB, error)
	migrate      func(ctx context.Context, db *sql.DB) error
	isTerminal   func(fd int) bool
	readPassword func(fd int) ([]byte, error)
	upload       func(ctx context.Context, url, contentType string, body []byte) error
}

func NewApp() *App {
	return &App{
		dial: dialGRPC,
		openDB: func(dsn string) (*sql.DB, error) {
			return sql.Open("pgx", dsn)
		},
		migrate:      repomanager.NewPostgresRepositoryManager().RunMigrations,
		isTerminal:   term.IsTerminal,
		readPassword: term.ReadPassword,
		upload: func(ctx context.Context, url, contentType string, body []byte) error {
			return netx.PutPresigned(ctx, nil, url, contentType, body)
		},
	}
}

func dialGRPC(addr string) (api.AccountsServiceClient, io.Closer, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, err
	}
	return api.NewAccountsServiceClient(conn), conn, nil
}

// loadConfig runs before every command.
func (a *App) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.ServerEndpointAddr = a.flags.addr
	}
	if flags.Changed("dsn") {
		cfg.DatabaseDSN = a.flags.dsn
	}
	if flags.Changed("token") {
		cfg.AccessToken = a.flags.token
	}
	if flags.Changed("lang") {
		cfg.Language = a.flags.lang
	}

	logger, err := logging.New(cfg.Logger, a.flags.verbose)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// callContext bounds one call and attaches the caller's metadata.
func (a *App) callContext(ctx context.Context, authed bool) (context.Context, context.CancelFunc, error) {
	var pairs []string
	if a.cfg.Language != "" {
		pairs = append(pairs, common.LocaleHeaderName, a.cfg.Language)
	}
	if authed {
		if a.cfg.AccessToken == "" {
			return nil, nil, errNoToken
		}
		pairs = append(pairs, common.AccessTokenHeaderName, a.cfg.AccessToken)
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.RequestTimeout)
	return metadata.AppendToOutgoingContext(ctx, pairs...), cancel, nil
}

// withClient dials the server and runs fn with a bounded call context.
func (a *App) withClient(cmd *cobra.Command, authed bool, fn func(ctx context.Context, c api.AccountsServiceClient) error) error {
	ctx, cancel, err := a.callContext(cmd.Context(), authed)
	if err != nil {
		return err
	}
	defer cancel()

	client, closer, err := a.dial(a.cfg.ServerEndpointAddr)
	if err != nil {
		return fmt.Errorf("connect %s: %w", a.cfg.ServerEndpointAddr, err)
	}
	defer closer.Close()

	return describe(fn(ctx, client))
}

// describe turns a gRPC status into a readable error.
func describe(err error) error {
	if err == nil {
		return nil
	}
	if st, ok := status.FromError(err); ok {
		return fmt.Errorf("%s: %s", st.Code(), st.Message())
	}
	return err
}

// withDB opens the database for the admin commands.
func (a *App) withDB(cmd *cobra.Command, fn func(ctx context.Context, db *sql.DB) error) error {
	db, err := a.openDB(a.cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}
	defer db.Close()

	return fn(cmd.Context(), db)
}

// readSecret prompts on stderr and reads a secret without echo when stdin
// is a terminal, or a single line otherwise. The caller wipes the result.
func (a *App) readSecret(cmd *cobra.Command, prompt string) ([]byte, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt+": ")

	fd := int(os.Stdin.Fd())
	if cmd.InOrStdin() == os.Stdin && a.isTerminal(fd) {
		secret, err := a.readPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		return secret, err
	}

	if a.lines == nil {
		a.lines = bufio.NewReader(cmd.InOrStdin())
	}
	line, err := a.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
