package postgres

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlgate/pkg/consts"
)

type (
	// Client runs queries against PostgreSQL through a lazily created
	// connection pool.
	//
	// The pool is created on first use and shared by every query made through
	// the Client. Creating it is retried with exponential backoff; running a
	// query never is. A Client is safe for concurrent use and must be closed
	// when no longer needed.
	//
	// Example usage:
	//
	//	client := postgres.New(postgres.Config{URL: "postgres://localhost:5432/postgres"})
	//	defer client.Close()
	//
	//	result, err := client.ReadonlyQuery(ctx, "SELECT id, email FROM users WHERE id = $1", 42)
	//	if err != nil {
	//		var permErr *postgres.PermissionError
	//		if errors.As(err, &permErr) {
	//			// the role cannot read users
	//		}
	//		return err
	//	}
	//
	//	fmt.Println(result.Count, result.Status) // 1 SELECT 1
	Client struct {
		config Config
		logger *slog.Logger

		mu   sync.Mutex
		pool *pgxpool.Pool
	}

	// Config contains configuration options for creating a new Client.
	Config struct {
		// URL is the connection string, in URL or keyword/value form.
		URL string

		// MinConns is the number of connections kept open. Defaults to 1.
		MinConns int32

		// MaxConns caps the number of pooled connections. Defaults to 10.
		MaxConns int32

		// ConnectAttempts is how many times creating the pool is tried before
		// giving up. Defaults to 3.
		ConnectAttempts int

		// RetryInitialInterval is the wait after the first failed attempt.
		// Defaults to 4s.
		RetryInitialInterval time.Duration

		// RetryMaxInterval caps the wait between attempts. Defaults to 15s.
		RetryMaxInterval time.Duration

		// Logger receives connection lifecycle messages. Defaults to
		// slog.Default().
		Logger *slog.Logger
	}

	// QueryResult holds the rows returned by a query along with its command
	// status.
	QueryResult struct {
		// Rows maps column names to values, one map per row.
		Rows []map[string]any

		// Count is the number of rows returned, or affected for statements
		// that return none.
		Count int

		// Status is the command tag reported by the server, e.g. "SELECT 3".
		Status string
	}
)

// New creates a Client from config. No connection is made until the first
// query.
func New(config Config) *Client {
	if config.MinConns <= 0 {
		config.MinConns = consts.DefaultMinConns
	}
	if config.MaxConns <= 0 {
		config.MaxConns = consts.DefaultMaxConns
	}
	if config.MaxConns < config.MinConns {
		config.MaxConns = config.MinConns
	}
	if config.ConnectAttempts <= 0 {
		config.ConnectAttempts = consts.DefaultConnectAttempts
	}
	if config.RetryInitialInterval <= 0 {
		config.RetryInitialInterval = consts.DefaultRetryInitialInterval
	}
	if config.RetryMaxInterval <= 0 {
		config.RetryMaxInterval = consts.DefaultRetryMaxInterval
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		config: config,
		logger: logger,
	}
}

// Pool returns the connection pool, creating it on first use.
//
// Creation is attempted up to Config.ConnectAttempts times with exponential
// backoff between attempts. If every attempt fails a *ConnectionError is
// returned and the next call starts over.
func (c *Client) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool != nil {
		return c.pool, nil
	}

	poolConfig, err := pgxpool.ParseConfig(c.config.URL)
	if err != nil {
		return nil, &ConnectionError{cause: errors.Wrap(err, "invalid connection string")}
	}
	poolConfig.MinConns = c.config.MinConns
	poolConfig.MaxConns = c.config.MaxConns

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.RetryInitialInterval
	b.MaxInterval = c.config.RetryMaxInterval
	b.MaxElapsedTime = 0

	retries := uint64(c.config.ConnectAttempts - 1)
	policy := backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)

	connect := func() error {
		c.logger.Debug("Creating connection pool", "host", poolConfig.ConnConfig.Host, "database", poolConfig.ConnConfig.Database)

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			ConnectAttemptsTotal.WithLabelValues("failed").Inc()
			return err
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			ConnectAttemptsTotal.WithLabelValues("failed").Inc()
			return err
		}

		ConnectAttemptsTotal.WithLabelValues("ok").Inc()
		c.pool = pool
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("Failed to connect to database, retrying", "err", err, "wait", wait)
	}

	if err := backoff.RetryNotify(connect, policy, notify); err != nil {
		c.logger.Error("Failed to connect to database", "err", err)
		return nil, &ConnectionError{cause: err}
	}

	c.logger.Info("Created connection pool", "min_conns", c.config.MinConns, "max_conns", c.config.MaxConns)
	return c.pool, nil
}

// Close releases every pooled connection. The Client may be used again
// afterwards, in which case a new pool is created.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool == nil {
		return
	}

	c.pool.Close()
	c.pool = nil
	c.logger.Info("Closed connection pool")
}

// ReadonlyQuery runs query inside a READ ONLY transaction and returns every
// row it produces. The transaction is always rolled back, even on success, so
// the session keeps no locks or side effects.
//
// Failures are returned as *ConnectionError, *PermissionError or
// *QueryError.
func (c *Client) ReadonlyQuery(ctx context.Context, query string, args ...any) (*QueryResult, error) {
	result, err := c.readonlyQuery(ctx, query, args...)
	QueriesTotal.WithLabelValues(modeReadonly, outcome(err)).Inc()

	return result, err
}

func (c *Client) readonlyQuery(ctx context.Context, query string, args ...any) (*QueryResult, error) {
	pool, err := c.Pool(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, c.queryFailed(err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, c.queryFailed(err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, c.queryFailed(err)
	}

	if records == nil {
		records = []map[string]any{}
	}

	return &QueryResult{
		Rows:   records,
		Count:  len(records),
		Status: rows.CommandTag().String(),
	}, nil
}

// ExecInTx runs statements in order inside a single transaction, committing
// only if all of them succeed. Each statement is sent without parameters, so
// it may itself contain several semicolon separated statements.
//
// The returned result describes the first statement. Failures are returned as
// *ConnectionError, *PermissionError or *QueryError.
func (c *Client) ExecInTx(ctx context.Context, statements ...string) (*QueryResult, error) {
	result, err := c.execInTx(ctx, statements...)
	QueriesTotal.WithLabelValues(modeExec, outcome(err)).Inc()

	return result, err
}

func (c *Client) execInTx(ctx context.Context, statements ...string) (*QueryResult, error) {
	if len(statements) == 0 {
		return nil, &QueryError{cause: errors.New("no statements to execute")}
	}

	pool, err := c.Pool(ctx)
	if err != nil {
		return nil, err
	}

	var result *QueryResult
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for i, stmt := range statements {
			tag, err := tx.Exec(ctx, stmt)
			if err != nil {
				return errors.Wrapf(err, "failed to execute statement %d", i+1)
			}

			if i == 0 {
				result = tagResult(tag)
			}
		}

		return nil
	})
	if err != nil {
		return nil, c.queryFailed(err)
	}

	return result, nil
}

func (c *Client) queryFailed(err error) error {
	err = classifyError(err)
	c.logger.Error("Database query failed", "err", err)

	return err
}

func tagResult(tag pgconn.CommandTag) *QueryResult {
	return &QueryResult{
		Rows:   []map[string]any{},
		Count:  int(tag.RowsAffected()),
		Status: tag.String(),
	}
}
