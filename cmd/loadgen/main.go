// Command loadgen drives borrow, return and rate traffic through the loan manager, straight on the
// configured event store. It is meant for watching retries and conflicts under contention.
//
// Database and logging settings come from the same LIBRARY_* variables as librarysvc.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/AntonStoeckl/library-lending/library/loanmanager"
	"github.com/AntonStoeckl/library-lending/library/shell/config"
	"github.com/AntonStoeckl/library-lending/library/shell/logging"
	"github.com/AntonStoeckl/library-lending/library/shell/storage"
)

const (
	defaultRate            = 30
	defaultInitialBooks    = 50
	defaultUsers           = 20
	defaultScenarioWeights = "60,30,10" // borrow, return, rate

	scenarioBorrow = "borrow"
	scenarioReturn = "return"
	scenarioRate   = "rate"
)

// ErrInvalidWeights is returned when the scenario weights flag cannot be used.
var ErrInvalidWeights = errors.New("invalid scenario weights")

type Config struct {
	Rate            int
	InitialBooks    int
	Users           int
	Duration        time.Duration
	ReportInterval  time.Duration
	ScenarioWeights []int
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("loadgen failed: %v", err)
	}
}

func run() error {
	genConfig, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if genConfig.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, genConfig.Duration)
		defer cancel()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("building logger failed: %w", err)
	}
	defer logger.Sync()

	store, closeStore, err := storage.Open(ctx, cfg, logger, storage.Collectors{})
	if err != nil {
		return err
	}
	defer closeStore()

	manager, err := loanmanager.NewManager(store,
		loanmanager.WithLoanPeriodDays(cfg.LoanPeriodDays),
		loanmanager.WithMaxConcurrentLoans(cfg.MaxConcurrentLoans),
		loanmanager.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	generator := NewLoadGenerator(manager, genConfig, logger)
	if err = generator.Seed(ctx); err != nil {
		return err
	}

	generator.Run(ctx)

	return nil
}

func parseFlags(args []string) (Config, error) {
	flags := flag.NewFlagSet("loadgen", flag.ContinueOnError)

	rate := flags.Int("rate", defaultRate, "Scenarios per second")
	initialBooks := flags.Int("initial-books", defaultInitialBooks, "Number of books added before the run")
	users := flags.Int("users", defaultUsers, "Number of users competing for the books")
	duration := flags.Duration("duration", 0, "Run time, 0 runs until interrupted")
	reportInterval := flags.Duration("report-interval", 10*time.Second, "Interval of the stats log line")
	scenarioWeights := flags.String("scenario-weights", defaultScenarioWeights, "Comma-separated weights for borrow,return,rate")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	weights, err := parseScenarioWeights(*scenarioWeights)
	if err != nil {
		return Config{}, err
	}

	if *rate <= 0 || *initialBooks <= 0 || *users <= 0 || *reportInterval <= 0 {
		return Config{}, fmt.Errorf("%w: rate, initial-books, users and report-interval must be positive", config.ErrInvalidConfig)
	}

	return Config{
		Rate:            *rate,
		InitialBooks:    *initialBooks,
		Users:           *users,
		Duration:        *duration,
		ReportInterval:  *reportInterval,
		ScenarioWeights: weights,
	}, nil
}

func parseScenarioWeights(weightsStr string) ([]int, error) {
	parts := strings.Split(weightsStr, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 weights, got %d", ErrInvalidWeights, len(parts))
	}

	weights := make([]int, 3)
	total := 0
	for i, part := range parts {
		weight, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidWeights, part)
		}
		if weight < 0 || weight > 100 {
			return nil, fmt.Errorf("%w: weight %d out of range [0, 100]", ErrInvalidWeights, weight)
		}
		weights[i] = weight
		total += weight
	}

	if total != 100 {
		return nil, fmt.Errorf("%w: weights must sum to 100, got %d", ErrInvalidWeights, total)
	}

	return weights, nil
}
