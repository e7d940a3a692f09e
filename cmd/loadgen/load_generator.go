package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/library/core"
	"github.com/AntonStoeckl/library-lending/library/shell"
)

const operationTimeout = 5 * time.Second

// LoanService is the part of the loan manager the generator drives.
type LoanService interface {
	AddBook(ctx context.Context, title, author, genre string) (core.Book, error)
	Borrow(ctx context.Context, userID, bookID uuid.UUID) (core.LoanRecord, error)
	Return(ctx context.Context, actorID, loanID uuid.UUID) (core.LoanRecord, error)
	RateLoan(ctx context.Context, actorID, loanID uuid.UUID, rating int) (core.LoanRecord, error)
	ListOpenLoans(ctx context.Context, userID uuid.UUID) ([]core.LoanRecord, error)
	LoanHistory(ctx context.Context, userID uuid.UUID) ([]core.LoanRecord, error)
}

// Stats counts the executed scenarios. Rejections are loan rule violations, Failures everything else.
type Stats struct {
	Requests   int64
	Rejections int64
	Failures   int64
	Elapsed    time.Duration
}

// LoadGenerator fires borrow, return and rate scenarios at a fixed rate against a small pool of
// books and users, so that users compete for the same books.
type LoadGenerator struct {
	service LoanService
	config  Config
	logger  shell.Logger

	bookIDs []uuid.UUID
	userIDs []uuid.UUID

	requests   atomic.Int64
	rejections atomic.Int64
	failures   atomic.Int64
}

// NewLoadGenerator creates a generator. Call Seed before Run.
func NewLoadGenerator(service LoanService, config Config, logger shell.Logger) *LoadGenerator {
	return &LoadGenerator{
		service: service,
		config:  config,
		logger:  logger,
	}
}

// Seed adds the initial books to the catalog and creates the user pool.
func (lg *LoadGenerator) Seed(ctx context.Context) error {
	for i := 0; i < lg.config.InitialBooks; i++ {
		book, err := lg.service.AddBook(ctx, fmt.Sprintf("Load Test Book %d", i+1), "Test Author", "Test")
		if err != nil {
			return fmt.Errorf("seeding books failed: %w", err)
		}

		lg.bookIDs = append(lg.bookIDs, uuid.MustParse(book.ID))
	}

	for i := 0; i < lg.config.Users; i++ {
		lg.userIDs = append(lg.userIDs, uuid.New())
	}

	return nil
}

// Run executes scenarios until ctx is done, waits for the ones in flight and returns the totals.
func (lg *LoadGenerator) Run(ctx context.Context) Stats {
	startTime := time.Now()
	interval := time.Second / time.Duration(lg.config.Rate)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	reportTicker := time.NewTicker(lg.config.ReportInterval)
	defer reportTicker.Stop()

	lg.logger.Info("load generator started", "rate", lg.config.Rate, "books", len(lg.bookIDs), "users", len(lg.userIDs))

	var wg sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			stats := lg.stats(startTime)
			lg.logStats("load generator stopped", stats)

			return stats

		case <-reportTicker.C:
			lg.logStats("load generator stats", lg.stats(startTime))

		case <-ticker.C:
			wg.Add(1)
			go func() {
				defer wg.Done()
				lg.executeScenario(ctx)
			}()
		}
	}
}

func (lg *LoadGenerator) executeScenario(ctx context.Context) {
	// In flight scenarios finish even when the run is stopped.
	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), operationTimeout)
	defer cancel()

	scenario := lg.selectScenario()
	userID := lg.userIDs[rand.IntN(len(lg.userIDs))] //nolint:gosec // load generation, weak random is fine

	var err error
	switch scenario {
	case scenarioBorrow:
		bookID := lg.bookIDs[rand.IntN(len(lg.bookIDs))] //nolint:gosec // load generation, weak random is fine
		_, err = lg.service.Borrow(opCtx, userID, bookID)
	case scenarioReturn:
		err = lg.returnOneLoan(opCtx, userID)
	case scenarioRate:
		err = lg.rateOneLoan(opCtx, userID)
	}

	lg.requests.Add(1)

	switch {
	case err == nil:
	case core.IsBusinessError(err):
		lg.rejections.Add(1)
	default:
		lg.failures.Add(1)
		lg.logger.Error("scenario failed", "scenario", scenario, "error", err)
	}
}

func (lg *LoadGenerator) returnOneLoan(ctx context.Context, userID uuid.UUID) error {
	openLoans, err := lg.service.ListOpenLoans(ctx, userID)
	if err != nil || len(openLoans) == 0 {
		return err
	}

	loan := openLoans[rand.IntN(len(openLoans))] //nolint:gosec // load generation, weak random is fine
	_, err = lg.service.Return(ctx, userID, uuid.MustParse(loan.ID))

	return err
}

func (lg *LoadGenerator) rateOneLoan(ctx context.Context, userID uuid.UUID) error {
	history, err := lg.service.LoanHistory(ctx, userID)
	if err != nil {
		return err
	}

	for _, loan := range history {
		if loan.IsOpen() || loan.Rating != nil {
			continue
		}

		rating := core.MinRating + rand.IntN(core.MaxRating-core.MinRating+1) //nolint:gosec // load generation, weak random is fine
		_, err = lg.service.RateLoan(ctx, userID, uuid.MustParse(loan.ID), rating)

		return err
	}

	return nil
}

func (lg *LoadGenerator) selectScenario() string {
	r := rand.IntN(100) //nolint:gosec // load generation, weak random is fine

	switch {
	case r < lg.config.ScenarioWeights[0]:
		return scenarioBorrow
	case r < lg.config.ScenarioWeights[0]+lg.config.ScenarioWeights[1]:
		return scenarioReturn
	default:
		return scenarioRate
	}
}

func (lg *LoadGenerator) stats(startTime time.Time) Stats {
	return Stats{
		Requests:   lg.requests.Load(),
		Rejections: lg.rejections.Load(),
		Failures:   lg.failures.Load(),
		Elapsed:    time.Since(startTime),
	}
}

func (lg *LoadGenerator) logStats(msg string, stats Stats) {
	rps := 0.0
	if seconds := stats.Elapsed.Seconds(); seconds > 0 {
		rps = float64(stats.Requests) / seconds
	}

	lg.logger.Info(msg,
		"requests", stats.Requests,
		"rejections", stats.Rejections,
		"failures", stats.Failures,
		"elapsed", stats.Elapsed.Truncate(time.Second).String(),
		"requests_per_second", fmt.Sprintf("%.1f", rps),
	)
}
