package loanmanager

import (
	"github.com/AntonStoeckl/library-lending/library/core"
	"github.com/AntonStoeckl/library-lending/library/features/command/addbook"
	"github.com/AntonStoeckl/library-lending/library/features/command/borrowbook"
	"github.com/AntonStoeckl/library-lending/library/features/command/rateloan"
	"github.com/AntonStoeckl/library-lending/library/features/command/returnbook"
	"github.com/AntonStoeckl/library-lending/library/features/query/bookdetails"
	"github.com/AntonStoeckl/library-lending/library/features/query/catalog"
	"github.com/AntonStoeckl/library-lending/library/features/query/loanhistory"
	"github.com/AntonStoeckl/library-lending/library/features/query/openloans"
	"github.com/AntonStoeckl/library-lending/library/features/query/overdueloans"
	"github.com/AntonStoeckl/library-lending/library/shell"
	"github.com/AntonStoeckl/library-lending/library/shell/observable"
)

func (m *Manager) buildCommandHandlers(eventStore shell.EventStore) error {
	var err error

	m.addBook, err = observable.NewCommandWrapper[addbook.Command, core.Book](
		addbook.NewCommandHandler(eventStore, addbook.WithRetryOptions(m.retryOptions...)),
		commandOptions[addbook.Command, core.Book](m)...,
	)
	if err != nil {
		return err
	}

	m.borrowBook, err = observable.NewCommandWrapper[borrowbook.Command, core.LoanRecord](
		borrowbook.NewCommandHandler(
			eventStore,
			borrowbook.WithLoanPeriodDays(m.loanPeriodDays),
			borrowbook.WithMaxConcurrentLoans(m.maxConcurrentLoans),
			borrowbook.WithRetryOptions(m.retryOptions...),
		),
		commandOptions[borrowbook.Command, core.LoanRecord](m)...,
	)
	if err != nil {
		return err
	}

	m.returnBook, err = observable.NewCommandWrapper[returnbook.Command, core.LoanRecord](
		returnbook.NewCommandHandler(eventStore, returnbook.WithRetryOptions(m.retryOptions...)),
		commandOptions[returnbook.Command, core.LoanRecord](m)...,
	)
	if err != nil {
		return err
	}

	m.rateLoan, err = observable.NewCommandWrapper[rateloan.Command, core.LoanRecord](
		rateloan.NewCommandHandler(eventStore, rateloan.WithRetryOptions(m.retryOptions...)),
		commandOptions[rateloan.Command, core.LoanRecord](m)...,
	)

	return err
}

func (m *Manager) buildQueryHandlers(eventStore shell.QueriesEvents) error {
	var err error

	m.openLoans, err = observable.NewQueryWrapper[openloans.Query, openloans.OpenLoans](
		openloans.NewQueryHandler(eventStore),
		queryOptions[openloans.Query, openloans.OpenLoans](m)...,
	)
	if err != nil {
		return err
	}

	m.loanHistory, err = observable.NewQueryWrapper[loanhistory.Query, loanhistory.LoanHistory](
		loanhistory.NewQueryHandler(eventStore),
		queryOptions[loanhistory.Query, loanhistory.LoanHistory](m)...,
	)
	if err != nil {
		return err
	}

	m.overdueLoans, err = observable.NewQueryWrapper[overdueloans.Query, overdueloans.OverdueLoans](
		overdueloans.NewQueryHandler(eventStore),
		queryOptions[overdueloans.Query, overdueloans.OverdueLoans](m)...,
	)
	if err != nil {
		return err
	}

	m.bookDetails, err = observable.NewQueryWrapper[bookdetails.Query, bookdetails.BookDetails](
		bookdetails.NewQueryHandler(eventStore),
		queryOptions[bookdetails.Query, bookdetails.BookDetails](m)...,
	)
	if err != nil {
		return err
	}

	m.catalog, err = observable.NewQueryWrapper[catalog.Query, catalog.Catalog](
		catalog.NewQueryHandler(eventStore),
		queryOptions[catalog.Query, catalog.Catalog](m)...,
	)

	return err
}

func commandOptions[C shell.Command, R any](m *Manager) []observable.CommandOption[C, R] {
	var opts []observable.CommandOption[C, R]

	if m.metricsCollector != nil {
		opts = append(opts, observable.WithCommandMetrics[C, R](m.metricsCollector))
	}

	if m.tracingCollector != nil {
		opts = append(opts, observable.WithCommandTracing[C, R](m.tracingCollector))
	}

	if m.contextualLogger != nil {
		opts = append(opts, observable.WithCommandContextualLogging[C, R](m.contextualLogger))
	}

	if m.logger != nil {
		opts = append(opts, observable.WithCommandLogging[C, R](m.logger))
	}

	return opts
}

func queryOptions[Q shell.Query, R shell.QueryResult](m *Manager) []observable.QueryOption[Q, R] {
	var opts []observable.QueryOption[Q, R]

	if m.metricsCollector != nil {
		opts = append(opts, observable.WithQueryMetrics[Q, R](m.metricsCollector))
	}

	if m.tracingCollector != nil {
		opts = append(opts, observable.WithQueryTracing[Q, R](m.tracingCollector))
	}

	if m.contextualLogger != nil {
		opts = append(opts, observable.WithQueryContextualLogging[Q, R](m.contextualLogger))
	}

	if m.logger != nil {
		opts = append(opts, observable.WithQueryLogging[Q, R](m.logger))
	}

	return opts
}
