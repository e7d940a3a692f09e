package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/eventstore/memengine"
	"github.com/AntonStoeckl/library-lending/library/loanmanager"
	"github.com/AntonStoeckl/library-lending/testutil/spies"
)

func Test_LoadGenerator_Run_OnMemoryStore_HasNoFailures(t *testing.T) {
	// arrange
	es, err := memengine.NewEventStore()
	require.NoError(t, err)

	manager, err := loanmanager.NewManager(es)
	require.NoError(t, err)

	generator := NewLoadGenerator(manager, Config{
		Rate:            200,
		InitialBooks:    5,
		Users:           3,
		ReportInterval:  time.Hour,
		ScenarioWeights: []int{60, 30, 10},
	}, spies.NewLoggerSpy())
	require.NoError(t, generator.Seed(t.Context()))

	ctx, cancel := context.WithTimeout(t.Context(), 300*time.Millisecond)
	defer cancel()

	// act
	stats := generator.Run(ctx)

	// assert
	assert.Positive(t, stats.Requests)
	assert.Zero(t, stats.Failures)
	assert.LessOrEqual(t, stats.Rejections, stats.Requests)
}

func Test_ParseScenarioWeights(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{name: "default", input: "60,30,10", want: []int{60, 30, 10}},
		{name: "spaces", input: " 100 , 0 , 0 ", want: []int{100, 0, 0}},
		{name: "too few", input: "50,50", wantErr: true},
		{name: "not a number", input: "a,50,50", wantErr: true},
		{name: "sum off", input: "50,30,10", wantErr: true},
		{name: "out of range", input: "120,-10,-10", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			weights, err := parseScenarioWeights(tc.input)

			// assert
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWeights)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, weights)
		})
	}
}

func Test_ParseFlags_RejectsNonPositiveRate(t *testing.T) {
	// act
	_, err := parseFlags([]string{"-rate", "0"})

	// assert
	assert.Error(t, err)
}
