package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hspware/hospital_billing_app/internal/apperrors"
	"github.com/hspware/hospital_billing_app/internal/core/domain"
	portsrepo "github.com/hspware/hospital_billing_app/internal/core/ports/repositories"
	"github.com/hspware/hospital_billing_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeCounterRepo is an in-memory counter store whose increment is atomic
// under a mutex, mirroring the single-statement upsert the real repository
// performs.
type fakeCounterRepo struct {
	mu       sync.Mutex
	counters map[string]int64
}

var _ portsrepo.CounterRepositoryFacade = (*fakeCounterRepo)(nil)

func newFakeCounterRepo() *fakeCounterRepo {
	return &fakeCounterRepo{counters: make(map[string]int64)}
}

func (f *fakeCounterRepo) NextSequenceValue(ctx context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[name]++
	return f.counters[name], nil
}

func (f *fakeCounterRepo) CurrentSequenceValue(ctx context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counters[name], nil
}

func (f *fakeCounterRepo) ResetCounter(ctx context.Context, name string, newValue int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[name] = newValue
	return nil
}

func TestCounterService_NextSequenceValue_StartsAtOne(t *testing.T) {
	svc := services.NewCounterService(newFakeCounterRepo())

	first, err := svc.NextSequenceValue(context.Background(), domain.CounterBillNo)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := svc.NextSequenceValue(context.Background(), domain.CounterBillNo)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second)
}

func TestCounterService_NextSequenceValue_IndependentCounters(t *testing.T) {
	svc := services.NewCounterService(newFakeCounterRepo())

	_, err := svc.NextSequenceValue(context.Background(), domain.CounterPatientNumber)
	require.NoError(t, err)
	_, err = svc.NextSequenceValue(context.Background(), domain.CounterPatientNumber)
	require.NoError(t, err)

	ipd, err := svc.NextSequenceValue(context.Background(), domain.CounterIPDNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ipd, "each named counter advances independently")
}

func TestCounterService_NextSequenceValue_ConcurrentUniqueness(t *testing.T) {
	svc := services.NewCounterService(newFakeCounterRepo())

	const workers = 50
	results := make(chan int64, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := svc.NextSequenceValue(context.Background(), domain.CounterBillNo)
			assert.NoError(t, err)
			results <- value
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, workers)
	var maxValue int64
	for value := range results {
		assert.False(t, seen[value], "value %d issued twice", value)
		seen[value] = true
		if value > maxValue {
			maxValue = value
		}
	}
	assert.Len(t, seen, workers)
	assert.Equal(t, int64(workers), maxValue, "no values skipped")
}

func TestCounterService_NextSequenceValue_EmptyName(t *testing.T) {
	svc := services.NewCounterService(newFakeCounterRepo())

	_, err := svc.NextSequenceValue(context.Background(), "  ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCounterService_CurrentSequenceValue_AbsentReturnsZero(t *testing.T) {
	svc := services.NewCounterService(newFakeCounterRepo())

	value, err := svc.CurrentSequenceValue(context.Background(), "neverUsed")
	require.NoError(t, err)
	assert.Equal(t, int64(0), value)
}

func TestCounterService_ResetCounter(t *testing.T) {
	svc := services.NewCounterService(newFakeCounterRepo())

	require.NoError(t, svc.ResetCounter(context.Background(), domain.CounterOPDNumber, 500))

	next, err := svc.NextSequenceValue(context.Background(), domain.CounterOPDNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(501), next)
}

func TestCounterService_ResetCounter_NegativeValue(t *testing.T) {
	svc := services.NewCounterService(newFakeCounterRepo())

	err := svc.ResetCounter(context.Background(), domain.CounterOPDNumber, -1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCounterService_NextSequenceValue_RepoError(t *testing.T) {
	mockRepo := new(MockCounterRepository)
	svc := services.NewCounterService(mockRepo)

	repoErr := errors.New("connection refused")
	mockRepo.On("NextSequenceValue", mock.Anything, domain.CounterBillNo).Return(int64(0), repoErr)

	_, err := svc.NextSequenceValue(context.Background(), domain.CounterBillNo)
	assert.ErrorIs(t, err, repoErr)
	mockRepo.AssertExpectations(t)
}
