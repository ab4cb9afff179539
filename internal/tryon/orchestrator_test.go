package tryon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/tryon-service/internal/progress"
)

type fakeProvider struct {
	mu          sync.Mutex
	modelCheck  InputCheckResult
	clothCheck  InputCheckResult
	checkErr    error
	createErr   error
	getErr      error
	states      map[string][]TaskState
	polls       map[string]int
	nextTaskSeq int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		modelCheck: InputCheckResult{Good: true},
		clothCheck: InputCheckResult{Good: true},
		states:     make(map[string][]TaskState),
		polls:      make(map[string]int),
	}
}

func (f *fakeProvider) CheckModelImage(context.Context, ImageUpload) (*InputCheckResult, error) {
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	check := f.modelCheck
	return &check, nil
}

func (f *fakeProvider) CheckClothImage(context.Context, ImageUpload) (*InputCheckResult, error) {
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	check := f.clothCheck
	return &check, nil
}

func (f *fakeProvider) CreateTask(context.Context, CreateTaskInput) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextTaskSeq++
	return fmt.Sprintf("task-%d", f.nextTaskSeq), nil
}

func (f *fakeProvider) GetTask(_ context.Context, taskID string) (*TaskState, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	seq := f.states[taskID]
	idx := f.polls[taskID]
	f.polls[taskID]++
	if idx >= len(seq) {
		idx = len(seq) - 1
	}
	state := seq[idx]
	state.TaskID = taskID
	return &state, nil
}

func (f *fakeProvider) script(taskID string, states ...TaskState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[taskID] = states
}

func testInput() CreateTaskInput {
	return CreateTaskInput{
		ModelImage: ImageUpload{FileName: "model.jpg", ContentType: "image/jpeg", Data: []byte("model")},
		ClothImage: ImageUpload{FileName: "cloth.png", ContentType: "image/png", Data: []byte("cloth")},
		ClothType:  "upper",
	}
}

func newTestOrchestrator(provider Provider, store progress.Store, maxAttempts int) *Orchestrator {
	return NewOrchestrator(provider, store, zap.NewNop(), time.Millisecond, maxAttempts)
}

func TestSubmitRejectsMissingImages(t *testing.T) {
	o := newTestOrchestrator(newFakeProvider(), progress.NewMemoryStore(), 5)

	_, err := o.Submit(context.Background(), CreateTaskInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestSubmitRejectsBadModelImage(t *testing.T) {
	provider := newFakeProvider()
	provider.modelCheck = InputCheckResult{Good: false, Reason: "face not visible"}
	o := newTestOrchestrator(provider, progress.NewMemoryStore(), 5)

	_, err := o.Submit(context.Background(), testInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "face not visible")
}

func TestSubmitFailureLeavesNoProgressEntry(t *testing.T) {
	provider := newFakeProvider()
	provider.createErr = errors.New("upstream 500")
	store := progress.NewMemoryStore()
	o := newTestOrchestrator(provider, store, 5)

	_, err := o.Submit(context.Background(), testInput())
	require.Error(t, err)

	var subErr *SubmissionError
	require.True(t, errors.As(err, &subErr))

	// A failed submission must never leave a trackable task behind.
	_, getErr := store.Get(context.Background(), "task-1")
	assert.True(t, errors.Is(getErr, progress.ErrNotFound))
}

func TestAwaitCompletesAfterPolling(t *testing.T) {
	provider := newFakeProvider()
	store := progress.NewMemoryStore()
	o := newTestOrchestrator(provider, store, 10)

	taskID, err := o.Submit(context.Background(), testInput())
	require.NoError(t, err)

	provider.script(taskID,
		TaskState{Status: StatusProcessing, Progress: 30},
		TaskState{Status: StatusProcessing, Progress: 70},
		TaskState{Status: StatusCompleted, Progress: 100, DownloadURL: "https://cdn.example.com/result.jpg"},
	)

	outcome := o.Await(context.Background(), taskID)
	assert.Equal(t, OutcomeCompleted, outcome.State)
	assert.Equal(t, "https://cdn.example.com/result.jpg", outcome.ImageURL)
	assert.Empty(t, outcome.Reason)

	entry, err := store.Get(context.Background(), taskID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, entry.Status)
	assert.Equal(t, 100, entry.Progress)
	assert.Equal(t, "https://cdn.example.com/result.jpg", entry.DownloadURL)
}

func TestAwaitReportsProviderFailure(t *testing.T) {
	provider := newFakeProvider()
	store := progress.NewMemoryStore()
	o := newTestOrchestrator(provider, store, 10)

	taskID, err := o.Submit(context.Background(), testInput())
	require.NoError(t, err)

	provider.script(taskID,
		TaskState{Status: StatusProcessing, Progress: 10},
		TaskState{Status: StatusFailed, Progress: 10, Error: "garment occluded"},
	)

	outcome := o.Await(context.Background(), taskID)
	assert.Equal(t, OutcomeFailed, outcome.State)
	assert.Equal(t, "garment occluded", outcome.Reason)
	assert.Empty(t, outcome.ImageURL)

	entry, err := store.Get(context.Background(), taskID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, entry.Status)
	assert.Equal(t, "garment occluded", entry.Error)
}

func TestAwaitTimesOutWhenNeverTerminal(t *testing.T) {
	provider := newFakeProvider()
	store := progress.NewMemoryStore()
	o := newTestOrchestrator(provider, store, 4)

	taskID, err := o.Submit(context.Background(), testInput())
	require.NoError(t, err)

	provider.script(taskID, TaskState{Status: StatusProcessing, Progress: 50})

	outcome := o.Await(context.Background(), taskID)
	assert.Equal(t, OutcomeTimedOut, outcome.State)
	assert.Contains(t, outcome.Reason, "timed out")

	entry, err := store.Get(context.Background(), taskID)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, entry.Status)
	assert.Equal(t, 50, entry.Progress)
	assert.NotEmpty(t, entry.Error)
}

func TestAwaitStopsOnContextCancel(t *testing.T) {
	provider := newFakeProvider()
	store := progress.NewMemoryStore()
	o := NewOrchestrator(provider, store, zap.NewNop(), 50*time.Millisecond, 60)

	taskID, err := o.Submit(context.Background(), testInput())
	require.NoError(t, err)
	provider.script(taskID, TaskState{Status: StatusProcessing, Progress: 5})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := o.Await(ctx, taskID)
	assert.Equal(t, OutcomeTimedOut, outcome.State)
	assert.Contains(t, outcome.Reason, "canceled")

	// The final observation is still recorded despite the dead context.
	entry, err := store.Get(context.Background(), taskID)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.Error)
}

func TestAwaitHandlesConcurrentTasksIndependently(t *testing.T) {
	provider := newFakeProvider()
	store := progress.NewMemoryStore()
	o := newTestOrchestrator(provider, store, 10)

	first, err := o.Submit(context.Background(), testInput())
	require.NoError(t, err)
	second, err := o.Submit(context.Background(), testInput())
	require.NoError(t, err)

	provider.script(first,
		TaskState{Status: StatusProcessing, Progress: 40},
		TaskState{Status: StatusCompleted, Progress: 100, DownloadURL: "https://cdn.example.com/a.jpg"},
	)
	provider.script(second,
		TaskState{Status: StatusFailed, Error: "bad garment"},
	)

	var wg sync.WaitGroup
	outcomes := make(map[string]Outcome)
	var mu sync.Mutex
	for _, taskID := range []string{first, second} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			outcome := o.Await(context.Background(), id)
			mu.Lock()
			outcomes[id] = outcome
			mu.Unlock()
		}(taskID)
	}
	wg.Wait()

	assert.Equal(t, OutcomeCompleted, outcomes[first].State)
	assert.Equal(t, OutcomeFailed, outcomes[second].State)

	firstEntry, err := store.Get(context.Background(), first)
	require.NoError(t, err)
	secondEntry, err := store.Get(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, firstEntry.Status)
	assert.Equal(t, StatusFailed, secondEntry.Status)
}

func TestBudgetCoversAllAttempts(t *testing.T) {
	o := NewOrchestrator(newFakeProvider(), progress.NewMemoryStore(), zap.NewNop(), 2*time.Second, 60)
	assert.Equal(t, 120*time.Second+30*time.Second, o.Budget())
}
