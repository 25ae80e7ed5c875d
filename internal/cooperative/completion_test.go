package cooperative_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/procstream/internal/cooperative"
)

const (
	testCompletionExitCodeConstant = 7
	testAwaiterCountConstant       = 10
)

func TestCompletionResolvesOnceAndNotifiesInOrder(testInstance *testing.T) {
	loop := cooperative.NewLoop()
	require.NoError(testInstance, loop.Start())
	defer func() { _ = loop.Close() }()

	completion := cooperative.NewCompletion(loop)
	var notified []int
	var receivedCodes []int
	var finished sync.WaitGroup
	finished.Add(testAwaiterCountConstant)
	for awaiterIndex := 0; awaiterIndex < testAwaiterCountConstant; awaiterIndex++ {
		completion.OnComplete(func(exitCode int) {
			receivedCodes = append(receivedCodes, exitCode)
			notified = append(notified, awaiterIndex)
			finished.Done()
		})
	}

	_, resolved := completion.Result()
	require.False(testInstance, resolved)
	require.NoError(testInstance, completion.Resolve(testCompletionExitCodeConstant))
	require.ErrorIs(testInstance, completion.Resolve(1), cooperative.ErrCompletionAlreadyResolved)
	finished.Wait()

	expectedOrder := make([]int, 0, testAwaiterCountConstant)
	expectedCodes := make([]int, 0, testAwaiterCountConstant)
	for awaiterIndex := 0; awaiterIndex < testAwaiterCountConstant; awaiterIndex++ {
		expectedOrder = append(expectedOrder, awaiterIndex)
		expectedCodes = append(expectedCodes, testCompletionExitCodeConstant)
	}
	require.Equal(testInstance, expectedOrder, notified)
	require.Equal(testInstance, expectedCodes, receivedCodes)

	for attempt := 0; attempt < 2; attempt++ {
		exitCode, waitError := completion.Wait(context.Background())
		require.NoError(testInstance, waitError)
		require.Equal(testInstance, testCompletionExitCodeConstant, exitCode)
	}

	lateNotification := make(chan int, 1)
	completion.OnComplete(func(exitCode int) { lateNotification <- exitCode })
	require.Equal(testInstance, testCompletionExitCodeConstant, <-lateNotification)
}

func TestCompletionWaitHonorsContext(testInstance *testing.T) {
	completion := cooperative.NewCompletion(nil)
	waitContext, cancel := context.WithCancel(context.Background())
	cancel()

	_, waitError := completion.Wait(waitContext)

	require.ErrorIs(testInstance, waitError, context.Canceled)
}

func TestCompletionWithoutLoopRunsCallbacksInline(testInstance *testing.T) {
	completion := cooperative.NewCompletion(nil)
	var observed []int
	completion.OnComplete(func(exitCode int) { observed = append(observed, exitCode) })

	require.NoError(testInstance, completion.Resolve(testCompletionExitCodeConstant))

	require.Equal(testInstance, []int{testCompletionExitCodeConstant}, observed)
	select {
	case <-completion.Done():
	default:
		testInstance.Fatal("completion channel not closed")
	}
}
