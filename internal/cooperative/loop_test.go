package cooperative_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/procstream/internal/cooperative"
)

const (
	testCallbackCountConstant = 100
	testWaitTimeout           = 5 * time.Second
)

func TestLoopRunsCallbacksInScheduleOrder(testInstance *testing.T) {
	loop := cooperative.NewLoop()
	require.NoError(testInstance, loop.Start())
	defer func() { _ = loop.Close() }()

	var observed []int
	var finished sync.WaitGroup
	finished.Add(testCallbackCountConstant)
	for callbackIndex := 0; callbackIndex < testCallbackCountConstant; callbackIndex++ {
		require.NoError(testInstance, loop.Call(func() {
			observed = append(observed, callbackIndex)
			finished.Done()
		}))
	}
	finished.Wait()

	require.Len(testInstance, observed, testCallbackCountConstant)
	for callbackIndex, value := range observed {
		require.Equal(testInstance, callbackIndex, value)
	}
}

func TestLoopLifecycle(testInstance *testing.T) {
	loop := cooperative.NewLoop()
	require.False(testInstance, loop.Running())

	executed := make(chan struct{})
	require.NoError(testInstance, loop.Call(func() { close(executed) }))
	require.NoError(testInstance, loop.Start())
	require.NoError(testInstance, loop.Start())
	require.True(testInstance, loop.Running())

	select {
	case <-executed:
	case <-time.After(testWaitTimeout):
		testInstance.Fatal("callback scheduled before Start did not run")
	}

	require.NoError(testInstance, loop.Close())
	require.ErrorIs(testInstance, loop.Close(), cooperative.ErrLoopClosed)
	require.ErrorIs(testInstance, loop.Call(func() {}), cooperative.ErrLoopClosed)
	require.ErrorIs(testInstance, loop.Start(), cooperative.ErrLoopClosed)
	require.False(testInstance, loop.Running())
	require.True(testInstance, loop.Closed())

	select {
	case <-loop.Done():
	case <-time.After(testWaitTimeout):
		testInstance.Fatal("loop goroutine did not stop")
	}
}

func TestLoopProviderReuseAndReplacement(testInstance *testing.T) {
	provider := cooperative.NewLoopProvider()
	require.Nil(testInstance, provider.Current())

	firstLoop, acquireError := provider.Acquire()
	require.NoError(testInstance, acquireError)
	require.True(testInstance, firstLoop.Running())

	reusedLoop, acquireError := provider.Acquire()
	require.NoError(testInstance, acquireError)
	require.Same(testInstance, firstLoop, reusedLoop)

	require.NoError(testInstance, firstLoop.Close())
	replacementLoop, acquireError := provider.Acquire()
	require.NoError(testInstance, acquireError)
	require.NotSame(testInstance, firstLoop, replacementLoop)
	require.True(testInstance, replacementLoop.Running())

	idleLoop := cooperative.NewLoop()
	provider.Install(idleLoop)
	require.True(testInstance, replacementLoop.Closed())
	<-replacementLoop.Done()

	afterIdleLoop, acquireError := provider.Acquire()
	require.NoError(testInstance, acquireError)
	require.NotSame(testInstance, idleLoop, afterIdleLoop)
	require.Same(testInstance, afterIdleLoop, provider.Current())
	require.True(testInstance, idleLoop.Closed())

	require.NoError(testInstance, provider.Close())
	require.NoError(testInstance, provider.Close())
	require.True(testInstance, afterIdleLoop.Closed())
}

func TestLoopProviderReinstallKeepsLoop(testInstance *testing.T) {
	provider := cooperative.NewLoopProvider()
	installedLoop := cooperative.NewLoop()
	require.NoError(testInstance, installedLoop.Start())

	provider.Install(installedLoop)
	provider.Install(installedLoop)
	require.True(testInstance, installedLoop.Running())

	acquiredLoop, acquireError := provider.Acquire()
	require.NoError(testInstance, acquireError)
	require.Same(testInstance, installedLoop, acquiredLoop)
	require.NoError(testInstance, provider.Close())
}
