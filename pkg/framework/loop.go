package framework

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the iteration period of a Loop.
const DefaultInterval = 100 * time.Millisecond

// Loop runs controllers every Interval in priority order, so a supervisor
// at PrLvSupervise sees the reports of all others from the same iteration.
type Loop struct {
	Interval time.Duration

	controllers [PriorityLevels][]Controller
	runners     []Runnable
	overruns    uint64

	wakeUpCh chan struct{}
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval, wakeUpCh: make(chan struct{}, 1)}
}

// Add lets each adder install itself.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, a := range adders {
		a.AddToLoop(l)
	}
	return l
}

// AddController registers controllers to the loop. Controllers which are
// also Runnable are started together with the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	l.controllers[priorityLevel] = append(l.controllers[priorityLevel], ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnables started together with the loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Overruns returns how many iterations took longer than Interval.
func (l *Loop) Overruns() uint64 {
	return atomic.LoadUint64(&l.overruns)
}

// Run implements Runnable. A failing Runnable of the loop stops it.
func (l *Loop) Run(ctx context.Context) error {
	runner := NewRunnerWith(ctx).Go(l.runners...)

	interval := l.interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-runner.Context.Done():
			if err := runner.Wait(); err != nil {
				return err
			}
			return ctx.Err()
		case <-ticker.C:
			l.runIteration(runner.Context)
		case <-l.wakeUpCh:
			l.runIteration(runner.Context)
		}
	}
}

// RunOnce runs a single iteration synchronously.
func (l *Loop) RunOnce(ctx context.Context) {
	l.runIteration(ctx)
}

// TriggerNext implements ControlContext.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

func (l *Loop) interval() time.Duration {
	if l.Interval <= 0 {
		return DefaultInterval
	}
	return l.Interval
}

type loopIteration struct {
	*Loop
	ctx           context.Context
	time          time.Time
	priorityLevel int
}

func (l *Loop) runIteration(ctx context.Context) {
	iter := &loopIteration{Loop: l, ctx: ctx, time: time.Now()}
	for i := 0; i < PriorityLevels; i++ {
		iter.priorityLevel = i
		for _, ctl := range l.controllers[i] {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("controller error at level %d: %v", i, err)
			}
		}
	}
	if elapsed := time.Since(iter.time); elapsed > l.interval() {
		atomic.AddUint64(&l.overruns, 1)
		glog.Warningf("loop iteration overran: %s > %s", elapsed, l.interval())
	}
}

func (t *loopIteration) Context() context.Context {
	return t.ctx
}

func (t *loopIteration) Time() time.Time {
	return t.time
}

func (t *loopIteration) PriorityLevel() int {
	return t.priorityLevel
}
