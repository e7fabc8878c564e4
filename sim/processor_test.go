package sim

import (
	"errors"
	"testing"
)

func testConfig() SimConfig {
	cfg := DefaultSimConfig()
	cfg.ProcessorCount = 3
	return cfg
}

func mustTask(t *testing.T, id int64, kind TaskKind, cost float64) *Task {
	t.Helper()
	task, err := NewTask(id, kind, cost, 0, 0)
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	return task
}

func TestProcessor_CanAccept_RespectsSaturationCap(t *testing.T) {
	// GIVEN a processor with load 80 and cap 100
	p := NewProcessor(0, KindCompute, testConfig())
	if err := p.Assign(mustTask(t, 1, KindCompute, 80)); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	// THEN a task of cost 20 fits exactly, 21 does not
	if !p.CanAccept(mustTask(t, 2, KindCompute, 20)) {
		t.Errorf("cost 20 should fit at load 80 / cap 100")
	}
	if p.CanAccept(mustTask(t, 3, KindCompute, 21)) {
		t.Errorf("cost 21 should not fit at load 80 / cap 100")
	}
}

func TestProcessor_Assign_OverloadError(t *testing.T) {
	// GIVEN a saturated processor
	p := NewProcessor(0, KindIO, testConfig())
	if err := p.Assign(mustTask(t, 1, KindIO, 100)); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	// WHEN one more task is assigned
	err := p.Assign(mustTask(t, 2, KindIO, 1))

	// THEN the error unwraps to ErrOverloaded and the queue is unchanged
	if !errors.Is(err, ErrOverloaded) {
		t.Fatalf("expected ErrOverloaded, got %v", err)
	}
	var overload *OverloadError
	if !errors.As(err, &overload) {
		t.Fatalf("expected *OverloadError, got %v", err)
	}
	if overload.ProcessorID != 0 || overload.TaskID != 2 {
		t.Errorf("error context: got proc=%d task=%d", overload.ProcessorID, overload.TaskID)
	}
	if p.QueueLen() != 1 {
		t.Errorf("queue length changed on rejected assign: %d", p.QueueLen())
	}
}

func TestProcessor_Affinity_PrefersSpecialty(t *testing.T) {
	p := NewProcessor(0, KindMemory, testConfig())
	if got := p.Affinity(mustTask(t, 1, KindMemory, 10)); got != AffinityMatch {
		t.Errorf("matched affinity: got %v, want %v", got, AffinityMatch)
	}
	if got := p.Affinity(mustTask(t, 2, KindIO, 10)); got != AffinityMismatch {
		t.Errorf("mismatched affinity: got %v, want %v", got, AffinityMismatch)
	}
}

func TestProcessor_Advance_CompletesHeadAndReportsIt(t *testing.T) {
	// GIVEN a processor with two queued tasks of cost 3 and 5
	p := NewProcessor(0, KindCompute, testConfig())
	first := mustTask(t, 1, KindCompute, 3)
	second := mustTask(t, 2, KindCompute, 5)
	_ = p.Assign(first)
	_ = p.Assign(second)

	// WHEN advancing 4 ticks
	completed := p.Advance(4)

	// THEN the first task completed and the second absorbed the leftover tick
	if len(completed) != 1 || completed[0] != first {
		t.Fatalf("completed: got %v, want [task 1]", completed)
	}
	if first.Status != StatusCompleted {
		t.Errorf("first task status: %s", first.Status)
	}
	if second.Status != StatusRunning {
		t.Errorf("second task status: got %s, want running", second.Status)
	}
	if second.Remaining != 4 {
		t.Errorf("second task remaining: got %v, want 4", second.Remaining)
	}
	if p.TasksProcessed != 1 {
		t.Errorf("TasksProcessed: got %d, want 1", p.TasksProcessed)
	}
}

func TestProcessor_LoadLevel_NeverNegativeOrAboveCap(t *testing.T) {
	// GIVEN an arbitrary assign/advance sequence
	p := NewProcessor(0, KindCompute, testConfig())
	for i := int64(0); i < 20; i++ {
		_ = p.Assign(mustTask(t, i, KindCompute, 15))
		p.Advance(2)
		if p.LoadLevel < 0 {
			t.Fatalf("load went negative: %v", p.LoadLevel)
		}
		if p.LoadLevel > 100 {
			t.Fatalf("load exceeded cap: %v", p.LoadLevel)
		}
	}
	// drain everything; load must return to zero, not below
	p.Advance(10000)
	if p.LoadLevel != 0 {
		t.Errorf("drained load: got %v, want 0", p.LoadLevel)
	}
}

func TestProcessor_EnergyUse_Monotone(t *testing.T) {
	// GIVEN ticks with and without queued work
	p := NewProcessor(0, KindIO, testConfig())
	_ = p.Assign(mustTask(t, 1, KindCompute, 5))

	prev := p.EnergyUse
	for i := 0; i < 20; i++ {
		p.Advance(1)
		if p.EnergyUse < prev {
			t.Fatalf("energy decreased at tick %d: %v -> %v", i, prev, p.EnergyUse)
		}
		prev = p.EnergyUse
	}
}

func TestProcessor_MismatchedWorkCostsMoreEnergy(t *testing.T) {
	cfg := testConfig()
	matched := NewProcessor(0, KindCompute, cfg)
	mismatched := NewProcessor(1, KindIO, cfg)
	_ = matched.Assign(mustTask(t, 1, KindCompute, 10))
	_ = mismatched.Assign(mustTask(t, 2, KindCompute, 10))

	matched.Advance(10)
	mismatched.Advance(10)

	if mismatched.EnergyUse <= matched.EnergyUse {
		t.Errorf("cross-specialty energy %v should exceed matched %v", mismatched.EnergyUse, matched.EnergyUse)
	}
}

func TestProcessor_Temperature_RisesUnderLoadAndDecaysToBaseline(t *testing.T) {
	cfg := testConfig()
	p := NewProcessor(0, KindCompute, cfg)
	_ = p.Assign(mustTask(t, 1, KindCompute, 50))

	// WHEN running under load
	p.Advance(10)
	if p.Temperature <= cfg.BaselineTemp {
		t.Fatalf("temperature did not rise under load: %v", p.Temperature)
	}

	// WHEN the queue drains and the unit idles
	p.Advance(100)
	for i := 0; i < 50; i++ {
		p.Advance(1)
	}

	// THEN temperature decays to baseline, never below
	if p.Temperature != cfg.BaselineTemp {
		t.Errorf("idle temperature: got %v, want baseline %v", p.Temperature, cfg.BaselineTemp)
	}
}

func TestProcessor_PeekOldestPending_SkipsRunningHead(t *testing.T) {
	// GIVEN a queue where the head has started executing
	p := NewProcessor(0, KindCompute, testConfig())
	head := mustTask(t, 1, KindCompute, 10)
	waiting := mustTask(t, 2, KindCompute, 10)
	_ = p.Assign(head)
	_ = p.Assign(waiting)
	p.Advance(1) // head transitions to running

	if got := p.PeekOldestPending(); got != waiting {
		t.Errorf("PeekOldestPending: got %v, want task 2", got)
	}
}
