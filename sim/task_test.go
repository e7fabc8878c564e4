package sim

import "testing"

func TestNewTask_RejectsInvalidInput(t *testing.T) {
	// GIVEN an unknown kind
	if _, err := NewTask(1, TaskKind("gpu"), 10, 0, 0); err == nil {
		t.Errorf("expected error for unknown kind, got nil")
	}

	// GIVEN a non-positive cost
	if _, err := NewTask(1, KindCompute, 0, 0, 0); err == nil {
		t.Errorf("expected error for zero cost, got nil")
	}
	if _, err := NewTask(1, KindCompute, -5, 0, 0); err == nil {
		t.Errorf("expected error for negative cost, got nil")
	}
}

func TestNewTask_StartsPendingWithFullRemaining(t *testing.T) {
	task, err := NewTask(7, KindIO, 12.5, 2, 3)
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	if task.Status != StatusPending {
		t.Errorf("Status: got %s, want %s", task.Status, StatusPending)
	}
	if task.Remaining != task.Cost {
		t.Errorf("Remaining: got %v, want %v", task.Remaining, task.Cost)
	}
	if task.ArrivalTick != 3 {
		t.Errorf("ArrivalTick: got %d, want 3", task.ArrivalTick)
	}
}

func TestTask_Transition_ForwardOnly(t *testing.T) {
	// GIVEN a pending task moved through its lifecycle
	task, _ := NewTask(1, KindCompute, 10, 0, 0)

	if err := task.Transition(StatusRunning); err != nil {
		t.Fatalf("pending -> running: %v", err)
	}
	if err := task.Transition(StatusCompleted); err != nil {
		t.Fatalf("running -> completed: %v", err)
	}

	// WHEN a regression is attempted
	// THEN the transition is rejected and the status is unchanged
	if err := task.Transition(StatusRunning); err == nil {
		t.Errorf("completed -> running: expected error, got nil")
	}
	if err := task.Transition(StatusPending); err == nil {
		t.Errorf("completed -> pending: expected error, got nil")
	}
	if task.Status != StatusCompleted {
		t.Errorf("status changed after rejected transition: %s", task.Status)
	}
}

func TestTask_TerminalStatusesExclusive(t *testing.T) {
	// GIVEN a completed task
	task, _ := NewTask(1, KindMemory, 10, 0, 0)
	_ = task.Transition(StatusRunning)
	_ = task.Transition(StatusCompleted)

	// THEN it cannot also fail
	if err := task.Fail("late failure", 5); err == nil {
		t.Errorf("expected error failing a completed task, got nil")
	}
	if task.Status != StatusCompleted {
		t.Errorf("completed task became %s", task.Status)
	}
}

func TestTask_Fail_RecordsReasonAndTick(t *testing.T) {
	task, _ := NewTask(1, KindIO, 10, 0, 0)
	if err := task.Fail("cancelled", 42); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if task.Status != StatusFailed || task.FailReason != "cancelled" || task.FinishedTick != 42 {
		t.Errorf("got (%s, %q, %d), want (failed, cancelled, 42)", task.Status, task.FailReason, task.FinishedTick)
	}
	if !task.Terminal() {
		t.Errorf("failed task not terminal")
	}
}
