package domain

import (
	"testing"
)

func Test_Job_Lifecycle_RunningThenFinished(t *testing.T) {
	job := NewJob(1, 4, 4, 3, 2, []int{0, 1})
	if !job.IsWaiting() || job.StartTime() != -1 || job.FinishTime() != -1 {
		t.Fatalf("expected fresh waiting job, got %v", job)
	}

	if !job.MarkRunning(5) {
		t.Fatalf("expected Waiting -> Running to succeed")
	}
	if job.StartTime() != 5 || job.WaitingTime() != 3 {
		t.Errorf("expected start 5 and waiting 3, got %v", job)
	}

	// start time is set exactly once
	if job.MarkRunning(6) {
		t.Errorf("expected Running -> Running to be refused")
	}
	if job.StartTime() != 5 {
		t.Errorf("expected start time to stay 5, got %d", job.StartTime())
	}

	if job.Elapsed(7) {
		t.Errorf("expected job not elapsed at 7")
	}
	if !job.Elapsed(8) {
		t.Errorf("expected job elapsed at 8")
	}
	if !job.MarkFinished(8) {
		t.Fatalf("expected Running -> Finished to succeed")
	}
	if job.CompletionTime() != 6 {
		t.Errorf("expected completion 6, got %d", job.CompletionTime())
	}
}

func Test_Job_Lifecycle_TerminalStatesAreFinal(t *testing.T) {
	failed := NewJob(1, 4, 4, 3, 0, nil)
	if !failed.MarkFailed() {
		t.Fatalf("expected Waiting -> Failed to succeed")
	}
	if failed.MarkRunning(1) || failed.MarkFinished(1) || failed.MarkFailed() {
		t.Errorf("expected no transition out of Failed, got %v", failed)
	}

	finished := NewJob(2, 4, 4, 1, 0, nil)
	finished.MarkRunning(0)
	finished.MarkFinished(1)
	if finished.MarkRunning(2) || finished.MarkFailed() || finished.MarkFinished(3) {
		t.Errorf("expected no transition out of Finished, got %v", finished)
	}
	if finished.FinishTime() != 1 {
		t.Errorf("expected finish time 1, got %d", finished.FinishTime())
	}
}

func Test_Job_Lifecycle_WaitingCannotFinish(t *testing.T) {
	job := NewJob(1, 4, 4, 1, 0, nil)
	if job.MarkFinished(3) {
		t.Errorf("expected Waiting -> Finished to be refused")
	}
	if job.WaitingTime() != -1 || job.CompletionTime() != -1 {
		t.Errorf("expected undefined waiting/completion for job that never ran")
	}
}

func Test_Job_PreferenceCursor(t *testing.T) {
	prefs := []int{3, 1}
	job := NewJob(1, 4, 4, 1, 0, prefs)
	prefs[0] = 99 // the job keeps its own copy

	sid, ok := job.NextPreference()
	if !ok || sid != 3 {
		t.Fatalf("expected first preference 3, got %d %t", sid, ok)
	}
	// proposing does not move the cursor
	if sid, _ = job.NextPreference(); sid != 3 {
		t.Errorf("expected cursor to stay on 3")
	}
	job.AdvancePreference()
	if sid, ok = job.NextPreference(); !ok || sid != 1 {
		t.Errorf("expected second preference 1, got %d %t", sid, ok)
	}
	job.AdvancePreference()
	job.AdvancePreference()
	if _, ok = job.NextPreference(); ok || !job.PreferencesExhausted() {
		t.Errorf("expected exhausted preferences")
	}
}

func Test_Job_DemandChecks(t *testing.T) {
	if NewJob(1, 0, 3, 1, 0, nil).HasValidDemand() {
		t.Errorf("expected zero true demand to be invalid")
	}
	if NewJob(1, 3, -1, 1, 0, nil).HasValidDemand() {
		t.Errorf("expected negative reported demand to be invalid")
	}
	truthful := NewJob(1, 3, 3, 1, 0, []int{0})
	if truthful.Misreports() {
		t.Errorf("expected truthful job")
	}
	liar := truthful.WithReportedDemand(2)
	if !liar.Misreports() || liar.TrueDemand() != 3 || liar.ReportedDemand() != 2 || liar.ID() != 1 {
		t.Errorf("unexpected copy %v", liar)
	}
}
