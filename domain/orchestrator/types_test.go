package orchestrator

import "testing"

func TestConservativeCritique(t *testing.T) {
	t.Parallel()
	c := ConservativeCritique()
	if !c.Passed {
		t.Error("expected the conservative critique to default to passed")
	}
	if c.Score != 0.7 {
		t.Errorf("expected score 0.7, got %v", c.Score)
	}
	if c.Summary == "" {
		t.Error("expected a non-empty summary")
	}
}
