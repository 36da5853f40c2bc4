package useragent

import "testing"

func TestPoolRoundRobin(t *testing.T) {
	agents := []string{"agent-a", "agent-b", "agent-c"}
	p := NewPool(agents)

	for i := 0; i < 6; i++ {
		got := p.Next()
		want := agents[i%3]
		if got != want {
			t.Errorf("call %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestPoolDefaults(t *testing.T) {
	p := NewPool(nil)
	if p.Len() == 0 {
		t.Fatal("expected a non-empty default pool")
	}
	if p.Next() == "" {
		t.Error("expected a non-empty user agent")
	}
}

func TestPoolRandomMembership(t *testing.T) {
	agents := []string{"only-agent"}
	p := NewPool(agents)
	for i := 0; i < 5; i++ {
		if got := p.Random(); got != "only-agent" {
			t.Errorf("expected the single agent, got %q", got)
		}
	}
}

func TestPoolCopiesInput(t *testing.T) {
	agents := []string{"agent-a", "agent-b"}
	pool := NewPool(agents)
	agents[0] = "mutated"
	if got := pool.Next(); got != "agent-a" {
		t.Errorf("pool should not observe caller mutations, got %q", got)
	}
}
