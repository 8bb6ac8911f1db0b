package queue

import (
	"testing"
	"time"
)

func TestDelayedOrder(t *testing.T) {
	d := NewDelayed()
	base := time.Unix(0, 0)
	var ran []int
	d.Push(base.Add(3*time.Second), func() { ran = append(ran, 3) })
	d.Push(base.Add(1*time.Second), func() { ran = append(ran, 1) })
	d.Push(base.Add(2*time.Second), func() { ran = append(ran, 2) })

	due := d.PopDue(base.Add(2 * time.Second))
	if len(due) != 2 {
		t.Fatalf("PopDue returned %d tasks, want 2", len(due))
	}
	for _, task := range due {
		task.Task()
	}
	if len(ran) != 2 || ran[0] != 1 || ran[1] != 2 {
		t.Fatalf("ran = %v, want [1 2]", ran)
	}
	if d.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", d.Len())
	}
}

func TestDelayedRemove(t *testing.T) {
	d := NewDelayed()
	base := time.Unix(0, 0)
	t1 := d.Push(base.Add(time.Second), func() {})
	d.Push(base.Add(2*time.Second), func() {})
	if !d.Remove(t1) {
		t.Fatalf("expected Remove to find t1")
	}
	if d.Remove(t1) {
		t.Fatalf("expected second Remove of t1 to fail")
	}
	if d.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", d.Len())
	}
}

func TestDelayedPeek(t *testing.T) {
	d := NewDelayed()
	if _, ok := d.Peek(); ok {
		t.Fatalf("expected ok=false on empty heap")
	}
	base := time.Unix(0, 0)
	d.Push(base.Add(5*time.Second), func() {})
	earliest := d.Push(base.Add(time.Second), func() {})
	got, ok := d.Peek()
	if !ok || got != earliest {
		t.Fatalf("Peek returned wrong task")
	}
}
