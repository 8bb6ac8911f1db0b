package queue

import "testing"

func TestFIFOOrder(t *testing.T) {
	f := NewFIFO()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		f.Push(func() { order = append(order, i) })
	}
	for f.Len() > 0 {
		task, ok := f.Pop()
		if !ok {
			t.Fatalf("expected a task")
		}
		task()
	}
	want := []int{0, 1, 2}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestFIFOPopEmpty(t *testing.T) {
	f := NewFIFO()
	if _, ok := f.Pop(); ok {
		t.Fatalf("expected ok=false on empty queue")
	}
}
