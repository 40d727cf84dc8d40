package list

import "testing"

func TestAppendPrependOrder(t *testing.T) {
	l := New[string](0)
	l.Append(1, "a")
	l.Append(2, "b")
	l.Prepend(3, "c")

	var order []string
	l.ForEach(func(id uint32, v string) bool {
		order = append(order, v)
		return true
	})

	want := []string{"c", "a", "b"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, order[i], want[i])
		}
	}
}

func TestCapacity(t *testing.T) {
	l := New[int](2)
	if !l.Append(1, 10) {
		t.Fatal("first append should succeed")
	}
	if !l.Append(2, 20) {
		t.Fatal("second append should succeed")
	}
	if l.Append(3, 30) {
		t.Fatal("third append should fail at capacity")
	}
	if l.Len() != 2 {
		t.Fatalf("len = %d, want 2", l.Len())
	}
}

func TestSortedInsert(t *testing.T) {
	l := New[int](0)
	cmp := func(a, b int) int { return a - b }
	for _, v := range []int{5, 1, 3, 4, 2} {
		l.SortedInsert(uint32(v), v, cmp)
	}
	var got []int
	l.ForEach(func(id uint32, v int) bool {
		got = append(got, v)
		return true
	})
	want := []int{1, 2, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestPopHeadEmpty(t *testing.T) {
	l := New[int](0)
	if _, ok := l.PopHead(); ok {
		t.Fatal("pop head of empty list should report not ok")
	}
}

func TestFindAndRemoveByID(t *testing.T) {
	l := New[string](0)
	l.Append(1, "a")
	l.Append(2, "b")
	l.Append(3, "c")

	if v, ok := l.FindByID(2); !ok || v != "b" {
		t.Fatalf("find(2) = %q, %v", v, ok)
	}

	v, ok := l.RemoveByID(2)
	if !ok || v != "b" {
		t.Fatalf("remove(2) = %q, %v", v, ok)
	}
	if l.Len() != 2 {
		t.Fatalf("len after remove = %d, want 2", l.Len())
	}
	if _, ok := l.FindByID(2); ok {
		t.Fatal("2 should no longer be found")
	}

	// removing the tail updates last so a subsequent append still works
	l.RemoveByID(3)
	l.Append(4, "d")
	var got []string
	l.ForEach(func(id uint32, v string) bool { got = append(got, v); return true })
	if len(got) != 2 || got[0] != "a" || got[1] != "d" {
		t.Fatalf("got %v, want [a d]", got)
	}
}

func TestRemoveByIDFIFOOrderOnDuplicates(t *testing.T) {
	l := New[string](0)
	l.Append(1, "first")
	l.Append(1, "second")

	v, ok := l.RemoveByID(1)
	if !ok || v != "first" {
		t.Fatalf("expected FIFO removal of duplicate ids, got %q", v)
	}
}

func TestClear(t *testing.T) {
	l := New[int](0)
	l.Append(1, 1)
	l.Append(2, 2)
	l.Clear()
	if l.Len() != 0 {
		t.Fatalf("len after clear = %d, want 0", l.Len())
	}
	if _, ok := l.PopHead(); ok {
		t.Fatal("pop head after clear should report not ok")
	}
}
