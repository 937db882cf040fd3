package strings

import (
	"testing"
)

func TestBytesToString(t *testing.T) {
	b := []byte("hello world")
	s := BytesToString(b)

	if s != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", s)
	}

	// Test empty slice
	empty := BytesToString([]byte{})
	if empty != "" {
		t.Errorf("expected empty string, got '%s'", empty)
	}
}

func TestStringToBytes(t *testing.T) {
	s := "hello world"
	b := StringToBytes(s)

	if string(b) != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", string(b))
	}

	// Test empty string
	empty := StringToBytes("")
	if empty != nil {
		t.Errorf("expected nil slice, got %v", empty)
	}
}

func TestBuilder(t *testing.T) {
	builder := NewBuilder(32)

	builder.WriteString("hello")
	builder.WriteByte(' ')
	builder.WriteString("world")

	result := builder.String()
	if result != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", result)
	}

	if builder.Len() != 11 {
		t.Errorf("expected length 11, got %d", builder.Len())
	}
}

func TestBuilderGrow(t *testing.T) {
	builder := NewBuilder(2)
	initialCap := builder.Cap()

	builder.Grow(10)
	if builder.Cap() <= initialCap {
		t.Errorf("expected capacity to grow, initial: %d, after: %d", initialCap, builder.Cap())
	}
}

func TestBuilderReset(t *testing.T) {
	builder := NewBuilder(32)
	builder.WriteString("test")

	if builder.Len() != 4 {
		t.Errorf("expected length 4, got %d", builder.Len())
	}

	builder.Reset()
	if builder.Len() != 0 {
		t.Errorf("expected length 0 after reset, got %d", builder.Len())
	}
}

func TestIntern(t *testing.T) {
	intern := NewIntern()

	a := intern.Get("category")
	b := intern.Get("category")

	if a != b {
		t.Errorf("expected identical interned strings")
	}

	if intern.Size() != 1 {
		t.Errorf("expected 1 interned string, got %d", intern.Size())
	}

	intern.Get("other")
	if intern.Size() != 2 {
		t.Errorf("expected 2 interned strings, got %d", intern.Size())
	}

	intern.Clear()
	if intern.Size() != 0 {
		t.Errorf("expected 0 interned strings after clear, got %d", intern.Size())
	}
}

func TestGetPutBuilder(t *testing.T) {
	for _, size := range []BuilderSize{Small, Medium, Large} {
		builder := GetBuilder(size)
		if builder.Len() != 0 {
			t.Errorf("expected fresh builder, got length %d", builder.Len())
		}
		builder.WriteString("data")
		PutBuilder(builder, size)

		again := GetBuilder(size)
		if again.Len() != 0 {
			t.Errorf("expected reset builder from pool, got length %d", again.Len())
		}
		PutBuilder(again, size)
	}
}

func TestSprintf(t *testing.T) {
	result := Sprintf("col %d of %d", 3, 7)
	if result != "col 3 of 7" {
		t.Errorf("expected 'col 3 of 7', got '%s'", result)
	}

	// No-args fast path
	if Sprintf("plain") != "plain" {
		t.Errorf("expected passthrough for no-args format")
	}
}

func TestClone(t *testing.T) {
	original := "clone me"
	cloned := Clone(original)

	if cloned != original {
		t.Errorf("expected '%s', got '%s'", original, cloned)
	}

	if Clone("") != "" {
		t.Errorf("expected empty clone for empty string")
	}
}
