package dispatch

import "testing"

func TestZeroTargetIsMain(t *testing.T) {
	var zero Target
	if !zero.IsMain() {
		t.Error("zero Target is not Main")
	}
	if zero != Main() {
		t.Error("zero Target != Main()")
	}
}

func TestMainAndDefaultQueueAreDistinct(t *testing.T) {
	if Main() == ToQueue(DefaultQueue) {
		t.Fatal("Main() compared equal to ToQueue(\"main\")")
	}
	if Main() == ToQueue("") {
		t.Fatal("Main() compared equal to ToQueue(\"\")")
	}
}

func TestToQueueEmptyNameMapsToDefault(t *testing.T) {
	name, ok := ToQueue("").QueueName()
	if !ok {
		t.Fatal("ToQueue(\"\") is not a queue target")
	}
	if name != DefaultQueue {
		t.Errorf("QueueName() = %q, want %q", name, DefaultQueue)
	}
}

func TestQueueName(t *testing.T) {
	if name, ok := ToQueue("bg").QueueName(); !ok || name != "bg" {
		t.Errorf("ToQueue(\"bg\").QueueName() = (%q, %v), want (\"bg\", true)", name, ok)
	}
	if name, ok := Main().QueueName(); ok || name != "" {
		t.Errorf("Main().QueueName() = (%q, %v), want (\"\", false)", name, ok)
	}
}

func TestTargetString(t *testing.T) {
	tests := []struct {
		target Target
		want   string
	}{
		{Main(), "main"},
		{ToQueue("bg"), "queue:bg"},
		{ToQueue(""), "queue:main"},
	}
	for _, tt := range tests {
		if got := tt.target.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		input string
		want  Target
	}{
		{"", Main()},
		{"ui", Main()},
		{"bg", ToQueue("bg")},
		// "main" names the queue called main, not the main context.
		{"main", ToQueue("main")},
	}
	for _, tt := range tests {
		if got := ParseTarget(tt.input); got != tt.want {
			t.Errorf("ParseTarget(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
