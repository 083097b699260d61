package xkb

import "testing"

func TestResolveLowercaseLetterIsLevelZero(t *testing.T) {
	ctx, err := NewUSLayout()
	if err != nil {
		t.Fatalf("NewUSLayout: %v", err)
	}
	defer ctx.Destroy()

	const keysymLowerA = 0x0061
	_, level, ok := ctx.Resolve(keysymLowerA)
	if !ok {
		t.Fatal("expected a mapping for lowercase 'a'")
	}
	if level != 0 {
		t.Fatalf("level = %d, want 0", level)
	}
}

func TestResolveUppercaseLetterRequiresShiftLevel(t *testing.T) {
	ctx, err := NewUSLayout()
	if err != nil {
		t.Fatalf("NewUSLayout: %v", err)
	}
	defer ctx.Destroy()

	const keysymUpperA = 0x0041
	_, level, ok := ctx.Resolve(keysymUpperA)
	if !ok {
		t.Fatal("expected a mapping for uppercase 'A'")
	}
	if level != 1 {
		t.Fatalf("level = %d, want 1 (Shift)", level)
	}
}

func TestResolveUnknownKeysymFails(t *testing.T) {
	ctx, err := NewUSLayout()
	if err != nil {
		t.Fatalf("NewUSLayout: %v", err)
	}
	defer ctx.Destroy()

	if _, _, ok := ctx.Resolve(0xffffff); ok {
		t.Fatal("expected no mapping for an invalid keysym")
	}
}

func TestKeymapStringIsNonEmpty(t *testing.T) {
	ctx, err := NewUSLayout()
	if err != nil {
		t.Fatalf("NewUSLayout: %v", err)
	}
	defer ctx.Destroy()

	s, err := ctx.KeymapString()
	if err != nil {
		t.Fatalf("KeymapString: %v", err)
	}
	if len(s) == 0 {
		t.Fatal("expected non-empty keymap string")
	}
}
