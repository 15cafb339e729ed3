package ast

import "testing"

func TestNameSlot(t *testing.T) {
	slot := NewNameSlot()
	if slot.IsSet() {
		t.Error("new slot should be unset")
	}
	if _, ok := slot.Get(); ok {
		t.Error("Get() on empty slot should return false")
	}

	slot.Set("main")
	got, ok := slot.Get()
	if !ok || got != "main" {
		t.Errorf("Get() = %q, %v, want %q, true", got, ok, "main")
	}
}

func TestGenNameBuildPath(t *testing.T) {
	var g GenName
	g.PushName(NewNamedSlot("outer"))
	g.PushName(NewNamedSlot("inner"))

	path, ok := g.BuildPath(".")
	if !ok || path != "outer.inner" {
		t.Errorf("BuildPath(.) = %q, %v, want %q, true", path, ok, "outer.inner")
	}

	path, ok = g.BuildPath("/")
	if !ok || path != "outer/inner" {
		t.Errorf("BuildPath(/) = %q, %v", path, ok)
	}
}

func TestGenNameUnresolved(t *testing.T) {
	var g GenName
	g.PushName(NewNamedSlot("outer"))
	g.PushName(NewNameSlot())

	if g.IsResolvable() {
		t.Error("IsResolvable() = true with an empty slot")
	}
	if _, ok := g.BuildPath("."); ok {
		t.Error("BuildPath() = true with an empty slot")
	}

	// Filling the shared slot resolves the path.
	g.LastElem().Set("policy_0")
	path, ok := g.BuildPath(".")
	if !ok || path != "outer.policy_0" {
		t.Errorf("BuildPath() = %q, %v after Set", path, ok)
	}
}

func TestGenNameCloneSharesSlots(t *testing.T) {
	anon := NewNameSlot()
	var g GenName
	g.PushName(anon)

	clone := g.Clone()
	clone.PushName(NewNamedSlot("child"))

	if g.PolicyLevel() != 1 {
		t.Errorf("PolicyLevel() = %d after clone push, want 1", g.PolicyLevel())
	}

	// Assigning through the original is visible through the clone.
	anon.Set("policy_0")
	path, ok := clone.BuildPath(".")
	if !ok || path != "policy_0.child" {
		t.Errorf("clone BuildPath() = %q, %v", path, ok)
	}
}

func TestGenNamePushNameAtIndex(t *testing.T) {
	var g GenName
	g.PushName(NewNamedSlot("a"))
	g.PushName(NewNamedSlot("c"))

	g.PushNameAtIndex(NewNamedSlot("b"), 1)

	path, _ := g.BuildPath(".")
	if path != "a.b.c" {
		t.Errorf("BuildPath() = %q, want %q", path, "a.b.c")
	}
}

func TestGenNameLastElemEmpty(t *testing.T) {
	var g GenName
	if g.LastElem() != nil {
		t.Error("LastElem() on empty path should be nil")
	}
}
