package event

import (
	"errors"
	"testing"
)

func TestBuiltinTypesRegistered(t *testing.T) {
	r := NewRegistry()
	leave := r.EventType(WellKnownScopeLeave)
	if leave == nil {
		t.Fatalf("scope leave type missing")
	}
	if !leave.ID.IsValid() || !leave.Flags.Has(FlagBuiltin|FlagInternal) {
		t.Fatalf("unexpected leave descriptor: %+v", leave)
	}
	if r.Lookup(leave.ID) != leave {
		t.Fatalf("Lookup(%d) mismatch", leave.ID)
	}
	if r.Len() != len(builtinTypes) {
		t.Fatalf("len = %d, want %d", r.Len(), len(builtinTypes))
	}
}

func TestDefine(t *testing.T) {
	r := NewRegistry()
	first, err := r.Define("app.render", ClassScope, 0)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	again, err := r.Define("app.render", ClassScope, FlagInternal)
	if err != nil || again != first {
		t.Fatalf("identical redefinition must return the existing type")
	}
	if _, err := r.Define("app.render", ClassInstance, 0); !errors.Is(err, ErrClassMismatch) {
		t.Fatalf("expected ErrClassMismatch, got %v", err)
	}
	if _, err := r.Define("", ClassInstance, 0); err == nil {
		t.Fatalf("empty name accepted")
	}
	if _, err := r.MustEventType("app.missing"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if r.Lookup(NoTypeID) != nil || r.Lookup(TypeID(r.Len()+1)) != nil {
		t.Fatalf("out of range lookups must return nil")
	}
}

func TestParseHelpers(t *testing.T) {
	if c, ok := ParseClass("SCOPE"); !ok || c != ClassScope {
		t.Fatalf("ParseClass(SCOPE) = %v, %v", c, ok)
	}
	if _, ok := ParseClass("flow"); ok {
		t.Fatalf("ParseClass accepted unknown class")
	}
	if zt, err := ParseZoneType("gpu"); err != nil || zt != ZoneGPU {
		t.Fatalf("ParseZoneType(gpu) = %v, %v", zt, err)
	}
	if _, err := ParseZoneType("fpga"); err == nil {
		t.Fatalf("ParseZoneType accepted unknown type")
	}
}

func TestEventAccessors(t *testing.T) {
	r := NewRegistry()
	typ, _ := r.Define("app.load", ClassScope, 0)
	z := NewZone("main", ZoneScript, "http://localhost")
	e := New(z, 1.5, typ, map[string]any{"url": "/index.html", "size": 10})

	if !e.IsScopeEnter() || e.Name() != "app.load" || e.TypeID() != typ.ID {
		t.Fatalf("accessors wrong: %+v", e)
	}
	if e.StringArg("url") != "/index.html" || e.StringArg("size") != "" {
		t.Fatalf("StringArg mismatch")
	}
	if e.Scope().IsValid() {
		t.Fatalf("fresh event must not have a scope")
	}
	e.SetScope(3)
	if e.Scope() != 3 {
		t.Fatalf("SetScope not stored")
	}
	var nilEvent *Event
	if nilEvent.IsScopeEnter() || nilEvent.TypeID() != NoTypeID {
		t.Fatalf("nil event accessors must be safe")
	}
	if z.String() != "main@http://localhost" {
		t.Fatalf("zone string = %q", z.String())
	}
}
