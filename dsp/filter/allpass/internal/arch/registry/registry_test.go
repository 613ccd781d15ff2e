package registry

import (
	"testing"

	"github.com/cwbudde/algo-vecmath/cpu"
)

func TestRegistryLookupPrefersHigherPriority(t *testing.T) {
	reg := &OpRegistry{}
	reg.Register(OpEntry{Name: "scalar", SIMDLevel: cpu.SIMDNone, Priority: 0})
	reg.Register(OpEntry{Name: "sse2", SIMDLevel: cpu.SIMDSSE2, Priority: 10})

	entry := reg.Lookup(cpu.Features{HasSSE2: true})
	if entry == nil || entry.Name != "sse2" {
		t.Fatalf("expected sse2, got %#v", entry)
	}

	entry = reg.Lookup(cpu.Features{})
	if entry == nil || entry.Name != "scalar" {
		t.Fatalf("expected scalar, got %#v", entry)
	}
}

func TestRegistryLookupForceGeneric(t *testing.T) {
	reg := &OpRegistry{}
	reg.Register(OpEntry{Name: "scalar", SIMDLevel: cpu.SIMDNone, Priority: 0})
	reg.Register(OpEntry{Name: "sse2", SIMDLevel: cpu.SIMDSSE2, Priority: 10})

	entry := reg.Lookup(cpu.Features{HasSSE2: true, ForceGeneric: true})
	if entry == nil || entry.Name != "scalar" {
		t.Fatalf("expected scalar with ForceGeneric, got %#v", entry)
	}
}

func TestRegistryByName(t *testing.T) {
	reg := &OpRegistry{}
	reg.Register(OpEntry{Name: "scalar"})

	if reg.ByName("scalar") == nil {
		t.Fatal("ByName(scalar) = nil")
	}
	if reg.ByName("missing") != nil {
		t.Fatal("ByName(missing) should be nil")
	}
	if n := len(reg.ListEntries()); n != 1 {
		t.Fatalf("ListEntries len = %d, want 1", n)
	}
}

func TestRegistryEmptyLookup(t *testing.T) {
	reg := &OpRegistry{}
	if reg.Lookup(cpu.Features{}) != nil {
		t.Fatal("empty registry should return nil")
	}
}
