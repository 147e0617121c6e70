package tagfile

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitReadStart(_ *testing.T) {
	// Should not panic
	emitReadStart(context.Background(), 1024)
}

func TestEmitReadComplete_Success(_ *testing.T) {
	emitReadComplete(context.Background(), 1024, 4, 2, 100*time.Millisecond, nil)
}

func TestEmitReadComplete_Error(_ *testing.T) {
	emitReadComplete(context.Background(), 16, 0, 0, time.Millisecond, errors.New("test error"))
}

func TestEmitWriteStart(_ *testing.T) {
	emitWriteStart(context.Background(), "Root")
}

func TestEmitWriteComplete_Success(_ *testing.T) {
	emitWriteComplete(context.Background(), "Root", 512, 4, 2, 1, 100*time.Millisecond, nil)
}

func TestEmitWriteComplete_Error(_ *testing.T) {
	emitWriteComplete(context.Background(), "Root", 0, 0, 0, 0, time.Millisecond, errors.New("test error"))
}

func TestEmitItemMaterialized(_ *testing.T) {
	emitItemMaterialized(context.Background(), 1, "Root", 1)
}

func TestSignalVariables(t *testing.T) {
	signals := []struct {
		name   string
		signal interface{}
	}{
		{"SignalReadStart", SignalReadStart},
		{"SignalReadComplete", SignalReadComplete},
		{"SignalWriteStart", SignalWriteStart},
		{"SignalWriteComplete", SignalWriteComplete},
		{"SignalItemMaterialized", SignalItemMaterialized},
	}

	for _, s := range signals {
		if s.signal == nil {
			t.Errorf("%s is nil", s.name)
		}
	}
}

func TestKeyVariables(t *testing.T) {
	keys := []struct {
		name string
		key  interface{}
	}{
		{"KeyRootType", KeyRootType},
		{"KeyTypeName", KeyTypeName},
		{"KeyItemIndex", KeyItemIndex},
		{"KeyCount", KeyCount},
		{"KeyTypeCount", KeyTypeCount},
		{"KeyItemCount", KeyItemCount},
		{"KeyPatchCount", KeyPatchCount},
		{"KeySize", KeySize},
		{"KeyDuration", KeyDuration},
		{"KeyError", KeyError},
	}

	for _, k := range keys {
		if k.key == nil {
			t.Errorf("%s is nil", k.name)
		}
	}
}
