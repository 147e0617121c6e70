package tagfile

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for container events.
var (
	SignalReadStart        = capitan.NewSignal("tagfile.read.start", "Read operation beginning")
	SignalReadComplete     = capitan.NewSignal("tagfile.read.complete", "Read operation finished")
	SignalWriteStart       = capitan.NewSignal("tagfile.write.start", "Write operation beginning")
	SignalWriteComplete    = capitan.NewSignal("tagfile.write.complete", "Write operation finished")
	SignalItemMaterialized = capitan.NewSignal("tagfile.item.materialized", "Item values decoded")
)

// Keys for typed event data.
var (
	KeyRootType   = capitan.NewStringKey("root_type")
	KeyTypeName   = capitan.NewStringKey("type_name")
	KeyItemIndex  = capitan.NewIntKey("item_index")
	KeyCount      = capitan.NewIntKey("count")
	KeyTypeCount  = capitan.NewIntKey("type_count")
	KeyItemCount  = capitan.NewIntKey("item_count")
	KeyPatchCount = capitan.NewIntKey("patch_count")
	KeySize       = capitan.NewIntKey("size")
	KeyDuration   = capitan.NewDurationKey("duration")
	KeyError      = capitan.NewErrorKey("error")
)

// emitReadStart emits an event when a read begins.
func emitReadStart(ctx context.Context, size int64) {
	capitan.Emit(ctx, SignalReadStart,
		KeySize.Field(int(size)),
	)
}

// emitReadComplete emits an event when a read finishes.
func emitReadComplete(ctx context.Context, size int64, types, items int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeySize.Field(int(size)),
		KeyTypeCount.Field(types),
		KeyItemCount.Field(items),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalReadComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalReadComplete, fields...)
	}
}

// emitWriteStart emits an event when a write begins.
func emitWriteStart(ctx context.Context, rootType string) {
	capitan.Emit(ctx, SignalWriteStart,
		KeyRootType.Field(rootType),
	)
}

// emitWriteComplete emits an event when a write finishes.
func emitWriteComplete(ctx context.Context, rootType string, size, types, items, patches int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyRootType.Field(rootType),
		KeySize.Field(size),
		KeyTypeCount.Field(types),
		KeyItemCount.Field(items),
		KeyPatchCount.Field(patches),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalWriteComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalWriteComplete, fields...)
	}
}

// emitItemMaterialized emits an event when an item's values are decoded.
func emitItemMaterialized(ctx context.Context, index int, typeName string, count int) {
	capitan.Emit(ctx, SignalItemMaterialized,
		KeyItemIndex.Field(index),
		KeyTypeName.Field(typeName),
		KeyCount.Field(count),
	)
}
