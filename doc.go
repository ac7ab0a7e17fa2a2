// Package cellgraph implements a push-pull reactive value graph: source
// cells (mutable inputs), derived cells (pure functions of other cells),
// and effects (side-effecting subscribers) wired together by an intrusive
// link structure and recomputed lazily and minimally on write.
//
// The graph itself is exposed only through the low-level, value-erased
// primitives on Graph (SourceCreate, DerivedCreate, EffectCreate, batching).
// The generic Source, Derived and NewEffect helpers layer a typed,
// ergonomic surface on top, the way every sibling experiment this engine
// was distilled from does.
package cellgraph
