package fragmentgw

import "github.com/livefir/fragmentgw/internal/pagehooks"

// Hooks is the statically-loaded lifecycle adapter a page can supply.
//
// Evaluating a template-embedded <script> block and rebinding its
// prototype onto a base class, as a dynamic-language implementation might,
// has no safe equivalent in a systems language. This is instead an
// ordinary Go interface supplied to each Compile call via WithHooks (a
// struct literal, or any type with these four methods).
//
//   - OnCreate runs once, when the template finishes compiling.
//   - OnRequest runs at the start of every request, before the shell is
//     evaluated.
//   - OnChunk runs once per streamed chunk, after it is built and before
//     it is written to the client.
//   - OnResponseEnd runs once the response has been fully written.
type Hooks = pagehooks.Hooks

// NoopHooks implements Hooks with no-op methods — the default when no
// hooks are supplied via WithHooks. A template's <script> block is never
// evaluated as hooks.
type NoopHooks = pagehooks.Noop
