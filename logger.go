package fragmentgw

import "github.com/livefir/fragmentgw/internal/observability"

// Logger is the structured-logging surface Compile accepts via WithLogger.
// *slog.Logger satisfies it directly.
type Logger = observability.Logger
