package tracing

// Span attribute keys.
const (
	AttrSessionID = "session.id"

	AttrLexer     = "lexer.name"
	AttrFormatter = "formatter.name"
	AttrTheme     = "theme.name"

	AttrSourceBytes = "source.bytes"
	AttrSourceName  = "source.name"

	AttrScanSteps       = "scan.steps"
	AttrScanTokens      = "scan.tokens"
	AttrScanDelegations = "scan.delegations"
	AttrScanFallbacks   = "scan.fallbacks"
	AttrScanMaxDepth    = "scan.max_depth"

	AttrCacheHit = "cache.hit"

	AttrDepth = "lexer.depth"
	AttrStart = "token.start"

	AttrErrorMessage = "error.message"
)

// Span names.
const (
	SpanHighlight = "highlight"
	SpanScan      = "lexer.scan"
	SpanRender    = "formatter.render"
)

// Span event names.
const (
	EventDelegated = "lexer.delegated"
	EventReturned  = "lexer.returned"
	EventCacheHit  = "cache.hit"
)
