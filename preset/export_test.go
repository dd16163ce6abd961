package preset

// WithIDFunc exposes withIDFunc to the external tests.
var WithIDFunc = withIDFunc
