package observability

// InitWithWriter exposes initWithWriter so tests can capture log output.
var InitWithWriter = initWithWriter
