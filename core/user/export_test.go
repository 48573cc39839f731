package user

// NowFunc exposes the package clock to external tests.
var NowFunc = &nowFunc
