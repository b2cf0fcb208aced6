package stdx

// Must1 returns v, or panics when err is not nil. It is meant for package level
// values built from constructors that cannot fail with valid input:
//
//	var weather = stdx.Must1(tool.New(getWeather, tool.Parameters("location")))
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
