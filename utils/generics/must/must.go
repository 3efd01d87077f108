package must

// Must panics on err. Use only for package-level values that are known good
// at compile time, such as embedded ABI definitions.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
