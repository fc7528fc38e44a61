package a

import "time"

func bad() {
	_ = time.Now() // want `time.Now\(\) should be followed by .UTC\(\)`
}

func good() {
	_ = time.Now().UTC()
}

func chainingGood() {
	_ = time.Now().UTC().Format(time.DateOnly)
}

func localZone() {
	_ = time.Date(2024, 5, 16, 0, 0, 0, 0, time.Local) // want `time.Local makes dates depend on the host zone`
}

func utcZone() {
	_ = time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC)
}

func inLocal(t time.Time) time.Time {
	return t.In(time.Local) // want `time.Local makes dates depend on the host zone`
}

// Passing the function as a clock is not a call.
func clock() func() time.Time {
	return time.Now
}

func nolintGeneral() {
	//nolint
	_ = time.Now()
}

func nolintSpecific() {
	_ = time.Now() //nolint:timeutc
}

func nolintList() {
	_ = time.Now() //nolint:errcheck,timeutc
}

func nolintOtherLinter() {
	_ = time.Now() //nolint:otherlinter // want `time.Now\(\) should be followed by .UTC\(\)`
}
