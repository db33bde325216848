package util

type causer interface {
	Cause() error
}

type ignorable interface {
	Ignorable() bool
}

type exitStatuser interface {
	ExitStatus() int
}

// IsIgnorableError reports whether err, or any error it wraps, asks
// to be silently dropped (e.g. after --help was shown).
func IsIgnorableError(err error) bool {
	for e := err; e != nil; {
		switch v := e.(type) {
		case ignorable:
			return v.Ignorable()
		case causer:
			e = v.Cause()
		default:
			return false
		}
	}
	return false
}

// GetExitStatus returns the exit status carried by err. When none is
// found it returns 1 and false.
func GetExitStatus(err error) (int, bool) {
	for e := err; e != nil; {
		if ese, ok := e.(exitStatuser); ok {
			return ese.ExitStatus(), true
		}
		if cerr, ok := e.(causer); ok {
			e = cerr.Cause()
			continue
		}
		break
	}
	return 1, false
}
