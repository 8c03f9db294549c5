package logger

import "testing"

func TestNew(t *testing.T) {
	for _, env := range []string{"production", "development", ""} {
		l, err := New(env)
		if err != nil {
			t.Fatalf("%q: %v", env, err)
		}
		if env == "production" && l.Core().Enabled(-1) {
			t.Error("production logger should not log debug")
		}
		if env == "development" && !l.Core().Enabled(-1) {
			t.Error("development logger should log debug")
		}
	}
}
