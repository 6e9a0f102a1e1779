package binxml

import "testing"

// FuzzRead covers spec §8's bounds-safety property for the Binary-XML
// reader: arbitrary bytes up to the 1 MiB fuzzing ceiling must never panic
// or recurse unboundedly, only return a structured error.
func FuzzRead(f *testing.F) {
	f.Add([]byte{})
	f.Add(eventIDFragment)
	f.Add(eventIDFragment[:10])
	f.Add([]byte{0x01, 0, 0, 0, 0})

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 1<<20 {
			t.Skip("over the fuzzing ceiling")
		}
		_, _ = Read(data)
	})
}
