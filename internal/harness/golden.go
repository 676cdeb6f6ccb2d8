package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden runs s and compares its trace against the golden file
// testdata/golden/{s.Name}.golden, failing the test on mismatch. Run with
// `go test ./internal/harness -update` to regenerate golden files after an
// intentional trace change.
func RunWithGolden(t *testing.T, s *Scenario) *Result {
	t.Helper()

	result, err := Run(s)
	if err != nil {
		t.Fatalf("run scenario %s: %v", s.Name, err)
	}
	if err := s.Check(result); err != nil {
		t.Errorf("scenario %s failed its assertions: %v", s.Name, err)
	}

	traceJSON, err := json.MarshalIndent(result.Trace, "", "  ")
	if err != nil {
		t.Fatalf("marshal trace for scenario %s: %v", s.Name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, traceJSON)

	return result
}
