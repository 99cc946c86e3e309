package export

import "fmt"

// Summary aggregates the outcomes of one ExportAll call.
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Summarize counts successes and failures in results.
func Summarize(results []ExportResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.OK() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}

func (s Summary) String() string {
	switch {
	case s.Total == 1 && s.Succeeded == 1:
		return "sprite exported"
	case s.Total == 1:
		return "sprite export failed"
	default:
		return fmt.Sprintf("exported %d of %d sprites", s.Succeeded, s.Total)
	}
}
