package opt

import "sync"

// Last run statistics per algorithm, kept for the admin endpoints when the
// store has nothing better.
var (
	mu        sync.Mutex
	lastStats = map[string]Stats{}
)

func RecordStats(algo string, s Stats) {
	mu.Lock()
	lastStats[algo] = s
	mu.Unlock()
}

func GetStats(algo string) map[string]Stats {
	mu.Lock()
	defer mu.Unlock()
	out := map[string]Stats{}
	for k, v := range lastStats {
		if algo == "" || k == algo {
			out[k] = v
		}
	}
	return out
}
