package ops

import (
	"cmp"
	"context"
	"slices"
)

// FrequenciesInput contains parameters for the Frequencies operation.
type FrequenciesInput struct {
	Top int // 0 means all keys
}

// KeyCount is one key's press count.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// FrequenciesOutput contains the result of the Frequencies operation.
type FrequenciesOutput struct {
	Items []KeyCount `json:"items"`
	Keys  int        `json:"keys"`
	Total int        `json:"total"`
}

// Frequencies asks the daemon for its key-press counts, most pressed first.
// Ties sort by key so the order is stable.
func Frequencies(ctx context.Context, daemon Daemon, input FrequenciesInput) (*FrequenciesOutput, error) {
	freqs, err := daemon.GetFrequencies(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]KeyCount, 0, len(freqs))
	total := 0
	for k, n := range freqs {
		items = append(items, KeyCount{Key: k, Count: n})
		total += n
	}
	slices.SortFunc(items, func(a, b KeyCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})

	out := &FrequenciesOutput{Keys: len(items), Total: total}
	if input.Top > 0 && input.Top < len(items) {
		items = items[:input.Top]
	}
	out.Items = items
	return out, nil
}
