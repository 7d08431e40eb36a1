package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/coreman2200/funtimes-petals/internal/sequence"
)

type step struct {
	at     time.Duration
	button sequence.Button
}

// parseScript reads "button@ms" pairs separated by commas, e.g.
// "start@0,pause@450,stop@1500". Steps come back ordered by time; ties keep
// their written order.
func parseScript(s string) ([]step, error) {
	var out []step
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, at, ok := strings.Cut(part, "@")
		if !ok {
			return nil, fmt.Errorf("step %q: want button@ms", part)
		}
		b, err := sequence.ParseButton(name)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", part, err)
		}
		ms, err := strconv.Atoi(strings.TrimSpace(at))
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("step %q: bad time %q", part, at)
		}
		out = append(out, step{at: time.Duration(ms) * time.Millisecond, button: b})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].at < out[j].at })
	return out, nil
}
