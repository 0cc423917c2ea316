// Package pagemodel builds the page-model <script> block shared by the
// waited-fragment resolver (embedded via sentinel substitution) and the
// chunk streamer (embedded directly in a chunk's HTML).
package pagemodel

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// BuildScript renders model as a sequence of window-global assignments, one
// per key, each guarded so an earlier assignment (e.g. from a fragment that
// streamed first) is never clobbered by a later one for the same key.
//
// Keys are sorted for deterministic output — tests and golden fixtures
// depend on stable ordering, and two fragments racing to set the same key
// should not make output order depend on fetch timing.
func BuildScript(model map[string]interface{}) string {
	if len(model) == 0 {
		return ""
	}

	keys := make([]string, 0, len(model))
	for k := range model {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("<script>")
	for _, k := range keys {
		encoded, err := json.Marshal(model[k])
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "window[%q]=window[%q]||%s;", k, k, encoded)
	}
	b.WriteString("</script>")
	return b.String()
}
