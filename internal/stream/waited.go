package stream

import (
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/livefir/fragmentgw/internal/fragment"
	"github.com/livefir/fragmentgw/internal/gatewayiface"
	"github.com/livefir/fragmentgw/internal/pagemodel"
)

// contentNotFound mirrors the root package's CONTENT_NOT_FOUND_ERROR marker
// without importing it (the root package imports stream, so the reverse
// would cycle).
const contentNotFound = "CONTENT_NOT_FOUND_ERROR"

// resolveWaited fetches every Waited-class fragment in parallel
// (golang.org/x/sync/errgroup, a fetch-N-things-wait-for-all shape), builds
// the sentinel substitution map, and derives the outer response's status
// and headers from the primary fragment — 200 with no headers copied when
// no fragment is primary.
func (h *Handler) resolveWaited(r *http.Request) (subs map[string]string, status int, headers http.Header) {
	subs = map[string]string{}
	status = http.StatusOK

	if len(h.Plan.Waited) == 0 {
		return subs, status, nil
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(r.Context())

	for i := range h.Plan.Waited {
		rs := h.Plan.Waited[i]
		g.Go(func() error {
			resp, err := h.Gateway.FetchContent(ctx, rs.FragmentURL, rs.Render, toQuery(rs.FragmentAttributes))
			if err != nil || resp == nil {
				h.logger().Warn("stream: waited fragment fetch failed", "fragment", rs.Fragment, "error", err)
				resp = &gatewayiface.FragmentResponse{Status: 500, HTML: map[string]string{}}
			}

			mu.Lock()
			defer mu.Unlock()
			applyWaitedItems(subs, rs, resp)
			if rs.Fragment == h.Plan.PrimaryFragment {
				status = resp.Status
				headers = resp.Headers
			}
			return nil
		})
	}

	_ = g.Wait() // sub-fetches never return an error: failures resolve to a safe substitute instead.
	return subs, status, headers
}

func applyWaitedItems(subs map[string]string, rs fragment.ReplaceSet, resp *gatewayiface.FragmentResponse) {
	for _, item := range rs.ReplaceItems {
		switch item.Type {
		case fragment.ItemModelScript:
			subs[item.Key] = pagemodel.BuildScript(resp.Model)
		case fragment.ItemContent:
			content, ok := resp.HTML[item.Partial]
			if !ok {
				content = contentNotFound
			}
			subs[item.Key] = content
		}
	}
}
