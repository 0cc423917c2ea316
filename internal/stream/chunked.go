package stream

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/livefir/fragmentgw/internal/asset"
	"github.com/livefir/fragmentgw/internal/fragment"
	"github.com/livefir/fragmentgw/internal/gatewayiface"
	"github.com/livefir/fragmentgw/internal/pagehooks"
	"github.com/livefir/fragmentgw/internal/pagemodel"
	"github.com/livefir/fragmentgw/internal/sentinel"
)

type chunkResult struct {
	rs   fragment.ReplaceSet
	resp *gatewayiface.FragmentResponse
}

// serveChunked drives Mode B: the waited-resolver and every chunked
// fragment's fetch are fired together; the first flush waits only on the
// former, and each chunk is written as its fetch completes, in
// fetch-completion order rather than declaration order.
func (h *Handler) serveChunked(w http.ResponseWriter, r *http.Request, hooks pagehooks.Hooks) {
	ctx := r.Context()

	results := make(chan chunkResult, len(h.Plan.Chunked))
	var wg sync.WaitGroup
	for i := range h.Plan.Chunked {
		rs := h.Plan.Chunked[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := h.Gateway.FetchContent(ctx, rs.FragmentURL, rs.Render, toQuery(rs.FragmentAttributes))
			if err != nil || resp == nil {
				h.logger().Warn("stream: chunked fragment fetch failed", "fragment", rs.Fragment, "error", err)
				resp = &gatewayiface.FragmentResponse{Status: 500, HTML: map[string]string{}}
			}
			results <- chunkResult{rs: rs, resp: resp}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	subs, status, headers := h.resolveWaited(r)

	copyHeaders(w.Header(), headers)
	if status == http.StatusMovedPermanently {
		w.WriteHeader(status)
		drain(results)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	w.Header().Set("Transfer-Encoding", "chunked")
	w.WriteHeader(status)

	flusher, _ := w.(http.Flusher)
	firstFlush := sentinel.SubstituteAll(h.Plan.Shell, subs)
	io.WriteString(w, firstFlush)
	flush(flusher)

	for result := range results {
		body := h.buildChunkBody(result.rs, result.resp)
		hooks.OnChunk(body)
		io.WriteString(w, body)
		flush(flusher)
	}

	io.WriteString(w, h.Plan.BodyEndHTML+"</body></html>")
	flush(flusher)
}

func drain(results <-chan chunkResult) {
	for range results {
	}
}

func flush(f http.Flusher) {
	if f != nil {
		f.Flush()
	}
}

// buildChunkBody assembles one fetch-completion chunk: an optional debug
// marker, the fragment's page-model script (if the response carries a
// model), content-start assets, each chunked-content item as a hidden
// content div plus its mover script (omitted for a selfReplace main
// partial), content-end assets, and the matching closing debug marker.
func (h *Handler) buildChunkBody(rs fragment.ReplaceSet, resp *gatewayiface.FragmentResponse) string {
	var b strings.Builder

	if h.Debug {
		fmt.Fprintf(&b, "<!-- debug:%s -->", rs.Fragment)
	}

	if len(resp.Model) > 0 {
		b.WriteString(pagemodel.BuildScript(resp.Model))
	}

	if startHTML, err := asset.RenderHTML(rs.ContentStartAssets); err == nil {
		b.WriteString(startHTML)
	}

	for _, item := range rs.ReplaceItems {
		if item.Type != fragment.ItemChunkedContent {
			continue
		}
		content, ok := resp.HTML[item.Partial]
		if !ok {
			content = contentNotFound
		}

		fmt.Fprintf(&b, `<div style="display:none" puzzle-fragment="%s" puzzle-chunk-key="%s">%s</div>`,
			rs.Fragment, item.Key, content)

		selfReplaceMain := item.Partial == fragment.DefaultPartial && rs.Render.SelfReplace
		if !selfReplaceMain {
			fmt.Fprintf(&b, `<script>$p('[puzzle-chunk="%s"]','[puzzle-chunk-key="%s"]');</script>`, item.Key, item.Key)
		}
	}

	if endHTML, err := asset.RenderHTML(rs.ContentEndAssets); err == nil {
		b.WriteString(endHTML)
	}

	if h.Debug {
		fmt.Fprintf(&b, "<!-- /debug:%s -->", rs.Fragment)
	}

	return b.String()
}
