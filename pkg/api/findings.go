package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/armorview/go-console-framework/pkg/api/contract"
	"github.com/armorview/go-console-framework/pkg/querycache"
)

const namespaceFindings = "findings"

const defaultPageSize = 10

// FindingsClient covers the findings resource: filtered listing, single-item lookup, the static
// filter enumerations, state transitions and the dashboard distributions.
type FindingsClient struct {
	client *Client
}

// ListFindingsParams describes one findings page request. Page is the 1-based display page
// number; the translation to the zero-based wire page happens at the client boundary.
type ListFindingsParams struct {
	Severity []string `json:"severity,omitempty"`
	State    []string `json:"state,omitempty"`
	ToolType []string `json:"toolType,omitempty"`
	Page     int      `json:"page,omitempty"`
	Size     int      `json:"size,omitempty"`
}

// WirePage translates a 1-based display page to the zero-based page the backend expects.
func WirePage(displayPage int) int {
	if displayPage <= 1 {
		return 0
	}
	return displayPage - 1
}

// DisplayPage translates a zero-based wire page back to the 1-based page shown to the analyst.
func DisplayPage(wirePage int) int {
	return wirePage + 1
}

// query encodes list-valued filters as repeated keys, one key=value pair per element. The
// backend does not understand comma-joined values.
func (p ListFindingsParams) query() url.Values {
	q := url.Values{}
	for _, severity := range p.Severity {
		q.Add("severity", severity)
	}
	for _, state := range p.State {
		q.Add("state", state)
	}
	for _, toolType := range p.ToolType {
		q.Add("toolType", toolType)
	}

	q.Set("page", strconv.Itoa(WirePage(p.Page)))
	size := p.Size
	if size <= 0 {
		size = defaultPageSize
	}
	q.Set("size", strconv.Itoa(size))
	return q
}

// List returns one filtered, paginated findings page.
func (f *FindingsClient) List(ctx context.Context, params ListFindingsParams) (contract.FindingsPage, error) {
	// display pages 0 and 1 are the same wire page, and size 0 means the default page size;
	// normalize before keying so equivalent queries share one cache entry
	params.Page = DisplayPage(WirePage(params.Page))
	if params.Size <= 0 {
		params.Size = defaultPageSize
	}
	key := querycache.Key(namespaceFindings+":list", params)
	tags := []querycache.Tag{{Type: TagFinding}}

	return querycache.GetOrFetchAs(ctx, f.client.cache, key, tags, func(ctx context.Context) (contract.FindingsPage, error) {
		var response contract.ApiResponse[contract.FindingsPage]
		err := f.client.do(ctx, http.MethodGet, "/findings", params.query(), nil, &response)
		return response.Data, err
	})
}

// GetById returns a single finding.
func (f *FindingsClient) GetById(ctx context.Context, id string) (contract.Finding, error) {
	key := querycache.Key(namespaceFindings+":byId", id)
	tags := []querycache.Tag{{Type: TagFinding}, {Type: TagFinding, Id: id}}

	return querycache.GetOrFetchAs(ctx, f.client.cache, key, tags, func(ctx context.Context) (contract.Finding, error) {
		query := url.Values{}
		query.Set("id", id)

		var response contract.ApiResponse[contract.Finding]
		err := f.client.do(ctx, http.MethodGet, "/finding", query, nil, &response)
		return response.Data, err
	})
}

// Severities returns the fixed set of severities known to the backend.
func (f *FindingsClient) Severities(ctx context.Context) ([]string, error) {
	return f.staticEnumeration(ctx, "/findings/severity")
}

// States returns the fixed set of finding states known to the backend.
func (f *FindingsClient) States(ctx context.Context) ([]string, error) {
	return f.staticEnumeration(ctx, "/findings/state")
}

// ToolTypes returns the scanning tools the backend ingests findings from.
func (f *FindingsClient) ToolTypes(ctx context.Context) ([]string, error) {
	return f.staticEnumeration(ctx, "/tool")
}

func (f *FindingsClient) staticEnumeration(ctx context.Context, path string) ([]string, error) {
	key := querycache.Key(namespaceFindings+":enum", path)

	return querycache.GetOrFetchAs(ctx, f.client.cache, key, nil, func(ctx context.Context) ([]string, error) {
		var response contract.ApiResponse[[]string]
		err := f.client.do(ctx, http.MethodGet, path, nil, nil, &response)
		return response.Data, err
	})
}

// UpdateState transitions a finding to a new state. The backend acknowledges the request
// immediately, the final state may be produced asynchronously, so the affected queries are
// refetched again after the configured delay.
func (f *FindingsClient) UpdateState(ctx context.Context, request contract.UpdateFindingStateRequest) error {
	err := f.client.do(ctx, http.MethodPatch, "/api/github/alert", nil, request, nil)
	if err != nil {
		return err
	}

	f.client.cache.Invalidate(querycache.Tag{Type: TagFinding})
	f.client.refresher.Schedule("finding state update", func() {
		f.client.cache.Invalidate(querycache.Tag{Type: TagFinding})
	})
	return nil
}

// Distribution kinds served by the dashboard endpoints.
const (
	DistributionTool     = "toolDistribution"
	DistributionSeverity = "severityDistribution"
	DistributionState    = "stateDistribution"
	DistributionCvss     = "cvssDistribution"
)

// Distribution returns one dashboard aggregate, optionally restricted to a set of tools.
func (f *FindingsClient) Distribution(ctx context.Context, kind string, tools []string) (map[string]int, error) {
	type distributionArgs struct {
		Kind  string   `json:"kind"`
		Tools []string `json:"tools,omitempty"`
	}

	key := querycache.Key(namespaceFindings+":dashboard", distributionArgs{Kind: kind, Tools: tools})
	tags := []querycache.Tag{{Type: TagFinding}}

	return querycache.GetOrFetchAs(ctx, f.client.cache, key, tags, func(ctx context.Context) (map[string]int, error) {
		query := url.Values{}
		for _, tool := range tools {
			query.Add("tool", tool)
		}

		var response contract.ApiResponse[map[string]int]
		err := f.client.do(ctx, http.MethodGet, "/dashboard/"+kind, query, nil, &response)
		return response.Data, err
	})
}
