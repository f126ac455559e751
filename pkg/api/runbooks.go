package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/armorview/go-console-framework/pkg/api/contract"
	"github.com/armorview/go-console-framework/pkg/querycache"
)

const namespaceRunbooks = "runbooks"

// RunbooksClient covers the trigger/filter/action automation rules. Each sub-resource of a
// runbook (detail, status, triggers, filters, actions) is fetched and tagged independently so
// configuring one of them only invalidates that runbook's queries.
type RunbooksClient struct {
	client *Client
}

// List returns all runbooks of the current tenant.
func (r *RunbooksClient) List(ctx context.Context) ([]contract.Runbook, error) {
	key := querycache.Key(namespaceRunbooks+":list", nil)
	tags := []querycache.Tag{{Type: TagRunbooks}}

	return querycache.GetOrFetchAs(ctx, r.client.cache, key, tags, func(ctx context.Context) ([]contract.Runbook, error) {
		var response contract.ApiResponse[[]contract.Runbook]
		err := r.client.do(ctx, http.MethodGet, "/api/runbooks", nil, nil, &response)
		return response.Data, err
	})
}

// Create adds a new, unconfigured runbook.
func (r *RunbooksClient) Create(ctx context.Context, request contract.CreateRunbookRequest) (contract.Runbook, error) {
	var response contract.ApiResponse[contract.Runbook]
	err := r.client.do(ctx, http.MethodPost, "/api/runbooks", nil, request, &response)
	if err != nil {
		return contract.Runbook{}, err
	}

	r.client.cache.Invalidate(querycache.Tag{Type: TagRunbooks})
	return response.Data, nil
}

// GetById returns the full detail of one runbook.
func (r *RunbooksClient) GetById(ctx context.Context, runbookId string) (contract.Runbook, error) {
	return fetchRunbookSubResource[contract.Runbook](ctx, r, runbookId, "detail")
}

// GetStatus returns the evaluation status of one runbook.
func (r *RunbooksClient) GetStatus(ctx context.Context, runbookId string) (contract.RunbookStatus, error) {
	return fetchRunbookSubResource[contract.RunbookStatus](ctx, r, runbookId, "status")
}

// GetTriggers returns the configured triggers of one runbook.
func (r *RunbooksClient) GetTriggers(ctx context.Context, runbookId string) ([]contract.Trigger, error) {
	return fetchRunbookSubResource[[]contract.Trigger](ctx, r, runbookId, "triggers")
}

// GetFilters returns the configured filters of one runbook.
func (r *RunbooksClient) GetFilters(ctx context.Context, runbookId string) ([]contract.Filter, error) {
	return fetchRunbookSubResource[[]contract.Filter](ctx, r, runbookId, "filters")
}

// GetActions returns the configured actions of one runbook.
func (r *RunbooksClient) GetActions(ctx context.Context, runbookId string) ([]contract.Action, error) {
	return fetchRunbookSubResource[[]contract.Action](ctx, r, runbookId, "actions")
}

func fetchRunbookSubResource[T any](ctx context.Context, r *RunbooksClient, runbookId string, subResource string) (T, error) {
	type subResourceArgs struct {
		RunbookId   string `json:"runbookId"`
		SubResource string `json:"subResource"`
	}

	key := querycache.Key(namespaceRunbooks+":sub", subResourceArgs{RunbookId: runbookId, SubResource: subResource})
	tags := []querycache.Tag{{Type: TagRunbooks}, {Type: TagRunbooks, Id: runbookId}}

	return querycache.GetOrFetchAs(ctx, r.client.cache, key, tags, func(ctx context.Context) (T, error) {
		var response contract.ApiResponse[T]
		err := r.client.do(ctx, http.MethodGet, "/api/runbooks/"+runbookId+"/"+subResource, nil, nil, &response)
		return response.Data, err
	})
}

// AvailableTriggers returns the trigger types the backend can evaluate.
func (r *RunbooksClient) AvailableTriggers(ctx context.Context) ([]string, error) {
	key := querycache.Key(namespaceRunbooks+":availableTriggers", nil)

	return querycache.GetOrFetchAs(ctx, r.client.cache, key, nil, func(ctx context.Context) ([]string, error) {
		var response contract.ApiResponse[[]string]
		err := r.client.do(ctx, http.MethodGet, "/api/runbooks/triggers/available", nil, nil, &response)
		return response.Data, err
	})
}

// ConfigureTriggers replaces the full trigger configuration of a runbook.
func (r *RunbooksClient) ConfigureTriggers(ctx context.Context, request contract.ConfigureTriggersRequest) error {
	err := r.client.do(ctx, http.MethodPost, "/api/runbooks/"+request.RunbookId+"/triggers", nil, request, nil)
	if err != nil {
		return err
	}
	r.invalidate(request.RunbookId)
	return nil
}

// ConfigureFilters replaces the full filter configuration of a runbook.
func (r *RunbooksClient) ConfigureFilters(ctx context.Context, request contract.ConfigureFiltersRequest) error {
	err := r.client.do(ctx, http.MethodPost, "/api/runbooks/"+request.RunbookId+"/filters", nil, request, nil)
	if err != nil {
		return err
	}
	r.invalidate(request.RunbookId)
	return nil
}

// ConfigureActions replaces the full action configuration of a runbook.
func (r *RunbooksClient) ConfigureActions(ctx context.Context, request contract.ConfigureActionsRequest) error {
	err := r.client.do(ctx, http.MethodPost, "/api/runbooks/"+request.RunbookId+"/actions", nil, request, nil)
	if err != nil {
		return err
	}
	r.invalidate(request.RunbookId)
	return nil
}

// SetEnabled toggles a runbook. A runbook without a complete trigger/filter/action
// configuration stays inert on the backend regardless of this flag.
func (r *RunbooksClient) SetEnabled(ctx context.Context, runbookId string, enabled bool) error {
	query := url.Values{}
	query.Set("enabled", strconv.FormatBool(enabled))

	err := r.client.do(ctx, http.MethodPut, "/api/runbooks/"+runbookId+"/enabled", query, nil, nil)
	if err != nil {
		return err
	}
	r.invalidate(runbookId)
	return nil
}

// Delete removes a runbook.
func (r *RunbooksClient) Delete(ctx context.Context, runbookId string) error {
	err := r.client.do(ctx, http.MethodDelete, "/api/runbooks/"+runbookId, nil, nil, nil)
	if err != nil {
		return err
	}
	r.invalidate(runbookId)
	return nil
}

func (r *RunbooksClient) invalidate(runbookId string) {
	r.client.cache.Invalidate(
		querycache.Tag{Type: TagRunbooks},
		querycache.Tag{Type: TagRunbooks, Id: runbookId},
	)
}
