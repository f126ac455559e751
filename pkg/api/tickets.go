package api

import (
	"context"
	"net/http"

	"github.com/armorview/go-console-framework/pkg/api/contract"
	"github.com/armorview/go-console-framework/pkg/querycache"
)

const namespaceTickets = "tickets"

// TicketsClient covers the tracker tickets raised from findings.
type TicketsClient struct {
	client *Client
}

// List returns all tickets visible to the current tenant.
func (t *TicketsClient) List(ctx context.Context) ([]contract.Ticket, error) {
	key := querycache.Key(namespaceTickets+":list", nil)
	tags := []querycache.Tag{{Type: TagTicket}}

	return querycache.GetOrFetchAs(ctx, t.client.cache, key, tags, func(ctx context.Context) ([]contract.Ticket, error) {
		var response contract.ApiResponse[[]contract.Ticket]
		err := t.client.do(ctx, http.MethodGet, "/tickets", nil, nil, &response)
		return response.Data, err
	})
}

// GetById returns a single ticket.
func (t *TicketsClient) GetById(ctx context.Context, ticketId string) (contract.Ticket, error) {
	key := querycache.Key(namespaceTickets+":byId", ticketId)
	tags := []querycache.Tag{{Type: TagTicket}, {Type: TagTicket, Id: ticketId}}

	return querycache.GetOrFetchAs(ctx, t.client.cache, key, tags, func(ctx context.Context) (contract.Ticket, error) {
		var response contract.ApiResponse[contract.Ticket]
		err := t.client.do(ctx, http.MethodGet, "/tickets/"+ticketId, nil, nil, &response)
		return response.Data, err
	})
}

// Create raises a tracker ticket for a finding and returns the new ticket id. Ticket queries
// are invalidated right away; the finding the ticket links back to is updated asynchronously
// on the backend, so findings are refetched again after the configured delay.
func (t *TicketsClient) Create(ctx context.Context, request contract.CreateTicketRequest) (string, error) {
	var response contract.ApiResponse[string]
	err := t.client.do(ctx, http.MethodPost, "/tickets/create", nil, request, &response)
	if err != nil {
		return "", err
	}

	t.client.cache.Invalidate(querycache.Tag{Type: TagTicket})
	t.client.refresher.Schedule("ticket create", func() {
		t.client.cache.Invalidate(
			querycache.Tag{Type: TagTicket},
			querycache.Tag{Type: TagFinding},
		)
	})
	return response.Data, nil
}

// MarkDone transitions a ticket to its done state.
func (t *TicketsClient) MarkDone(ctx context.Context, findingId string, ticketId string) error {
	err := t.client.do(ctx, http.MethodPut, "/tickets/"+findingId+"/"+ticketId+"/done", nil, nil, nil)
	if err != nil {
		return err
	}

	t.client.cache.Invalidate(querycache.Tag{Type: TagTicket})
	t.client.refresher.Schedule("ticket done", func() {
		t.client.cache.Invalidate(
			querycache.Tag{Type: TagTicket},
			querycache.Tag{Type: TagFinding},
		)
	})
	return nil
}
