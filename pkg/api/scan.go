package api

import (
	"context"
	"net/http"

	"github.com/armorview/go-console-framework/pkg/api/contract"
	"github.com/armorview/go-console-framework/pkg/querycache"
)

// ScanClient triggers backend scans.
type ScanClient struct {
	client *Client
}

// Trigger requests a scan run. Scans produce findings asynchronously, so finding queries are
// refetched after the configured delay rather than immediately.
func (s *ScanClient) Trigger(ctx context.Context, request contract.ScanRequest) error {
	err := s.client.do(ctx, http.MethodPost, "/scan/request", nil, request, nil)
	if err != nil {
		return err
	}

	s.client.refresher.Schedule("scan trigger", func() {
		s.client.cache.Invalidate(querycache.Tag{Type: TagFinding})
	})
	return nil
}
