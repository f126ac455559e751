package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armorview/go-console-framework/pkg/api/contract"
	"github.com/armorview/go-console-framework/pkg/auth"
	"github.com/armorview/go-console-framework/pkg/configuration"
	"github.com/armorview/go-console-framework/pkg/networking"
	"github.com/armorview/go-console-framework/pkg/querycache"
	"github.com/armorview/go-console-framework/pkg/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := zerolog.Nop()
	config := configuration.NewInMemory()
	config.Set(configuration.API_URL, server.URL)
	config.Set(configuration.REFETCH_DELAY_MS, 10)

	sessionStore := session.New(config, &logger)
	sessionStore.SetCredentials(session.WithToken("test-token"))

	authenticator := auth.NewTokenAuthenticator(sessionStore.Token)
	network := networking.NewNetworkAccess(config, authenticator, &logger)
	cache := querycache.New(config, &logger, sessionStore.Epoch)

	client := NewClient(config, network, cache, sessionStore, &logger)
	t.Cleanup(client.Refresher().Stop)
	return client, sessionStore
}

func writeData(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{"data": data})
	require.NoError(t, err)
}

func Test_Findings_List_encodesFiltersAsRepeatedKeys(t *testing.T) {
	var requested atomic.Pointer[http.Request]
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested.Store(r.Clone(context.Background()))
		writeData(t, w, contract.FindingsPage{TotalHits: 1, TotalPages: 1, Size: 10})
	}))

	_, err := client.Findings.List(context.Background(), ListFindingsParams{
		Severity: []string{"HIGH", "CRITICAL"},
		State:    []string{"OPEN"},
		ToolType: []string{"SAST"},
		Page:     3,
		Size:     25,
	})
	require.NoError(t, err)

	request := requested.Load()
	require.NotNil(t, request)
	assert.Equal(t, "/findings", request.URL.Path)

	query := request.URL.Query()
	assert.Equal(t, []string{"HIGH", "CRITICAL"}, query["severity"])
	assert.Equal(t, []string{"OPEN"}, query["state"])
	assert.Equal(t, []string{"SAST"}, query["toolType"])
	assert.Equal(t, "2", query.Get("page"))
	assert.Equal(t, "25", query.Get("size"))
}

func Test_Findings_List_pageTranslation(t *testing.T) {
	assert.Equal(t, 0, WirePage(0))
	assert.Equal(t, 0, WirePage(1))
	assert.Equal(t, 4, WirePage(5))
	assert.Equal(t, 1, DisplayPage(0))
	assert.Equal(t, 5, DisplayPage(WirePage(5)))
}

func Test_Findings_List_cachesUntilInvalidated(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeData(t, w, contract.FindingsPage{TotalHits: int(hits.Load())})
	}))

	params := ListFindingsParams{State: []string{"OPEN"}, Page: 1}

	first, err := client.Findings.List(context.Background(), params)
	require.NoError(t, err)
	second, err := client.Findings.List(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, first, second)

	client.Cache().Invalidate(querycache.Tag{Type: TagFinding})

	third, err := client.Findings.List(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, 2, third.TotalHits)
}

func Test_Findings_List_equivalentParamsShareOneCacheEntry(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeData(t, w, contract.FindingsPage{TotalHits: 1})
	}))

	// page 0, page 1 and an unset size all encode to the same wire request
	_, err := client.Findings.List(context.Background(), ListFindingsParams{Page: 0})
	require.NoError(t, err)
	_, err = client.Findings.List(context.Background(), ListFindingsParams{Page: 1})
	require.NoError(t, err)
	_, err = client.Findings.List(context.Background(), ListFindingsParams{Page: 1, Size: 10})
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
}

func Test_Findings_UpdateState_invalidatesNowAndAfterDelay(t *testing.T) {
	var listHits atomic.Int32
	var patched atomic.Bool
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPatch && r.URL.Path == "/api/github/alert":
			var request contract.UpdateFindingStateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
			assert.Equal(t, "FIXED", request.FindingState)
			patched.Store(true)
			writeData(t, w, "ok")
		case r.URL.Path == "/findings":
			listHits.Add(1)
			writeData(t, w, contract.FindingsPage{})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	params := ListFindingsParams{Page: 1}
	_, err := client.Findings.List(context.Background(), params)
	require.NoError(t, err)
	require.Equal(t, int32(1), listHits.Load())

	err = client.Findings.UpdateState(context.Background(), contract.UpdateFindingStateRequest{
		Id:           "f-1",
		Tool:         "SAST",
		FindingState: "FIXED",
	})
	require.NoError(t, err)
	assert.True(t, patched.Load())

	// immediate invalidation
	_, err = client.Findings.List(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, int32(2), listHits.Load())

	// the delayed invalidation forces yet another fetch once the backend had time to settle
	assert.Eventually(t, func() bool {
		_, listErr := client.Findings.List(context.Background(), params)
		return listErr == nil && listHits.Load() >= 3
	}, time.Second, 5*time.Millisecond)
}

func Test_Tickets_CreateAndGet(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/tickets/create":
			var request contract.CreateTicketRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
			assert.Equal(t, "f-9", request.FindingId)
			writeData(t, w, "TICK-1")
		case r.Method == http.MethodGet && r.URL.Path == "/tickets/TICK-1":
			writeData(t, w, contract.Ticket{TicketId: "TICK-1", EsFindingId: "f-9", StatusName: "Open"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	ticketId, err := client.Tickets.Create(context.Background(), contract.CreateTicketRequest{
		FindingId: "f-9",
		Summary:   "fix it",
	})
	require.NoError(t, err)
	assert.Equal(t, "TICK-1", ticketId)

	ticket, err := client.Tickets.GetById(context.Background(), ticketId)
	require.NoError(t, err)
	assert.Equal(t, "f-9", ticket.EsFindingId)
}

func Test_Tickets_MarkDone_usesFindingAndTicketPath(t *testing.T) {
	var path atomic.Value
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		path.Store(r.URL.Path)
		writeData(t, w, "ok")
	}))

	err := client.Tickets.MarkDone(context.Background(), "f-9", "TICK-1")
	require.NoError(t, err)
	assert.Equal(t, "/tickets/f-9/TICK-1/done", path.Load())
}

func Test_Runbooks_ConfigureTriggers_invalidatesOnlyThatRunbook(t *testing.T) {
	var triggerHits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/runbooks/rb-1/triggers":
			triggerHits.Add(1)
			writeData(t, w, []contract.Trigger{{TriggerType: "FINDING_CREATED"}})
		case r.Method == http.MethodGet && r.URL.Path == "/api/runbooks/rb-2/filters":
			writeData(t, w, []contract.Filter{})
		case r.Method == http.MethodPost && r.URL.Path == "/api/runbooks/rb-1/triggers":
			writeData(t, w, "ok")
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	_, err := client.Runbooks.GetTriggers(context.Background(), "rb-1")
	require.NoError(t, err)
	_, err = client.Runbooks.GetFilters(context.Background(), "rb-2")
	require.NoError(t, err)

	err = client.Runbooks.ConfigureTriggers(context.Background(), contract.ConfigureTriggersRequest{
		RunbookId: "rb-1",
		Triggers:  []contract.Trigger{{TriggerType: "FINDING_CREATED"}},
	})
	require.NoError(t, err)

	_, err = client.Runbooks.GetTriggers(context.Background(), "rb-1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), triggerHits.Load())
}

func Test_Runbooks_SetEnabled_sendsQueryFlag(t *testing.T) {
	var request atomic.Pointer[http.Request]
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		request.Store(r.Clone(context.Background()))
		writeData(t, w, "ok")
	}))

	err := client.Runbooks.SetEnabled(context.Background(), "rb-1", true)
	require.NoError(t, err)

	r := request.Load()
	require.NotNil(t, r)
	assert.Equal(t, http.MethodPut, r.Method)
	assert.Equal(t, "/api/runbooks/rb-1/enabled", r.URL.Path)
	assert.Equal(t, "true", r.URL.Query().Get("enabled"))
}

func tenantToken(t *testing.T, tenantId string, tenantName string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":        "user-1",
		"tenantId":   tenantId,
		"tenantName": tenantName,
		"roleName":   "ADMIN",
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return signed
}

func Test_Auth_SwitchTenant_isolatesTenantData(t *testing.T) {
	client, sessionStore := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/user/tenant/switch":
			writeData(t, w, contract.SwitchTenantResponse{
				Token: tenantToken(t, r.URL.Query().Get("tenantId"), "Tenant Two"),
			})
		case "/findings":
			// the findings returned depend on the tenant encoded in the bearer token
			title := "tenant one finding"
			if claims := bearerClaims(r); claims["tenantId"] == "t-2" {
				title = "tenant two finding"
			}
			writeData(t, w, contract.FindingsPage{Findings: []contract.Finding{{Title: title}}})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	sessionStore.SetCredentials(session.WithToken(tenantToken(t, "t-1", "Tenant One")))

	params := ListFindingsParams{Page: 1}
	before, err := client.Findings.List(context.Background(), params)
	require.NoError(t, err)
	require.Equal(t, "tenant one finding", before.Findings[0].Title)

	tenant, err := client.Auth.SwitchTenant(context.Background(), "t-2")
	require.NoError(t, err)
	assert.Equal(t, "t-2", tenant.TenantId)
	assert.Equal(t, "Tenant Two", tenant.TenantName)

	require.NotNil(t, sessionStore.CurrentTenant())
	assert.Equal(t, "t-2", sessionStore.CurrentTenant().TenantId)

	after, err := client.Findings.List(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, "tenant two finding", after.Findings[0].Title)
}

func bearerClaims(r *http.Request) jwt.MapClaims {
	claims := jwt.MapClaims{}
	header := r.Header.Get("Authorization")
	if len(header) > len("Bearer ") {
		parser := jwt.NewParser()
		_, _, _ = parser.ParseUnverified(header[len("Bearer "):], claims)
	}
	return claims
}

func Test_Auth_InitializeSession_hydratesUserAndTenants(t *testing.T) {
	client, sessionStore := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/me":
			writeData(t, w, contract.User{Id: "user-1", Name: "Dana", Email: "dana@example.com"})
		case "/api/user/tenant/current":
			writeData(t, w, contract.Tenant{TenantId: "t-1", TenantName: "Tenant One", RoleName: "ADMIN"})
		case "/api/user/tenants":
			writeData(t, w, []contract.Tenant{
				{TenantId: "t-1", TenantName: "Tenant One"},
				{TenantId: "t-2", TenantName: "Tenant Two"},
			})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	err := client.Auth.InitializeSession(context.Background())
	require.NoError(t, err)

	require.NotNil(t, sessionStore.User())
	assert.Equal(t, "Dana", sessionStore.User().Name)
	require.NotNil(t, sessionStore.CurrentTenant())
	assert.Equal(t, "t-1", sessionStore.CurrentTenant().TenantId)
	assert.Len(t, sessionStore.Tenants(), 2)
}

func Test_Auth_InitializeSession_requiresToken(t *testing.T) {
	client, sessionStore := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))

	sessionStore.ClearCredentials()
	err := client.Auth.InitializeSession(context.Background())
	assert.Error(t, err)
}

func Test_Auth_Logout_clearsSessionEvenOnBackendFailure(t *testing.T) {
	client, sessionStore := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"backend down"}`, http.StatusInternalServerError)
	}))

	err := client.Auth.Logout(context.Background())
	assert.Error(t, err)
	assert.False(t, sessionStore.IsAuthenticated())
}

func Test_Scan_Trigger_schedulesFindingRefetch(t *testing.T) {
	var listHits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/scan/request":
			writeData(t, w, "accepted")
		case r.URL.Path == "/findings":
			listHits.Add(1)
			writeData(t, w, contract.FindingsPage{})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	params := ListFindingsParams{Page: 1}
	_, err := client.Findings.List(context.Background(), params)
	require.NoError(t, err)

	err = client.Scan.Trigger(context.Background(), contract.ScanRequest{ScanAll: true})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, listErr := client.Findings.List(context.Background(), params)
		return listErr == nil && listHits.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func Test_errorMapping(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/finding":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"no such finding"}`)
		case "/auth/me":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	_, err := client.Findings.GetById(context.Background(), "missing")
	require.Error(t, err)

	var apiError *Error
	require.ErrorAs(t, err, &apiError)
	assert.Equal(t, http.StatusNotFound, apiError.Status)
	assert.Equal(t, "no such finding", apiError.Message)

	_, err = client.Auth.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}

func Test_transportErrorHasNoStatus(t *testing.T) {
	logger := zerolog.Nop()
	config := configuration.NewInMemory()
	config.Set(configuration.API_URL, "http://127.0.0.1:1")

	sessionStore := session.New(config, &logger)
	network := networking.NewNetworkAccess(config, auth.NewTokenAuthenticator(sessionStore.Token), &logger)
	cache := querycache.New(config, &logger, sessionStore.Epoch)
	client := NewClient(config, network, cache, sessionStore, &logger)

	_, err := client.Tickets.List(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}
