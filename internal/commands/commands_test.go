package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armorview/go-console-framework/pkg/api/contract"
	"github.com/armorview/go-console-framework/pkg/app"
	"github.com/armorview/go-console-framework/pkg/configuration"
	"github.com/armorview/go-console-framework/pkg/session"
)

func newTestEngine(t *testing.T, handler http.Handler) *app.Engine {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := configuration.NewInMemory()
	config.Set(configuration.API_URL, server.URL)

	engine := app.NewEngine(app.WithConfiguration(config))
	t.Cleanup(engine.Close)

	engine.GetSession().SetCredentials(session.WithToken("test-token"))
	return engine
}

func execute(t *testing.T, engine *app.Engine, args ...string) (string, error) {
	t.Helper()

	buffer := &bytes.Buffer{}
	rootCmd := NewRootCommand(engine)
	rootCmd.SetOut(buffer)
	rootCmd.SetErr(buffer)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buffer.String(), err
}

func writeData(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": data}))
}

func Test_findingsList(t *testing.T) {
	engine := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/findings", r.URL.Path)
		assert.Equal(t, []string{"HIGH"}, r.URL.Query()["severity"])
		assert.Equal(t, "0", r.URL.Query().Get("page"))

		writeData(t, w, contract.FindingsPage{
			Findings:   []contract.Finding{{Id: "f-1", Title: "SQL injection", Severity: "HIGH", State: "OPEN"}},
			TotalHits:  1,
			TotalPages: 1,
		})
	}))

	output, err := execute(t, engine, "findings", "list", "--severity", "HIGH")
	require.NoError(t, err)
	assert.Contains(t, output, "SQL injection")
	assert.Contains(t, output, "Page 1 of 1")
}

func Test_findingsSetState_rejectsInvalidTransition(t *testing.T) {
	engine := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/finding", r.URL.Path)
		writeData(t, w, contract.Finding{Id: "f-1", State: "FIXED", ToolType: "SAST"})
	}))

	_, err := execute(t, engine, "findings", "set-state", "f-1", "--state", "SUPPRESSED")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allowed: OPEN")
}

func Test_findingsSetState(t *testing.T) {
	var patched bool
	engine := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/finding":
			writeData(t, w, contract.Finding{Id: "f-1", State: "OPEN", ToolType: "SAST"})
		case "/api/github/alert":
			require.Equal(t, http.MethodPatch, r.Method)
			var request contract.UpdateFindingStateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
			assert.Equal(t, "SAST", request.Tool)
			assert.Equal(t, "FIXED", request.FindingState)
			patched = true
			writeData(t, w, "ok")
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	output, err := execute(t, engine, "findings", "set-state", "f-1", "--state", "fixed")
	require.NoError(t, err)
	assert.True(t, patched)
	assert.Contains(t, output, "moved to Fixed")
}

func Test_tenantsSwitch(t *testing.T) {
	engine := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/user/tenant/switch", r.URL.Path)
		// header.payload.signature with payload {"tenantId":"t-2","tenantName":"Two","roleName":"ADMIN"}
		writeData(t, w, contract.SwitchTenantResponse{
			Token: "eyJhbGciOiJub25lIn0." +
				"eyJ0ZW5hbnRJZCI6InQtMiIsInRlbmFudE5hbWUiOiJUd28iLCJyb2xlTmFtZSI6IkFETUlOIn0.",
		})
	}))

	output, err := execute(t, engine, "tenants", "switch", "t-2")
	require.NoError(t, err)
	assert.Contains(t, output, "Switched to tenant Two (ADMIN)")

	tenant := engine.GetSession().CurrentTenant()
	require.NotNil(t, tenant)
	assert.Equal(t, "t-2", tenant.TenantId)
}

func Test_whoami_expiredSessionGetsLoginHint(t *testing.T) {
	engine := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := execute(t, engine, "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "console login")
}

func Test_scan_requiresTarget(t *testing.T) {
	engine := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))

	_, err := execute(t, engine, "scan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--tool or --all")
}

func Test_runbooksCreate(t *testing.T) {
	engine := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/runbooks", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var request contract.CreateRunbookRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		writeData(t, w, contract.Runbook{Id: "rb-1", Name: request.Name, Description: request.Description})
	}))

	output, err := execute(t, engine, "runbooks", "create", "Auto-close fixed", "--description", "closes fixed findings")
	require.NoError(t, err)
	assert.Contains(t, output, "Created runbook Auto-close fixed (rb-1)")
}
