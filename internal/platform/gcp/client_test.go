package gcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/compute/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/imamik/genesis/internal/config"
	"github.com/imamik/genesis/internal/provisioning"
)

var target = provisioning.NewTarget("demo", "us-central1-a")

// newTestClient creates a Client against mux, mounted under /compute/v1/.
func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(),
		WithAPIOptions(
			option.WithEndpoint(server.URL+"/compute/v1/"),
			option.WithoutAuthentication(),
		),
		WithTimeouts(&config.Timeouts{
			OperationWait:     5 * time.Second,
			RetryMaxAttempts:  2,
			RetryInitialDelay: time.Millisecond,
		}),
	)
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, reason, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    status,
			"message": message,
			"errors": []map[string]any{
				{"reason": reason, "message": message, "domain": "global"},
			},
		},
	})
}

func TestInsertFirewall_WaitsForGlobalOperation(t *testing.T) {
	t.Parallel()

	var got compute.Firewall
	var waits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /compute/v1/projects/demo/global/firewalls", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, compute.Operation{Name: "op-fw", Status: "RUNNING"})
	})
	mux.HandleFunc("POST /compute/v1/projects/demo/global/operations/op-fw/wait", func(w http.ResponseWriter, _ *http.Request) {
		if waits.Add(1) == 1 {
			writeJSON(w, http.StatusOK, compute.Operation{Name: "op-fw", Status: "RUNNING"})
			return
		}
		writeJSON(w, http.StatusOK, compute.Operation{Name: "op-fw", Status: "DONE"})
	})
	client := newTestClient(t, mux)

	op, err := client.InsertFirewall(context.Background(), target, provisioning.FirewallRule{
		Name:         "allow-http",
		Network:      "default",
		Protocol:     "tcp",
		Ports:        []string{"80", "8080"},
		SourceRanges: []string{"0.0.0.0/0"},
		TargetTags:   []string{"http-server"},
	})
	require.NoError(t, err)
	require.NoError(t, op.Wait(context.Background()))

	assert.Equal(t, int32(2), waits.Load())
	assert.Equal(t, "allow-http", got.Name)
	assert.Equal(t, "global/networks/default", got.Network)
	assert.Equal(t, "INGRESS", got.Direction)
	require.Len(t, got.Allowed, 1)
	assert.Equal(t, "tcp", got.Allowed[0].IPProtocol)
	assert.Equal(t, []string{"80", "8080"}, got.Allowed[0].Ports)
	assert.Equal(t, []string{"0.0.0.0/0"}, got.SourceRanges)
	assert.Equal(t, []string{"http-server"}, got.TargetTags)
}

func TestInsertFirewall_AlreadyExists(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /compute/v1/projects/demo/global/firewalls", func(w http.ResponseWriter, _ *http.Request) {
		writeAPIError(w, http.StatusConflict, "alreadyExists", "The resource 'projects/demo/global/firewalls/allow-http' already exists")
	})
	client := newTestClient(t, mux)

	_, err := client.InsertFirewall(context.Background(), target, provisioning.FirewallRule{Name: "allow-http"})
	require.Error(t, err)
	assert.True(t, provisioning.IsAlreadyExists(err))

	var gerr *googleapi.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, http.StatusConflict, gerr.Code)
}

func TestOperation_AlreadyExistsReportedByOperation(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /compute/v1/projects/demo/global/firewalls", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, compute.Operation{Name: "op-fw", Status: "PENDING"})
	})
	mux.HandleFunc("POST /compute/v1/projects/demo/global/operations/op-fw/wait", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, compute.Operation{
			Name:   "op-fw",
			Status: "DONE",
			Error: &compute.OperationError{Errors: []*compute.OperationErrorErrors{
				{Code: "RESOURCE_ALREADY_EXISTS", Message: "The resource already exists"},
			}},
		})
	})
	client := newTestClient(t, mux)

	op, err := client.InsertFirewall(context.Background(), target, provisioning.FirewallRule{Name: "allow-http"})
	require.NoError(t, err)

	err = op.Wait(context.Background())
	assert.True(t, provisioning.IsAlreadyExists(err))

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "op-fw", opErr.Operation)
}

func TestInsertInstance_BuildsRequestAndWaitsOnZone(t *testing.T) {
	t.Parallel()

	var got compute.Instance
	var waits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /compute/v1/projects/demo/zones/us-central1-a/instances", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, compute.Operation{Name: "op-vm", Status: "RUNNING", Zone: "us-central1-a"})
	})
	mux.HandleFunc("POST /compute/v1/projects/demo/zones/us-central1-a/operations/op-vm/wait", func(w http.ResponseWriter, _ *http.Request) {
		if waits.Add(1) == 1 {
			writeAPIError(w, http.StatusServiceUnavailable, "backendError", "try again")
			return
		}
		writeJSON(w, http.StatusOK, compute.Operation{Name: "op-vm", Status: "DONE"})
	})
	client := newTestClient(t, mux)

	op, err := client.InsertInstance(context.Background(), target, provisioning.InstanceSpec{
		Name:           "pulumi-websocket-vm",
		MachineType:    "e2-medium",
		Image:          "projects/debian-cloud/global/images/debian-11-bullseye-v20240110",
		Network:        "default",
		StartupScript:  "#!/bin/bash\n",
		Tags:           []string{"http-server"},
		Labels:         map[string]string{"managed-by": "genesis"},
		SSHKeys:        []provisioning.AuthorizedKey{{User: "genesis", PublicKey: "ssh-ed25519 AAAA"}},
		ServiceAccount: "default",
		Scopes:         []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	require.NoError(t, err)
	require.NoError(t, op.Wait(context.Background()), "transient poll failures are retried")

	assert.Equal(t, "zones/us-central1-a/machineTypes/e2-medium", got.MachineType)
	require.Len(t, got.Disks, 1)
	assert.True(t, got.Disks[0].Boot)
	assert.True(t, got.Disks[0].AutoDelete)
	assert.Equal(t, "projects/debian-cloud/global/images/debian-11-bullseye-v20240110", got.Disks[0].InitializeParams.SourceImage)
	require.Len(t, got.NetworkInterfaces, 1)
	assert.Equal(t, "global/networks/default", got.NetworkInterfaces[0].Network)
	assert.Equal(t, "External NAT", got.NetworkInterfaces[0].AccessConfigs[0].Name)
	assert.Equal(t, "ONE_TO_ONE_NAT", got.NetworkInterfaces[0].AccessConfigs[0].Type)
	assert.Equal(t, []string{"http-server"}, got.Tags.Items)
	assert.Equal(t, "default", got.ServiceAccounts[0].Email)

	metadata := map[string]string{}
	for _, item := range got.Metadata.Items {
		metadata[item.Key] = *item.Value
	}
	assert.Equal(t, map[string]string{
		"startup-script": "#!/bin/bash\n",
		"ssh-keys":       "genesis:ssh-ed25519 AAAA",
	}, metadata)
}

func TestOperation_FatalPollErrorNotRetried(t *testing.T) {
	t.Parallel()

	var waits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /compute/v1/projects/demo/zones/us-central1-a/instances", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, compute.Operation{Name: "op-vm", Status: "RUNNING"})
	})
	mux.HandleFunc("POST /compute/v1/projects/demo/zones/us-central1-a/operations/op-vm/wait", func(w http.ResponseWriter, _ *http.Request) {
		waits.Add(1)
		writeAPIError(w, http.StatusForbidden, "forbidden", "permission denied")
	})
	client := newTestClient(t, mux)

	op, err := client.InsertInstance(context.Background(), target, provisioning.InstanceSpec{Name: "vm", MachineType: "e2-medium"})
	require.NoError(t, err)

	err = op.Wait(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), waits.Load())

	var apiErr *provisioning.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, provisioning.ErrorCodeUnknown, apiErr.Code)
	assert.Equal(t, "wait for insert instance", apiErr.Op)
}

func TestGetInstance(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /compute/v1/projects/demo/zones/us-central1-a/instances/pulumi-websocket-vm", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id":     "4242",
			"name":   "pulumi-websocket-vm",
			"status": "RUNNING",
			"networkInterfaces": []map[string]any{
				{
					"name":      "nic0",
					"network":   "https://www.googleapis.com/compute/v1/projects/demo/global/networks/default",
					"networkIP": "10.128.0.2",
					"accessConfigs": []map[string]any{
						{"name": "External NAT", "type": "ONE_TO_ONE_NAT", "natIP": "34.1.2.3"},
					},
				},
			},
		})
	})
	mux.HandleFunc("GET /compute/v1/projects/demo/zones/us-central1-a/instances/missing", func(w http.ResponseWriter, _ *http.Request) {
		writeAPIError(w, http.StatusNotFound, "notFound", "The resource was not found")
	})
	client := newTestClient(t, mux)

	inst, err := client.GetInstance(context.Background(), target, "pulumi-websocket-vm")
	require.NoError(t, err)
	assert.Equal(t, "4242", inst.ID)
	assert.Equal(t, "RUNNING", inst.Status)
	require.Len(t, inst.NetworkInterfaces, 1)
	assert.Equal(t, "10.128.0.2", inst.NetworkInterfaces[0].InternalIP)
	assert.Equal(t, "34.1.2.3", inst.NetworkInterfaces[0].AccessConfigs[0].NatIP)

	_, err = client.GetInstance(context.Background(), target, "missing")
	assert.True(t, provisioning.IsNotFound(err))
}

func TestCodeForAPIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *googleapi.Error
		want provisioning.ErrorCode
	}{
		{"reason wins over status", &googleapi.Error{Code: 400, Errors: []googleapi.ErrorItem{{Reason: "alreadyExists"}}}, provisioning.ErrorCodeAlreadyExists},
		{"conflict status", &googleapi.Error{Code: 409}, provisioning.ErrorCodeAlreadyExists},
		{"not found", &googleapi.Error{Code: 404}, provisioning.ErrorCodeNotFound},
		{"bad request", &googleapi.Error{Code: 400, Errors: []googleapi.ErrorItem{{Reason: "invalid"}}}, provisioning.ErrorCodeInvalidInput},
		{"server error", &googleapi.Error{Code: 500}, provisioning.ErrorCodeUnknown},
		{"message only", &googleapi.Error{Code: 403, Message: "already exists"}, provisioning.ErrorCodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, codeForAPIError(tt.err))
		})
	}
}

func TestCodeForOperationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, provisioning.ErrorCodeAlreadyExists, codeForOperationError("RESOURCE_ALREADY_EXISTS"))
	assert.Equal(t, provisioning.ErrorCodeAlreadyExists, codeForOperationError("ALREADY_EXISTS"))
	assert.Equal(t, provisioning.ErrorCodeNotFound, codeForOperationError("RESOURCE_NOT_FOUND"))
	assert.Equal(t, provisioning.ErrorCodeInvalidInput, codeForOperationError("INVALID_FIELD_VALUE"))
	assert.Equal(t, provisioning.ErrorCodeUnknown, codeForOperationError("QUOTA_EXCEEDED"))
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	assert.True(t, isTransient(&googleapi.Error{Code: 503}))
	assert.True(t, isTransient(&googleapi.Error{Code: 429}))
	assert.False(t, isTransient(&googleapi.Error{Code: 403}))
	assert.False(t, isTransient(errors.New("dial tcp: refused")))
}

func TestNetworkURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "global/networks/default", networkURL("default"))
	assert.Equal(t, "projects/p/global/networks/vpc", networkURL("projects/p/global/networks/vpc"))
	assert.Equal(t, "", networkURL(""))
}
