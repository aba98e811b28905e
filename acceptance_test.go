package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServerStartup is an acceptance test that verifies the server can start
// This test uses the actual setupRouter function to ensure the full application works
func TestServerStartup(t *testing.T) {
	router := newTestRouter(t, testConfig())
	assert.NotNil(t, router, "Router should be initialized")
}

// TestAPIHealthEndpointAcceptance is an end-to-end acceptance test
// It simulates a real HTTP request to verify the API works as expected
func TestAPIHealthEndpointAcceptance(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req, err := http.NewRequest("GET", "/api/v1/health", nil)
	assert.NoError(t, err, "Should be able to create request")

	recorder := &testResponseWriter{header: make(http.Header)}
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.statusCode, "Health endpoint should return 200 OK")

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	err = json.Unmarshal(recorder.body, &response)
	assert.NoError(t, err, "Response should be valid JSON")

	assert.True(t, response.Success, "Success field should be true")
	assert.Equal(t, "Repair Service API is running", response.Message)
}

// TestHealthEndpointAvailability tests that the health endpoint is available immediately
func TestHealthEndpointAvailability(t *testing.T) {
	router := newTestRouter(t, testConfig())

	for i := 0; i < 5; i++ {
		req, _ := http.NewRequest("GET", "/api/v1/health", nil)
		recorder := &testResponseWriter{header: make(http.Header)}
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.statusCode,
			fmt.Sprintf("Request %d should succeed", i+1))

		var response map[string]interface{}
		json.Unmarshal(recorder.body, &response)
		assert.Equal(t, true, response["success"],
			fmt.Sprintf("Request %d should have success=true", i+1))
	}
}

// TestHealthEndpointResponseTime tests that the endpoint responds quickly
func TestHealthEndpointResponseTime(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req, _ := http.NewRequest("GET", "/api/v1/health", nil)
	recorder := &testResponseWriter{header: make(http.Header)}

	start := time.Now()
	router.ServeHTTP(recorder, req)
	duration := time.Since(start)

	assert.Less(t, duration, 100*time.Millisecond,
		"Health endpoint should respond in less than 100ms")
}

// TestRepairLifecycleAcceptance drives a request from registration to review
// over a real HTTP server
func TestRepairLifecycleAcceptance(t *testing.T) {
	server := httptest.NewServer(newTestRouter(t, testConfig()))
	defer server.Close()

	call := func(method, path string, body interface{}) (int, map[string]interface{}) {
		t.Helper()
		var payload bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&payload).Encode(body))
		}
		req, err := http.NewRequest(method, server.URL+"/api/v1"+path, &payload)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		var out map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return resp.StatusCode, out
	}
	idOf := func(out map[string]interface{}, key string) uint {
		t.Helper()
		data, ok := out["data"].(map[string]interface{})
		require.True(t, ok, "response should carry a data object: %v", out)
		id, ok := data[key].(float64)
		require.True(t, ok, "data should carry %s: %v", key, data)
		return uint(id)
	}

	status, out := call("POST", "/locations", map[string]interface{}{
		"area_name": "Indiranagar", "city": "Bengaluru", "state": "Karnataka", "pincode": "560038",
	})
	require.Equal(t, http.StatusCreated, status, "%v", out)
	locationID := idOf(out, "location_id")

	status, out = call("POST", "/users", map[string]interface{}{
		"first_name": "Meera", "last_name": "Iyer", "email": "meera@example.com",
		"phone_number": "9876500001", "user_type": "customer", "location_id": locationID,
	})
	require.Equal(t, http.StatusCreated, status, "%v", out)
	customerID := idOf(out, "user_id")

	status, out = call("POST", "/users", map[string]interface{}{
		"first_name": "Ravi", "last_name": "Kumar", "email": "ravi@example.com",
		"phone_number": "9876500002", "user_type": "technician", "location_id": locationID,
	})
	require.Equal(t, http.StatusCreated, status, "%v", out)
	techUserID := idOf(out, "user_id")

	status, out = call("POST", "/technicians", map[string]interface{}{
		"user_id": techUserID, "experience_years": 6, "specializations": []string{"Smartphone Repair"},
	})
	require.Equal(t, http.StatusCreated, status, "%v", out)
	technicianID := idOf(out, "technician_id")

	status, out = call("POST", "/categories", map[string]interface{}{
		"category_name": "Smartphone Repair", "base_service_charge": "500.00", "estimated_time_hours": 2,
	})
	require.Equal(t, http.StatusCreated, status, "%v", out)
	categoryID := idOf(out, "category_id")

	status, out = call("POST", "/requests", map[string]interface{}{
		"customer_id": customerID, "category_id": categoryID,
		"item_description": "Pixel 7", "issue_description": "Cracked screen",
	})
	require.Equal(t, http.StatusCreated, status, "%v", out)
	requestID := idOf(out, "request_id")

	status, out = call("POST", "/assignments", map[string]interface{}{
		"request_id": requestID, "technician_id": technicianID, "service_cost": "1500.00",
	})
	require.Equal(t, http.StatusCreated, status, "%v", out)
	assignmentID := idOf(out, "assignment_id")

	// A second assignment of the same request is a conflict
	status, out = call("POST", "/assignments", map[string]interface{}{
		"request_id": requestID, "technician_id": technicianID, "service_cost": "1500.00",
	})
	assert.Equal(t, http.StatusConflict, status, "%v", out)

	status, out = call("POST", fmt.Sprintf("/assignments/%d/complete", assignmentID), map[string]interface{}{
		"payment_method": "upi", "transaction_reference": "TXN1", "payment_amount": "1200.00",
	})
	assert.Equal(t, http.StatusConflict, status, "mismatched amount should be rejected: %v", out)

	status, out = call("POST", fmt.Sprintf("/assignments/%d/complete", assignmentID), map[string]interface{}{
		"payment_method": "upi", "transaction_reference": "TXN1",
	})
	require.Equal(t, http.StatusCreated, status, "%v", out)
	payment := out["data"].(map[string]interface{})
	assert.Equal(t, "TXN1", payment["transaction_reference"])
	assert.Equal(t, "completed", payment["payment_status"])

	status, out = call("GET", fmt.Sprintf("/requests/%d", requestID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "completed", out["data"].(map[string]interface{})["status"])

	status, out = call("GET", fmt.Sprintf("/technicians/%d/rating", technicianID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, out["data"].(map[string]interface{})["rating"], "No reviews yet")

	status, out = call("POST", "/reviews", map[string]interface{}{
		"assignment_id": assignmentID, "customer_rating": 5, "technician_rating": 4, "review_text": "Quick fix",
	})
	require.Equal(t, http.StatusCreated, status, "%v", out)

	status, out = call("GET", fmt.Sprintf("/technicians/%d/rating", technicianID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 4.0, out["data"].(map[string]interface{})["rating"])

	today := time.Now().UTC().Format("2006-01-02")
	status, out = call("GET", fmt.Sprintf("/technicians/%d/earnings?start=%s&end=%s", technicianID, today, today), nil)
	require.Equal(t, http.StatusOK, status, "%v", out)
	total, err := decimal.NewFromString(fmt.Sprint(out["data"].(map[string]interface{})["total_earnings"]))
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("1500.00")), "earnings should be 1500.00, got %s", total)

	status, out = call("GET", fmt.Sprintf("/technicians/%d", technicianID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "available", out["data"].(map[string]interface{})["availability_status"])

	resp, err := http.Get(server.URL + "/api/v1/reports/technician_earnings_view?format=csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "technician_earnings_view_")

	records, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2, "header plus one technician")
	assert.Contains(t, records[1], "Ravi")
	assert.Contains(t, records[1], "1500.00")
}

// testResponseWriter is a helper for acceptance testing
type testResponseWriter struct {
	header     http.Header
	body       []byte
	statusCode int
}

func (w *testResponseWriter) Header() http.Header {
	return w.header
}

func (w *testResponseWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return len(b), nil
}

func (w *testResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
}
