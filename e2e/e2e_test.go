//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	// Registers the JSON codec.
	_ "github.com/bibbank/credit-engine/internal/presentation/grpc"
)

const service = "/credit.v1.CreditService/"

var (
	httpURL  string
	grpcAddr string
)

func TestMain(m *testing.M) {
	httpURL = envOr("CREDIT_HTTP_URL", "http://localhost:8080")
	grpcAddr = envOr("CREDIT_GRPC_ADDR", "localhost:9090")

	// Wait for the service to be ready
	for i := 0; i < 30; i++ {
		resp, err := http.Get(httpURL + "/readyz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		time.Sleep(2 * time.Second)
	}

	os.Exit(m.Run())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestHealthCheck(t *testing.T) {
	resp, err := http.Get(httpURL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestMetricsExposed(t *testing.T) {
	resp, err := http.Get(httpURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoanFlow(t *testing.T) {
	conn := dial(t)
	phone := 9_000_000_000 + time.Now().UnixNano()%999_999_999

	var customer map[string]any
	invoke(t, conn, "RegisterCustomer", map[string]any{
		"first_name":     "John",
		"last_name":      "Doe",
		"age":            30,
		"phone_number":   phone,
		"monthly_income": "50000",
	}, &customer)
	customerID, _ := customer["customer_id"].(string)
	require.NotEmpty(t, customerID)
	assert.Equal(t, "1800000", customer["approved_limit"])

	loan := map[string]any{
		"customer_id":   customerID,
		"loan_amount":   "100000",
		"interest_rate": "12",
		"tenure":        12,
	}

	var eligibility map[string]any
	invoke(t, conn, "CheckEligibility", loan, &eligibility)
	assert.Equal(t, true, eligibility["approval"])
	assert.Equal(t, "8884.88", eligibility["monthly_installment"])

	var created map[string]any
	invoke(t, conn, "CreateLoan", loan, &created)
	require.Equal(t, true, created["loan_approved"])
	loanID, _ := created["loan_id"].(string)

	var detail map[string]any
	invoke(t, conn, "GetLoan", map[string]any{"loan_id": loanID}, &detail)
	assert.Equal(t, loanID, detail["loan_id"])

	var listing map[string]any
	invoke(t, conn, "ListCustomerLoans", map[string]any{"customer_id": customerID}, &listing)
	assert.Len(t, listing["loans"], 1)

	var score map[string]any
	invoke(t, conn, "GetCreditScore", map[string]any{"customer_id": customerID}, &score)
	assert.NotNil(t, score["credit_score"])
}

func TestDuplicatePhoneRejected(t *testing.T) {
	conn := dial(t)
	req := map[string]any{
		"first_name":     "Jane",
		"last_name":      "Doe",
		"age":            28,
		"phone_number":   8_000_000_000 + time.Now().UnixNano()%999_999_999,
		"monthly_income": "1000",
	}

	var resp map[string]any
	invoke(t, conn, "RegisterCustomer", req, &resp)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := conn.Invoke(ctx, service+"RegisterCustomer", req, &resp)
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func dial(t *testing.T) *grpc.ClientConn {
	t.Helper()
	conn, err := grpc.NewClient(grpcAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype("json")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func invoke(t *testing.T, conn *grpc.ClientConn, method string, req, resp any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, conn.Invoke(ctx, service+method, req, resp))
}
