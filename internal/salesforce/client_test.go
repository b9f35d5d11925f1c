package salesforce

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		InstanceURL: server.URL,
		AccessToken: "test-token",
	})
}

func TestDescribeObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got, want := r.URL.Path, "/services/data/v65.0/sobjects/Account/describe"; got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want the bearer token", got)
		}
		fmt.Fprint(w, `{
			"name": "Account",
			"label": "Account",
			"fields": [
				{"name": "Industry", "label": "Industry", "type": "picklist",
				 "picklistValues": [
					{"label": "Banking", "value": "Banking", "active": true},
					{"label": "Telecom", "value": "Telecom", "active": false},
					{"label": "Legacy", "value": "Legacy"}
				 ]}
			]
		}`)
	})

	describe, err := client.DescribeObject(context.Background(), "Account")
	if err != nil {
		t.Fatalf("DescribeObject() error = %v", err)
	}
	if describe.Name != "Account" || len(describe.Fields) != 1 {
		t.Fatalf("DescribeObject() = %+v, want Account with one field", describe)
	}

	values := describe.Fields[0].PicklistValues
	if len(values) != 3 {
		t.Fatalf("parsed %d picklist values, want 3", len(values))
	}
	if !values[0].IsActive() || values[1].IsActive() {
		t.Errorf("active flags parsed wrong: %+v", values)
	}
	if !values[2].IsActive() {
		t.Error("absent active flag should mean active")
	}
}

func TestDescribeObjectNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `[{"errorCode": "NOT_FOUND", "message": "The requested resource does not exist"}]`)
	})

	_, err := client.DescribeObject(context.Background(), "Ghost__c")
	if err == nil {
		t.Fatal("DescribeObject() error = nil, want not found")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
}

func TestToolingQuery(t *testing.T) {
	const soql = "SELECT Id FROM EntityDefinition WHERE QualifiedApiName = 'Account'"

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got, want := r.URL.Path, "/services/data/v65.0/tooling/query/"; got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
		if got := r.URL.Query().Get("q"); got != soql {
			t.Errorf("q = %q, want the soql", got)
		}
		fmt.Fprint(w, `{"records": [{"Id": "000000000000001AAA", "Metadata": {"valueSet": null}}]}`)
	})

	records, err := client.ToolingQuery(context.Background(), soql)
	if err != nil {
		t.Fatalf("ToolingQuery() error = %v", err)
	}
	if len(records) != 1 || records[0].ID != "000000000000001AAA" {
		t.Errorf("ToolingQuery() = %+v, want one record with the id", records)
	}
}

func TestListObjects(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sobjects": [
			{"name": "Contact", "queryable": true},
			{"name": "Account", "queryable": true},
			{"name": "Invoice__c", "queryable": true},
			{"name": "AccountHistory", "queryable": false},
			{"name": "Old__c", "queryable": true, "deprecatedAndHidden": true}
		]}`)
	})

	tests := []struct {
		filter ObjectFilter
		want   []string
	}{
		{FilterAll, []string{"Account", "Contact", "Invoice__c"}},
		{FilterStandard, []string{"Account", "Contact"}},
		{FilterCustom, []string{"Invoice__c"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got, err := client.ListObjects(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("ListObjects() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ListObjects(%s) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestAPIErrorUnparseableBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream gateway error")
	})

	_, err := client.DescribeObject(context.Background(), "Account")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("DescribeObject() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Message != "upstream gateway error" {
		t.Errorf("APIError = %+v, want the raw body carried through", apiErr)
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"not found code", &APIError{StatusCode: 404, ErrorCode: "NOT_FOUND"}, true},
		{"invalid type code", &APIError{StatusCode: 400, ErrorCode: "INVALID_TYPE"}, true},
		{"bare 404", &APIError{StatusCode: 404}, true},
		{"server error", &APIError{StatusCode: 500, ErrorCode: "UNKNOWN_EXCEPTION"}, false},
		{"wrapped", fmt.Errorf("describe Ghost__c: %w", &APIError{StatusCode: 404, ErrorCode: "NOT_FOUND"}), true},
		{"plain error", fmt.Errorf("dial tcp: timeout"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
}
