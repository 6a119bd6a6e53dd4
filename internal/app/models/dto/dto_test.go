package dto

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/go-cmp/cmp"
)

func TestHandleValidationError_FieldErrors(t *testing.T) {
	v := validator.New()
	v.SetTagName("binding")

	err := v.Struct(RegisterRequest{Email: "not-an-email", Password: "123"})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	detail := HandleValidationError(err)
	if detail.Code != ErrorCodeValidationFailed {
		t.Fatalf("code = %s", detail.Code)
	}
	list, ok := detail.Details.([]ErrorDetail)
	if !ok {
		t.Fatalf("details type %T", detail.Details)
	}
	var fields []string
	for _, e := range list {
		fields = append(fields, e.Field)
	}
	if diff := cmp.Diff([]string{"fullName", "email", "password"}, fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleValidationError_MalformedBody(t *testing.T) {
	detail := HandleValidationError(errors.New("unexpected EOF"))
	if detail.Message != "Invalid request body" || detail.Details != "unexpected EOF" {
		t.Fatalf("unexpected detail %+v", detail)
	}
}

func TestApplyBatchFeeRequest_NegativeAmount(t *testing.T) {
	v := validator.New()
	v.SetTagName("binding")
	neg := -1.0
	if err := v.Struct(ApplyBatchFeeRequest{Batch: "A", Amount: &neg, DueDate: "2024-01-01"}); err == nil {
		t.Fatal("negative amount accepted")
	}
	if err := v.Struct(ApplyBatchFeeRequest{Batch: "A", DueDate: "2024-01-01"}); err == nil {
		t.Fatal("missing amount accepted")
	}
	zero := 0.0
	if err := v.Struct(ApplyBatchFeeRequest{Batch: "A", Amount: &zero, DueDate: "2024-01-01"}); err != nil {
		t.Fatalf("zero amount rejected: %v", err)
	}
}

func TestBindingUpperBounds(t *testing.T) {
	v := validator.New()
	v.SetTagName("binding")
	longEmail := "a@" + strings.Repeat("sub.", 63) + "com"
	longPassword := strings.Repeat("p", 73)
	huge := 1e10

	tests := []struct {
		name string
		req  interface{}
	}{
		{"register password", RegisterRequest{FullName: "A", Email: "a@example.com", Password: longPassword}},
		{"register email", RegisterRequest{FullName: "A", Email: longEmail, Password: "secret123"}},
		{"enroll password", EnrollStudentRequest{Email: "a@example.com", Password: longPassword}},
		{"enroll email", EnrollStudentRequest{Email: longEmail, Password: "secret123"}},
		{"update email", UpdateStudentRequest{Email: longEmail}},
		{"fee amount", ApplyBatchFeeRequest{Batch: "A", Amount: &huge, DueDate: "2024-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.Struct(tt.req); err == nil {
				t.Fatal("oversize value accepted")
			}
		})
	}
}
